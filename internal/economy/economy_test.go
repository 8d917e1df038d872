package economy

import (
	"errors"
	"math"
	"testing"
)

const eps = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func fund(e *Economy, clicks int) {
	for i := 0; i < clicks; i++ {
		e.ApplyClick()
	}
}

func testUpgrades() []Upgrade {
	return []Upgrade{
		{ID: "a", Name: "A", Cost: 10, Rate: 1},
		{ID: "b", Name: "B", Cost: 20, Rate: 5},
	}
}

func TestNewStartsEmpty(t *testing.T) {
	e := NewDefault()
	st, ups := e.Snapshot()
	if st.Amount != 0 || st.GrowthRate != 0 {
		t.Fatalf("expected zero state got %+v", st)
	}
	if len(ups) != len(DefaultUpgrades()) {
		t.Fatalf("expected %d upgrades got %d", len(DefaultUpgrades()), len(ups))
	}
	for _, u := range ups {
		if u.Count != 0 {
			t.Fatalf("expected zero count for %s got %d", u.ID, u.Count)
		}
		if u.Cost <= 0 || u.Rate <= 0 {
			t.Fatalf("expected positive cost and rate for %s", u.ID)
		}
	}
}

func TestNewResetsCounts(t *testing.T) {
	ups := testUpgrades()
	ups[0].Count = 7
	e := New(ups)
	_, got := e.Snapshot()
	if got[0].Count != 0 {
		t.Fatalf("expected count reset to 0 got %d", got[0].Count)
	}
}

func TestApplyClick(t *testing.T) {
	e := New(testUpgrades())
	e.ApplyClick()
	if e.State().Amount != 1 {
		t.Fatalf("expected 1 got %f", e.State().Amount)
	}

	// Click is independent of growth rate.
	fund(e, 9)
	e.AttemptPurchase("a")
	before := e.State().Amount
	e.ApplyClick()
	if !approx(e.State().Amount, before+1) {
		t.Fatalf("expected %f got %f", before+1, e.State().Amount)
	}
}

func TestApplyElapsed(t *testing.T) {
	tests := []struct {
		name  string
		delta float64
		want  float64
	}{
		{"zero", 0, 0},
		{"one frame", 1.0 / 60, 11.0 / 60},
		{"two seconds", 2, 22},
		{"backgrounded tab", 86400, 11 * 86400},
		{"negative ignored", -5, 0},
		{"nan ignored", math.NaN(), 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := New(testUpgrades())
			e.state.GrowthRate = 11
			e.ApplyElapsed(tc.delta)
			if !approx(e.State().Amount, tc.want) {
				t.Fatalf("expected %f got %f", tc.want, e.State().Amount)
			}
		})
	}
}

func TestClickThenElapsedWithoutGrowth(t *testing.T) {
	e := New(testUpgrades())
	e.ApplyClick()
	e.ApplyElapsed(2.0)
	if e.State().Amount != 1 {
		t.Fatalf("expected amount to stay 1 got %f", e.State().Amount)
	}
}

func TestPurchaseBelowCostIsNoop(t *testing.T) {
	e := New(testUpgrades())
	fund(e, 9)
	beforeState, beforeUps := e.Snapshot()

	if e.AttemptPurchase("a") {
		t.Fatalf("expected purchase to fail")
	}

	afterState, afterUps := e.Snapshot()
	if beforeState != afterState {
		t.Fatalf("state changed: %+v -> %+v", beforeState, afterState)
	}
	for i := range beforeUps {
		if beforeUps[i] != afterUps[i] {
			t.Fatalf("upgrade changed: %+v -> %+v", beforeUps[i], afterUps[i])
		}
	}
}

func TestPurchaseErrors(t *testing.T) {
	e := New(testUpgrades())
	if err := e.Purchase("a"); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds got %v", err)
	}
	if err := e.Purchase("nope"); !errors.Is(err, ErrUnknownUpgrade) {
		t.Fatalf("expected ErrUnknownUpgrade got %v", err)
	}
	if e.IsAffordable("nope") {
		t.Fatalf("unknown upgrade must not be affordable")
	}
}

func TestPurchaseExactCost(t *testing.T) {
	e := New(testUpgrades())
	fund(e, 10)

	if !e.AttemptPurchase("a") {
		t.Fatalf("expected purchase to succeed")
	}

	st, ups := e.Snapshot()
	if st.Amount != 0 {
		t.Fatalf("expected amount 0 got %f", st.Amount)
	}
	if st.GrowthRate != 1 {
		t.Fatalf("expected growth rate 1 got %f", st.GrowthRate)
	}
	if ups[0].Count != 1 {
		t.Fatalf("expected count 1 got %d", ups[0].Count)
	}
	if !approx(ups[0].Cost, 11.5) {
		t.Fatalf("expected cost 11.50 got %f", ups[0].Cost)
	}
}

func TestCostCompounds(t *testing.T) {
	e := New(testUpgrades())
	fund(e, 100)

	want := []float64{10, 11.5, 13.23, 15.21}
	for i, w := range want {
		_, ups := e.Snapshot()
		if !approx(ups[0].Cost, w) {
			t.Fatalf("step %d: expected cost %.2f got %f", i, w, ups[0].Cost)
		}
		if i < len(want)-1 && !e.AttemptPurchase("a") {
			t.Fatalf("step %d: expected purchase to succeed", i)
		}
	}

	// 100 - (10 + 11.5 + 13.23)
	if !approx(e.State().Amount, 65.27) {
		t.Fatalf("expected amount 65.27 got %f", e.State().Amount)
	}
}

func TestGrowthRateSumsPurchases(t *testing.T) {
	e := New(testUpgrades())
	fund(e, 100)

	if !e.AttemptPurchase("a") {
		t.Fatalf("expected purchase of a")
	}
	for i := 0; i < 2; i++ {
		if !e.AttemptPurchase("b") {
			t.Fatalf("expected purchase %d of b", i)
		}
	}

	if !approx(e.State().GrowthRate, 11) {
		t.Fatalf("expected growth rate 11 got %f", e.State().GrowthRate)
	}
}

func TestIsAffordableHasNoSideEffects(t *testing.T) {
	e := New(testUpgrades())
	fund(e, 15)
	before, beforeUps := e.Snapshot()

	for i := 0; i < 1000; i++ {
		if !e.IsAffordable("a") {
			t.Fatalf("expected a affordable")
		}
		if e.IsAffordable("b") {
			t.Fatalf("expected b not affordable")
		}
	}

	after, afterUps := e.Snapshot()
	if before != after {
		t.Fatalf("state changed: %+v -> %+v", before, after)
	}
	for i := range beforeUps {
		if beforeUps[i] != afterUps[i] {
			t.Fatalf("upgrade changed: %+v -> %+v", beforeUps[i], afterUps[i])
		}
	}
}

func TestSnapshotReturnsCopy(t *testing.T) {
	e := New(testUpgrades())
	_, ups := e.Snapshot()
	ups[0].Cost = 999
	ups[0].Count = 42

	_, again := e.Snapshot()
	if again[0].Cost != 10 || again[0].Count != 0 {
		t.Fatalf("expected internal upgrade untouched got %+v", again[0])
	}
}

func TestUpgradeAt(t *testing.T) {
	e := New(testUpgrades())
	if id, ok := e.UpgradeAt(1); !ok || id != "b" {
		t.Fatalf("expected b got %q %v", id, ok)
	}
	if _, ok := e.UpgradeAt(2); ok {
		t.Fatalf("expected out of range")
	}
	if _, ok := e.UpgradeAt(-1); ok {
		t.Fatalf("expected out of range")
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{11.5, 11.5},
		{13.225, 13.23},
		{15.2145, 15.21},
		{0.005, 0.01},
		{1.004, 1},
	}
	for _, tc := range tests {
		if got := Round2(tc.in); !approx(got, tc.want) {
			t.Errorf("Round2(%v): expected %v got %v", tc.in, tc.want, got)
		}
	}
}
