// Package economy implements the stardust counter, its passive growth rate and
// the escalating-cost upgrades that raise it.
package economy

import (
	"errors"
	"fmt"
	"math"
)

// CostMultiplier is applied to an upgrade's cost after every purchase.
const CostMultiplier = 1.15

var (
	// ErrInsufficientFunds is returned when the current amount is below the upgrade cost.
	ErrInsufficientFunds = errors.New("insufficient stardust")
	// ErrUnknownUpgrade is returned for an upgrade id that is not in the table.
	ErrUnknownUpgrade = errors.New("unknown upgrade")
)

// ResourceState is the scalar part of the economy.
type ResourceState struct {
	Amount     float64 // Accumulated stardust, never negative
	GrowthRate float64 // Stardust gained per second
}

// Upgrade is a purchasable unit that permanently raises the growth rate.
type Upgrade struct {
	ID          string
	Name        string
	Description string
	Cost        float64 // Current price
	Rate        float64 // Growth rate contributed per unit owned
	Count       int     // Units owned
}

// Economy owns the resource state and the upgrade table.
// It is not safe for concurrent use; the loop driver is its single owner.
type Economy struct {
	state    ResourceState
	upgrades []Upgrade
	index    map[string]int
}

// New creates an economy at zero stardust with the given upgrade table.
// The table is copied; counts are reset to zero.
func New(upgrades []Upgrade) *Economy {
	e := &Economy{
		upgrades: make([]Upgrade, len(upgrades)),
		index:    make(map[string]int, len(upgrades)),
	}
	for i, u := range upgrades {
		u.Count = 0
		e.upgrades[i] = u
		e.index[u.ID] = i
	}
	return e
}

// NewDefault creates an economy with the built-in upgrade table.
func NewDefault() *Economy {
	return New(DefaultUpgrades())
}

// ApplyClick adds exactly one unit of stardust.
func (e *Economy) ApplyClick() {
	e.state.Amount++
}

// ApplyElapsed accrues growth for deltaSeconds. Growth is unbounded, so a
// long gap (e.g. a suspended session) is credited in full.
func (e *Economy) ApplyElapsed(deltaSeconds float64) {
	if !(deltaSeconds > 0) {
		return
	}
	e.state.Amount += e.state.GrowthRate * deltaSeconds
}

// Purchase buys one unit of the upgrade with the given id.
// On failure the economy is left untouched.
func (e *Economy) Purchase(id string) error {
	i, ok := e.index[id]
	if !ok {
		return fmt.Errorf("purchase %q: %w", id, ErrUnknownUpgrade)
	}
	u := &e.upgrades[i]
	if e.state.Amount < u.Cost {
		return fmt.Errorf("purchase %q at %.2f with %.2f: %w", id, u.Cost, e.state.Amount, ErrInsufficientFunds)
	}

	e.state.Amount -= u.Cost
	u.Count++
	e.state.GrowthRate += u.Rate
	u.Cost = Round2(u.Cost * CostMultiplier)
	return nil
}

// AttemptPurchase is Purchase with the failure swallowed. It reports whether
// the purchase went through.
func (e *Economy) AttemptPurchase(id string) bool {
	return e.Purchase(id) == nil
}

// IsAffordable reports whether the upgrade can be bought right now.
// Unknown ids are never affordable.
func (e *Economy) IsAffordable(id string) bool {
	i, ok := e.index[id]
	if !ok {
		return false
	}
	return e.state.Amount >= e.upgrades[i].Cost
}

// State returns the current resource state.
func (e *Economy) State() ResourceState {
	return e.state
}

// Snapshot returns the resource state and a copy of the upgrade table.
func (e *Economy) Snapshot() (ResourceState, []Upgrade) {
	ups := make([]Upgrade, len(e.upgrades))
	copy(ups, e.upgrades)
	return e.state, ups
}

// UpgradeAt returns the id of the n-th upgrade (0-based).
func (e *Economy) UpgradeAt(n int) (string, bool) {
	if n < 0 || n >= len(e.upgrades) {
		return "", false
	}
	return e.upgrades[n].ID, true
}

// Round2 rounds to two decimal places, halves away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
