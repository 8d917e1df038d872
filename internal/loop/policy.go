package loop

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tomz197/stardust/internal/economy"
	"github.com/tomz197/stardust/internal/loop/config"
)

// ErrUnknownPolicy is returned by PolicyByName for an unrecognised preset.
var ErrUnknownPolicy = errors.New("unknown effect policy")

// Metric selects which economy value drives effect spawning.
type Metric int

const (
	MetricAmount     Metric = iota // Spawn count follows accumulated stardust
	MetricGrowthRate               // Spawn count follows stardust per second
)

func (m Metric) String() string {
	switch m {
	case MetricAmount:
		return "amount"
	case MetricGrowthRate:
		return "rate"
	default:
		return fmt.Sprintf("Metric(%d)", int(m))
	}
}

// EffectPolicy decides how many decorative effects to spawn per interval.
// The zero value spawns nothing.
type EffectPolicy struct {
	Metric   Metric
	Divisor  float64
	Max      int
	Interval time.Duration // Time between bursts
	Stagger  time.Duration // Delay between spawns within a burst
}

// AmountPolicy spawns one effect per ten stardust, up to 100 every second.
func AmountPolicy() EffectPolicy {
	return EffectPolicy{
		Metric:   MetricAmount,
		Divisor:  config.AmountEffectDivisor,
		Max:      config.AmountEffectMax,
		Interval: config.AmountEffectInterval,
		Stagger:  config.EffectStagger,
	}
}

// RatePolicy spawns one effect per stardust/sec, up to 80 every two seconds.
func RatePolicy() EffectPolicy {
	return EffectPolicy{
		Metric:   MetricGrowthRate,
		Divisor:  config.RateEffectDivisor,
		Max:      config.RateEffectMax,
		Interval: config.RateEffectInterval,
		Stagger:  config.EffectStagger,
	}
}

// PolicyByName returns the preset named "amount" or "rate".
func PolicyByName(name string) (EffectPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "amount", "":
		return AmountPolicy(), nil
	case "rate":
		return RatePolicy(), nil
	case "off", "none":
		return EffectPolicy{}, nil
	default:
		return EffectPolicy{}, fmt.Errorf("effect policy %q: %w", name, ErrUnknownPolicy)
	}
}

// Enabled reports whether the policy can ever spawn anything.
func (p EffectPolicy) Enabled() bool {
	return p.Interval > 0 && p.Max > 0 && p.Divisor > 0
}

// Count returns the number of effects for one burst given the current state.
func (p EffectPolicy) Count(st economy.ResourceState) int {
	if !p.Enabled() {
		return 0
	}
	v := st.Amount
	if p.Metric == MetricGrowthRate {
		v = st.GrowthRate
	}
	n := math.Floor(v / p.Divisor)
	if !(n > 0) {
		return 0
	}
	if n >= float64(p.Max) {
		return p.Max
	}
	return int(n)
}
