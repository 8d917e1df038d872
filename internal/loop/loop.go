// Package loop provides the frame driver that advances the economy, schedules
// decorative effects and hands each frame to a renderer.
package loop

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/stardust/internal/clock"
	"github.com/tomz197/stardust/internal/economy"
	"github.com/tomz197/stardust/internal/loop/config"
)

// RenderSink draws a frame. It must not retain the frame's Upgrades slice
// past the call.
type RenderSink interface {
	Render(frame Frame) error
}

// EffectSink spawns one decorative effect.
type EffectSink interface {
	SpawnEffect()
}

// RenderFunc adapts a function to RenderSink.
type RenderFunc func(Frame) error

func (f RenderFunc) Render(frame Frame) error { return f(frame) }

// EffectFunc adapts a function to EffectSink.
type EffectFunc func()

func (f EffectFunc) SpawnEffect() { f() }

// UpgradeView is the render-facing view of one upgrade.
type UpgradeView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost"`
	Rate        float64 `json:"rate"`
	Count       int     `json:"count"`
	Affordable  bool    `json:"affordable"`
}

// Frame is what the renderer sees each tick.
type Frame struct {
	Amount     float64       `json:"amount"`
	GrowthRate float64       `json:"growthRate"`
	Upgrades   []UpgradeView `json:"upgrades"`
	Time       time.Time     `json:"-"`
	Delta      time.Duration `json:"-"`
}

type inputKind int

const (
	inputClick inputKind = iota
	inputPurchase
)

type inputEvent struct {
	kind    inputKind
	upgrade string
}

// Option configures a Driver.
type Option func(*Driver)

// WithClock sets the time source.
func WithClock(clk clock.Clock) Option {
	return func(d *Driver) { d.clk = clk }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(d *Driver) { d.log = l }
}

// WithFrameTime sets the period between frames.
func WithFrameTime(ft time.Duration) Option {
	return func(d *Driver) {
		if ft > 0 {
			d.frameTime = ft
		}
	}
}

// WithEffectPolicy sets the effect spawning policy.
func WithEffectPolicy(p EffectPolicy) Option {
	return func(d *Driver) { d.policy = p }
}

// WithInteractionHook registers fn to run after every input event.
func WithInteractionHook(fn func()) Option {
	return func(d *Driver) { d.onInteract = fn }
}

// Driver owns the economy and is the only goroutine that mutates it.
// Input arrives through OnClick and OnPurchaseRequest, which are safe to call
// from any goroutine.
type Driver struct {
	econ       *economy.Economy
	renderer   RenderSink
	effects    EffectSink
	clk        clock.Clock
	log        *log.Logger
	policy     EffectPolicy
	frameTime  time.Duration
	onInteract func()

	inputs    chan inputEvent
	last      time.Time
	lastBurst time.Time
	pending   []time.Time // Due times of staggered effect spawns

	renderFailures int
}

// NewDriver creates a driver for econ. Nil sinks are replaced with no-ops.
func NewDriver(econ *economy.Economy, render RenderSink, effects EffectSink, opts ...Option) *Driver {
	if render == nil {
		render = RenderFunc(func(Frame) error { return nil })
	}
	if effects == nil {
		effects = EffectFunc(func() {})
	}

	d := &Driver{
		econ:      econ,
		renderer:  render,
		effects:   effects,
		clk:       clock.Real{},
		log:       log.New(io.Discard),
		policy:    AmountPolicy(),
		frameTime: config.TargetFrameTime,
		inputs:    make(chan inputEvent, config.InputBufferSize),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.last = d.clk.Now()
	d.lastBurst = d.last
	return d
}

// OnClick requests one manual click.
func (d *Driver) OnClick() {
	d.enqueue(inputEvent{kind: inputClick})
}

// OnPurchaseRequest requests a purchase of the upgrade with the given id.
// Unaffordable or unknown upgrades are ignored.
func (d *Driver) OnPurchaseRequest(id string) {
	d.enqueue(inputEvent{kind: inputPurchase, upgrade: id})
}

func (d *Driver) enqueue(ev inputEvent) {
	select {
	case d.inputs <- ev:
	default:
		d.log.Warn("input queue full, dropping event", "kind", ev.kind)
	}
}

// Run drives frames until ctx is cancelled.
func (d *Driver) Run(ctx context.Context) {
	ticker := time.NewTicker(d.frameTime)
	defer ticker.Stop()

	d.last = d.clk.Now()
	d.lastBurst = d.last
	d.Step(d.last)

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.inputs:
			d.apply(ev)
		case <-ticker.C:
			d.Step(d.clk.Now())
		}
	}
}

// Step runs one frame at time now: pending input, accrual, effects, render.
func (d *Driver) Step(now time.Time) {
	d.drainInputs()

	delta := now.Sub(d.last)
	if delta < 0 {
		delta = 0
	}
	d.last = now
	d.econ.ApplyElapsed(delta.Seconds())

	d.scheduleEffects(now)
	d.dispatchEffects(now)

	d.render(d.frame(now, delta))
}

func (d *Driver) drainInputs() {
	for {
		select {
		case ev := <-d.inputs:
			d.apply(ev)
		default:
			return
		}
	}
}

func (d *Driver) apply(ev inputEvent) {
	switch ev.kind {
	case inputClick:
		d.econ.ApplyClick()
	case inputPurchase:
		if err := d.econ.Purchase(ev.upgrade); err != nil {
			d.log.Debug("purchase ignored", "upgrade", ev.upgrade, "err", err)
		} else {
			d.log.Debug("purchased", "upgrade", ev.upgrade)
		}
	}

	if d.onInteract != nil {
		d.guard("interaction hook", d.onInteract)
	}
}

func (d *Driver) scheduleEffects(now time.Time) {
	if !d.policy.Enabled() || now.Sub(d.lastBurst) < d.policy.Interval {
		return
	}
	d.lastBurst = now

	n := d.policy.Count(d.econ.State())
	for i := 0; i < n; i++ {
		d.pending = append(d.pending, now.Add(time.Duration(i)*d.policy.Stagger))
	}
}

func (d *Driver) dispatchEffects(now time.Time) {
	kept := d.pending[:0]
	for _, due := range d.pending {
		if due.After(now) {
			kept = append(kept, due)
			continue
		}
		d.guard("effect sink", d.effects.SpawnEffect)
	}
	d.pending = kept
}

func (d *Driver) frame(now time.Time, delta time.Duration) Frame {
	st, ups := d.econ.Snapshot()
	views := make([]UpgradeView, len(ups))
	for i, u := range ups {
		views[i] = UpgradeView{
			ID:          u.ID,
			Name:        u.Name,
			Description: u.Description,
			Cost:        u.Cost,
			Rate:        u.Rate,
			Count:       u.Count,
			Affordable:  d.econ.IsAffordable(u.ID),
		}
	}
	return Frame{
		Amount:     st.Amount,
		GrowthRate: st.GrowthRate,
		Upgrades:   views,
		Time:       now,
		Delta:      delta,
	}
}

func (d *Driver) render(frame Frame) {
	d.guard("render sink", func() {
		if err := d.renderer.Render(frame); err != nil {
			if d.renderFailures == 0 {
				d.log.Warn("render failed", "err", err)
			} else {
				d.log.Debug("render failed", "err", err, "consecutive", d.renderFailures+1)
			}
			d.renderFailures++
			return
		}
		d.renderFailures = 0
	})
}

// guard runs fn and recovers from a panic so a faulty collaborator cannot
// stop the loop.
func (d *Driver) guard(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("recovered panic", "in", what, "panic", r)
		}
	}()
	fn()
}
