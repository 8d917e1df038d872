package client

import (
	"bufio"
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/tomz197/stardust/internal/clock"
	settings "github.com/tomz197/stardust/internal/config"
	"github.com/tomz197/stardust/internal/draw"
	"github.com/tomz197/stardust/internal/economy"
	"github.com/tomz197/stardust/internal/input"
	"github.com/tomz197/stardust/internal/loop"
	"github.com/tomz197/stardust/internal/loop/config"
	"github.com/tomz197/stardust/internal/object"
)

// Music is the background track control used by the terminal client.
type Music interface {
	Resume()
	ToggleMute() bool
	Started() bool
	Playing() bool
}

// Client runs one game in a terminal: it owns an economy, its driver and the
// canvas the driver renders into.
type Client struct {
	econ         *economy.Economy
	driver       *loop.Driver
	upgradeIDs   []string // Slot order for the number keys
	state        *viewState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter
	field        *object.Field
	reader       *bufio.Reader
	writer       io.Writer
	music        Music
	log          *log.Logger
	termSizeFunc draw.TermSizeFunc
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Settings     settings.Settings
	Logger       *log.Logger
	Music        Music             // Optional
	Clock        clock.Clock       // Optional, defaults to the real clock
	Upgrades     []economy.Upgrade // Optional, defaults to the built-in table
	Seed         int64             // Seed for star placement
}

// NewClient creates a client reading keys from r and drawing to w.
func NewClient(r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	upgrades := opts.Upgrades
	if upgrades == nil {
		upgrades = economy.DefaultUpgrades()
	}

	econ := economy.New(upgrades)
	ids := make([]string, 0, len(upgrades))
	for i := 0; ; i++ {
		id, ok := econ.UpgradeAt(i)
		if !ok {
			break
		}
		ids = append(ids, id)
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	state := newViewState(opts.Settings.RateDecimals)
	state.offsetCol, state.offsetRow = offsetCol, offsetRow

	screen := object.Screen{Width: config.ViewWidth, Height: config.ViewHeight}

	c := &Client{
		econ:         econ,
		upgradeIDs:   ids,
		state:        state,
		canvas:       draw.NewScaledCanvas(renderWidth, renderHeight, config.ViewWidth, config.ViewHeight),
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		field:        object.NewField(screen, config.MaxLiveStars, opts.Seed),
		reader:       r,
		writer:       w,
		music:        opts.Music,
		log:          logger,
		termSizeFunc: termSizeFunc,
	}

	policy, err := loop.PolicyByName(opts.Settings.Effects)
	if err != nil {
		logger.Warn("unknown effect policy, using amount", "err", err)
		policy = loop.AmountPolicy()
	}
	driverOpts := []loop.Option{
		loop.WithLogger(logger),
		loop.WithEffectPolicy(policy),
	}
	if opts.Settings.FPS > 0 {
		driverOpts = append(driverOpts, loop.WithFrameTime(opts.Settings.FrameTime()))
	}
	if opts.Clock != nil {
		driverOpts = append(driverOpts, loop.WithClock(opts.Clock))
	}
	if c.music != nil {
		driverOpts = append(driverOpts, loop.WithInteractionHook(c.music.Resume))
	}
	c.driver = loop.NewDriver(econ, c, c, driverOpts...)
	return c
}

// Run plays until the player quits, the input reader ends or ctx is
// cancelled.
func (c *Client) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	stream := input.StartStream(ctx, c.reader)
	go c.handleInput(ctx, cancel, stream)

	c.driver.Run(ctx)

	draw.ClearScreen(c.writer)
	return nil
}

// handleInput forwards key presses to the driver. It cancels the game when
// the player quits or the input ends.
func (c *Client) handleInput(ctx context.Context, cancel context.CancelFunc, stream *input.Stream) {
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-stream.Events():
			if !ok {
				return
			}
			if !c.dispatch(ev) {
				return
			}
		}
	}
}

// dispatch handles one event and reports whether the game continues.
func (c *Client) dispatch(ev input.Event) bool {
	switch ev.Action {
	case input.ActionClick:
		c.driver.OnClick()
	case input.ActionBuy:
		if ev.Slot >= 0 && ev.Slot < len(c.upgradeIDs) {
			c.driver.OnPurchaseRequest(c.upgradeIDs[ev.Slot])
		}
	case input.ActionToggleMusic:
		c.toggleMusic()
	case input.ActionQuit:
		return false
	}
	return true
}

func (c *Client) toggleMusic() {
	if c.music == nil {
		return
	}
	if !c.music.Started() {
		c.music.Resume()
		return
	}
	muted := c.music.ToggleMute()
	c.log.Debug("music toggled", "muted", muted)
}

// SpawnEffect launches a shooting star on the next Render. Called from the
// driver goroutine.
func (c *Client) SpawnEffect() {
	c.state.pendingStars++
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = max(0, min(termWidth, config.MaxTermWidth))
	renderHeight = max(0, min(termHeight, config.MaxTermHeight))
	offsetCol = max(0, (termWidth-renderWidth)/2)
	offsetRow = max(0, (termHeight-renderHeight)/2)
	return
}

var (
	_ loop.RenderSink = (*Client)(nil)
	_ loop.EffectSink = (*Client)(nil)
)
