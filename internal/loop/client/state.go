package client

import (
	"github.com/tomz197/stardust/internal/loop/config"
)

// viewState is the per-client presentation state. It is only touched from
// the driver goroutine, inside Render and SpawnEffect.
type viewState struct {
	gradientOffset float64 // Cells the colour band has scrolled
	offsetCol      int     // Centering offset of the render area
	offsetRow      int
	rateDecimals   int
	pendingStars   int // Spawned since the last Render
}

func newViewState(rateDecimals int) *viewState {
	if rateDecimals < 0 {
		rateDecimals = config.DefaultRateDecimals
	}
	return &viewState{rateDecimals: rateDecimals}
}
