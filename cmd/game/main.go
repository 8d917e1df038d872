package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomz197/stardust/internal/audio"
	"github.com/tomz197/stardust/internal/config"
	"github.com/tomz197/stardust/internal/loop/client"
	"golang.org/x/term"
)

func main() {
	settings := config.LoadSettings()

	logFile, err := settings.OpenLog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := settings.NewLogger(logFile, "game")

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	music := audio.NewPlayer(audio.Config{Enabled: settings.Audio, Volume: settings.Volume}, logger)
	defer music.Close()

	c := client.NewClient(bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Settings: settings,
		Logger:   logger,
		Music:    music,
		Seed:     time.Now().UnixNano(),
	})

	logger.Info("game started", "fps", settings.FPS, "effects", settings.Effects, "audio", settings.Audio)
	if err := c.Run(ctx); err != nil {
		logger.Error("game error", "err", err)
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
	logger.Info("game ended")
}
