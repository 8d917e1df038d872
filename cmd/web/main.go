package main

import (
	"context"
	_ "embed"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/stardust/internal/config"
	"github.com/tomz197/stardust/internal/loop"
	lconfig "github.com/tomz197/stardust/internal/loop/config"
	"github.com/tomz197/stardust/internal/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage []byte

func main() {
	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	settings := config.LoadSettings()
	logger := settings.NewLogger(os.Stderr, "web")

	policy, err := loop.PolicyByName(settings.Effects)
	if err != nil {
		logger.Warn("unknown effect policy, using amount", "err", err)
		policy = loop.AmountPolicy()
	}
	fps := config.GetEnvInt("STARDUST_FPS", lconfig.WebTargetFPS)
	if fps < 1 {
		fps = 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws := web.NewHandler(web.Options{
		Logger:      logger,
		FrameTime:   time.Second / time.Duration(fps),
		Policy:      policy,
		BaseContext: ctx,
	})

	mux := http.NewServeMux()
	mux.Handle("/ws", ws)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(htmlPage)
	})

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting web server", "addr", "http://"+addr, "fps", fps, "effects", settings.Effects)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server error", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "err", err)
	}
	ws.Wait()
}
