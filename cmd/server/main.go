package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/youruser/iconframe/internal/api"
	"github.com/youruser/iconframe/internal/assets"
	"github.com/youruser/iconframe/internal/config"
	"github.com/youruser/iconframe/internal/export"
	"github.com/youruser/iconframe/internal/frames"
	imagepkg "github.com/youruser/iconframe/internal/image"
)

func main() {
	configPath := flag.String("config", "iconframe.toml", "path to the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "err", err)
		os.Exit(1)
	}
	log := cfg.NewLogger()
	slog.SetDefault(log)
	imagepkg.SetLogger(log)

	cat, err := frames.Load(cfg.Assets.Catalogue)
	if err != nil {
		log.Error("loading frame catalogue", "err", err)
		os.Exit(1)
	}
	resampler, err := imagepkg.ResamplerByName(cfg.Render.Filter)
	if err != nil {
		log.Error("render filter", "err", err)
		os.Exit(1)
	}
	compositor := imagepkg.NewCompositor(
		imagepkg.WithResampler(resampler),
		imagepkg.WithPool(imagepkg.NewPool(cfg.Render.Workers)),
	)

	// Load frames at startup (best-effort)
	store := assets.Load(assets.Options{
		Dir:       cfg.Assets.Dir,
		Catalogue: cat,
		Resampler: resampler,
		Logger:    log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Assets.Watch {
		go func() {
			if err := store.Watch(ctx, cfg.Assets.DebounceDuration()); err != nil {
				log.Warn("asset watcher stopped", "err", err)
			}
		}()
	}

	r := gin.Default()
	r.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20
	api.RegisterRoutes(r, &api.Handler{
		Catalogue: cat,
		Store:     store,
		Runner:    &export.Runner{Compositor: compositor, Assets: store, Log: log},
		Log:       log,

		AllowRemote: cfg.Server.AllowRemoteFetch,
	})

	srv := &http.Server{Addr: cfg.Server.Addr, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown", "err", err)
		}
	}()

	log.Info("starting server", "addr", cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("server failed", "err", err)
		os.Exit(1)
	}
}
