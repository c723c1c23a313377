package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/kaizenfm/kaizen-radio/config"
	"github.com/kaizenfm/kaizen-radio/internal/bus"
	"github.com/kaizenfm/kaizen-radio/internal/dirwalk"
	"github.com/kaizenfm/kaizen-radio/internal/fetch"
	"github.com/kaizenfm/kaizen-radio/internal/queue"
	"github.com/kaizenfm/kaizen-radio/internal/radioserver"
	"github.com/kaizenfm/kaizen-radio/internal/rawstream"
	"github.com/kaizenfm/kaizen-radio/internal/scrape"
	"github.com/kaizenfm/kaizen-radio/internal/station"
	"github.com/kaizenfm/kaizen-radio/internal/track"
)

// resolveConcurrency bounds how many tracks are downloaded/parsed at once
// while seeding the initial queue.
const resolveConcurrency = 3

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := config.Load()
	slog.Info("starting station",
		"http_port", cfg.HTTPPort,
		"raw_port", cfg.RawPort,
		"music_dir", cfg.MusicDir,
		"station_name", cfg.StationName,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		slog.Info("shutdown signal received")
		cancel()
	}()

	metas := seedPlaylist(ctx, cfg)

	fs := fetch.NewFsGetter(cfg.MusicDir, "mp3")
	chain := &fetch.Chain{
		Getters: []fetch.Getter{
			fs,
			fetch.NewDownloaderGetter(cfg.YtdlpPath, cfg.FfmpegPath, fs),
		},
	}

	q := queue.New()
	for _, t := range resolveAll(ctx, chain, metas) {
		q.PushBack(t)
	}
	slog.Info("queue seeded", "tracks", q.Len())

	sender := bus.NewSender[station.Message]()
	current := station.NewCurrent(sender)
	control := make(chan station.Control, 8)

	runner := station.NewRunner(q, current, control)
	go runner.Run(ctx)

	rawSrv := rawstream.New(current)
	go func() {
		if err := rawSrv.Run(ctx, net.JoinHostPort("", cfg.RawPort)); err != nil {
			slog.Error("raw stream server stopped", "error", err)
		}
	}()

	httpSrv := radioserver.New(cfg.StationName, cfg.WebDir, cfg.MaxClients, q, current, control)
	if err := httpSrv.Run(ctx, net.JoinHostPort("", cfg.HTTPPort)); err != nil {
		slog.Error("http server stopped", "error", err)
		os.Exit(1)
	}

	slog.Info("station stopped")
}

// seedPlaylist builds the initial playlist metadata, preferring a last.fm
// scrape when a session ID is configured and falling back to a scan of the
// local music directory otherwise.
func seedPlaylist(ctx context.Context, cfg *config.Config) []track.SongMetadata {
	if cfg.SID != "" {
		client := scrape.New(cfg.SID)
		metas, err := client.ScrapeRecommendations(ctx)
		if err != nil {
			slog.Error("last.fm scrape failed, falling back to local library", "error", err)
		} else {
			return metas
		}
	}

	metas, err := dirwalk.Scan(cfg.MusicDir)
	if err != nil {
		slog.Error("could not scan music directory", "dir", cfg.MusicDir, "error", err)
		return nil
	}
	return metas
}

// resolveAll fetches and decodes every track in metas, up to
// resolveConcurrency at a time, preserving metas' order and dropping any
// track that fails to resolve.
func resolveAll(ctx context.Context, chain *fetch.Chain, metas []track.SongMetadata) []*track.Track {
	resolved := make([]*track.Track, len(metas))
	sem := make(chan struct{}, resolveConcurrency)
	var wg sync.WaitGroup

	for i, meta := range metas {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, meta track.SongMetadata) {
			defer wg.Done()
			defer func() { <-sem }()

			t, err := fetch.LoadTrack(ctx, chain, meta)
			if err != nil {
				slog.Warn("could not resolve track, skipping", "title", meta.Title, "error", err)
				return
			}
			resolved[i] = t
		}(i, meta)
	}
	wg.Wait()

	out := make([]*track.Track, 0, len(resolved))
	for _, t := range resolved {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
