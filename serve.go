package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-practice/debug"
	"go-practice/library"
	"go-practice/trackserver"
)

var serveFlags struct {
	addr string
	dir  string
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveFlags.dir, "dir", "", "Directory of MIDI files (overrides config and --local)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a directory of MIDI files to practice clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

func serve() error {
	opts := logOptions(true)
	if !flags.debug {
		opts.Path = ""
		opts.Level = "info"
	}
	if err := debug.Enable(opts); err != nil {
		return err
	}
	log := debug.Logger()

	dir := firstSet(serveFlags.dir, flags.local, cfg.Server.LibraryDir)
	if dir == "" {
		return errors.New("no library directory: pass --dir or set server.libraryDir")
	}
	addr := firstSet(serveFlags.addr, cfg.Server.Addr)

	lib, err := library.Open(dir)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cache trackserver.Cache = trackserver.NopCache{}
	if cfg.Server.RedisAddr != "" {
		rc, err := trackserver.NewRedisCache(ctx, trackserver.RedisOptions{
			Addr:     cfg.Server.RedisAddr,
			Password: cfg.Server.RedisPassword,
			DB:       cfg.Server.RedisDB,
			TTL:      time.Duration(cfg.Server.CacheTTL),
		})
		if err != nil {
			return fmt.Errorf("response cache: %w", err)
		}
		defer rc.Close()
		cache = rc
		log.Info("caching responses in redis", zap.String("addr", cfg.Server.RedisAddr))
	}

	go func() {
		if err := lib.Watch(ctx, nil); err != nil {
			log.Error("library watch stopped", zap.Error(err))
		}
	}()

	log.Info("serving library", zap.String("dir", dir))
	return trackserver.New(lib, cache, log).ListenAndServe(ctx, addr)
}

func firstSet(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
