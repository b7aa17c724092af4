package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/opd-ai/spinplay/config"
	"github.com/opd-ai/spinplay/server"
	"github.com/opd-ai/spinplay/texture"
)

func runServe(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	addr := fs.String("addr", config.GetString(config.KeyServerAddr), "Listen address")
	root := fs.String("root", config.GetString(config.KeyServerRoot), "Directory to serve")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := server.DefaultConfig()
	cfg.Timeout = config.GetDuration(config.KeyServerTimeout)
	cfg.Loader = &texture.LoaderConfig{MaxEntries: config.GetInt(config.KeyCacheMaxEntries)}
	s, err := server.New(os.DirFS(*root), cfg)
	if err != nil {
		return err
	}
	err = s.ListenAndServe(ctx, *addr)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
