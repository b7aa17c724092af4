package main

import (
	"context"
	"encoding/json"
	"flag"

	"github.com/opd-ai/spinplay/config"
	"github.com/opd-ai/spinplay/opf"
)

func runInspect(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	src, err := sourceArg(fs, config.KeySource)
	if err != nil {
		return err
	}

	proj, err := loadProjection(ctx, e, src)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(proj.Summarize())
}

func loadProjection(ctx context.Context, e *env, src string) (*opf.Projection, error) {
	data, err := e.fetcher.Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return opf.Parse(data, src)
}
