package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/opd-ai/spinplay/config"
	"github.com/opd-ai/spinplay/playlist"
)

func runPlaylist(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("playlist", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	steps := fs.Int("steps", 0, "Advance this many items after starting; negative steps go back")
	ended := fs.Bool("ended", false, "Treat each step as the item ending instead of skipping")
	if err := fs.Parse(args); err != nil {
		return err
	}
	src, err := sourceArg(fs, config.KeyPlaylist)
	if err != nil {
		return err
	}

	p, err := playlist.Fetch(ctx, e.fetcher, src)
	if err != nil {
		return err
	}
	fmt.Fprint(e.stdout, p.String())

	p.Subscribe(func(it *playlist.Item) {
		fmt.Fprintf(e.stdout, "selected   %d: %s\n", p.Index(it), it.Title)
	})
	p.Start()
	for i := 0; i < abs(*steps); i++ {
		switch {
		case *steps < 0:
			p.Previous()
		case *ended:
			p.ItemEnded()
		default:
			p.Next()
		}
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
