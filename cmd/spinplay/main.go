// Command spinplay inspects OPF documents, exports their remap textures,
// simulates playback against a scripted decoder and serves test assets.
//
// Usage:
//
//	spinplay [-config dir] <command> [flags] [args]
//
// Commands:
//
//	inspect <opf>         print the parsed document as JSON
//	export <opf>          write VariSqueeze ramps and UV maps as WebP
//	simulate <opf>        run a full prepare and playback cycle
//	serve                 serve OPF documents and textures over HTTP
//	playlist <file>       print a playlist and step through it
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/spinplay/config"
	"github.com/opd-ai/spinplay/texture"
)

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, env *env, args []string) error
}

// env is what every command shares.
type env struct {
	stdout, stderr io.Writer
	fetcher        texture.Fetcher
}

var commands = []command{
	{"inspect", "print the parsed document as JSON", runInspect},
	{"export", "write VariSqueeze ramps and UV maps as WebP", runExport},
	{"simulate", "run a full prepare and playback cycle", runSimulate},
	{"serve", "serve OPF documents and textures over HTTP", runServe},
	{"playlist", "print a playlist and step through it", runPlaylist},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("spinplay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configDir := fs.String("config", ".", "Directory containing "+config.FileName)
	fs.Usage = func() { usage(fs, stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		usage(fs, stderr)
		return 2
	}

	if err := config.LoadOptional(*configDir); err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}
	if err := config.ConfigureLogging(); err != nil {
		fmt.Fprintf(stderr, "Error configuring logging: %v\n", err)
		return 1
	}

	e := &env{
		stdout:  stdout,
		stderr:  stderr,
		fetcher: newFetcher(),
	}

	name, rest := fs.Arg(0), fs.Args()[1:]
	for _, c := range commands {
		if c.name != name {
			continue
		}
		if err := c.run(ctx, e, rest); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			fmt.Fprintf(stderr, "Error: %s: %v\n", name, err)
			return 1
		}
		return 0
	}
	fmt.Fprintf(stderr, "Error: unknown command %q\n", name)
	usage(fs, stderr)
	return 2
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Usage: spinplay [-config dir] <command> [flags] [args]")
	fmt.Fprintln(w)
	fs.PrintDefaults()
	fmt.Fprintln(w, "\nCommands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
}

// newFetcher handles http, https and file URLs with the configured
// timeout.
func newFetcher() texture.Fetcher {
	h := texture.NewHTTPFetcher(config.GetDuration(config.KeyFetchTimeout))
	return &texture.MultiFetcher{Schemes: map[string]texture.Fetcher{
		"http":  h,
		"https": h,
		"file":  &texture.FileFetcher{},
	}}
}

// sourceArg returns the single positional argument, falling back to key.
func sourceArg(fs *flag.FlagSet, key string) (string, error) {
	switch fs.NArg() {
	case 0:
		if v := config.GetString(key); v != "" {
			return v, nil
		}
		return "", fmt.Errorf("missing argument, see %s -h", fs.Name())
	case 1:
		return fs.Arg(0), nil
	default:
		return "", fmt.Errorf("expected one argument, got %d", fs.NArg())
	}
}
