package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/opd-ai/spinplay"
	"github.com/opd-ai/spinplay/config"
	"github.com/opd-ai/spinplay/factory"
	"github.com/opd-ai/spinplay/headset"
	"github.com/opd-ai/spinplay/interfaces"
	"github.com/opd-ai/spinplay/player"
	"github.com/opd-ai/spinplay/projector"
	"github.com/opd-ai/spinplay/simulate"
)

func runSimulate(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	ticks := fs.Int("ticks", config.GetInt(config.KeySimulateTicks), "Frames to run after Prepare")
	yaw := fs.Float64("yaw", config.GetFloat64(config.KeySimulateHeadingYaw), "Headset yaw in degrees")
	duration := fs.Duration("duration", time.Duration(config.GetInt64(config.KeySimulateDurationMs))*time.Millisecond, "Scripted media duration")
	forceMono := fs.Bool("mono", false, "Force monoscopic rendering")
	if err := fs.Parse(args); err != nil {
		return err
	}
	src, err := sourceArg(fs, config.KeySource)
	if err != nil {
		return err
	}

	backend, err := interfaces.ParseBackend(config.GetString(config.KeyDecoder))
	if err != nil {
		return err
	}
	if backend != interfaces.BackendSimulation {
		return fmt.Errorf("simulate needs the simulation decoder, configured %s", backend)
	}
	decoders := factory.NewDecoderFactory()
	decoders.SwitchToSimulation()
	sim := simulate.DefaultOptions()
	sim.AutoRespond = true
	sim.DurationMs = duration.Milliseconds()
	decoders.SetSimulationOptions(sim)

	hmd := headset.NewSimulated(headset.TypeOculusRift)
	hmd.SetHeading(mgl64.Vec3{0, *yaw, 0})

	pcfg := projector.DefaultConfig()
	pcfg.ForceMonoscopic = *forceMono
	s, err := spinplay.NewSession(ctx, &spinplay.Options{
		Factory:   decoders,
		Headset:   hmd,
		Fetcher:   e.fetcher,
		Projector: pcfg,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	var failed error
	s.Projector().Subscribe(func(ev projector.Event) {
		fmt.Fprintf(e.stdout, "projector  %s\n", ev)
		if ev.Kind == projector.EventError && failed == nil {
			failed = ev.Err
			if failed == nil {
				failed = errors.New(ev.Message)
			}
		}
	})
	s.Player().Subscribe(func(ev player.Event) {
		if ev.Kind == player.EventCurrentTimeChanged {
			return
		}
		fmt.Fprintf(e.stdout, "player     %s\n", ev)
	})

	if err := s.Open(ctx, src); err != nil {
		return err
	}

	const frame = time.Second / 30
	for !s.Projector().Visible() && failed == nil {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Tick(0)
		time.Sleep(time.Millisecond)
	}
	if failed != nil {
		return failed
	}

	for _, eye := range s.Projector().Eyes() {
		fmt.Fprintf(e.stdout, "eye        %s\n", eye)
	}
	for i := 0; i < *ticks && ctx.Err() == nil; i++ {
		s.Tick(frame)
	}

	r := s.Report()
	fmt.Fprintf(e.stdout, "position   %s\n", s.Player().CurrentTime())
	fmt.Fprintf(e.stdout, "report     %s\n", r.String())
	return failed
}
