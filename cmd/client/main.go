package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tankarena/arena/pkg/client"
	"github.com/tankarena/arena/pkg/config"
	"github.com/tankarena/arena/pkg/log"
	"github.com/tankarena/arena/pkg/renderer"
	"github.com/tankarena/arena/pkg/simctx"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run drives the client tick loop. Sampling real keyboard/mouse input and
// drawing to a window are adaptation-layer concerns behind renderer.Renderer
// (spec.md §1 Out of scope); this loop wires the simulation core's input
// tick, snapshot tick, and reconciliation, and renders through a Renderer.Null
// until a concrete backend is attached.
func run(args []string) int {
	opts, err := config.ParseClientOptions(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse options: %v\n", err)
		return -1
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, log.LogLevelInfo)
	logger.Info("connecting to %s", opts.Addr())

	rt, err := client.Connect(opts.Addr(), simctx.New(0, nil), logger)
	if err != nil {
		logger.Error("failed to connect: %v", err)
		return -1
	}
	defer rt.Close()

	if err := rt.Join(opts.PlayerName, opts.PreferredColor); err != nil {
		logger.Error("failed to join: %v", err)
		return -1
	}

	var draw renderer.Renderer = renderer.Null{}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	tickInterval := config.TickInterval
	ticker := time.NewTicker(time.Duration(tickInterval * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			logger.Info("disconnecting")
			return 0
		case <-ticker.C:
			rt.InputTick(false, false, false, false, 0, 0, config.TickInterval)
			rt.Tick(config.TickInterval)
			if err := draw.Draw(frameFor(rt)); err != nil {
				logger.Warn("render error: %v", err)
			}
		}
	}
}

func frameFor(rt *client.Runtime) renderer.Frame {
	frame := renderer.Frame{}
	if rt.Local != nil {
		frame.LocalTank = renderer.TankView{
			EntityID: rt.Local.PlayerID, X: rt.Local.X, Y: rt.Local.Y,
			BodyRotation: rt.Local.BodyRotation, BarrelRotation: rt.Local.BarrelRotation,
			IsDead: rt.Local.IsDead,
		}
	}
	for id, e := range rt.Enemies {
		state, ok := rt.RenderStateFor(id)
		if !ok {
			continue
		}
		frame.Tanks = append(frame.Tanks, renderer.TankView{
			EntityID: id, X: state.X, Y: state.Y,
			BodyRotation: state.BodyRotation, BarrelRotation: state.BarrelRotation,
			HealthFraction: healthFraction(e.Health, e.MaxHealth),
		})
	}
	for id, b := range rt.Bullets {
		frame.Bullets = append(frame.Bullets, renderer.BulletView{
			EntityID: id, X: b.X, Y: b.Y, Rotation: b.Rotation, Type: b.Type,
		})
	}
	return frame
}

func healthFraction(health, max float64) float64 {
	if max <= 0 {
		return 0
	}
	return health / max
}
