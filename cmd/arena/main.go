// Command arena is the reference host's interactive menu (spec.md §6 CLI
// surface): prompts 1=server, 2=client, and exits 0 on clean shutdown or
// -1 on initialization/connection failure or an invalid menu choice.
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/tankarena/arena/pkg/client"
	"github.com/tankarena/arena/pkg/config"
	"github.com/tankarena/arena/pkg/log"
	"github.com/tankarena/arena/pkg/metrics"
	"github.com/tankarena/arena/pkg/renderer"
	"github.com/tankarena/arena/pkg/server"
	"github.com/tankarena/arena/pkg/simctx"
)

func main() {
	os.Exit(run(os.Stdin, os.Args[1:]))
}

func run(in *os.File, args []string) int {
	fmt.Println("Tank Arena")
	fmt.Println("1) Run server")
	fmt.Println("2) Run client")
	fmt.Print("> ")

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return -1
	}
	choice := strings.TrimSpace(scanner.Text())

	switch choice {
	case "1":
		return runServer(args)
	case "2":
		return runClient(args)
	default:
		fmt.Fprintf(os.Stderr, "invalid choice: %q\n", choice)
		return -1
	}
}

func untilStopped(logger *log.Logger, tick func()) int {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	tickInterval := config.TickInterval
	ticker := time.NewTicker(time.Duration(tickInterval * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			logger.Info("shutting down")
			return 0
		case <-ticker.C:
			tick()
		}
	}
}

func runServer(args []string) int {
	opts, err := config.ParseServerOptions(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse options: %v\n", err)
		return -1
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, log.LogLevelInfo)
	logger.Info("starting server on UDP port %d", opts.Port)

	transport, err := server.Listen(opts.Port)
	if err != nil {
		logger.Error("failed to listen: %v", err)
		return -1
	}
	defer transport.Close()

	ctx := simctx.New(0, func(level simctx.LogLevel, format string, a ...interface{}) {
		switch level {
		case simctx.LogLevelError:
			logger.Error(format, a...)
		case simctx.LogLevelWarn:
			logger.Warn(format, a...)
		default:
			logger.Debug(format, a...)
		}
	})
	srv := server.New(transport, ctx, logger)

	exporter := metrics.New()
	exporter.Serve(":9090")

	return untilStopped(logger, func() {
		srv.Tick(config.TickInterval)
		exporter.TicksRun.Inc()
	})
}

func runClient(args []string) int {
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

	return untilStopped(logger, func() {
		rt.InputTick(false, false, false, false, 0, 0, config.TickInterval)
		rt.Tick(config.TickInterval)
		draw.Draw(renderer.Frame{})
	})
}
