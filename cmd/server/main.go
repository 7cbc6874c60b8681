package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tankarena/arena/pkg/config"
	"github.com/tankarena/arena/pkg/log"
	"github.com/tankarena/arena/pkg/metrics"
	"github.com/tankarena/arena/pkg/server"
	"github.com/tankarena/arena/pkg/simctx"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
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
		case simctx.LogLevelDebug:
			logger.Debug(format, a...)
		case simctx.LogLevelTrace:
			logger.Trace(format, a...)
		default:
			logger.Info(format, a...)
		}
	})

	srv := server.New(transport, ctx, logger)

	exporter := metrics.New()
	exporter.Serve(":9090")

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
			srv.Tick(config.TickInterval)
			exporter.TicksRun.Inc()
		}
	}
}
