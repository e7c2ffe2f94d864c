package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alwat83/ifyoumind/internal/setup"
	"github.com/alwat83/ifyoumind/internal/worker/trending"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// TrendingWorker refreshes trending scores on a fixed schedule.
const TrendingWorker = "trending"

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.Command{
		Name:  "worker",
		Usage: "Start an ifyoumind background worker",
		Commands: []*cli.Command{
			{
				Name:  TrendingWorker,
				Usage: "Start the trending score worker",
				Action: func(ctx context.Context, _ *cli.Command) error {
					runTrendingWorker(ctx)
					return nil
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return app.Run(ctx, os.Args)
}

// runTrendingWorker runs the trending worker in a loop with error recovery.
func runTrendingWorker(ctx context.Context) {
	app, err := setup.InitializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Cleanup()

	logger := app.Logger.Named("trending_worker")
	w := trending.New(app, logger)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Context cancelled, stopping worker")
			return
		default:
			func() {
				defer func() {
					if r := recover(); r != nil {
						logger.Error("Worker execution failed", zap.Any("panic", r))
						logger.Info("Restarting worker in 5 seconds...")
						time.Sleep(5 * time.Second)
					}
				}()

				logger.Info("Starting worker")
				w.Start(ctx)
			}()

			if ctx.Err() != nil {
				return
			}

			logger.Warn("Worker stopped unexpectedly")
			time.Sleep(5 * time.Second)
		}
	}
}
