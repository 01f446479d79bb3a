// Command posefilterd wires together the landmark predictions and the
// pose filter core at startup. The messaging transport that would feed it
// odometry and detections is an external collaborator (§1) and is not
// implemented here; this entrypoint exists to construct the filter the
// way a long-running process would and to demonstrate graceful shutdown,
// in the style of cmd/monitor/main.go's context/signal pattern.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/itohio/posebayes/pkg/config"
	"github.com/itohio/posebayes/pkg/core/landmark"
	"github.com/itohio/posebayes/pkg/core/posefilter"
	"github.com/itohio/posebayes/pkg/logger"
)

var configPath = flag.String("config", "", "Path to a YAML config overriding the built-in landmark table and grid geometry")

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.Log.Error().Err(err).Str("path", *configPath).Msg("failed to load config, using defaults")
		} else {
			cfg = loaded
		}
	}

	geo := cfg.Geometry()
	intr := cfg.Intrinsics()
	objects := cfg.WorldObjects()

	preds := make([]landmark.Prediction, len(objects))
	for i, obj := range objects {
		preds[i] = landmark.Build(geo, intr, cfg.RobotZ, obj)
	}

	f := posefilter.New(geo, preds)
	logger.Log.Info().Int("landmarks", len(preds)).Msg("pose filter initialized")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Log.Info().Msg("shutting down")
	_ = f
}
