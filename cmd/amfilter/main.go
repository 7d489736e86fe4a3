// Adaptive manifold filter CLI
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/sirupsen/logrus"

	"adaptive-manifold-filter/internal/core"
	"adaptive-manifold-filter/internal/io"
)

const (
	AppName    = "Adaptive Manifold Filter"
	AppVersion = "1.0.0"
)

func main() {
	src := flag.String("src", "", "path to the source image (required)")
	joint := flag.String("joint", "", "path to the guide image (defaults to -src)")
	out := flag.String("out", "out.png", "path to write the filtered image")
	sigmaS := flag.Float64("sigma-s", 16.0, "spatial standard deviation")
	sigmaR := flag.Float64("sigma-r", 0.2, "range standard deviation, in (0, 1]")
	treeHeight := flag.Int("tree-height", -1, "manifold tree height, -1 to compute automatically")
	numPCAIterations := flag.Int("num-pca-iterations", 1, "power-iteration count for the dominant eigenvector")
	adjustOutliers := flag.Bool("adjust-outliers", false, "enable outlier-reducing reconstruction")
	useRNG := flag.Bool("use-rng", true, "randomize the power-iteration seed")
	debugMode := flag.Bool("debug", false, "enable debug mode with verbose logging")
	flag.Parse()

	logger := initLogger(*debugMode)
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": *debugMode,
	}).Info("starting " + AppName)

	if *src == "" {
		logger.Fatal("-src is required")
	}
	jointPath := *joint
	if jointPath == "" {
		jointPath = *src
	}

	slogLevel := slog.LevelInfo
	if *debugMode {
		slogLevel = slog.LevelDebug
	}
	structured := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))

	loader := io.NewImageLoader(structured)

	srcMat, err := loader.LoadImage(*src)
	if err != nil {
		logger.WithError(err).Fatal("failed to load source image")
	}
	defer srcMat.Close()

	jointMat := srcMat
	if jointPath != *src {
		jointMat, err = loader.LoadImage(jointPath)
		if err != nil {
			logger.WithError(err).Fatal("failed to load guide image")
		}
		defer jointMat.Close()
	}

	filter, err := core.NewAMFilter(*sigmaS, *sigmaR, *adjustOutliers)
	if err != nil {
		logger.WithError(err).Fatal("invalid filter configuration")
	}
	filter.SetLogger(structured)

	if err := filter.Set("tree_height", *treeHeight); err != nil {
		logger.WithError(err).Fatal("invalid tree-height")
	}
	if err := filter.Set("num_pca_iterations", *numPCAIterations); err != nil {
		logger.WithError(err).Fatal("invalid num-pca-iterations")
	}
	if err := filter.Set("use_rng", *useRNG); err != nil {
		logger.WithError(err).Fatal("invalid use-rng")
	}

	dst, err := filter.Apply(context.Background(), srcMat, jointMat)
	if err != nil {
		logger.WithError(err).Fatal("filter failed")
	}
	defer dst.Close()

	if err := loader.SaveImage(dst, *out); err != nil {
		logger.WithError(err).Fatal("failed to save output image")
	}

	logger.Info("filter applied successfully")
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
