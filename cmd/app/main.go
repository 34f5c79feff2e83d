// Image Transformer - desktop application entry point

package main

import (
	"flag"
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"

	"image-transformer/internal/algorithms"
	"image-transformer/internal/config"
	"image-transformer/internal/core"
	"image-transformer/internal/gui"
	imgio "image-transformer/internal/io"
	"image-transformer/internal/logging"
)

const (
	AppID      = "com.imagetransformer.app"
	AppVersion = "1.0.0"
)

func main() {
	// Parse command line flags
	debugMode := flag.Bool("debug", false, "Enable debug mode with verbose logging")
	configDir := flag.String("config", "", "Directory containing config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}
	if *debugMode {
		cfg.Log.Debug = true
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": cfg.Log.Debug,
		"backend":    cfg.Engine.Backend,
	}).Info("Starting Image Transformer")

	loader, err := imgio.NewImageLoader(logger, imgio.Options{
		Backend:     cfg.Engine.Backend,
		JPEGQuality: cfg.IO.JPEGQuality,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to create image loader")
	}

	workbench := core.NewWorkbench(algorithms.MustGet(cfg.Engine.Backend), loader, logger)

	myApp := app.NewWithID(AppID)
	myApp.SetIcon(theme.DocumentIcon())
	myApp.Settings().SetTheme(theme.DefaultTheme())

	mainApp := gui.NewApplication(myApp, cfg, workbench, logger)
	mainApp.ShowAndRun()

	logger.Info("Application shutting down gracefully")
	os.Exit(0)
}
