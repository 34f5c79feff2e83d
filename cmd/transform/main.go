// Headless transform: load one image, apply one transform, save the result

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"image-transformer/internal/algorithms"
	"image-transformer/internal/config"
	"image-transformer/internal/core"
	imgio "image-transformer/internal/io"
	"image-transformer/internal/logging"
)

type options struct {
	in, out   string
	op        string
	angle     float64
	fx, fy    float64
	axis      string
	dx, dy    int
	backend   string
	configDir string
	debug     bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	cfg, err := config.Load(opts.configDir)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}
	if opts.debug {
		cfg.Log.Debug = true
	}
	if opts.backend != "" {
		cfg.Engine.Backend = opts.backend
	}

	logger, err := logging.NewWithOutput(cfg.Log, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "logger error: %v\n", err)
		return 1
	}

	if err := transform(cfg, opts, logger); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"in":  opts.in,
			"out": opts.out,
			"op":  opts.op,
		}).Error("Transform failed")
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("transform", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.in, "in", "", "Input image path")
	fs.StringVar(&opts.out, "out", "", "Output image path (.jpg, .png, .bmp, .tif)")
	fs.StringVar(&opts.op, "op", "", "Transform: rotate, scale, flip or translate")
	fs.Float64Var(&opts.angle, "angle", 0, "Rotation angle in degrees, counter-clockwise")
	fs.Float64Var(&opts.fx, "fx", 1, "Horizontal scale factor")
	fs.Float64Var(&opts.fy, "fy", 1, "Vertical scale factor")
	fs.StringVar(&opts.axis, "axis", "", "Flip axis: horizontal or vertical")
	fs.IntVar(&opts.dx, "dx", 0, "Horizontal offset in pixels")
	fs.IntVar(&opts.dy, "dy", 0, "Vertical offset in pixels")
	fs.StringVar(&opts.backend, "backend", "", "Engine backend: opencv or native (overrides config)")
	fs.StringVar(&opts.configDir, "config", "", "Directory containing config.yaml")
	fs.BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.in == "" || opts.out == "" || opts.op == "" {
		return nil, errors.New("-in, -out and -op are required")
	}
	return opts, nil
}

// request builds the transform from the flags that belong to opts.op
func (opts *options) request() (algorithms.Request, error) {
	kind, err := algorithms.ParseKind(opts.op)
	if err != nil {
		return nil, err
	}

	var first, second string
	switch kind {
	case algorithms.KindRotate:
		first = strconv.FormatFloat(opts.angle, 'g', -1, 64)
	case algorithms.KindScale:
		first = strconv.FormatFloat(opts.fx, 'g', -1, 64)
		second = strconv.FormatFloat(opts.fy, 'g', -1, 64)
	case algorithms.KindFlip:
		first = opts.axis
	case algorithms.KindTranslate:
		first = strconv.Itoa(opts.dx)
		second = strconv.Itoa(opts.dy)
	}
	return algorithms.ParseRequest(kind, first, second)
}

func transform(cfg *config.Config, opts *options, logger *logrus.Logger) error {
	req, err := opts.request()
	if err != nil {
		return err
	}

	engine, ok := algorithms.Get(cfg.Engine.Backend)
	if !ok {
		return fmt.Errorf("unknown backend %q", cfg.Engine.Backend)
	}

	loader, err := imgio.NewImageLoader(logger, imgio.Options{
		Backend:     cfg.Engine.Backend,
		JPEGQuality: cfg.IO.JPEGQuality,
	})
	if err != nil {
		return err
	}

	workbench := core.NewWorkbench(engine, loader, logger)
	defer workbench.Close()

	if _, err := workbench.Load(opts.in); err != nil {
		return err
	}
	if _, err := workbench.Apply(context.Background(), req); err != nil {
		return err
	}
	return workbench.Save(opts.out)
}
