// Workbench ties the session image to the transform engine, codecs and metrics
package core

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"

	"image-transformer/internal/algorithms"
	imgio "image-transformer/internal/io"
	"image-transformer/internal/metrics"
)

var (
	ErrNoImage       = errors.New("no image loaded")
	ErrNothingToSave = errors.New("no transformed image to save")
	ErrStaleResult   = errors.New("transform superseded by a newer image, reset or transform")
)

// Result is the outcome of a successful Apply
type Result struct {
	Image    *image.Gray
	Request  algorithms.Request
	Metrics  map[string]float64
	Duration time.Duration
}

// Workbench is the single-image editing session used by the GUI and CLI
type Workbench struct {
	imageData   *ImageData
	engine      algorithms.Engine
	loader      *imgio.ImageLoader
	metricsEval *metrics.Evaluator
	stats       *StatsRecorder
	logger      *logrus.Logger
}

func NewWorkbench(engine algorithms.Engine, loader *imgio.ImageLoader, logger *logrus.Logger) *Workbench {
	return &Workbench{
		imageData:   NewImageData(),
		engine:      engine,
		loader:      loader,
		metricsEval: metrics.NewEvaluator(),
		stats:       NewStatsRecorder(),
		logger:      logger,
	}
}

// ImageData exposes the session state for read access
func (wb *Workbench) ImageData() *ImageData {
	return wb.imageData
}

// Engine reports the transform backend in use
func (wb *Workbench) Engine() algorithms.Engine {
	return wb.engine
}

// Extensions lists the file extensions Load accepts
func (wb *Workbench) Extensions() []string {
	return wb.loader.Extensions()
}

// Load replaces the session image with the file at path
func (wb *Workbench) Load(path string) (_ *image.Gray, err error) {
	start := time.Now()
	defer func() { wb.stats.Record("load", time.Since(start), err) }()

	gray, err := wb.loader.LoadGrayscale(path)
	if err != nil {
		wb.logger.WithError(err).WithField("filepath", path).Error("Failed to load image")
		return nil, err
	}

	if err := wb.imageData.SetOriginal(gray, path); err != nil {
		wb.logger.WithError(err).WithField("filepath", path).Error("Rejected loaded image")
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	return gray, nil
}

// Apply transforms the original image, never a previous result, and
// stores the outcome as the transformed image. A cancelled ctx discards
// the result. So does a Load, Reset or Apply that happens while this one
// runs, reported as ErrStaleResult.
func (wb *Workbench) Apply(ctx context.Context, req algorithms.Request) (Result, error) {
	original, gen := wb.imageData.BeginTransform()
	if original == nil {
		return Result{}, ErrNoImage
	}

	start := time.Now()
	out, err := algorithms.Apply(wb.engine, original, req)
	duration := time.Since(start)
	wb.stats.Record("apply", duration, err)

	fields := logrus.Fields{
		"backend":  wb.engine.Name(),
		"duration": duration,
	}
	if req != nil {
		fields["transform"] = req.String()
	}
	if err != nil {
		wb.logger.WithFields(fields).WithError(err).Error("Transform failed")
		return Result{}, err
	}

	if err := ctx.Err(); err != nil {
		wb.logger.WithFields(fields).Debug("Transform cancelled, result discarded")
		return Result{}, err
	}

	if err := wb.imageData.SetTransformed(out, req, gen); err != nil {
		if errors.Is(err, ErrStaleResult) {
			wb.logger.WithFields(fields).Debug("Transform superseded, result discarded")
		}
		return Result{}, err
	}

	result := Result{
		Image:    out,
		Request:  req,
		Duration: duration,
	}
	if out.Bounds().Size() == original.Bounds().Size() {
		result.Metrics = wb.metricsEval.CalculateAll(original, out)
	}

	fields["width"] = out.Bounds().Dx()
	fields["height"] = out.Bounds().Dy()
	wb.logger.WithFields(fields).Info("Transform applied")

	return result, nil
}

// Save writes the transformed image to path
func (wb *Workbench) Save(path string) (err error) {
	start := time.Now()
	defer func() { wb.stats.Record("save", time.Since(start), err) }()

	if !wb.imageData.HasImage() {
		return ErrNoImage
	}
	out := wb.imageData.GetTransformed()
	if out == nil {
		return ErrNothingToSave
	}

	if err := wb.loader.SaveImage(out, path); err != nil {
		wb.logger.WithError(err).WithField("filepath", path).Error("Failed to save image")
		return err
	}
	return nil
}

// Reset drops the transformed image
func (wb *Workbench) Reset() error {
	return wb.imageData.ResetToOriginal()
}

// Stats returns per-operation counters collected since creation
func (wb *Workbench) Stats() map[string]OperationStats {
	return wb.stats.Snapshot()
}

func (wb *Workbench) Close() {
	wb.imageData.Close()
	wb.stats.LogSummary(wb.logger)
	wb.logger.Debug("Workbench closed")
}
