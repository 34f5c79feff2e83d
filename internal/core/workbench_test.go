package core

import (
	"context"
	"image"
	"path/filepath"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-transformer/internal/algorithms"
	imgio "image-transformer/internal/io"
)

func newTestWorkbench(t *testing.T) *Workbench {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	loader, err := imgio.NewImageLoader(logger, imgio.Options{Backend: algorithms.BackendNative})
	require.NoError(t, err)
	wb := NewWorkbench(algorithms.MustGet(algorithms.BackendNative), loader, logger)
	t.Cleanup(wb.Close)
	return wb
}

func pattern(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*img.Stride+x] = uint8(x*20 + y*7)
		}
	}
	return img
}

// loadPattern saves a pattern to disk and loads it into the workbench.
func loadPattern(t *testing.T, wb *Workbench, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.png")
	require.NoError(t, wb.loader.SaveImage(pattern(w, h), path))
	_, err := wb.Load(path)
	require.NoError(t, err)
	return path
}

func TestApplyWithoutImage(t *testing.T) {
	wb := newTestWorkbench(t)

	_, err := wb.Apply(context.Background(), algorithms.Rotate{AngleDegrees: 10})
	assert.ErrorIs(t, err, ErrNoImage)
	assert.ErrorIs(t, wb.Save(filepath.Join(t.TempDir(), "x.png")), ErrNoImage)
	assert.ErrorIs(t, wb.Reset(), ErrNoImage)
}

func TestSaveWithoutTransform(t *testing.T) {
	wb := newTestWorkbench(t)
	loadPattern(t, wb, 6, 4)

	err := wb.Save(filepath.Join(t.TempDir(), "out.png"))
	assert.ErrorIs(t, err, ErrNothingToSave)
}

func TestLoadMissingFile(t *testing.T) {
	wb := newTestWorkbench(t)

	_, err := wb.Load(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.ErrorIs(t, err, algorithms.ErrNotFound)
	assert.False(t, wb.ImageData().HasImage())
}

func TestApplyAlwaysUsesOriginal(t *testing.T) {
	wb := newTestWorkbench(t)
	loadPattern(t, wb, 6, 4)
	ctx := context.Background()

	first, err := wb.Apply(ctx, algorithms.Flip{Axis: algorithms.AxisVertical})
	require.NoError(t, err)
	second, err := wb.Apply(ctx, algorithms.Flip{Axis: algorithms.AxisVertical})
	require.NoError(t, err)

	assert.Equal(t, first.Image.Pix, second.Image.Pix, "flipping twice from the original gives the same result")
	assert.NotEqual(t, wb.ImageData().GetOriginal().Pix, second.Image.Pix)
	assert.Equal(t, algorithms.Flip{Axis: algorithms.AxisVertical}, wb.ImageData().LastRequest())
}

func TestApplyComputesMetricsForSameSize(t *testing.T) {
	wb := newTestWorkbench(t)
	loadPattern(t, wb, 6, 4)
	ctx := context.Background()

	res, err := wb.Apply(ctx, algorithms.Rotate{AngleDegrees: 0})
	require.NoError(t, err)
	require.NotNil(t, res.Metrics)
	assert.Equal(t, 0.0, res.Metrics["mse"])

	res, err = wb.Apply(ctx, algorithms.Scale{FactorX: 2, FactorY: 2})
	require.NoError(t, err)
	assert.Equal(t, image.Pt(12, 8), res.Image.Bounds().Size())
	assert.Nil(t, res.Metrics)
}

func TestApplyInvalidRequestKeepsPreviousResult(t *testing.T) {
	wb := newTestWorkbench(t)
	loadPattern(t, wb, 6, 4)
	ctx := context.Background()

	_, err := wb.Apply(ctx, algorithms.Translate{DX: 1})
	require.NoError(t, err)

	_, err = wb.Apply(ctx, algorithms.Scale{FactorX: 0, FactorY: 1})
	assert.ErrorIs(t, err, algorithms.ErrInvalidParameter)
	assert.Equal(t, algorithms.Translate{DX: 1}, wb.ImageData().LastRequest())
}

func TestApplyCancelled(t *testing.T) {
	wb := newTestWorkbench(t)
	loadPattern(t, wb, 6, 4)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := wb.Apply(ctx, algorithms.Rotate{AngleDegrees: 90})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, wb.ImageData().HasTransformed())
}

func TestSaveAndReset(t *testing.T) {
	wb := newTestWorkbench(t)
	loadPattern(t, wb, 6, 4)

	res, err := wb.Apply(context.Background(), algorithms.Flip{Axis: algorithms.AxisHorizontal})
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, wb.Save(out))

	saved, err := wb.loader.LoadGrayscale(out)
	require.NoError(t, err)
	assert.Equal(t, res.Image.Pix, saved.Pix)

	require.NoError(t, wb.Reset())
	assert.False(t, wb.ImageData().HasTransformed())
	assert.ErrorIs(t, wb.Save(out), ErrNothingToSave)
}

func TestLoadReplacesTransform(t *testing.T) {
	wb := newTestWorkbench(t)
	path := loadPattern(t, wb, 6, 4)

	_, err := wb.Apply(context.Background(), algorithms.Rotate{AngleDegrees: 30})
	require.NoError(t, err)

	_, err = wb.Load(path)
	require.NoError(t, err)
	assert.False(t, wb.ImageData().HasTransformed())
	assert.Nil(t, wb.ImageData().LastRequest())
}

// interruptingEngine runs between computing a rotation and storing it.
type interruptingEngine struct {
	algorithms.Engine
	during func()
}

func (e *interruptingEngine) Rotate(src *image.Gray, angle float64) (*image.Gray, error) {
	out, err := e.Engine.Rotate(src, angle)
	e.during()
	return out, err
}

func TestApplyDiscardsResultSupersededMidway(t *testing.T) {
	tests := []struct {
		name  string
		event func(t *testing.T, wb *Workbench, path string)
	}{
		{name: "reset", event: func(t *testing.T, wb *Workbench, _ string) {
			require.NoError(t, wb.Reset())
		}},
		{name: "load", event: func(t *testing.T, wb *Workbench, path string) {
			_, err := wb.Load(path)
			require.NoError(t, err)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := newTestWorkbench(t)
			path := loadPattern(t, wb, 6, 4)

			_, err := wb.Apply(context.Background(), algorithms.Flip{Axis: algorithms.AxisVertical})
			require.NoError(t, err)

			wb.engine = &interruptingEngine{
				Engine: algorithms.NewNativeEngine(),
				during: func() { tt.event(t, wb, path) },
			}

			_, err = wb.Apply(context.Background(), algorithms.Rotate{AngleDegrees: 30})
			assert.ErrorIs(t, err, ErrStaleResult)
			assert.False(t, wb.ImageData().HasTransformed())
			assert.ErrorIs(t, wb.Save(filepath.Join(t.TempDir(), "out.png")), ErrNothingToSave)
		})
	}
}

func TestWorkbenchDescribesBackend(t *testing.T) {
	wb := newTestWorkbench(t)

	assert.Equal(t, algorithms.BackendNative, wb.Engine().Name())
	assert.Equal(t, wb.loader.Extensions(), wb.Extensions())
	assert.Contains(t, wb.Extensions(), ".png")
}
