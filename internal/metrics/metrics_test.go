package metrics

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filled(w, h int, v uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestIdenticalImages(t *testing.T) {
	a := filled(4, 3, 90)
	b := filled(4, 3, 90)

	results := NewEvaluator().CalculateAll(a, b)
	assert.Equal(t, 0.0, results["mse"])
	assert.True(t, math.IsInf(results["psnr"], 1))
	assert.Equal(t, 0.0, results["changed_ratio"])
}

func TestKnownDifference(t *testing.T) {
	a := filled(2, 2, 0)
	b := filled(2, 2, 0)
	b.Pix[0] = 10

	e := NewEvaluator()

	mse, err := e.Calculate("mse", a, b)
	require.NoError(t, err)
	assert.Equal(t, 25.0, mse)

	psnr, err := e.Calculate("psnr", a, b)
	require.NoError(t, err)
	assert.InDelta(t, 20*math.Log10(255.0/5), psnr, 1e-9)

	ratio, err := e.Calculate("changed_ratio", a, b)
	require.NoError(t, err)
	assert.Equal(t, 0.25, ratio)
}

func TestSubImagesCompareByPosition(t *testing.T) {
	big := filled(6, 6, 0)
	big.Pix[2*big.Stride+2] = 200
	sub := big.SubImage(image.Rect(2, 2, 4, 4)).(*image.Gray)

	other := filled(2, 2, 0)
	other.Pix[0] = 200

	ratio, err := NewEvaluator().Calculate("changed_ratio", sub, other)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ratio)
}

func TestDimensionMismatch(t *testing.T) {
	e := NewEvaluator()

	_, err := e.Calculate("mse", filled(2, 2, 0), filled(3, 2, 0))
	assert.Error(t, err)
	assert.Empty(t, e.CalculateAll(filled(2, 2, 0), filled(2, 3, 0)))

	_, err = e.Calculate("mse", nil, filled(1, 1, 0))
	assert.Error(t, err)
}

func TestUnknownMetric(t *testing.T) {
	_, err := NewEvaluator().Calculate("ssim", filled(1, 1, 0), filled(1, 1, 0))
	assert.EqualError(t, err, "metric not found: ssim")
}

func TestRegisteredMetrics(t *testing.T) {
	e := NewEvaluator()
	assert.Equal(t, []string{"changed_ratio", "mse", "psnr"}, e.Names())

	m, ok := e.Get("psnr")
	require.True(t, ok)
	assert.True(t, m.IsHigherBetter())
	assert.Equal(t, "PSNR", m.GetName())

	m, ok = e.Get("mse")
	require.True(t, ok)
	assert.False(t, m.IsHigherBetter())
}

func TestMetricsMatchPixelSums(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 7, 5))
	b := image.NewGray(image.Rect(0, 0, 7, 5))
	var sum float64
	changed := 0
	for i := range a.Pix {
		a.Pix[i] = uint8(i * 9)
		b.Pix[i] = uint8(i*9 + i%3)
		d := float64(a.Pix[i]) - float64(b.Pix[i])
		sum += d * d
		if d != 0 {
			changed++
		}
	}
	n := float64(len(a.Pix))

	results := NewEvaluator().CalculateAll(a, b)
	assert.InDelta(t, sum/n, results["mse"], 1e-9)
	assert.InDelta(t, 10*math.Log10(255*255/(sum/n)), results["psnr"], 1e-6)
	assert.InDelta(t, float64(changed)/n, results["changed_ratio"], 1e-12)
}
