package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"image-transformer/internal/algorithms"
)

func writePNG(t *testing.T, dir string, img image.Image) string {
	t.Helper()
	path := filepath.Join(dir, "in.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func TestRunScale(t *testing.T) {
	dir := t.TempDir()
	in := writePNG(t, dir, image.NewGray(image.Rect(0, 0, 6, 4)))
	out := filepath.Join(dir, "out.png")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-in", in, "-out", out, "-op", "scale", "-fx", "2", "-fy", "0.5",
		"-backend", "native", "-config", dir}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	assert.Equal(t, image.Rect(0, 0, 12, 2), readPNG(t, out).Bounds())
}

func TestRunFlipVertical(t *testing.T) {
	dir := t.TempDir()
	src := image.NewGray(image.Rect(0, 0, 3, 1))
	src.Pix[0] = 255
	in := writePNG(t, dir, src)
	out := filepath.Join(dir, "out.png")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-in", in, "-out", out, "-op", "Flip", "-axis", "vertical",
		"-backend", "native", "-config", dir}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	got := readPNG(t, out).(*image.Gray)
	assert.Equal(t, []uint8{0, 0, 255}, got.Pix)
}

func TestRunFailures(t *testing.T) {
	dir := t.TempDir()
	in := writePNG(t, dir, image.NewGray(image.Rect(0, 0, 2, 2)))

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"missing flags", []string{"-op", "rotate"}, 2},
		{"unknown flag", []string{"-zoom", "2"}, 2},
		{"missing input", []string{"-in", filepath.Join(dir, "nope.png"), "-out", filepath.Join(dir, "o.png"), "-op", "rotate"}, 1},
		{"bad axis", []string{"-in", in, "-out", filepath.Join(dir, "o.png"), "-op", "flip", "-axis", "diagonal"}, 1},
		{"bad scale", []string{"-in", in, "-out", filepath.Join(dir, "o.png"), "-op", "scale", "-fx", "0"}, 1},
		{"unknown op", []string{"-in", in, "-out", filepath.Join(dir, "o.png"), "-op", "shear"}, 1},
		{"unknown backend", []string{"-in", in, "-out", filepath.Join(dir, "o.png"), "-op", "rotate", "-backend", "gpu"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			args := append(tt.args, "-config", dir)
			assert.Equal(t, tt.code, run(args, &stdout, &stderr))
		})
	}
}

func TestOptionsRequest(t *testing.T) {
	opts := &options{op: "translate", dx: 3, dy: -2}
	req, err := opts.request()
	require.NoError(t, err)
	assert.Equal(t, algorithms.Translate{DX: 3, DY: -2}, req)

	opts = &options{op: "rotate", angle: 12.5}
	req, err = opts.request()
	require.NoError(t, err)
	assert.Equal(t, algorithms.Rotate{AngleDegrees: 12.5}, req)
}
