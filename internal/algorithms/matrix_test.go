package algorithms

import (
	"errors"
	"fmt"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/math/f64"
)

func TestRotationMatrixKeepsCentreFixed(t *testing.T) {
	m := RotationMatrix(3.5, 2, 37, 1)
	x, y := m.Transform(3.5, 2)
	assert.InDelta(t, 3.5, x, 1e-12)
	assert.InDelta(t, 2.0, y, 1e-12)
}

func TestRotationMatrixDirection(t *testing.T) {
	// A point to the right of the centre moves up on screen for +90°.
	m := RotationMatrix(0, 0, 90, 1)
	x, y := m.Transform(1, 0)
	assert.InDelta(t, 0.0, x, 1e-12)
	assert.InDelta(t, -1.0, y, 1e-12)
}

func TestRotationMatrixZeroIsIdentity(t *testing.T) {
	m := RotationMatrix(10, 20, 0, 1)
	assert.Equal(t, Identity, m)
}

func TestTranslationMatrix(t *testing.T) {
	m := TranslationMatrix(3, -2)
	x, y := m.Transform(1, 1)
	assert.Equal(t, 4.0, x)
	assert.Equal(t, -1.0, y)
	assert.Equal(t, [2][3]float64{{1, 0, 3}, {0, 1, -2}}, m.Rows())
}

func TestAff3PixelCentres(t *testing.T) {
	// Pure translations are unaffected by the half pixel shift.
	assert.Equal(t, f64.Aff3{1, 0, 3, 0, 1, -2}, TranslationMatrix(3, -2).Aff3())

	// The rotation centre moves by half a pixel in x/image coordinates.
	m := RotationMatrix(4, 4, 90, 1).Aff3()
	x := m[0]*4.5 + m[1]*4.5 + m[2]
	y := m[3]*4.5 + m[4]*4.5 + m[5]
	assert.InDelta(t, 4.5, x, 1e-12)
	assert.InDelta(t, 4.5, y, 1e-12)
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		w, h   int
		fx, fy float64
		want   image.Point
	}{
		{w: 4, h: 3, fx: 2, fy: 2, want: image.Pt(8, 6)},
		{w: 5, h: 7, fx: 0.5, fy: 0.5, want: image.Pt(2, 4)},
		{w: 3, h: 3, fx: 0.5, fy: 0.5, want: image.Pt(2, 2)},
		{w: 10, h: 10, fx: 0.333, fy: 1.26, want: image.Pt(3, 13)},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dx%d*%gx%g", tt.w, tt.h, tt.fx, tt.fy), func(t *testing.T) {
			got, err := ScaledSize(tt.w, tt.h, tt.fx, tt.fy)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ScaledSize(1, 1, 0.4, 1)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}
