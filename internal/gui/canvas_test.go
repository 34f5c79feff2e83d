package gui

import (
	"image"
	"testing"

	"fyne.io/fyne/v2/test"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestCanvasSwapsImages(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	logger, _ := logtest.NewNullLogger()
	ic := NewImageCanvas(logger)

	original := image.NewGray(image.Rect(0, 0, 5, 5))
	transformed := image.NewGray(image.Rect(0, 0, 10, 10))

	ic.SetOriginal(original)
	assert.Same(t, original, ic.OriginalImage())

	ic.SetTransformed(transformed)
	assert.Same(t, transformed, ic.TransformedImage())

	ic.ClearTransformed()
	assert.Equal(t, image.Rect(0, 0, placeholderWidth, placeholderHeight), ic.TransformedImage().Bounds())
}
