// internal/gui/canvas.go
// Side-by-side display of the original and transformed images
package gui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

const (
	placeholderWidth  = 200
	placeholderHeight = 150
)

var placeholderColor = color.Gray{Y: 240}

// ImageCanvas shows the original image next to its transform
type ImageCanvas struct {
	logger *logrus.Logger

	split           *container.Split
	originalView    *widget.Card
	transformedView *widget.Card
	originalImage   *canvas.Image
	transformedImg  *canvas.Image
}

func NewImageCanvas(logger *logrus.Logger) *ImageCanvas {
	ic := &ImageCanvas{
		logger: logger,
	}

	ic.initializeUI()
	return ic
}

func (ic *ImageCanvas) initializeUI() {
	ic.originalImage = newDisplayImage(placeholder())
	ic.transformedImg = newDisplayImage(placeholder())

	ic.originalView = widget.NewCard("Original", "", ic.originalImage)
	ic.transformedView = widget.NewCard("Transformed", "", ic.transformedImg)

	ic.split = container.NewHSplit(ic.originalView, ic.transformedView)
	ic.split.SetOffset(0.5)
}

func newDisplayImage(img image.Image) *canvas.Image {
	display := canvas.NewImageFromImage(img)
	display.FillMode = canvas.ImageFillContain
	display.ScaleMode = canvas.ImageScalePixels
	display.SetMinSize(fyne.NewSize(placeholderWidth, placeholderHeight))
	return display
}

func placeholder() image.Image {
	img := image.NewGray(image.Rect(0, 0, placeholderWidth, placeholderHeight))
	for i := range img.Pix {
		img.Pix[i] = placeholderColor.Y
	}
	return img
}

func (ic *ImageCanvas) GetContainer() fyne.CanvasObject {
	return ic.split
}

// SetOriginal displays img as the original and clears the transformed view
func (ic *ImageCanvas) SetOriginal(img image.Image) {
	ic.setImage(ic.originalImage, img)
	ic.ClearTransformed()
	ic.logger.WithField("bounds", img.Bounds()).Debug("Updated original image display")
}

func (ic *ImageCanvas) SetTransformed(img image.Image) {
	if img.Bounds().Empty() {
		ic.logger.Error("Transformed image has empty bounds")
		return
	}
	ic.setImage(ic.transformedImg, img)
	ic.logger.WithField("bounds", img.Bounds()).Debug("Updated transformed image display")
}

func (ic *ImageCanvas) ClearTransformed() {
	ic.setImage(ic.transformedImg, placeholder())
}

// TransformedImage returns the image currently shown as transformed
func (ic *ImageCanvas) TransformedImage() image.Image {
	return ic.transformedImg.Image
}

func (ic *ImageCanvas) OriginalImage() image.Image {
	return ic.originalImage.Image
}

func (ic *ImageCanvas) setImage(display *canvas.Image, img image.Image) {
	// File and Resource take precedence over Image when set
	display.File = ""
	display.Resource = nil
	display.Image = img
	display.Refresh()
}
