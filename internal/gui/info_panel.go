// internal/gui/info_panel.go
// Image details, last transform and difference metrics
package gui

import (
	"fmt"
	"image"
	"math"
	"path/filepath"
	"sort"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"image-transformer/internal/core"
)

// InfoPanel provides the right panel with image details and metrics
type InfoPanel struct {
	logger *logrus.Logger

	container *fyne.Container

	fileLabel        *widget.Label
	originalLabel    *widget.Label
	transformedLabel *widget.Label
	transformLabel   *widget.Label
	durationLabel    *widget.Label

	metricsContent *fyne.Container
	currentMetrics map[string]float64
}

func NewInfoPanel(logger *logrus.Logger) *InfoPanel {
	panel := &InfoPanel{
		logger:         logger,
		currentMetrics: make(map[string]float64),
	}

	panel.initializeUI()
	return panel
}

func (ip *InfoPanel) initializeUI() {
	ip.fileLabel = widget.NewLabel("No image loaded")
	ip.fileLabel.Wrapping = fyne.TextWrapBreak
	ip.originalLabel = widget.NewLabel("Original: -")
	ip.transformedLabel = widget.NewLabel("Transformed: -")
	ip.transformLabel = widget.NewLabel("Last transform: -")
	ip.durationLabel = widget.NewLabel("")

	imageCard := widget.NewCard("Image", "", container.NewVBox(
		ip.fileLabel,
		ip.originalLabel,
		ip.transformedLabel,
	))

	transformCard := widget.NewCard("Transform", "", container.NewVBox(
		ip.transformLabel,
		ip.durationLabel,
	))

	ip.metricsContent = container.NewVBox()
	metricsCard := widget.NewCard("Difference Metrics", "", ip.metricsContent)
	ip.refreshMetricsDisplay()

	ip.container = container.NewVBox(
		imageCard,
		transformCard,
		metricsCard,
	)
}

func (ip *InfoPanel) GetContainer() fyne.CanvasObject {
	return ip.container
}

// ShowImage describes a freshly loaded image and clears transform details
func (ip *InfoPanel) ShowImage(path string, img image.Image) {
	ip.fileLabel.SetText(filepath.Base(path))
	ip.originalLabel.SetText("Original: " + formatSize(img.Bounds().Size()))
	ip.ClearResult()
}

// ShowResult describes the outcome of an applied transform
func (ip *InfoPanel) ShowResult(result core.Result) {
	ip.transformedLabel.SetText("Transformed: " + formatSize(result.Image.Bounds().Size()))
	ip.transformLabel.SetText("Last transform: " + result.Request.String())
	ip.durationLabel.SetText(fmt.Sprintf("Took %s", result.Duration.Round(time.Microsecond)))
	ip.UpdateMetrics(result.Metrics)
}

func (ip *InfoPanel) ClearResult() {
	ip.transformedLabel.SetText("Transformed: -")
	ip.transformLabel.SetText("Last transform: -")
	ip.durationLabel.SetText("")
	ip.UpdateMetrics(nil)
}

func (ip *InfoPanel) UpdateMetrics(metrics map[string]float64) {
	ip.currentMetrics = metrics
	ip.refreshMetricsDisplay()
	ip.logger.WithField("count", len(metrics)).Debug("Metrics display updated")
}

func (ip *InfoPanel) refreshMetricsDisplay() {
	ip.metricsContent.RemoveAll()

	if len(ip.currentMetrics) == 0 {
		ip.metricsContent.Add(widget.NewLabel("Metrics appear when the output keeps the original size."))
		ip.metricsContent.Refresh()
		return
	}

	names := make([]string, 0, len(ip.currentMetrics))
	for name := range ip.currentMetrics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ip.metricsContent.Add(ip.createMetricWidget(name, ip.currentMetrics[name]))
	}

	ip.metricsContent.Refresh()
}

func (ip *InfoPanel) createMetricWidget(name string, value float64) fyne.CanvasObject {
	icon := theme.InfoIcon()
	if (value == 0 && name != "psnr") || math.IsInf(value, 1) {
		icon = theme.ConfirmIcon()
	}

	return container.NewHBox(
		widget.NewIcon(icon),
		widget.NewLabel(formatMetric(name, value)),
	)
}

func formatMetric(name string, value float64) string {
	switch name {
	case "psnr":
		if math.IsInf(value, 1) {
			return "PSNR: identical"
		}
		return fmt.Sprintf("PSNR: %.2f dB", value)
	case "mse":
		return fmt.Sprintf("MSE: %.2f", value)
	case "changed_ratio":
		return fmt.Sprintf("Changed pixels: %.1f%%", value*100)
	default:
		return fmt.Sprintf("%s: %.3f", name, value)
	}
}

func formatSize(size image.Point) string {
	return fmt.Sprintf("%d x %d px", size.X, size.Y)
}
