// internal/gui/control_panel.go
// Transform selection, parameter entry and file actions
package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"image-transformer/internal/algorithms"
)

// paramField describes one parameter entry for a transform kind
type paramField struct {
	label       string
	placeholder string
}

var kindFields = map[algorithms.Kind][]paramField{
	algorithms.KindRotate: {
		{label: "Angle (degrees)", placeholder: "e.g. 45"},
	},
	algorithms.KindScale: {
		{label: "Factor X", placeholder: "e.g. 1.5"},
		{label: "Factor Y", placeholder: "e.g. 1.5"},
	},
	algorithms.KindFlip: {
		{label: "Axis (horizontal or vertical)", placeholder: "horizontal"},
	},
	algorithms.KindTranslate: {
		{label: "Offset X (px)", placeholder: "e.g. 20"},
		{label: "Offset Y (px)", placeholder: "e.g. -10"},
	},
}

type ControlPanel struct {
	logger *logrus.Logger

	container *fyne.Container

	loadBtn  *widget.Button
	applyBtn *widget.Button
	saveBtn  *widget.Button
	resetBtn *widget.Button

	kindSelect  *widget.Select
	firstLabel  *widget.Label
	firstEntry  *widget.Entry
	secondLabel *widget.Label
	secondEntry *widget.Entry

	kind      algorithms.Kind
	hasImage  bool
	hasResult bool
	busy      bool

	// Callbacks
	onLoad  func()
	onApply func(algorithms.Request)
	onSave  func()
	onReset func()
	onError func(error)
}

func NewControlPanel(logger *logrus.Logger) *ControlPanel {
	panel := &ControlPanel{
		logger: logger,
		kind:   algorithms.KindRotate,
	}

	panel.initializeUI()
	return panel
}

func (cp *ControlPanel) initializeUI() {
	cp.loadBtn = widget.NewButtonWithIcon("Load Image", theme.FolderOpenIcon(), func() {
		if cp.onLoad != nil {
			cp.onLoad()
		}
	})
	cp.loadBtn.Importance = widget.HighImportance

	cp.firstLabel = widget.NewLabel("")
	cp.firstEntry = widget.NewEntry()
	cp.secondLabel = widget.NewLabel("")
	cp.secondEntry = widget.NewEntry()

	cp.kindSelect = widget.NewSelect(algorithms.Labels(), nil)

	cp.applyBtn = widget.NewButtonWithIcon("Apply", theme.ConfirmIcon(), cp.apply)
	cp.applyBtn.Importance = widget.HighImportance

	cp.saveBtn = widget.NewButtonWithIcon("Save Image", theme.DocumentSaveIcon(), func() {
		if cp.onSave != nil {
			cp.onSave()
		}
	})

	cp.resetBtn = widget.NewButtonWithIcon("Reset", theme.ViewRefreshIcon(), func() {
		if cp.onReset != nil {
			cp.onReset()
		}
	})

	transformCard := widget.NewCard("Transform", "", container.NewVBox(
		cp.kindSelect,
		widget.NewSeparator(),
		cp.firstLabel,
		cp.firstEntry,
		cp.secondLabel,
		cp.secondEntry,
		cp.applyBtn,
	))

	fileCard := widget.NewCard("Image", "", container.NewVBox(
		cp.loadBtn,
		cp.saveBtn,
		cp.resetBtn,
	))

	cp.container = container.NewVBox(
		fileCard,
		transformCard,
	)

	// Set callback after initialization
	cp.kindSelect.OnChanged = func(label string) {
		kind, err := algorithms.ParseKind(label)
		if err != nil {
			cp.logger.WithError(err).Warn("Unknown transform selected")
			return
		}
		cp.setKind(kind)
	}
	cp.kindSelect.SetSelected(cp.kind.Label())

	cp.updateButtons()
}

// setKind shows the parameter fields the transform needs and hides the rest
func (cp *ControlPanel) setKind(kind algorithms.Kind) {
	cp.kind = kind
	fields := kindFields[kind]

	cp.firstEntry.SetText("")
	cp.secondEntry.SetText("")

	cp.firstLabel.SetText(fields[0].label)
	cp.firstEntry.SetPlaceHolder(fields[0].placeholder)

	if len(fields) > 1 {
		cp.secondLabel.SetText(fields[1].label)
		cp.secondEntry.SetPlaceHolder(fields[1].placeholder)
		cp.secondLabel.Show()
		cp.secondEntry.Show()
	} else {
		cp.secondLabel.Hide()
		cp.secondEntry.Hide()
	}

	cp.logger.WithField("transform", kind.Token()).Debug("Transform selected")
}

func (cp *ControlPanel) apply() {
	req, err := algorithms.ParseRequest(cp.kind, cp.firstEntry.Text, cp.secondEntry.Text)
	if err != nil {
		if cp.onError != nil {
			cp.onError(err)
		}
		return
	}

	if cp.onApply != nil {
		cp.onApply(req)
	}
}

func (cp *ControlPanel) updateButtons() {
	setEnabled(cp.loadBtn, !cp.busy)
	setEnabled(cp.applyBtn, cp.hasImage && !cp.busy)
	setEnabled(cp.saveBtn, cp.hasResult && !cp.busy)
	setEnabled(cp.resetBtn, cp.hasResult && !cp.busy)
}

func setEnabled(w fyne.Disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}

// SetImageLoaded enables applying transforms once an image is present
func (cp *ControlPanel) SetImageLoaded(loaded bool) {
	cp.hasImage = loaded
	cp.updateButtons()
}

// SetHasResult enables saving and resetting when a transformed image exists
func (cp *ControlPanel) SetHasResult(hasResult bool) {
	cp.hasResult = hasResult
	cp.updateButtons()
}

// SetBusy disables the actions while a transform is running
func (cp *ControlPanel) SetBusy(busy bool) {
	cp.busy = busy
	cp.updateButtons()
}

func (cp *ControlPanel) Kind() algorithms.Kind {
	return cp.kind
}

func (cp *ControlPanel) GetContainer() fyne.CanvasObject {
	return cp.container
}

func (cp *ControlPanel) SetCallbacks(
	onLoad func(),
	onApply func(algorithms.Request),
	onSave func(),
	onReset func(),
	onError func(error),
) {
	cp.onLoad = onLoad
	cp.onApply = onApply
	cp.onSave = onSave
	cp.onReset = onReset
	cp.onError = onError
}
