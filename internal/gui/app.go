// Main application window wiring the workbench to the widgets
package gui

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"image-transformer/internal/algorithms"
	"image-transformer/internal/config"
	"image-transformer/internal/core"
)

// Application represents the main application window
type Application struct {
	app    fyne.App
	window fyne.Window
	logger *logrus.Logger
	cfg    *config.Config

	workbench *core.Workbench

	// GUI components
	canvas      *ImageCanvas
	controls    *ControlPanel
	infoPanel   *InfoPanel
	menuHandler *MenuHandler
	statusLabel *widget.Label

	// Cancels the transform in flight; only touched on the UI goroutine
	cancelApply context.CancelFunc
}

func NewApplication(app fyne.App, cfg *config.Config, workbench *core.Workbench, logger *logrus.Logger) *Application {
	window := app.NewWindow(cfg.UI.Title)
	window.Resize(fyne.NewSize(cfg.UI.Width, cfg.UI.Height))
	window.CenterOnScreen()

	appInstance := &Application{
		app:       app,
		window:    window,
		logger:    logger,
		cfg:       cfg,
		workbench: workbench,
	}

	appInstance.initializeGUI()
	appInstance.setupLayout()
	appInstance.setupCallbacks()

	return appInstance
}

func (a *Application) initializeGUI() {
	a.canvas = NewImageCanvas(a.logger)
	a.controls = NewControlPanel(a.logger)
	a.infoPanel = NewInfoPanel(a.logger)
	a.menuHandler = NewMenuHandler(a.window, a.cfg.IO.DefaultSaveName,
		a.workbench.Extensions(), a.workbench.Engine().Name(), a.logger)
	a.statusLabel = widget.NewLabel("Load an image to begin")
}

func (a *Application) setupLayout() {
	left := container.NewVScroll(a.controls.GetContainer())
	right := container.NewVScroll(a.infoPanel.GetContainer())

	content := container.NewBorder(
		nil,           // top
		a.statusLabel, // bottom
		left,          // left
		right,         // right
		container.NewPadded(a.canvas.GetContainer()),
	)

	a.window.SetMainMenu(a.menuHandler.GetMainMenu())
	a.window.SetContent(content)
}

func (a *Application) setupCallbacks() {
	a.controls.SetCallbacks(
		a.menuHandler.OpenImage,
		a.ApplyTransform,
		a.menuHandler.SaveImage,
		a.ResetTransform,
		func(err error) {
			a.showError("Invalid parameters", err)
		},
	)

	a.menuHandler.SetCallbacks(
		func(path string) {
			if err := a.LoadImageFromPath(path); err != nil {
				a.showError("Failed to load image", err)
			}
		},
		func(path string) error {
			if err := a.SaveTransformedImage(path); err != nil {
				a.showError("Failed to save image", err)
				return err
			}
			a.showInfo("Image saved", fmt.Sprintf("Image successfully saved to:\n%s", path))
			return nil
		},
		a.ResetTransform,
	)
}

// LoadImageFromPath loads path into the workbench and refreshes the views.
// Must be called on the UI goroutine.
func (a *Application) LoadImageFromPath(path string) error {
	a.cancelPending()

	img, err := a.workbench.Load(path)
	if err != nil {
		return err
	}

	a.canvas.SetOriginal(img)
	a.infoPanel.ShowImage(path, img)
	a.controls.SetImageLoaded(true)
	a.controls.SetHasResult(false)
	a.updateStatusMessage(fmt.Sprintf("Loaded: %s", path))
	return nil
}

// ApplyTransform runs req on a worker goroutine and publishes the result
// through fyne.Do. A newer request cancels an older one still running.
func (a *Application) ApplyTransform(req algorithms.Request) {
	a.cancelPending()

	ctx, cancel := context.WithCancel(context.Background())
	a.cancelApply = cancel
	a.controls.SetBusy(true)
	a.updateStatusMessage(fmt.Sprintf("Applying %s...", req))

	go func() {
		result, err := a.workbench.Apply(ctx, req)
		fyne.Do(func() {
			if ctx.Err() != nil {
				// superseded by a newer request, a reset or a load
				return
			}
			a.controls.SetBusy(false)
			cancel()
			a.cancelApply = nil

			if errors.Is(err, core.ErrStaleResult) {
				return
			}
			if err != nil {
				a.showError("Transform failed", err)
				return
			}

			a.canvas.SetTransformed(result.Image)
			a.infoPanel.ShowResult(result)
			a.controls.SetHasResult(true)
			a.updateStatusMessage(fmt.Sprintf("Applied: %s", result.Request))
		})
	}()
}

func (a *Application) ResetTransform() {
	a.cancelPending()

	if err := a.workbench.Reset(); err != nil {
		if errors.Is(err, core.ErrNoImage) {
			return
		}
		a.showError("Reset failed", err)
		return
	}

	a.canvas.ClearTransformed()
	a.infoPanel.ClearResult()
	a.controls.SetHasResult(false)
	a.updateStatusMessage("Reset to original image")
}

func (a *Application) SaveTransformedImage(path string) error {
	if err := a.workbench.Save(path); err != nil {
		return err
	}
	a.updateStatusMessage(fmt.Sprintf("Saved: %s", path))
	return nil
}

func (a *Application) cancelPending() {
	if a.cancelApply != nil {
		a.cancelApply()
		a.cancelApply = nil
		a.controls.SetBusy(false)
	}
}

func (a *Application) updateStatusMessage(message string) {
	a.statusLabel.SetText(message)
}

func (a *Application) ShowAndRun() {
	a.logger.Info("Showing main application window")

	a.window.SetCloseIntercept(func() {
		a.cleanup()
		a.app.Quit()
	})

	a.window.ShowAndRun()
}

func (a *Application) cleanup() {
	a.logger.Info("Cleaning up application resources")
	a.cancelPending()
	a.workbench.Close()
}

func (a *Application) showError(title string, err error) {
	a.logger.WithError(err).Error(title)
	dialog.ShowError(err, a.window)
	a.updateStatusMessage(fmt.Sprintf("Error: %s", err.Error()))
}

func (a *Application) showInfo(title, message string) {
	a.logger.WithField("message", message).Info(title)
	dialog.ShowInformation(title, message, a.window)
}
