// Menu handler and file dialogs for application actions
package gui

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
)

var saveExtensions = []string{".jpg", ".png"}

// MenuHandler owns the main menu and the file dialogs
type MenuHandler struct {
	window          fyne.Window
	logger          *logrus.Logger
	defaultSaveName string
	openExtensions  []string
	backend         string

	onOpen  func(string)
	onSave  func(string) error
	onReset func()
}

// NewMenuHandler builds the menus. openExtensions filters the open dialog,
// backend is shown in the About dialog.
func NewMenuHandler(window fyne.Window, defaultSaveName string, openExtensions []string, backend string, logger *logrus.Logger) *MenuHandler {
	return &MenuHandler{
		window:          window,
		logger:          logger,
		defaultSaveName: defaultSaveName,
		openExtensions:  openExtensions,
		backend:         backend,
	}
}

func (mh *MenuHandler) GetMainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mh.OpenImage),
		fyne.NewMenuItem("Save Image...", mh.SaveImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Exit", func() {
			mh.window.Close()
		}),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Reset to Original", func() {
			if mh.onReset != nil {
				mh.onReset()
			}
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mh.showAbout),
	)

	return fyne.NewMainMenu(fileMenu, editMenu, helpMenu)
}

// OpenImage asks for an image file and hands its path to the open callback
func (mh *MenuHandler) OpenImage() {
	mh.logger.Debug("Opening file dialog for image selection")

	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mh.showError(err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		if mh.onOpen != nil {
			mh.onOpen(path)
		}
	}, mh.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter(mh.openExtensions))
	fileDialog.Show()
}

// SaveImage asks for a destination and hands its path to the save callback
func (mh *MenuHandler) SaveImage() {
	mh.logger.Debug("Opening file dialog for image saving")

	fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			mh.showError(err)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		mh.saveTo(path)
	}, mh.window)

	fileDialog.SetFileName(mh.defaultSaveName)
	fileDialog.SetFilter(storage.NewExtensionFileFilter(saveExtensions))
	fileDialog.Show()
}

// saveTo hands the chosen path to the save callback. The dialog has
// already created an empty file at path; it is removed when the image
// goes elsewhere or the save fails.
func (mh *MenuHandler) saveTo(path string) {
	target := withDefaultExtension(path, mh.defaultSaveName)
	if target != path {
		mh.removePlaceholder(path)
	}

	if mh.onSave == nil {
		return
	}
	if err := mh.onSave(target); err != nil {
		mh.removePlaceholder(target)
	}
}

func (mh *MenuHandler) removePlaceholder(path string) {
	if err := removeIfEmpty(path); err != nil {
		mh.logger.WithError(err).WithField("filepath", path).Warn("Failed to remove empty file left by the save dialog")
	}
}

// removeIfEmpty deletes path when it is an empty regular file. A missing
// file is not an error.
func removeIfEmpty(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() || info.Size() > 0 {
		return nil
	}
	return os.Remove(path)
}

// withDefaultExtension appends the extension of defaultName when path has none
func withDefaultExtension(path, defaultName string) string {
	if filepath.Ext(path) != "" {
		return path
	}
	ext := filepath.Ext(defaultName)
	if ext == "" {
		ext = ".jpg"
	}
	return path + ext
}

// aboutDetails describes the running configuration for the About dialog
func (mh *MenuHandler) aboutDetails() []string {
	return []string{
		fmt.Sprintf("Transform backend: %s", mh.backend),
		fmt.Sprintf("Opens: %s", strings.Join(mh.openExtensions, " ")),
	}
}

func (mh *MenuHandler) showAbout() {
	content := container.NewVBox(
		widget.NewLabel("Image Transformer"),
		widget.NewSeparator(),
		widget.NewLabel("Rotate, scale, flip and translate grayscale images."),
		widget.NewLabel("Apply always starts from the loaded original."),
		widget.NewSeparator(),
	)
	for _, line := range mh.aboutDetails() {
		content.Add(widget.NewLabel(line))
	}
	content.Add(widget.NewLabel("Built with Go, Fyne and OpenCV"))

	aboutDialog := dialog.NewCustom("About", "Close", content, mh.window)
	aboutDialog.Resize(fyne.NewSize(400, 250))
	aboutDialog.Show()
}

func (mh *MenuHandler) showError(err error) {
	mh.logger.WithError(err).Error("File dialog error")
	dialog.ShowError(err, mh.window)
}

func (mh *MenuHandler) SetCallbacks(onOpen func(string), onSave func(string) error, onReset func()) {
	mh.onOpen = onOpen
	mh.onSave = onSave
	mh.onReset = onReset
}
