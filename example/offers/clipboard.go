package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/tbxark/offerwizard/presenter"
)

type systemClipboard struct{}

func (systemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return errors.New("no clipboard utility available on this system")
	}
	return clipboard.WriteAll(text)
}

type terminalNotifier struct {
	w io.Writer
}

func newTerminalNotifier(w io.Writer) *terminalNotifier {
	return &terminalNotifier{w: w}
}

func (n *terminalNotifier) Notify(notification presenter.Notification) {
	_, _ = fmt.Fprintln(n.w, presenter.RenderNotification(notification))
}
