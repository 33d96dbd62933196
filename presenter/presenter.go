// Package presenter holds a generated batch for display, lets the user
// collect one offer and copies it to the clipboard.
package presenter

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tbxark/offerwizard/offer"
)

var (
	ErrNoSelection = errors.New("no offer collected")
	ErrOutOfRange  = errors.New("offer index out of range")
	ErrNoClipboard = errors.New("clipboard unavailable")
)

// Clipboard copies text to the system clipboard.
type Clipboard interface {
	WriteText(text string) error
}

// Notifier shows a short user-visible message.
type Notifier interface {
	Notify(n Notification)
}

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

type Notification struct {
	Level   Level
	Title   string
	Message string
}

type Presenter struct {
	mu        sync.Mutex
	options   []offer.Option
	selected  int
	clipboard Clipboard
	notifier  Notifier
}

// New takes ownership of a copy of options. clipboard and notifier may be
// nil.
func New(options []offer.Option, clipboard Clipboard, notifier Notifier) (*Presenter, error) {
	if len(options) != offer.BatchSize {
		return nil, fmt.Errorf("%w: presenter needs %d offers, got %d", offer.ErrGenerationEmpty, offer.BatchSize, len(options))
	}
	return &Presenter{
		options:   offer.CloneAll(options),
		selected:  -1,
		clipboard: clipboard,
		notifier:  notifier,
	}, nil
}

func (p *Presenter) Options() []offer.Option {
	return offer.CloneAll(p.options)
}

// Collect marks option i as the chosen offer and returns it.
func (p *Presenter) Collect(i int) (offer.Option, error) {
	if i < 0 || i >= len(p.options) {
		return offer.Option{}, fmt.Errorf("%w: %d", ErrOutOfRange, i)
	}
	p.mu.Lock()
	p.selected = i
	p.mu.Unlock()
	slog.Debug("offer collected", "index", i)
	p.notify(Notification{Level: LevelSuccess, Title: "Offer collected", Message: p.options[i].Title})
	return p.options[i].Clone(), nil
}

func (p *Presenter) Selected() (offer.Option, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected < 0 {
		return offer.Option{}, false
	}
	return p.options[p.selected].Clone(), true
}

// CopySelected writes the collected offer to the clipboard and notifies the
// user of the result.
func (p *Presenter) CopySelected() error {
	o, ok := p.Selected()
	if !ok {
		return ErrNoSelection
	}
	if p.clipboard == nil {
		p.notify(Notification{Level: LevelError, Title: "Copy failed", Message: ErrNoClipboard.Error()})
		return ErrNoClipboard
	}
	if err := p.clipboard.WriteText(CopyText(o)); err != nil {
		slog.Warn("copy to clipboard failed", "err", err)
		p.notify(Notification{Level: LevelError, Title: "Copy failed", Message: err.Error()})
		return fmt.Errorf("copy offer: %w", err)
	}
	p.notify(Notification{Level: LevelSuccess, Title: "Copied", Message: "Offer details copied to clipboard"})
	return nil
}

func (p *Presenter) notify(n Notification) {
	if p.notifier != nil {
		p.notifier.Notify(n)
	}
}
