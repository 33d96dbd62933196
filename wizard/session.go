package wizard

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/tbxark/offerwizard/form"
	"github.com/tbxark/offerwizard/offer"
	"github.com/tbxark/offerwizard/types"
)

var ErrInFlight = errors.New("a submission is already in flight")

type Status string

const (
	StatusIdle       Status = "idle"
	StatusGenerating Status = "generating"
	StatusReady      Status = "ready"
	StatusFailed     Status = "failed"
)

// Outcome reports the end of one submission. Stale outcomes belong to a
// submission that was reset away; they never change the session.
type Outcome struct {
	Token  string
	Offers []offer.Option
	Err    error
	Stale  bool
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	Step   types.Step
	Data   form.Data
	Status Status
	Offers []offer.Option
	Err    error
}

// Session is safe for concurrent use. At most one submission is in flight.
type Session struct {
	mu        sync.Mutex
	machine   *Machine
	generator offer.Generator
	status    Status
	token     string
	cancel    context.CancelFunc
	offers    []offer.Option
	lastErr   error
}

func NewSession(generator offer.Generator) *Session {
	return &Session{
		machine:   NewMachine(),
		generator: generator,
		status:    StatusIdle,
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Step:   s.machine.Step(),
		Data:   s.machine.Data(),
		Status: s.status,
		Offers: offer.CloneAll(s.offers),
		Err:    s.lastErr,
	}
}

func (s *Session) Step() types.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Step()
}

func (s *Session) Offers() []offer.Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	return offer.CloneAll(s.offers)
}

func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

func (s *Session) Update(fn func(form.Data) (form.Data, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Update(fn)
}

func (s *Session) Set(pointer, value string) error {
	return s.Update(func(d form.Data) (form.Data, error) {
		return d.Set(pointer, value)
	})
}

func (s *Session) ToggleAction(action string) error {
	return s.Update(func(d form.Data) (form.Data, error) {
		return d.ToggleAction(action)
	})
}

// Prefill merges the non-empty fields of initial into the form.
func (s *Session) Prefill(initial form.Data) error {
	return s.Update(func(d form.Data) (form.Data, error) {
		return d.Prefill(initial)
	})
}

func (s *Session) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Next()
}

func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Back()
}

// Submit starts generating offers from a snapshot of the form. The returned
// channel receives exactly one Outcome and is then closed.
func (s *Session) Submit(ctx context.Context) (<-chan Outcome, error) {
	s.mu.Lock()
	if s.token != "" {
		s.mu.Unlock()
		return nil, ErrInFlight
	}
	data, err := s.machine.Submit()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	token := uuid.NewString()
	callCtx, cancel := context.WithCancel(ctx)
	s.token = token
	s.cancel = cancel
	s.status = StatusGenerating
	s.lastErr = nil
	s.mu.Unlock()

	slog.Debug("submission started", "token", token, "event", data.EventName)
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		defer cancel()
		options, err := s.generator.Generate(callCtx, data)
		out <- s.finish(token, options, err)
	}()
	return out, nil
}

func (s *Session) finish(token string, options []offer.Option, err error) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != token {
		slog.Debug("discarding stale submission", "token", token)
		return Outcome{Token: token, Err: err, Stale: true}
	}
	s.token = ""
	s.cancel = nil
	if err != nil {
		slog.Error("offer generation failed", "token", token, "err", err)
		_ = s.machine.Fail()
		s.status = StatusFailed
		s.lastErr = err
		return Outcome{Token: token, Err: err}
	}
	_ = s.machine.Succeed()
	s.status = StatusReady
	s.offers = offer.CloneAll(options)
	return Outcome{Token: token, Offers: offer.CloneAll(options)}
}

// Reset cancels any outstanding submission and starts over with an empty
// form.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.token = ""
	s.cancel = nil
	s.machine.Reset()
	s.status = StatusIdle
	s.offers = nil
	s.lastErr = nil
}
