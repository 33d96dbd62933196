package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/tbxark/offerwizard/form"
	"github.com/tbxark/offerwizard/patch"
	"github.com/tbxark/offerwizard/presenter"
	"github.com/tbxark/offerwizard/types"
	"github.com/tbxark/offerwizard/wizard"
)

const (
	menuGenerate  = "Generate offers"
	menuBack      = "Back"
	menuStartOver = "Start over"
	menuCopy      = "Copy offer to clipboard"
	menuOffers    = "Back to offers"
	menuQuit      = "Quit"
)

type Runner struct {
	driver    PromptDriver
	session   *wizard.Session
	clipboard presenter.Clipboard
	notifier  presenter.Notifier
}

func NewRunner(driver PromptDriver, session *wizard.Session, clipboard presenter.Clipboard, notifier presenter.Notifier) *Runner {
	return &Runner{
		driver:    driver,
		session:   session,
		clipboard: clipboard,
		notifier:  notifier,
	}
}

// Run drives the wizard until the user quits. An interrupt ends the run
// without error.
func (r *Runner) Run(ctx context.Context) error {
	for {
		done, err := r.step(ctx)
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

func (r *Runner) step(ctx context.Context) (bool, error) {
	snap := r.session.Snapshot()
	if snap.Step.IsInput() {
		if err := r.driver.Info(ctx, fmt.Sprintf("== Step %d of %d: %s ==", int(snap.Step), len(types.InputSteps), snap.Step.Title())); err != nil {
			return false, err
		}
	}
	switch snap.Step {
	case types.StepIdentity:
		return false, r.identity(ctx, snap.Data)
	case types.StepGoal:
		return false, r.goal(ctx, snap.Data)
	case types.StepActions:
		return false, r.actions(ctx, snap.Data)
	case types.StepIncentive:
		return false, r.incentive(ctx, snap.Data)
	case types.StepResult:
		return r.result(ctx, snap)
	default:
		return false, fmt.Errorf("unexpected wizard step %s", snap.Step)
	}
}

func (r *Runner) identity(ctx context.Context, data form.Data) error {
	fields := []struct {
		pointer string
		label   string
		current string
	}{
		{"/exhibitorName", "Exhibitor name", data.ExhibitorName},
		{"/category", "Category", data.Category},
		{"/eventName", "Event name", data.EventName},
		{"/stand", "Stand (optional)", data.Stand},
	}
	for _, field := range fields {
		value, err := r.driver.Input(ctx, InputConfig{Message: field.label, Default: field.current})
		if err != nil {
			return err
		}
		if err := r.session.Set(field.pointer, strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return r.advance(ctx)
}

func (r *Runner) goal(ctx context.Context, data form.Data) error {
	options := append(slices.Clone(types.Goals), menuBack)
	defaultIndex := slices.Index(types.Goals, data.Goal)
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      "What is your main goal for this event?",
		Options:      options,
		DefaultIndex: max(defaultIndex, 0),
		PageSize:     len(options),
	})
	if err != nil {
		return err
	}
	if idx < 0 || options[idx] == menuBack {
		return r.session.Back()
	}
	if err := r.session.Set("/goal", types.Goals[idx]); err != nil {
		return err
	}
	return r.advance(ctx)
}

func (r *Runner) actions(ctx context.Context, data form.Data) error {
	var defaults []int
	for i, action := range types.SecondaryActions {
		if data.HasAction(action) {
			defaults = append(defaults, i)
		}
	}
	indices, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  "Which incentive types will you offer? (select none to go back)",
		Options:  types.SecondaryActions,
		Defaults: defaults,
		PageSize: len(types.SecondaryActions),
	})
	if err != nil {
		return err
	}
	if len(indices) == 0 {
		return r.session.Back()
	}
	selected := make([]string, 0, len(indices))
	for _, i := range indices {
		selected = append(selected, types.SecondaryActions[i])
	}
	err = r.session.Update(func(d form.Data) (form.Data, error) {
		return d.Apply([]patch.Operation{patch.Replace("/secondaryActions", selected)})
	})
	if err != nil {
		return err
	}
	return r.advance(ctx)
}

func (r *Runner) incentive(ctx context.Context, data form.Data) error {
	if msg := wizard.Guidance(r.session.Snapshot(), true); msg != "" {
		if err := r.driver.Info(ctx, msg); err != nil {
			return err
		}
	}
	text, err := r.driver.TextArea(ctx, TextAreaConfig{
		Message: "Describe your incentive",
		Default: data.IncentiveDescription,
	})
	if err != nil {
		return err
	}
	if err := r.session.Set("/incentiveDescription", strings.TrimSpace(text)); err != nil {
		return err
	}
	menu := []string{menuGenerate, menuBack, menuStartOver}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: "Ready?", Options: menu})
	if err != nil {
		return err
	}
	switch menu[max(idx, 0)] {
	case menuBack:
		return r.session.Back()
	case menuStartOver:
		r.session.Reset()
		return nil
	}
	return r.submit(ctx)
}

func (r *Runner) submit(ctx context.Context) error {
	outcomes, err := r.session.Submit(ctx)
	if err != nil {
		var incomplete *form.IncompleteError
		if errors.As(err, &incomplete) {
			return r.driver.Info(ctx, types.FormatMissingFields(incomplete.Missing))
		}
		return err
	}
	if err := r.driver.Info(ctx, wizard.Guidance(r.session.Snapshot(), false)); err != nil {
		return err
	}
	outcome := <-outcomes
	if outcome.Err != nil {
		r.notify(presenter.Notification{Level: presenter.LevelError, Title: "Generation failed", Message: outcome.Err.Error()})
	}
	return nil
}

func (r *Runner) result(ctx context.Context, snap wizard.Snapshot) (bool, error) {
	p, err := presenter.New(snap.Offers, r.clipboard, r.notifier)
	if err != nil {
		slog.Error("cannot present offers", "err", err)
		r.session.Reset()
		return false, nil
	}
	if err := r.driver.Info(ctx, presenter.RenderOptions(p.Options(), -1)); err != nil {
		return false, err
	}
	titles := make([]string, 0, len(snap.Offers))
	for i, o := range p.Options() {
		titles = append(titles, fmt.Sprintf("%d. %s", i+1, o.Title))
	}
	idx, err := r.driver.Select(ctx, SelectConfig{Message: wizard.Guidance(snap, false), Options: titles})
	if err != nil {
		return false, err
	}
	collected, err := p.Collect(idx)
	if err != nil {
		return false, err
	}
	if err := r.driver.Info(ctx, presenter.RenderRedemption(collected)); err != nil {
		return false, err
	}

	menu := []string{menuCopy, menuOffers, menuStartOver, menuQuit}
	for {
		choice, err := r.driver.Select(ctx, SelectConfig{Message: "What next?", Options: menu})
		if err != nil {
			return false, err
		}
		switch menu[max(choice, 0)] {
		case menuCopy:
			if err := p.CopySelected(); err != nil {
				slog.Debug("copy failed", "err", err)
			}
		case menuOffers:
			return false, nil
		case menuStartOver:
			r.session.Reset()
			return false, nil
		default:
			return true, nil
		}
	}
}

func (r *Runner) advance(ctx context.Context) error {
	err := r.session.Next()
	if errors.Is(err, form.ErrIncomplete) {
		return r.driver.Info(ctx, wizard.Guidance(r.session.Snapshot(), true))
	}
	return err
}

func (r *Runner) notify(n presenter.Notification) {
	if r.notifier != nil {
		r.notifier.Notify(n)
	}
}
