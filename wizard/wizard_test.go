package wizard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tbxark/offerwizard/form"
	"github.com/tbxark/offerwizard/offer"
	"github.com/tbxark/offerwizard/types"
)

func completeData() form.Data {
	return form.Data{
		ExhibitorName:        "Acme",
		Category:             "Software",
		EventName:            "DevCon",
		Goal:                 "Great brand exposure",
		SecondaryActions:     []string{"Demo"},
		IncentiveDescription: "Free onsite demo and swag",
	}
}

func fillAndWalk(t *testing.T, s *Session) {
	t.Helper()
	if err := s.Prefill(completeData()); err != nil {
		t.Fatalf("prefill failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.Next(); err != nil {
			t.Fatalf("next %d failed: %v", i, err)
		}
	}
	if s.Step() != types.StepIncentive {
		t.Fatalf("expected incentive step, got %s", s.Step())
	}
}

func await(t *testing.T, ch <-chan Outcome) Outcome {
	t.Helper()
	select {
	case out := <-ch:
		return out
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outcome")
		return Outcome{}
	}
}

func TestMachineBlocksIncompleteStep(t *testing.T) {
	m := NewMachine()
	data := completeData()
	data.EventName = ""
	if err := m.Update(func(form.Data) (form.Data, error) { return data, nil }); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	err := m.Next()
	var incomplete *form.IncompleteError
	if !errors.As(err, &incomplete) || incomplete.Step != types.StepIdentity {
		t.Fatalf("expected identity step incomplete, got %v", err)
	}
	if m.Step() != types.StepIdentity {
		t.Errorf("machine advanced to %s", m.Step())
	}
}

func TestMachineTransitions(t *testing.T) {
	m := NewMachine()
	if err := m.Back(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("back from identity: %v", err)
	}
	if _, err := m.Submit(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("submit from identity: %v", err)
	}
	_ = m.Update(func(form.Data) (form.Data, error) { return completeData(), nil })
	for m.Step() != types.StepIncentive {
		if err := m.Next(); err != nil {
			t.Fatalf("next failed: %v", err)
		}
	}
	if err := m.Next(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("next from incentive: %v", err)
	}
	if err := m.Back(); err != nil || m.Step() != types.StepActions {
		t.Fatalf("back failed: %v (%s)", err, m.Step())
	}
	_ = m.Next()

	data, err := m.Submit()
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if data.EventName != "DevCon" || m.Step() != types.StepSubmitted {
		t.Fatalf("unexpected submit state %s %+v", m.Step(), data)
	}
	if err := m.Update(func(d form.Data) (form.Data, error) { return d, nil }); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("edit while submitted: %v", err)
	}
	if err := m.Fail(); err != nil || m.Step() != types.StepIncentive {
		t.Fatalf("fail: %v (%s)", err, m.Step())
	}
	if m.Data().EventName != "DevCon" {
		t.Error("failure must keep the input")
	}
	_, _ = m.Submit()
	if err := m.Succeed(); err != nil || m.Step() != types.StepResult {
		t.Fatalf("succeed: %v (%s)", err, m.Step())
	}
	if m.Data().ExhibitorName != "" {
		t.Error("input should be discarded after a result")
	}
	m.Reset()
	if m.Step() != types.StepIdentity {
		t.Errorf("reset step = %s", m.Step())
	}
}

func TestMachineSubmitRechecksAllSteps(t *testing.T) {
	m := NewMachine()
	_ = m.Update(func(form.Data) (form.Data, error) { return completeData(), nil })
	for m.Step() != types.StepIncentive {
		_ = m.Next()
	}
	_ = m.Update(func(d form.Data) (form.Data, error) {
		d.Goal = ""
		return d, nil
	})
	if _, err := m.Submit(); !errors.Is(err, form.ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
	if m.Step() != types.StepIncentive {
		t.Errorf("step changed to %s", m.Step())
	}
}

func TestSessionSubmitSuccess(t *testing.T) {
	s := NewSession(offer.NewService(nil))
	fillAndWalk(t, s)
	ch, err := s.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	out := await(t, ch)
	if out.Err != nil || out.Stale || len(out.Offers) != offer.BatchSize {
		t.Fatalf("unexpected outcome %+v", out)
	}
	snap := s.Snapshot()
	if snap.Step != types.StepResult || snap.Status != StatusReady || len(snap.Offers) != offer.BatchSize {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	out.Offers[0].Title = "mutated"
	if s.Offers()[0].Title == "mutated" {
		t.Error("session offers share storage with the outcome")
	}
}

func TestSessionRejectsSecondSubmit(t *testing.T) {
	release := make(chan struct{})
	blocking := offer.GeneratorFunc(func(ctx context.Context, data form.Data) ([]offer.Option, error) {
		<-release
		return offer.NewLocalGenerator().Build(data), nil
	})
	s := NewSession(blocking)
	fillAndWalk(t, s)
	ch, err := s.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if !s.InFlight() {
		t.Error("expected a submission in flight")
	}
	if _, err := s.Submit(context.Background()); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}
	close(release)
	if out := await(t, ch); out.Err != nil {
		t.Fatalf("unexpected error %v", out.Err)
	}
}

func TestSessionResetDiscardsStaleResult(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var sawCancel bool
	slow := offer.GeneratorFunc(func(ctx context.Context, data form.Data) ([]offer.Option, error) {
		close(started)
		<-release
		sawCancel = ctx.Err() != nil
		return offer.NewLocalGenerator().Build(data), nil
	})
	s := NewSession(slow)
	fillAndWalk(t, s)
	ch, err := s.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	<-started
	s.Reset()
	close(release)

	out := await(t, ch)
	if !out.Stale {
		t.Fatalf("expected stale outcome, got %+v", out)
	}
	if !sawCancel {
		t.Error("reset should cancel the generation context")
	}
	snap := s.Snapshot()
	if snap.Step != types.StepIdentity || snap.Status != StatusIdle || len(snap.Offers) != 0 {
		t.Fatalf("stale result touched the session: %+v", snap)
	}
	if s.InFlight() {
		t.Error("reset should clear the in-flight submission")
	}
}

func TestSessionFailureReturnsToIncentive(t *testing.T) {
	failing := offer.GeneratorFunc(func(ctx context.Context, data form.Data) ([]offer.Option, error) {
		return nil, offer.ErrGenerationEmpty
	})
	s := NewSession(failing)
	fillAndWalk(t, s)
	ch, _ := s.Submit(context.Background())
	out := await(t, ch)
	if !errors.Is(out.Err, offer.ErrGenerationEmpty) {
		t.Fatalf("expected ErrGenerationEmpty, got %v", out.Err)
	}
	snap := s.Snapshot()
	if snap.Step != types.StepIncentive || snap.Status != StatusFailed {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if msg := Guidance(snap, false); !strings.Contains(msg, "Submit again") {
		t.Errorf("guidance should offer a retry: %q", msg)
	}
	if _, err := s.Submit(context.Background()); err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
}

func TestGuidance(t *testing.T) {
	snap := Snapshot{Step: types.StepIdentity}
	if got := Guidance(snap, false); got != "Exhibitor Name is required" {
		t.Errorf("single guidance = %q", got)
	}
	all := Guidance(snap, true)
	for _, want := range []string{"Exhibitor Name", "Category", "Event Name"} {
		if !strings.Contains(all, want) {
			t.Errorf("merged guidance missing %q: %q", want, all)
		}
	}
	snap.Data = completeData()
	if got := Guidance(snap, false); !strings.Contains(got, "looks good") {
		t.Errorf("complete step guidance = %q", got)
	}
	snap.Step = types.StepActions
	snap.Data.SecondaryActions = nil
	if got := Guidance(snap, false); got != "Select at least one incentive type" {
		t.Errorf("actions guidance = %q", got)
	}
}
