package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tbxark/offerwizard/form"
	"github.com/tbxark/offerwizard/offer"
	"github.com/tbxark/offerwizard/presenter"
	"github.com/tbxark/offerwizard/types"
	"github.com/tbxark/offerwizard/wizard"
)

type scriptedDriver struct {
	inputs  []string
	selects []int
	multis  [][]int
	texts   []string
	infos   []string
}

func (d *scriptedDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", ErrAborted
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return 0, ErrAborted
	}
	v := d.selects[0]
	d.selects = d.selects[1:]
	return v, nil
}

func (d *scriptedDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	if len(d.multis) == 0 {
		return nil, ErrAborted
	}
	v := d.multis[0]
	d.multis = d.multis[1:]
	return v, nil
}

func (d *scriptedDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	if len(d.texts) == 0 {
		return "", ErrAborted
	}
	v := d.texts[0]
	d.texts = d.texts[1:]
	return v, nil
}

func (d *scriptedDriver) Info(ctx context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

type memoryClipboard struct {
	text string
}

func (c *memoryClipboard) WriteText(text string) error {
	c.text = text
	return nil
}

type memoryNotifier struct {
	titles []string
}

func (n *memoryNotifier) Notify(notification presenter.Notification) {
	n.titles = append(n.titles, notification.Title)
}

func goalIndex(t *testing.T, goal string) int {
	t.Helper()
	for i, g := range types.Goals {
		if g == goal {
			return i
		}
	}
	t.Fatalf("unknown goal %q", goal)
	return -1
}

func TestRunnerHappyPath(t *testing.T) {
	driver := &scriptedDriver{
		inputs:  []string{"Acme", "Software", "DevCon", ""},
		selects: []int{goalIndex(t, "Great brand exposure"), 0, 1, 0, 1, 1, 3},
		multis:  [][]int{{0}},
		texts:   []string{"Free onsite demo and swag"},
	}
	clip := &memoryClipboard{}
	notifier := &memoryNotifier{}
	session := wizard.NewSession(offer.NewService(nil))

	if err := NewRunner(driver, session, clip, notifier).Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	parsed, err := presenter.ParseCopyText(clip.text)
	if err != nil {
		t.Fatalf("clipboard holds unexpected text %q: %v", clip.text, err)
	}
	if parsed.Title != "Acme Demo - DevCon Special" {
		t.Errorf("copied title = %q", parsed.Title)
	}
	if diff := cmp.Diff([]string{"Offer collected", "Copied", "Offer collected"}, notifier.titles); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
	if session.Step() != types.StepResult {
		t.Errorf("step = %s", session.Step())
	}
}

func TestRunnerBlocksIncompleteIdentity(t *testing.T) {
	driver := &scriptedDriver{
		inputs: []string{"Acme", "Software", "", ""},
	}
	session := wizard.NewSession(offer.NewService(nil))
	if err := NewRunner(driver, session, nil, nil).Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if session.Step() != types.StepIdentity {
		t.Fatalf("runner advanced to %s", session.Step())
	}
	joined := strings.Join(driver.infos, "\n")
	if !strings.Contains(joined, "Event Name is required") {
		t.Errorf("expected event name guidance, got:\n%s", joined)
	}
}

func TestRunnerBackFromGoal(t *testing.T) {
	driver := &scriptedDriver{
		inputs:  []string{"Acme", "Software", "DevCon", ""},
		selects: []int{len(types.Goals)},
	}
	session := wizard.NewSession(offer.NewService(nil))
	_ = NewRunner(driver, session, nil, nil).Run(context.Background())
	if session.Step() != types.StepIdentity {
		t.Fatalf("expected back on identity, got %s", session.Step())
	}
}

func TestRunnerGenerationFailure(t *testing.T) {
	failing := offer.GeneratorFunc(func(ctx context.Context, data form.Data) ([]offer.Option, error) {
		return nil, offer.ErrGenerationEmpty
	})
	driver := &scriptedDriver{
		inputs:  []string{"Acme", "Software", "DevCon", ""},
		selects: []int{0, 0},
		multis:  [][]int{{1}},
		texts:   []string{"Ten percent off"},
	}
	notifier := &memoryNotifier{}
	session := wizard.NewSession(failing)
	if err := NewRunner(driver, session, nil, notifier).Run(context.Background()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	snap := session.Snapshot()
	if snap.Step != types.StepIncentive || snap.Status != wizard.StatusFailed || !errors.Is(snap.Err, offer.ErrGenerationEmpty) {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if diff := cmp.Diff([]string{"Generation failed"}, notifier.titles); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
}

func TestLoadPrefill(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefill.yaml")
	content := "exhibitorName: Acme\neventName: DevCon\nsecondaryActions:\n  - Demo\nstand: B12\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write prefill: %v", err)
	}
	data, err := loadPrefill(path)
	if err != nil {
		t.Fatalf("load prefill: %v", err)
	}
	if data.ExhibitorName != "Acme" || data.Stand != "B12" || len(data.SecondaryActions) != 1 {
		t.Errorf("unexpected prefill %+v", data)
	}
}
