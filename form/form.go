// Package form holds the exhibitor input collected by the wizard and the
// per-step validity rules that gate it.
package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tbxark/offerwizard/patch"
	"github.com/tbxark/offerwizard/types"
)

// ErrIncomplete is returned when a required field of a step is missing.
var ErrIncomplete = errors.New("form incomplete")

// Data is the input of one submission.
type Data struct {
	ExhibitorName        string   `json:"exhibitorName" yaml:"exhibitorName"`
	Category             string   `json:"category" yaml:"category"`
	EventName            string   `json:"eventName" yaml:"eventName"`
	Goal                 string   `json:"goal" yaml:"goal"`
	SecondaryActions     []string `json:"secondaryActions" yaml:"secondaryActions"`
	IncentiveDescription string   `json:"incentiveDescription" yaml:"incentiveDescription"`
	Stand                string   `json:"stand,omitempty" yaml:"stand,omitempty"`
}

// AllowedPaths are the JSON pointers Apply accepts.
var AllowedPaths = []string{
	"/exhibitorName",
	"/category",
	"/eventName",
	"/goal",
	"/secondaryActions",
	"/secondaryActions/*",
	"/incentiveDescription",
	"/stand",
}

var stepFields = map[types.Step][]types.FieldInfo{
	types.StepIdentity: {
		{JSONPointer: "/exhibitorName", DisplayName: "Exhibitor Name", Required: true},
		{JSONPointer: "/category", DisplayName: "Category", Required: true},
		{JSONPointer: "/eventName", DisplayName: "Event Name", Required: true},
	},
	types.StepGoal: {
		{JSONPointer: "/goal", DisplayName: "Goal", Description: "Select exactly one goal", Required: true},
	},
	types.StepActions: {
		{JSONPointer: "/secondaryActions", DisplayName: "Secondary Actions", Description: "Select at least one incentive type", Required: true},
	},
	types.StepIncentive: {
		{JSONPointer: "/incentiveDescription", DisplayName: "Incentive Description", Required: true},
	},
}

// Fields returns the fields collected by step.
func Fields(step types.Step) []types.FieldInfo {
	return append([]types.FieldInfo(nil), stepFields[step]...)
}

func (d Data) value(pointer string) string {
	switch pointer {
	case "/exhibitorName":
		return d.ExhibitorName
	case "/category":
		return d.Category
	case "/eventName":
		return d.EventName
	case "/goal":
		return d.Goal
	case "/incentiveDescription":
		return d.IncentiveDescription
	case "/secondaryActions":
		for _, action := range d.SecondaryActions {
			if strings.TrimSpace(action) != "" {
				return action
			}
		}
	}
	return ""
}

var (
	unknownGoal = types.FieldInfo{
		JSONPointer: "/goal", DisplayName: "Goal",
		Description: "Select a goal from the list", Required: true,
	}
	invalidActions = types.FieldInfo{
		JSONPointer: "/secondaryActions", DisplayName: "Secondary Actions",
		Description: "Select incentive types from the list, each once", Required: true,
	}
)

// Missing returns the required fields of step that are still empty or hold
// a value outside the goal and incentive catalogs.
func (d Data) Missing(step types.Step) []types.FieldInfo {
	var missing []types.FieldInfo
	for _, field := range stepFields[step] {
		if strings.TrimSpace(d.value(field.JSONPointer)) == "" {
			missing = append(missing, field)
			continue
		}
		switch field.JSONPointer {
		case "/goal":
			if !types.IsKnownGoal(strings.TrimSpace(d.Goal)) {
				missing = append(missing, unknownGoal)
			}
		case "/secondaryActions":
			if !d.actionsKnown() {
				missing = append(missing, invalidActions)
			}
		}
	}
	return missing
}

// actionsKnown reports whether every selected action is in the catalog and
// selected once.
func (d Data) actionsKnown() bool {
	seen := make(map[string]bool, len(d.SecondaryActions))
	for _, action := range d.SecondaryActions {
		action = strings.TrimSpace(action)
		if seen[action] || !types.IsKnownAction(action) {
			return false
		}
		seen[action] = true
	}
	return true
}

// StepValid reports whether step may be left. Non-input steps are always valid.
func (d Data) StepValid(step types.Step) bool {
	return len(d.Missing(step)) == 0
}

// FirstIncompleteStep returns the earliest input step that is not valid.
func (d Data) FirstIncompleteStep() (types.Step, bool) {
	for _, step := range types.InputSteps {
		if !d.StepValid(step) {
			return step, true
		}
	}
	return 0, false
}

func (d Data) Complete() bool {
	_, incomplete := d.FirstIncompleteStep()
	return !incomplete
}

// IncompleteError names the first invalid step and its missing fields.
type IncompleteError struct {
	Step    types.Step
	Missing []types.FieldInfo
}

func (e *IncompleteError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, field := range e.Missing {
		names = append(names, field.DisplayName)
	}
	return fmt.Sprintf("form incomplete at step %s: missing %s", e.Step, strings.Join(names, ", "))
}

func (e *IncompleteError) Unwrap() error {
	return ErrIncomplete
}

// ValidateStep returns an *IncompleteError when step is not valid.
func (d Data) ValidateStep(step types.Step) error {
	if missing := d.Missing(step); len(missing) > 0 {
		return &IncompleteError{Step: step, Missing: missing}
	}
	return nil
}

// Validate checks every input step in order.
func (d Data) Validate() error {
	for _, step := range types.InputSteps {
		if err := d.ValidateStep(step); err != nil {
			return err
		}
	}
	return nil
}

// Clone returns a copy that shares no slices with d.
func (d Data) Clone() Data {
	d.SecondaryActions = append([]string(nil), d.SecondaryActions...)
	return d
}

// FirstAction returns the first selected secondary action, or "".
func (d Data) FirstAction() string {
	return d.value("/secondaryActions")
}

// HasAction reports whether action is selected.
func (d Data) HasAction(action string) bool {
	return d.indexOf(action) >= 0
}

func (d Data) indexOf(action string) int {
	for i, selected := range d.SecondaryActions {
		if selected == action {
			return i
		}
	}
	return -1
}

// ToggleAction selects action if absent and deselects it otherwise, keeping
// the selection order of the remaining actions.
func (d Data) ToggleAction(action string) (Data, error) {
	if idx := d.indexOf(action); idx >= 0 {
		return d.Apply([]patch.Operation{patch.Remove(fmt.Sprintf("/secondaryActions/%d", idx))})
	}
	return d.Apply([]patch.Operation{patch.Add("/secondaryActions/-", action)})
}

// Set replaces a single text field addressed by its JSON pointer.
func (d Data) Set(pointer, value string) (Data, error) {
	return d.Apply([]patch.Operation{patch.Replace(pointer, value)})
}

// Apply returns d with ops applied. Ops outside AllowedPaths are rejected.
// Repeated actions collapse to their first occurrence.
func (d Data) Apply(ops []patch.Operation) (Data, error) {
	if err := patch.Validate(ops, AllowedPaths); err != nil {
		return d, fmt.Errorf("invalid form update: %w", err)
	}
	next, err := patch.ApplyRFC6902(d.Clone(), ops)
	if err != nil {
		return d, fmt.Errorf("failed to update form: %w", err)
	}
	next.SecondaryActions = dedupeActions(next.SecondaryActions)
	return next, nil
}

func dedupeActions(actions []string) []string {
	if len(actions) < 2 {
		return actions
	}
	seen := make(map[string]bool, len(actions))
	out := actions[:0]
	for _, action := range actions {
		if seen[action] {
			continue
		}
		seen[action] = true
		out = append(out, action)
	}
	return out
}

// Prefill copies every non-empty field of initial over d.
func (d Data) Prefill(initial Data) (Data, error) {
	ops, err := patch.GeneratePatchesFromInitial(d, initial)
	if err != nil {
		return d, fmt.Errorf("failed to generate patches from initial values: %w", err)
	}
	return d.Apply(ops)
}
