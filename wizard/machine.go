// Package wizard drives the four input steps, the submission and the result
// screen as an explicit state machine.
package wizard

import (
	"errors"
	"fmt"

	"github.com/tbxark/offerwizard/form"
	"github.com/tbxark/offerwizard/types"
)

var ErrInvalidTransition = errors.New("invalid wizard transition")

// Machine is the single-threaded step state machine. Session adds locking
// and the asynchronous submission on top of it.
type Machine struct {
	step types.Step
	data form.Data
}

func NewMachine() *Machine {
	return &Machine{step: types.StepIdentity}
}

func (m *Machine) Step() types.Step {
	return m.step
}

// Data returns a copy of the collected input.
func (m *Machine) Data() form.Data {
	return m.data.Clone()
}

// Update replaces the form data through fn. It is only allowed on input
// steps; a failing fn leaves the data unchanged.
func (m *Machine) Update(fn func(form.Data) (form.Data, error)) error {
	if !m.step.IsInput() {
		return fmt.Errorf("%w: cannot edit form on step %s", ErrInvalidTransition, m.step)
	}
	next, err := fn(m.data.Clone())
	if err != nil {
		return err
	}
	m.data = next
	return nil
}

// Next advances to the following input step when the current one is valid.
func (m *Machine) Next() error {
	if !m.step.IsInput() || m.step == types.StepIncentive {
		return fmt.Errorf("%w: next from %s", ErrInvalidTransition, m.step)
	}
	if err := m.data.ValidateStep(m.step); err != nil {
		return err
	}
	m.step++
	return nil
}

func (m *Machine) Back() error {
	if !m.step.IsInput() || m.step == types.StepIdentity {
		return fmt.Errorf("%w: back from %s", ErrInvalidTransition, m.step)
	}
	m.step--
	return nil
}

// Submit moves from the last input step to Submitted and returns the data
// snapshot to generate from. Every step is re-checked.
func (m *Machine) Submit() (form.Data, error) {
	if m.step != types.StepIncentive {
		return form.Data{}, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, m.step)
	}
	if err := m.data.Validate(); err != nil {
		return form.Data{}, err
	}
	m.step = types.StepSubmitted
	return m.data.Clone(), nil
}

// Succeed shows the result and drops the submitted input.
func (m *Machine) Succeed() error {
	if m.step != types.StepSubmitted {
		return fmt.Errorf("%w: result from %s", ErrInvalidTransition, m.step)
	}
	m.step = types.StepResult
	m.data = form.Data{}
	return nil
}

// Fail returns to the last input step with the data intact so the user can
// resubmit.
func (m *Machine) Fail() error {
	if m.step != types.StepSubmitted {
		return fmt.Errorf("%w: failure from %s", ErrInvalidTransition, m.step)
	}
	m.step = types.StepIncentive
	return nil
}

func (m *Machine) Reset() {
	m.step = types.StepIdentity
	m.data = form.Data{}
}
