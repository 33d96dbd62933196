// Package offer turns a completed form into exactly three marketing offers,
// either with a local heuristic or by delegating to a completion service.
package offer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tbxark/offerwizard/form"
)

// BatchSize is the number of offers every generation produces.
const BatchSize = 3

// CallToAction ends every locally generated description.
const CallToAction = "Collect this offer now to claim it!"

// Option is one candidate offer. Stand is rendered on its own and never
// appears inside the texts.
type Option struct {
	Title           string   `json:"title" jsonschema:"required,description=Short catchy offer title"`
	Description     string   `json:"description" jsonschema:"required,minLength=150,maxLength=250,description=Offer description between 150 and 250 characters"`
	RedemptionSteps []string `json:"redemptionSteps" jsonschema:"required,minItems=1,description=Ordered steps to redeem the offer"`
	Stand           string   `json:"stand,omitempty" jsonschema:"description=Booth identifier, never repeated inside the other fields"`
}

// Clone returns a copy that shares no slices with o.
func (o Option) Clone() Option {
	o.RedemptionSteps = append([]string(nil), o.RedemptionSteps...)
	return o
}

// CloneAll copies a batch.
func CloneAll(options []Option) []Option {
	if options == nil {
		return nil
	}
	out := make([]Option, len(options))
	for i, o := range options {
		out[i] = o.Clone()
	}
	return out
}

type Generator interface {
	Generate(ctx context.Context, data form.Data) ([]Option, error)
}

type GeneratorFunc func(ctx context.Context, data form.Data) ([]Option, error)

func (f GeneratorFunc) Generate(ctx context.Context, data form.Data) ([]Option, error) {
	return f(ctx, data)
}

var (
	ErrRemoteTransport  = errors.New("remote transport failure")
	ErrRemoteValidation = errors.New("remote validation failure")
	ErrGenerationEmpty  = errors.New("no offers generated")
)

// ConstraintError describes one rejected remote offer. Index is -1 for
// batch-level violations.
type ConstraintError struct {
	Index      int
	Field      string
	Constraint string
	Detail     string
}

func (e *ConstraintError) Error() string {
	var sb strings.Builder
	sb.WriteString(ErrRemoteValidation.Error())
	if e.Index >= 0 {
		sb.WriteString(fmt.Sprintf(": offer %d", e.Index))
	}
	if e.Field != "" {
		sb.WriteString(fmt.Sprintf(": %s", e.Field))
	}
	sb.WriteString(fmt.Sprintf(": %s", e.Constraint))
	if e.Detail != "" {
		sb.WriteString(fmt.Sprintf(" (%s)", e.Detail))
	}
	return sb.String()
}

func (e *ConstraintError) Unwrap() error {
	return ErrRemoteValidation
}

// Constraint names used in ConstraintError.
const (
	ConstraintDecode            = "decode"
	ConstraintBatchSize         = "batch_size"
	ConstraintRequired          = "required"
	ConstraintDescriptionLength = "description_length"
	ConstraintStandLeak         = "stand_leak"
	ConstraintDistinctTitles    = "distinct_titles"
)
