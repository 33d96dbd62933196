package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tbxark/offerwizard/form"
	"github.com/tbxark/offerwizard/offer"
	"github.com/tbxark/offerwizard/types"
)

// Guidance returns the message shown above the current step. With merge set
// every missing field is listed, otherwise only the first one.
func Guidance(snap Snapshot, merge bool) string {
	switch snap.Step {
	case types.StepSubmitted:
		return "Generating your offers..."
	case types.StepResult:
		return fmt.Sprintf("Choose your offer (%d options).", len(snap.Offers))
	}

	var sb strings.Builder
	if snap.Status == StatusFailed && snap.Err != nil {
		sb.WriteString(failureMessage(snap.Err))
		sb.WriteString("\n")
	}
	for _, field := range snap.Data.Missing(snap.Step) {
		if field.Description != "" {
			sb.WriteString(field.Description)
		} else {
			sb.WriteString(fmt.Sprintf("%s is required", field.DisplayName))
		}
		sb.WriteString("\n")
		if !merge {
			break
		}
	}
	if sb.Len() == 0 {
		return fmt.Sprintf("%s: looks good, continue when ready.", snap.Step.Title())
	}
	return strings.TrimRight(sb.String(), "\n")
}

func failureMessage(err error) string {
	switch {
	case errors.Is(err, form.ErrIncomplete):
		return "Some required fields are missing."
	case errors.Is(err, offer.ErrGenerationEmpty):
		return "No offers could be generated. Submit again to retry."
	default:
		return fmt.Sprintf("Offer generation failed: %v. Submit again to retry.", err)
	}
}
