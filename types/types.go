package types

import (
	"fmt"
	"slices"
)

// Step is a wizard step. The four input steps are ordered; Submitted and
// Result are terminal for a submission.
type Step int

const (
	StepIdentity Step = iota + 1
	StepGoal
	StepActions
	StepIncentive
	StepSubmitted
	StepResult
)

// InputSteps lists the steps that collect form data, in order.
var InputSteps = []Step{StepIdentity, StepGoal, StepActions, StepIncentive}

func (s Step) String() string {
	switch s {
	case StepIdentity:
		return "identity"
	case StepGoal:
		return "goal"
	case StepActions:
		return "actions"
	case StepIncentive:
		return "incentive"
	case StepSubmitted:
		return "submitted"
	case StepResult:
		return "result"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Title is the human label shown in "Step N of 4" headers.
func (s Step) Title() string {
	switch s {
	case StepIdentity:
		return "Basic Info"
	case StepGoal:
		return "Select Goal"
	case StepActions:
		return "Select Incentive Type"
	case StepIncentive:
		return "Describe Incentive"
	case StepSubmitted:
		return "Generating Offers"
	case StepResult:
		return "Choose Your Offer"
	default:
		return ""
	}
}

// IsInput reports whether s collects form data.
func (s Step) IsInput() bool {
	return s >= StepIdentity && s <= StepIncentive
}

type FieldInfo struct {
	JSONPointer string `json:"json_pointer"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Goals is the catalog of exhibitor goals offered by the wizard.
var Goals = []string{
	"Generates large volume of leads",
	"High quality of leads",
	"Great brand exposure",
	"Gain credibility for your brand",
	"Drive social following",
	"Promotes product",
	"Booth Traffic",
	"Leads & interest continue post-event",
	"Thought Leadership / Educator",
	"Drive attendance at your private event",
}

// Secondary action names with dedicated phrasing in the local generator.
const (
	ActionDemo             = "Demo"
	ActionDiscount         = "Discount"
	ActionGiveaway         = "Giveaway"
	ActionExclusiveAccess  = "Exclusive Access"
	ActionFreeConsultation = "Free Consultation"
)

// SecondaryActions is the catalog of incentive mechanisms.
var SecondaryActions = []string{
	ActionDemo,
	ActionDiscount,
	ActionGiveaway,
	ActionExclusiveAccess,
	ActionFreeConsultation,
	"Limited Time Offer",
	"Product Sample",
	"Free Trial",
	"VIP Experience",
	"Early Access",
}

// IsKnownGoal reports whether goal is part of the Goals catalog.
func IsKnownGoal(goal string) bool {
	return slices.Contains(Goals, goal)
}

// IsKnownAction reports whether action is part of the SecondaryActions catalog.
func IsKnownAction(action string) bool {
	return slices.Contains(SecondaryActions, action)
}
