package offer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bytedance/sonic"
)

const (
	MinDescriptionLength = 150
	MaxDescriptionLength = 250
)

type offerBatch struct {
	Offers []Option `json:"offers" jsonschema:"required,minItems=3,maxItems=3,description=Exactly three offers with distinct titles"`
}

// ParseOptions decodes a completion body into a batch and checks it. stand is
// the form's booth identifier; it is copied onto every accepted offer.
func ParseOptions(content, stand string) ([]Option, error) {
	body := stripCodeFence(content)
	var batch []Option
	if err := sonic.UnmarshalString(body, &batch); err != nil {
		var wrapped offerBatch
		if werr := sonic.UnmarshalString(body, &wrapped); werr != nil || wrapped.Offers == nil {
			return nil, &ConstraintError{Index: -1, Constraint: ConstraintDecode, Detail: err.Error()}
		}
		batch = wrapped.Offers
	}
	return CheckOptions(batch, stand)
}

// CheckOptions trims and validates a decoded batch. The returned slice is a
// copy with Stand set from the form.
func CheckOptions(batch []Option, stand string) ([]Option, error) {
	if len(batch) != BatchSize {
		return nil, &ConstraintError{
			Index:      -1,
			Constraint: ConstraintBatchSize,
			Detail:     fmt.Sprintf("got %d offers, want %d", len(batch), BatchSize),
		}
	}
	stand = strings.TrimSpace(stand)
	out := make([]Option, 0, len(batch))
	titles := make(map[string]int, len(batch))
	for i, o := range batch {
		o = normalize(o)
		if err := checkOption(i, o, stand); err != nil {
			return nil, err
		}
		key := strings.ToLower(o.Title)
		if prev, ok := titles[key]; ok {
			return nil, &ConstraintError{
				Index:      i,
				Field:      "title",
				Constraint: ConstraintDistinctTitles,
				Detail:     fmt.Sprintf("same title as offer %d", prev),
			}
		}
		titles[key] = i
		o.Stand = stand
		out = append(out, o)
	}
	return out, nil
}

func normalize(o Option) Option {
	o.Title = strings.TrimSpace(o.Title)
	o.Description = strings.TrimSpace(o.Description)
	steps := make([]string, len(o.RedemptionSteps))
	for i, step := range o.RedemptionSteps {
		steps[i] = strings.TrimSpace(step)
	}
	o.RedemptionSteps = steps
	return o
}

func checkOption(index int, o Option, stand string) error {
	if o.Title == "" {
		return &ConstraintError{Index: index, Field: "title", Constraint: ConstraintRequired}
	}
	if o.Description == "" {
		return &ConstraintError{Index: index, Field: "description", Constraint: ConstraintRequired}
	}
	if len(o.RedemptionSteps) == 0 {
		return &ConstraintError{Index: index, Field: "redemptionSteps", Constraint: ConstraintRequired}
	}
	for j, step := range o.RedemptionSteps {
		if step == "" {
			return &ConstraintError{
				Index:      index,
				Field:      fmt.Sprintf("redemptionSteps/%d", j),
				Constraint: ConstraintRequired,
			}
		}
	}
	if n := utf8.RuneCountInString(o.Description); n < MinDescriptionLength || n > MaxDescriptionLength {
		return &ConstraintError{
			Index:      index,
			Field:      "description",
			Constraint: ConstraintDescriptionLength,
			Detail:     fmt.Sprintf("%d characters, want %d-%d", n, MinDescriptionLength, MaxDescriptionLength),
		}
	}
	if stand == "" {
		return nil
	}
	if containsFold(o.Title, stand) {
		return &ConstraintError{Index: index, Field: "title", Constraint: ConstraintStandLeak}
	}
	if containsFold(o.Description, stand) {
		return &ConstraintError{Index: index, Field: "description", Constraint: ConstraintStandLeak}
	}
	for j, step := range o.RedemptionSteps {
		if containsFold(step, stand) {
			return &ConstraintError{
				Index:      index,
				Field:      fmt.Sprintf("redemptionSteps/%d", j),
				Constraint: ConstraintStandLeak,
			}
		}
	}
	return nil
}

func containsFold(text, sub string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(sub))
}

// stripCodeFence removes a surrounding markdown fence and its language tag.
func stripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 && isLanguageTag(s[:i]) {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func isLanguageTag(line string) bool {
	line = strings.TrimSpace(line)
	for _, r := range line {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
