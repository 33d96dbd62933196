package offer

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/eino-contrib/jsonschema"
	"github.com/tbxark/offerwizard/form"
	"github.com/tbxark/offerwizard/types"
)

const DefaultSystemPrompt = `You are an assistant specialized in event marketing. You write short, concrete trade show offers that exhibitors hand out to visitors at their booth.
Write in a friendly, persuasive tone. Never invent prices or dates that the exhibitor did not mention.`

const rulesTemplate = `Rules:
  - Produce exactly %d offers with distinct titles.
  - Each description must be between %d and %d characters long.
  - Each offer needs at least one redemption step.
  - Never mention the booth or stand identifier in the title, description or steps.
`

const jsonOutputInstruction = `Respond with a minified JSON array of offer objects matching this JSON schema, with no markdown fences and no extra text:
%s
`

const toolOutputInstruction = `Submit the offers by calling the %s tool once.
`

func offerSchema() (string, error) {
	schema := jsonschema.Reflect(&Option{})
	schema.Title = "Offer"
	schema.Description = "One trade show offer shown to event visitors."
	out, err := sonic.MarshalString(schema)
	if err != nil {
		return "", fmt.Errorf("failed to marshal offer schema: %w", err)
	}
	return out, nil
}

func formatExhibitorContext(data form.Data) string {
	rows := [][]string{
		{"Exhibitor", data.ExhibitorName},
		{"Category", data.Category},
		{"Event", data.EventName},
		{"Goal", data.Goal},
		{"Incentive types", strings.Join(data.SecondaryActions, ", ")},
		{"Incentive", data.IncentiveDescription},
	}
	if stand := strings.TrimSpace(data.Stand); stand != "" {
		rows = append(rows, []string{"Stand (never repeat in text)", stand})
	}
	return "# Exhibitor context\n" + types.MarkdownTable([]string{"Field", "Value"}, rows)
}

// BuildJSONPrompt renders the user prompt asking for a raw JSON array.
func BuildJSONPrompt(data form.Data) (string, error) {
	schema, err := offerSchema()
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(formatExhibitorContext(data))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf(rulesTemplate, BatchSize, MinDescriptionLength, MaxDescriptionLength))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf(jsonOutputInstruction, schema))
	return sb.String(), nil
}

// BuildToolPrompt renders the user prompt for the forced tool call variant.
func BuildToolPrompt(data form.Data) string {
	var sb strings.Builder
	sb.WriteString(formatExhibitorContext(data))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf(rulesTemplate, BatchSize, MinDescriptionLength, MaxDescriptionLength))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf(toolOutputInstruction, SubmitOffersToolName))
	return sb.String()
}
