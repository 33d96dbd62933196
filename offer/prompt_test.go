package offer

import (
	"strings"
	"testing"
)

func TestPromptsNameStandToAvoid(t *testing.T) {
	data := acmeData()
	data.Stand = "N4-514"
	jsonPrompt, err := BuildJSONPrompt(data)
	if err != nil {
		t.Fatalf("build json prompt: %v", err)
	}
	for name, prompt := range map[string]string{"json": jsonPrompt, "tool": BuildToolPrompt(data)} {
		for _, want := range []string{"Stand (never repeat in text)", "N4-514"} {
			if !strings.Contains(prompt, want) {
				t.Errorf("%s prompt missing %q:\n%s", name, want, prompt)
			}
		}
	}

	data.Stand = "  "
	if prompt := BuildToolPrompt(data); strings.Contains(prompt, "Stand (never repeat") {
		t.Errorf("blank stand rendered:\n%s", prompt)
	}
}
