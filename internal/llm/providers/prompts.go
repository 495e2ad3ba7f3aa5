package providers

import (
	"strings"

	"github.com/ahrav/go-stratagem/internal/llm/observability"
)

// reasonPromptLimit bounds the failure reason echoed back to the model.
const reasonPromptLimit = 400

const jsonOnlyInstruction = `Respond with a single JSON value that conforms to the JSON Schema below.
Output JSON only: no markdown fences, no commentary before or after.`

const strictInstruction = `Your previous response could not be used.
Return ONLY one JSON value that matches the JSON Schema below exactly.
Use double quotes for every key and string. Do not add trailing commas,
comments, markdown fences, or any text outside the JSON value.`

// primarySystemPrompt appends the JSON-only instruction and schema to the caller's system prompt.
func primarySystemPrompt(system string, schema map[string]any) string {
	return joinSections(system, jsonOnlyInstruction, "Schema:\n"+schemaText(schema))
}

// strictSystemPrompt tightens the instruction for the single retry.
func strictSystemPrompt(system string, schema map[string]any) string {
	return joinSections(strictInstruction, system, "Schema:\n"+schemaText(schema))
}

// retryUserPrompt augments the original user prompt with the first failure reason.
func retryUserPrompt(user, reason string) string {
	return joinSections(
		user,
		"Your previous response was rejected: "+observability.Snippet(reason, reasonPromptLimit),
		"Return corrected JSON only.",
	)
}

func joinSections(sections ...string) string {
	kept := make([]string, 0, len(sections))
	for _, s := range sections {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "\n\n")
}
