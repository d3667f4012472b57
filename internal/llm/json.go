package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSONResponse decodes a JSON reply from an LLM into v, tolerating
// markdown code fences and chatter around the object.
func ParseJSONResponse(text string, v any) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("empty LLM response")
	}

	// Strip markdown code fences
	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		endIdx := len(lines)
		for i := len(lines) - 1; i > 0; i-- {
			if strings.TrimSpace(lines[i]) == "```" {
				endIdx = i
				break
			}
		}
		text = strings.Join(lines[1:endIdx], "\n")
	}

	// Small local models sometimes wrap the object in prose.
	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start > 0 && end > start {
		text = text[start : end+1]
	}

	if err := json.Unmarshal([]byte(text), v); err != nil {
		return fmt.Errorf("parsing LLM response as JSON: %w", err)
	}
	return nil
}
