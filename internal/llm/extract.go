// ABOUTME: Flattens a structured model response into plain text
// ABOUTME: Keeps only output_text parts of assistant message items

package llm

import "strings"

// ExtractText collects the output_text parts of every assistant message item
// in order, joins them with a newline and trims the result. It returns ""
// when nothing qualifies; callers decide whether that is an error.
func ExtractText(resp *Response) string {
	if resp == nil {
		return ""
	}

	var parts []string
	for _, item := range resp.Output {
		if item.Type != "message" {
			continue
		}
		if item.Role != "" && item.Role != "assistant" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				parts = append(parts, part.Text)
			}
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
