// ABOUTME: Normalises post bodies from the rich-text editor into markdown
// ABOUTME: Detects HTML and converts it with html-to-markdown before word counting

package content

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Format names how a client encoded a post body.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ErrUnknownFormat is returned for format names other than markdown and html.
var ErrUnknownFormat = errors.New("unknown content format")

// ParseFormat validates a format name. Empty means markdown.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatMarkdown:
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// htmlTagPattern matches the block and inline tags the editor emits
var htmlTagPattern = regexp.MustCompile(`<\s*(p|div|span|a|br|hr|img|h[1-6]|ul|ol|li|table|tr|td|th|strong|em|b|i|u|s|mark|code|pre|blockquote)[^>]*>`)

// IsHTML checks if content appears to be HTML
func IsHTML(content string) bool {
	if strings.Contains(content, "<!DOCTYPE") || strings.Contains(content, "<html") {
		return true
	}
	return htmlTagPattern.MatchString(content)
}

// Normalize returns body as markdown. Markdown passes through untouched;
// HTML is converted, and HTML-looking text sent as markdown is left alone.
func Normalize(body string, format Format) (string, error) {
	switch format {
	case "", FormatMarkdown:
		return body, nil
	case FormatHTML:
		return ToMarkdown(body)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ToMarkdown converts editor HTML to markdown. Input without HTML tags is
// returned unchanged.
func ToMarkdown(body string) (string, error) {
	if body == "" || !IsHTML(body) {
		return body, nil
	}

	markdown, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}
