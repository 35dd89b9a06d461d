package email

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// PerksRenderer turns organizer-authored perks markdown into sanitized HTML
// for ticket emails. Organizer input is untrusted; everything outside the
// UGC policy is stripped.
type PerksRenderer struct {
	markdown  goldmark.Markdown
	sanitizer *bluemonday.Policy
}

func NewPerksRenderer() *PerksRenderer {
	return &PerksRenderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		sanitizer: bluemonday.UGCPolicy(),
	}
}

func (r *PerksRenderer) RenderHTML(perksMarkdown string) (string, error) {
	if perksMarkdown == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(perksMarkdown), &buf); err != nil {
		return "", fmt.Errorf("failed to render perks markdown: %w", err)
	}

	return r.sanitizer.Sanitize(buf.String()), nil
}
