// Package sanitize strips unsafe markup from user supplied content before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer holds one policy for rich article bodies and one for plain-text fields.
type Sanitizer struct {
	article *bluemonday.Policy
	plain   *bluemonday.Policy
}

// New creates a Sanitizer with the default policies.
func New() *Sanitizer {
	article := bluemonday.UGCPolicy()
	article.RequireNoFollowOnLinks(true)
	article.AddTargetBlankToFullyQualifiedLinks(true)

	return &Sanitizer{
		article: article,
		plain:   bluemonday.StrictPolicy(),
	}
}

// Article keeps basic formatting markup and drops scripts, handlers and styles.
// The result is HTML: text nodes stay entity-escaped.
func (s *Sanitizer) Article(content string) string {
	return strings.TrimSpace(s.article.Sanitize(content))
}

// Comment removes all markup and returns plain text.
func (s *Sanitizer) Comment(content string) string {
	return s.Text(content)
}

// Text removes all markup from fields such as titles and names. The strict policy
// escapes what it keeps, so the output is unescaped back to plain text; clients must
// escape it when rendering as HTML.
func (s *Sanitizer) Text(value string) string {
	return strings.TrimSpace(html.UnescapeString(s.plain.Sanitize(value)))
}
