// Package sanitize strips markup that could run in a client from user-generated text.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

type Sanitizer struct {
	content *bluemonday.Policy
	plain   *bluemonday.Policy
}

func New() *Sanitizer {
	return &Sanitizer{
		content: bluemonday.UGCPolicy(),
		plain:   bluemonday.StrictPolicy(),
	}
}

// Content keeps safe formatting tags.
func (s *Sanitizer) Content(text string) string {
	return strings.TrimSpace(s.content.Sanitize(text))
}

// Plain removes every tag; used for titles and names.
func (s *Sanitizer) Plain(text string) string {
	return strings.TrimSpace(s.plain.Sanitize(text))
}
