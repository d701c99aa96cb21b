package component

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	htmlPolicyOnce sync.Once
	htmlPolicy     *bluemonday.Policy

	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// SanitizeHTML keeps the markup a form author may use in hints and content
// blocks and drops everything else.
func SanitizeHTML(raw string) string {
	htmlPolicyOnce.Do(func() {
		htmlPolicy = bluemonday.UGCPolicy()
		htmlPolicy.AllowAttrs("class").Globally()
	})
	return strings.TrimSpace(htmlPolicy.Sanitize(raw))
}

// StripTags removes all markup so the result can be embedded in generated HTML.
func StripTags(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(textPolicy.Sanitize(raw))
}
