// Package security provides the application's security primitives.
//
// ContentSanitizerService cleans HTML pulled from external feeds before it is
// stored or served, using an allow-list bluemonday policy.
package security

import (
	"net/url"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService sanitizes untrusted HTML.
// Applied to imported article summaries and content before persistence.
type ContentSanitizerService interface {
	// Sanitize returns safe HTML. Only basic formatting tags pass; script,
	// iframe, style and on* attributes are stripped. img src must be https.
	// Idempotent: sanitizing sanitized output is a no-op.
	Sanitize(rawHTML string) string
}

type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewContentSanitizer builds the sanitizer with its allow-list policy.
func NewContentSanitizer() *contentSanitizer {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em",
	)

	// Links: href only, absolute URLs, forced target=_blank + noreferrer.
	p.AllowAttrs("href").OnElements("a")
	p.AllowRelativeURLs(false)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.RequireNoReferrerOnLinks(true)

	// Images: https src only, alt kept for accessibility.
	p.AllowAttrs("src").OnElements("img")
	p.AllowAttrs("alt").OnElements("img")
	p.AllowURLSchemeWithCustomPolicy("https", func(u *url.URL) bool {
		return true
	})

	return &contentSanitizer{
		policy: p,
	}
}

// Sanitize returns the sanitized form of rawHTML.
func (s *contentSanitizer) Sanitize(rawHTML string) string {
	return s.policy.Sanitize(rawHTML)
}
