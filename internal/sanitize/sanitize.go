// Package sanitize provides HTML sanitization for user-generated content.
// Uses bluemonday to strip dangerous HTML (script tags, event handlers,
// javascript: URLs) from post bodies while preserving safe formatting.
package sanitize

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// policy is the singleton bluemonday policy for sanitizing post bodies.
// Initialized once via sync.Once for thread-safe lazy initialization.
var (
	policy     *bluemonday.Policy
	policyOnce sync.Once
)

// getPolicy returns the shared sanitization policy, initializing it on first call.
func getPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		// UGCPolicy allows the usual formatting tags (p, b, em, lists,
		// links with rel=nofollow) and strips everything executable.
		policy = bluemonday.UGCPolicy()
	})
	return policy
}

// HTML sanitizes user-generated HTML content by stripping dangerous elements
// while preserving safe formatting tags.
//
// This MUST be called on post bodies before storing them in the database.
// The sanitized output is safe for rendering in browsers without escaping.
func HTML(input string) string {
	if input == "" {
		return ""
	}
	return getPolicy().Sanitize(input)
}
