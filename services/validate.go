package services

import "strings"

// Accepted local-resource schemes. "http" deliberately also covers https.
var acceptedURIPrefixes = []string{"file://", "content://", "http", "data:"}

// FilterImageURIs returns the subsequence of candidates a transport can
// plausibly read: trimmed non-empty, not the sentinel literals the mobile
// forms sometimes produce, and carrying a recognized scheme prefix. Pure
// filter; dropped entries are not reported, callers compare lengths.
func FilterImageURIs(uris []string) []string {
	valid := make([]string, 0, len(uris))
	for _, u := range uris {
		trimmed := strings.TrimSpace(u)
		if trimmed == "" || trimmed == "undefined" || trimmed == "null" {
			continue
		}
		for _, prefix := range acceptedURIPrefixes {
			if strings.HasPrefix(trimmed, prefix) {
				valid = append(valid, trimmed)
				break
			}
		}
	}
	return valid
}
