package services

import (
	"fmt"
	"strings"

	"github.com/readytoruncq/fieldservice-uploads/models"
)

const slugMaxLen = 32

// SafeSlug renders a free-text label into a bounded, key-safe form: runs of
// whitespace and hyphens collapse to a single hyphen, everything outside
// [A-Za-z0-9-] is dropped, and the result caps at 32 chars. Empty input
// yields fallback.
func SafeSlug(s, fallback string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '-' || r == ' ' || r == '\t' || r == '\n' || r == '\r':
			pendingHyphen = true
		}
	}

	slug := b.String()
	if len(slug) > slugMaxLen {
		slug = strings.Trim(slug[:slugMaxLen], "-")
	}
	if slug == "" {
		return fallback
	}
	return slug
}

// BuildObjectPath derives the storage key for one file of a batch:
//
//	{folder}/{refCode}/{slug(machine)}_{slug(issueType)}_{n}.{ext}
//
// where n is the 1-based file position. The suffix is always rendered, also
// for single-file batches. Pure function: identical inputs yield identical
// keys, which is what lets the batch run concurrently without key races, and
// the embedded refCode keeps separate submissions from ever colliding.
func BuildObjectPath(folder models.BucketFolder, refCode, machine, issueType, ext string, index int) string {
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s/%s/%s_%s_%d.%s",
		folder,
		refCode,
		SafeSlug(machine, "machine"),
		SafeSlug(issueType, "issue"),
		index+1,
		ext,
	)
}
