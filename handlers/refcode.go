package handlers

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewRefCode mints a correlation code in the format the mobile forms use:
// UTC timestamp plus a short random suffix, e.g. "20250101120000-A3F".
// Normally the caller supplies its own; this is the fallback.
func NewRefCode() string {
	ts := time.Now().UTC().Format("20060102150405")
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:3]
	return ts + "-" + suffix
}
