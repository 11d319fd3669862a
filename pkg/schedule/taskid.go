package schedule

import (
	"strconv"
	"strings"
	"unicode"
)

// maxSlugLen bounds the message part of a task identifier so the full id
// stays well under queue resource-name limits.
const maxSlugLen = 450

// TaskID derives a deterministic, queue-safe identifier from a message and
// its delay in seconds. The message is reduced to a kebab-case slug and the
// delay is appended, so "Pay rent" due in 60 seconds becomes "pay-rent-60".
//
// Determinism makes the identifier a namespacing key rather than a request
// id: two submissions with the same normalized message and the same
// computed delay name the same task, and the queue rejects the second one.
func TaskID(message string, delaySeconds int64) string {
	slug := slugify(message)
	suffix := strconv.FormatInt(delaySeconds, 10)

	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	if slug == "" {
		slug = "task"
	}
	return slug + "-" + suffix
}

// slugify keeps letters and digits, collapsing every other run of
// characters to a single hyphen, and lowercases the result.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	prevDash := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevDash = false
			continue
		}
		if !prevDash {
			b.WriteRune('-')
			prevDash = true
		}
	}

	return strings.Trim(b.String(), "-")
}
