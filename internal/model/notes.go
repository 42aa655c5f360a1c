package model

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Derived entries point back at their source through the note text; there is
// no foreign key, which is why orphans have to be reconciled.
const (
	RecurringNotePrefix = "auto-recurring: "
	FixedNotePrefix     = "auto-fixed: "
)

var derivedNotePattern = regexp.MustCompile(`(?s)^auto-(recurring|fixed): (.+)$`)

// NormalizeDescription trims and NFC-normalises a description so the same
// text typed on different devices compares equal.
func NormalizeDescription(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// RecurringNote encodes the note for an entry derived from a recurring source.
func RecurringNote(description string) string {
	return RecurringNotePrefix + NormalizeDescription(description)
}

// FixedNote encodes the note for an entry derived from a legacy fixed source.
func FixedNote(description string) string {
	return FixedNotePrefix + NormalizeDescription(description)
}

// ParseDerivedNote extracts the source description from a derived note.
func ParseDerivedNote(note string) (description string, ok bool) {
	m := derivedNotePattern.FindStringSubmatch(note)
	if m == nil {
		return "", false
	}
	return m[2], true
}
