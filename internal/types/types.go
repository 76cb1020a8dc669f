// Package types defines core data structures for todo-scan.
package types

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

// Tag is a canonical (uppercase) annotation keyword such as TODO or FIXME.
type Tag string

// Default tag set
const (
	TagTodo  Tag = "TODO"
	TagFixme Tag = "FIXME"
	TagHack  Tag = "HACK"
	TagXXX   Tag = "XXX"
	TagBug   Tag = "BUG"
	TagNote  Tag = "NOTE"
)

// DefaultTags returns the six built-in tags in declaration order.
func DefaultTags() []Tag {
	return []Tag{TagTodo, TagFixme, TagHack, TagXXX, TagBug, TagNote}
}

// NormalizeTag upper-cases and trims a user supplied tag name.
func NormalizeTag(s string) Tag {
	return Tag(strings.ToUpper(strings.TrimSpace(s)))
}

// Severity orders tags from informational (NOTE) to critical (BUG).
// Custom tags rank alongside TODO.
func (t Tag) Severity() int {
	switch t {
	case TagNote:
		return 0
	case TagTodo:
		return 1
	case TagHack:
		return 2
	case TagXXX:
		return 3
	case TagFixme:
		return 4
	case TagBug:
		return 5
	default:
		return 1
	}
}

func (t Tag) String() string {
	return string(t)
}

// Priority is derived from the number of '!' markers after a tag.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ParsePriority parses a priority name, case-insensitive.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityNormal:
		return PriorityNormal, nil
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityUrgent:
		return PriorityUrgent, nil
	}
	return "", fmt.Errorf("unknown priority %q (valid: normal, high, urgent)", s)
}

// PriorityFromBangs maps a count of '!' markers to a priority.
func PriorityFromBangs(n int) Priority {
	switch {
	case n >= 2:
		return PriorityUrgent
	case n == 1:
		return PriorityHigh
	default:
		return PriorityNormal
	}
}

// Rank returns 0 for normal, 1 for high, 2 for urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 2
	case PriorityHigh:
		return 1
	default:
		return 0
	}
}

// Marker returns the '!' notation for the priority ("", "!", "!!").
func (p Priority) Marker() string {
	return strings.Repeat("!", p.Rank())
}

// Item is one recognized tagged comment.
//
// Field order matches the canonical JSON shape consumed by CI tooling;
// Author and IssueRef serialise as null when absent.
type Item struct {
	File     string   `json:"file"`
	Line     int      `json:"line"`
	Tag      Tag      `json:"tag"`
	Message  string   `json:"message"`
	Author   *string  `json:"author"`
	IssueRef *string  `json:"issue_ref"`
	Priority Priority `json:"priority"`

	// RawTag is the tag exactly as written in the source (lint: uppercase_tag).
	RawTag string `json:"-"`
	// HasColon records whether the annotation carried a ':' separator (lint: require_colon).
	HasColon bool `json:"-"`
}

// Key returns the identity used to match items across snapshots.
// It deliberately excludes Line so moved comments stay unchanged.
func (i *Item) Key() string {
	var b strings.Builder
	b.WriteString(i.File)
	b.WriteByte(0)
	b.WriteString(string(i.Tag))
	b.WriteByte(0)
	b.WriteString(normalizeMessage(i.Message))
	return b.String()
}

// ID returns a short stable hash of Key, suitable for display.
func (i *Item) ID() string {
	h := sha256.Sum256([]byte(i.Key()))
	return fmt.Sprintf("%x", h[:4])
}

// ContentKey is Key without the file, so the same comment copied into
// several files shares one key.
func (i *Item) ContentKey() string {
	return string(i.Tag) + "\x00" + normalizeMessage(i.Message)
}

// AuthorOr returns the author or def when none was recorded.
func (i *Item) AuthorOr(def string) string {
	if i.Author == nil {
		return def
	}
	return *i.Author
}

// Location formats the item as file:line.
func (i *Item) Location() string {
	return fmt.Sprintf("%s:%d", i.File, i.Line)
}

// normalizeMessage trims and lower-cases so whitespace or case-only edits
// do not register as a remove+add pair.
func normalizeMessage(msg string) string {
	return strings.ToLower(strings.TrimSpace(msg))
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
