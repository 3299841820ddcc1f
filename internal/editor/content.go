// Package editor implements the client-side editing session for inkstone
// documents: draft state, dirtiness and validation, the save lifecycle with
// optimistic-concurrency conflict resolution, stale-version detection, and
// the close/discard/navigation guards shared by every editing surface.
//
// A Session is owned by exactly one goroutine (the surface's event loop).
// The only blocking operations are the save and clipboard calls, and both
// are arranged so their outcome is applied back on the owning goroutine.
package editor

import "time"

// DocType indicates which kind of content a draft holds. Values match the
// server's document API.
type DocType string

const (
	DocTypePrompt   DocType = "prompt"
	DocTypeNote     DocType = "note"
	DocTypeBookmark DocType = "bookmark"
)

// Argument is a declared template variable of a prompt document.
type Argument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// Content is the user-editable surface of a document. Fields that do not
// apply to a type stay zero (URL for notes, Arguments for bookmarks).
type Content struct {
	Type      DocType
	Name      string
	Text      string
	URL       string
	Tags      []string
	Arguments []Argument
	ArchiveAt *time.Time
}

// Clone returns a deep copy, so edits to the copy never leak into a baseline.
func (c Content) Clone() Content {
	out := c
	if c.Tags != nil {
		out.Tags = append([]string(nil), c.Tags...)
	}
	if c.Arguments != nil {
		out.Arguments = append([]Argument(nil), c.Arguments...)
	}
	if c.ArchiveAt != nil {
		at := *c.ArchiveAt
		out.ArchiveAt = &at
	}
	return out
}

// Equal reports structural equality over every editable field. Tag and
// argument order is significant: a reorder counts as a change. Text length
// is checked before content so the per-keystroke dirty check stays cheap on
// large bodies.
func (c Content) Equal(o Content) bool {
	if len(c.Text) != len(o.Text) {
		return false
	}
	if c.Type != o.Type || c.Name != o.Name || c.URL != o.URL {
		return false
	}
	if len(c.Tags) != len(o.Tags) || len(c.Arguments) != len(o.Arguments) {
		return false
	}
	for i := range c.Tags {
		if c.Tags[i] != o.Tags[i] {
			return false
		}
	}
	for i := range c.Arguments {
		if c.Arguments[i] != o.Arguments[i] {
			return false
		}
	}
	if !sameTimePtr(c.ArchiveAt, o.ArchiveAt) {
		return false
	}
	return c.Text == o.Text
}

// PrimaryText is what the copy-to-clipboard escape hatch serializes: the
// body for prompts and notes, the URL for bookmarks.
func (c Content) PrimaryText() string {
	if c.Type == DocTypeBookmark {
		return c.URL
	}
	return c.Text
}

// Patch is a minimal partial-update payload: only the fields whose current
// value differs from the baseline, keyed by the API's JSON field names.
type Patch map[string]interface{}

// DiffContent computes the Patch that turns original into current. Unchanged
// fields are never included, so a save touches exactly what the user edited.
func DiffContent(original, current Content) Patch {
	p := Patch{}
	if current.Name != original.Name {
		p["name"] = current.Name
	}
	if current.Text != original.Text {
		p["text"] = current.Text
	}
	if current.URL != original.URL {
		p["url"] = current.URL
	}
	if !sameStrings(current.Tags, original.Tags) {
		tags := current.Tags
		if tags == nil {
			tags = []string{}
		}
		p["tags"] = tags
	}
	if !sameArguments(current.Arguments, original.Arguments) {
		args := current.Arguments
		if args == nil {
			args = []Argument{}
		}
		p["arguments"] = args
	}
	if !sameTimePtr(current.ArchiveAt, original.ArchiveAt) {
		if current.ArchiveAt == nil {
			p["archive_at"] = "" // empty string clears the schedule server-side
		} else {
			p["archive_at"] = current.ArchiveAt.Format(time.RFC3339Nano)
		}
	}
	return p
}

// ChangedFields lists which fields differ between two contents, using the
// same names the validator reports errors under.
func ChangedFields(before, after Content) []string {
	var fields []string
	if before.Name != after.Name {
		fields = append(fields, FieldName)
	}
	if before.Text != after.Text {
		fields = append(fields, FieldText)
	}
	if before.URL != after.URL {
		fields = append(fields, FieldURL)
	}
	if !sameStrings(before.Tags, after.Tags) {
		fields = append(fields, FieldTags)
	}
	if !sameArguments(before.Arguments, after.Arguments) {
		fields = append(fields, FieldArguments)
	}
	if !sameTimePtr(before.ArchiveAt, after.ArchiveAt) {
		fields = append(fields, FieldArchiveAt)
	}
	return fields
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameArguments(a, b []Argument) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
