package editor

import "time"

// Revision is a point-in-time server copy of a document: its content plus
// the modified timestamp that serves as the optimistic-lock token.
type Revision struct {
	ID        string
	Content   Content
	UpdatedAt time.Time
}

// Draft pairs the last persisted state of a document with the live editable
// copy. Original is never mutated by typing; it is only replaced wholesale by
// a successful save or an accepted reload.
type Draft struct {
	ID       string
	IsCreate bool
	Original Revision
	Current  Content
}

// NewDraft starts editing an existing document from its server revision.
func NewDraft(rev Revision) *Draft {
	return &Draft{
		ID:       rev.ID,
		Original: Revision{ID: rev.ID, Content: rev.Content.Clone(), UpdatedAt: rev.UpdatedAt},
		Current:  rev.Content.Clone(),
	}
}

// NewCreateDraft starts a brand-new document from defaults. IsCreate stays
// true until the first successful save assigns a server identity.
func NewCreateDraft(docType DocType) *Draft {
	return &Draft{
		IsCreate: true,
		Original: Revision{Content: Content{Type: docType}},
		Current:  Content{Type: docType},
	}
}

// Dirty reports whether the live copy differs from the baseline.
func (d *Draft) Dirty() bool {
	return !d.Current.Equal(d.Original.Content)
}

// replaceBaseline installs a new persisted state. Used by the save success
// path and by the load-server-version resolution actions.
func (d *Draft) replaceBaseline(rev Revision) {
	d.ID = rev.ID
	d.IsCreate = false
	d.Original = Revision{ID: rev.ID, Content: rev.Content.Clone(), UpdatedAt: rev.UpdatedAt}
}
