package models

import "time"

// DocType indicates which kind of content a document holds.
type DocType string

const (
	DocTypePrompt   DocType = "prompt"
	DocTypeNote     DocType = "note"
	DocTypeBookmark DocType = "bookmark"
)

var validDocTypes = map[DocType]bool{
	DocTypePrompt:   true,
	DocTypeNote:     true,
	DocTypeBookmark: true,
}

// ValidDocType reports whether t is a known document type.
func ValidDocType(t DocType) bool { return validDocTypes[t] }

// PromptArgument is a declared template variable of a prompt document.
type PromptArgument struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// DocumentModel is the single table backing prompts, notes, and bookmarks.
// All three types share the editable surface (name, text, tags, scheduled
// archive); type-specific fields stay empty for the other types, mirroring
// how drafts were stored type-tagged in the previous schema.
type DocumentModel struct {
	Base
	Type      DocType          `json:"type"       gorm:"not null;uniqueIndex:idx_documents_type_name"`
	Name      string           `json:"name"       gorm:"not null;size:191;uniqueIndex:idx_documents_type_name"`
	Text      string           `json:"text"       gorm:"type:longtext"`
	URL       string           `json:"url"` // bookmark only
	Tags      StringArray      `json:"tags"       gorm:"type:longtext"`
	Arguments []PromptArgument `json:"arguments"  gorm:"type:longtext;serializer:json"` // prompt only
	ArchiveAt *time.Time       `json:"archive_at" gorm:"index"`
	Archived  bool             `json:"archived"   gorm:"default:false;index"`
}

func (DocumentModel) TableName() string { return "documents" }
