package document

import (
	"time"

	"github.com/inkstone-app/inkstone/internal/models"
)

type CreateDocumentDTO struct {
	Type      models.DocType          `json:"type" binding:"required"`
	Name      string                  `json:"name" binding:"required"`
	Text      string                  `json:"text"`
	URL       string                  `json:"url"`
	Tags      []string                `json:"tags"`
	Arguments []models.PromptArgument `json:"arguments"`
	ArchiveAt *time.Time              `json:"archive_at"`
}

// UpdateDocumentDTO is a partial update. Nil pointers mean "field untouched";
// clients send only what actually changed. ArchiveAt uses an RFC3339 string
// where the empty string clears the scheduled archive.
type UpdateDocumentDTO struct {
	Name      *string                  `json:"name"`
	Text      *string                  `json:"text"`
	URL       *string                  `json:"url"`
	Tags      *[]string                `json:"tags"`
	Arguments *[]models.PromptArgument `json:"arguments"`
	ArchiveAt *string                  `json:"archive_at"`

	// ExpectedUpdatedAt is the optimistic-lock token: the modified timestamp
	// the client last saw, RFC3339Nano. Nil skips the guard (forced save).
	ExpectedUpdatedAt *string `json:"expected_updated_at"`
}

type documentResponse struct {
	ID        string                  `json:"id"`
	Type      models.DocType          `json:"type"`
	Name      string                  `json:"name"`
	Text      string                  `json:"text"`
	URL       string                  `json:"url,omitempty"`
	Tags      []string                `json:"tags"`
	Arguments []models.PromptArgument `json:"arguments,omitempty"`
	ArchiveAt *time.Time              `json:"archive_at,omitempty"`
	Archived  bool                    `json:"archived"`
	Created   time.Time               `json:"created"`
	Updated   time.Time               `json:"modified"`
}

func toResponse(d *models.DocumentModel) documentResponse {
	tags := []string(d.Tags)
	if tags == nil {
		tags = []string{}
	}
	return documentResponse{
		ID: d.ID, Type: d.Type, Name: d.Name, Text: d.Text, URL: d.URL,
		Tags: tags, Arguments: d.Arguments, ArchiveAt: d.ArchiveAt,
		Archived: d.Archived, Created: d.CreatedAt, Updated: d.UpdatedAt,
	}
}
