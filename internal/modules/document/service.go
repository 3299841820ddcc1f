package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/inkstone-app/inkstone/internal/models"
	"github.com/inkstone-app/inkstone/internal/pkg/pagination"
	"github.com/inkstone-app/inkstone/internal/pkg/response"
	"gorm.io/gorm"
)

// ErrDeleted marks access to a tombstoned document. Distinguishable from a
// plain miss so editors can show "deleted elsewhere" instead of a dead link.
var ErrDeleted = errors.New("document deleted")

// ErrNameTaken marks a (type, name) uniqueness violation.
var ErrNameTaken = errors.New("document name already in use")

// ConflictError is returned when an update's optimistic-lock token does not
// match the stored row. Current carries the winning copy for the 409 body.
type ConflictError struct {
	Current *models.DocumentModel
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("document %s was modified at %s", e.Current.ID, e.Current.UpdatedAt.Format(time.RFC3339Nano))
}

type Service struct {
	db     *gorm.DB
	events *Publisher
}

func NewService(db *gorm.DB, events *Publisher) *Service {
	return &Service{db: db, events: events}
}

func (s *Service) List(docType models.DocType, q pagination.Query) ([]models.DocumentModel, response.Pagination, error) {
	tx := s.db.Model(&models.DocumentModel{}).Order("updated_at DESC")
	if docType != "" {
		tx = tx.Where("type = ?", docType)
	}

	var docs []models.DocumentModel
	pag, err := pagination.Paginate(tx, q, &docs)
	return docs, pag, err
}

// GetByID returns (nil, nil) for ids that never existed and ErrDeleted for
// soft-deleted rows.
func (s *Service) GetByID(id string) (*models.DocumentModel, error) {
	var doc models.DocumentModel
	err := s.db.First(&doc, "id = ?", id).Error
	if err == nil {
		return &doc, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var tombstone models.DocumentModel
	if err := s.db.Unscoped().First(&tombstone, "id = ?", id).Error; err == nil {
		return nil, ErrDeleted
	}
	return nil, nil
}

func (s *Service) Create(ctx context.Context, dto CreateDocumentDTO) (*models.DocumentModel, error) {
	if !models.ValidDocType(dto.Type) {
		return nil, fmt.Errorf("unknown document type %q", dto.Type)
	}

	doc := models.DocumentModel{
		Type:      dto.Type,
		Name:      dto.Name,
		Text:      dto.Text,
		URL:       dto.URL,
		Tags:      dto.Tags,
		Arguments: dto.Arguments,
		ArchiveAt: dto.ArchiveAt,
	}
	if err := s.db.Create(&doc).Error; err != nil {
		if isDuplicateEntry(err) {
			return nil, ErrNameTaken
		}
		return nil, err
	}

	s.events.Changed(ctx, &doc)
	return &doc, nil
}

// Update applies a partial update guarded by the optimistic-lock token.
// The token is matched twice: once against the loaded row, and again in the
// UPDATE's WHERE clause so a concurrent writer between load and write still
// loses cleanly instead of silently interleaving.
func (s *Service) Update(ctx context.Context, id string, dto UpdateDocumentDTO) (*models.DocumentModel, error) {
	doc, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, gorm.ErrRecordNotFound
	}

	if dto.ExpectedUpdatedAt != nil {
		expected, err := time.Parse(time.RFC3339Nano, *dto.ExpectedUpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("bad expected_updated_at: %w", err)
		}
		if !sameInstant(expected, doc.UpdatedAt) {
			return nil, &ConflictError{Current: doc}
		}
	}

	updates, err := buildUpdates(dto)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return doc, nil
	}

	res := s.db.Model(&models.DocumentModel{}).
		Where("id = ? AND updated_at = ?", id, doc.UpdatedAt).
		Updates(updates)
	if res.Error != nil {
		if isDuplicateEntry(res.Error) {
			return nil, ErrNameTaken
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race inside the window between load and write.
		current, err := s.GetByID(id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, &ConflictError{Current: current}
	}

	saved, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	s.events.Changed(ctx, saved)
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	doc, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if doc == nil {
		return gorm.ErrRecordNotFound
	}

	if err := s.db.Delete(&models.DocumentModel{}, "id = ?", id).Error; err != nil {
		return err
	}
	s.events.Deleted(ctx, doc)
	return nil
}

// ArchiveDue flags documents whose scheduled archive time has passed.
// Runs from the cron scheduler; archived documents publish a change event so
// open editors learn their baseline moved.
func (s *Service) ArchiveDue(ctx context.Context, now time.Time) (int, error) {
	var due []models.DocumentModel
	if err := s.db.
		Where("archived = ? AND archive_at IS NOT NULL AND archive_at <= ?", false, now).
		Find(&due).Error; err != nil {
		return 0, err
	}

	archived := 0
	for i := range due {
		res := s.db.Model(&due[i]).
			Where("updated_at = ?", due[i].UpdatedAt).
			Updates(map[string]interface{}{"archived": true})
		if res.Error != nil {
			return archived, res.Error
		}
		if res.RowsAffected == 0 {
			continue // row changed under us; the next sweep retries
		}
		if fresh, err := s.GetByID(due[i].ID); err == nil && fresh != nil {
			s.events.Changed(ctx, fresh)
		}
		archived++
	}
	return archived, nil
}

func buildUpdates(dto UpdateDocumentDTO) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Text != nil {
		updates["text"] = *dto.Text
	}
	if dto.URL != nil {
		updates["url"] = *dto.URL
	}
	if dto.Tags != nil {
		updates["tags"] = models.StringArray(*dto.Tags)
	}
	if dto.Arguments != nil {
		raw, err := argumentsJSON(*dto.Arguments)
		if err != nil {
			return nil, err
		}
		updates["arguments"] = raw
	}
	if dto.ArchiveAt != nil {
		if *dto.ArchiveAt == "" {
			updates["archive_at"] = nil
		} else {
			at, err := time.Parse(time.RFC3339Nano, *dto.ArchiveAt)
			if err != nil {
				return nil, fmt.Errorf("bad archive_at: %w", err)
			}
			updates["archive_at"] = at
		}
	}
	return updates, nil
}

// argumentsJSON serializes prompt arguments for a map-based Updates call,
// which bypasses the model field serializer.
func argumentsJSON(args []models.PromptArgument) (string, error) {
	b, err := json.Marshal(args)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// sameInstant compares timestamps at microsecond precision, matching what
// MySQL DATETIME(6) round-trips through the JSON token.
func sameInstant(a, b time.Time) bool {
	return a.Truncate(time.Microsecond).Equal(b.Truncate(time.Microsecond))
}

func isDuplicateEntry(err error) bool {
	var myErr *mysqlDriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}
