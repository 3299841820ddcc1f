package document

import (
	"context"
	"encoding/json"
	"time"

	"github.com/inkstone-app/inkstone/internal/models"
	pkgredis "github.com/inkstone-app/inkstone/internal/pkg/redis"
	"go.uber.org/zap"
)

// EventChannel is the Redis pub/sub channel carrying document change events.
// Every mutation (update, archive sweep, delete) is announced here so other
// editing surfaces can detect staleness without polling.
const EventChannel = "inkstone:documents"

// Event is the wire shape of a document change notification.
type Event struct {
	ID        string         `json:"id"`
	Type      models.DocType `json:"type"`
	UpdatedAt time.Time      `json:"updated_at"`
	Deleted   bool           `json:"deleted"`
}

// Publisher fans document change events out over Redis. A nil receiver or a
// nil client is a no-op so the service stays usable without Redis (tests,
// single-surface deployments).
type Publisher struct {
	rc  *pkgredis.Client
	log *zap.Logger
}

func NewPublisher(rc *pkgredis.Client, log *zap.Logger) *Publisher {
	return &Publisher{rc: rc, log: log}
}

func (p *Publisher) Changed(ctx context.Context, doc *models.DocumentModel) {
	p.publish(ctx, Event{ID: doc.ID, Type: doc.Type, UpdatedAt: doc.UpdatedAt})
}

func (p *Publisher) Deleted(ctx context.Context, doc *models.DocumentModel) {
	p.publish(ctx, Event{ID: doc.ID, Type: doc.Type, UpdatedAt: doc.UpdatedAt, Deleted: true})
}

func (p *Publisher) publish(ctx context.Context, ev Event) {
	if p == nil || p.rc == nil {
		return
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if err := p.rc.Publish(ctx, EventChannel, string(data)); err != nil && p.log != nil {
		p.log.Warn("publish document event failed", zap.String("id", ev.ID), zap.Error(err))
	}
}
