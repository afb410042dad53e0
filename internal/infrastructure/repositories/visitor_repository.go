package repositories

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/quizmith/mcqs/internal/core/domain/visitor"
	"github.com/quizmith/mcqs/internal/core/ports"
	"github.com/quizmith/mcqs/internal/infrastructure/db"
)

// VisitorRepository implements visitor analytics storage on Postgres.
type VisitorRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewVisitorRepository creates a new visitor repository
func NewVisitorRepository(database *db.Database, logger *logrus.Logger) ports.VisitorRepository {
	return &VisitorRepository{db: database, logger: logger}
}

// Upsert inserts the visitor or, when the fingerprint is already known,
// bumps the visit count and refreshes last-seen and the volatile fields.
func (r *VisitorRepository) Upsert(ctx context.Context, v *visitor.Visitor) (*visitor.Visitor, error) {
	query := `
		INSERT INTO visitors (id, fingerprint, ip, user_agent, device, browser, os, country, city, visit_count, first_seen, last_seen)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $10)
		ON CONFLICT (fingerprint) DO UPDATE SET
			ip = EXCLUDED.ip,
			user_agent = EXCLUDED.user_agent,
			device = EXCLUDED.device,
			browser = EXCLUDED.browser,
			os = EXCLUDED.os,
			country = EXCLUDED.country,
			city = EXCLUDED.city,
			visit_count = visitors.visit_count + 1,
			last_seen = EXCLUDED.last_seen
		RETURNING id, fingerprint, ip, user_agent, device, browser, os, country, city, visit_count, first_seen, last_seen`

	var stored visitor.Visitor
	err := r.db.DB.GetContext(ctx, &stored, query,
		v.ID, v.Fingerprint, v.IP, v.UserAgent, v.Device, v.Browser, v.OS, v.Country, v.City, v.LastSeen)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert visitor: %w", err)
	}

	if r.logger != nil {
		r.logger.WithFields(logrus.Fields{"fingerprint": stored.Fingerprint, "visit_count": stored.VisitCount}).Debug("visitor recorded")
	}
	return &stored, nil
}
