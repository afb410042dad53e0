package ports

import (
	"context"

	"github.com/quizmith/mcqs/internal/core/domain/visitor"
)

// VisitorRepository persists visitor analytics rows with
// upsert-on-fingerprint semantics.
type VisitorRepository interface {
	// Upsert inserts v, or when a row with the same fingerprint exists,
	// increments its visit count and refreshes last-seen plus the volatile
	// fields (ip, user agent, geo). The stored row is returned.
	Upsert(ctx context.Context, v *visitor.Visitor) (*visitor.Visitor, error)
}

// VisitorService records a visit from the raw request facts.
type VisitorService interface {
	LogVisit(ctx context.Context, req *visitor.LogVisitRequest) (*visitor.Visitor, error)
}
