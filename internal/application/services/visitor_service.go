package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"
	"github.com/sirupsen/logrus"

	"github.com/quizmith/mcqs/internal/core/domain/visitor"
	"github.com/quizmith/mcqs/internal/core/ports"
)

// VisitorService enriches raw visit facts with user-agent derived fields
// and records them with upsert semantics.
type VisitorService struct {
	repo   ports.VisitorRepository
	logger *logrus.Logger
}

func NewVisitorService(repo ports.VisitorRepository, logger *logrus.Logger) *VisitorService {
	return &VisitorService{repo: repo, logger: logger}
}

func (s *VisitorService) LogVisit(ctx context.Context, req *visitor.LogVisitRequest) (*visitor.Visitor, error) {
	if req == nil || req.Fingerprint == "" {
		return nil, fmt.Errorf("fingerprint is required")
	}

	device, browser, os := parseUserAgent(req.UserAgent)
	now := time.Now().UTC()

	v := &visitor.Visitor{
		ID:          uuid.New(),
		Fingerprint: req.Fingerprint,
		IP:          req.IP,
		UserAgent:   req.UserAgent,
		Device:      device,
		Browser:     browser,
		OS:          os,
		Country:     req.Country,
		City:        req.City,
		FirstSeen:   now,
		LastSeen:    now,
	}

	stored, err := s.repo.Upsert(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("failed to log visit: %w", err)
	}
	return stored, nil
}

func parseUserAgent(raw string) (device, browser, os string) {
	if raw == "" {
		return "", "", ""
	}
	ua := useragent.New(raw)
	switch {
	case ua.Bot():
		device = "bot"
	case ua.Mobile():
		device = "mobile"
	default:
		device = "desktop"
	}
	browser, _ = ua.Browser()
	os = ua.OS()
	return device, browser, os
}

var _ ports.VisitorService = (*VisitorService)(nil)
