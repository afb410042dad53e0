package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quizmith/mcqs/internal/core/domain/visitor"
	"github.com/quizmith/mcqs/internal/infrastructure/httpserver/helpers"
)

func (s *Server) logVisit(c echo.Context) error {
	var body struct {
		Fingerprint string `json:"fingerprint"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if body.Fingerprint == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "fingerprint is required")
	}

	r := c.Request()
	country, city := helpers.ClientGeo(r)
	req := &visitor.LogVisitRequest{
		Fingerprint: body.Fingerprint,
		IP:          helpers.ClientIP(r),
		UserAgent:   r.UserAgent(),
		Country:     country,
		City:        city,
	}

	stored, err := s.visitorSvc.LogVisit(r.Context(), req)
	if err != nil {
		s.logger.WithError(err).Error("failed to log visit")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to log visit")
	}
	return c.JSON(http.StatusOK, map[string]any{"visitCount": stored.VisitCount})
}
