package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quizmith/mcqs/internal/core/domain/question"
	"github.com/quizmith/mcqs/internal/core/ports"
)

func (s *Server) explainQuestion(c echo.Context) error {
	var req question.ExplainRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.QuestionID == 0 || req.Question == "" || req.Answer == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "questionId, question and answer are required")
	}

	explanation, err := s.explanationSvc.Explain(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, question.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "question not found")
		}
		s.logger.WithError(err).WithField("question_id", req.QuestionID).Error("explanation failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate explanation")
	}
	return c.JSON(http.StatusOK, explanation)
}

// chat streams the follow-up conversation back as server-sent events, one
// JSON event per chunk, flushed as they arrive from the generator.
func (s *Server) chat(c echo.Context) error {
	var req ports.ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if len(req.Messages) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "messages are required")
	}

	events, err := s.explanationSvc.StreamChat(c.Request().Context(), &req)
	if err != nil {
		s.logger.WithError(err).Error("failed to start chat stream")
		return echo.NewHTTPError(http.StatusBadGateway, "chat stream unavailable")
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)

	for event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(resp, "data: %s\n\n", payload); err != nil {
			// Caller disconnected; the request context cancellation tears
			// down the upstream stream.
			break
		}
		resp.Flush()
	}
	return nil
}
