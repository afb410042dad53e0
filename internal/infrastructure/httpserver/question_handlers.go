package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quizmith/mcqs/internal/core/domain/question"
)

func (s *Server) listQuestions(c echo.Context) error {
	topic := c.QueryParam("topic")

	set, err := s.questionSvc.List(c.Request().Context(), topic)
	if err != nil {
		s.logger.WithError(err).WithField("topic", topic).Error("failed to list questions")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to fetch questions")
	}
	return c.JSON(http.StatusOK, set)
}

func (s *Server) bulkCreateQuestions(c echo.Context) error {
	var req question.BulkCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if len(req.Questions) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No questions provided")
	}

	count, err := s.questionSvc.BulkCreate(c.Request().Context(), &req)
	if err != nil {
		if errors.Is(err, question.ErrEmptyBatch) {
			return echo.NewHTTPError(http.StatusBadRequest, "No questions provided")
		}
		s.logger.WithError(err).WithField("topic", req.Name).Error("bulk insert failed")
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to insert questions")
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message": "Successfully created questions",
		"count":   count,
		"topic":   req.Name,
	})
}
