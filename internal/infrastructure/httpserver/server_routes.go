package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api")
	api.GET("/questions", s.listQuestions, s.middleware.RateLimit.Limit("questions"))
	api.POST("/questions/bulk", s.bulkCreateQuestions)
	api.POST("/explain", s.explainQuestion, s.middleware.RateLimit.Limit("explain"))
	api.POST("/chat", s.chat, s.middleware.RateLimit.Limit("chat"))
	api.POST("/visit", s.logVisit, s.middleware.RateLimit.Limit("visit"))
}
