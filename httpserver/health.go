package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterHealthRoutes() {
	s.Router.GET("/healthcheck", s.healthCheck)
}

// healthCheck godoc
// @Summary Health Check
// @Description Check if server is alive and the database is reachable
// @Tags health
// @Success 200 {object} APIResponse
// @Failure 503 {object} APIResponse
// @Router /healthcheck [get]
func (s *Server) healthCheck(c echo.Context) error {
	status := map[string]string{
		"status": "OK",
	}

	if s.Pool != nil {
		ctx := c.Request().Context()
		conn, err := s.Pool.Acquire(ctx)
		if err == nil {
			err = conn.PingContext(ctx)
			_ = s.Pool.Release(conn)
		}
		if err != nil {
			status["database"] = "unavailable"
			return writeSuccess(c, http.StatusServiceUnavailable, status)
		}
		status["database"] = "ok"
	}

	return writeSuccess(c, http.StatusOK, status)
}
