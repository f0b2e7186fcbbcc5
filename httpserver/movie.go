package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"movieapi/errs"
	"movieapi/movie"
)

func (s *Server) RegisterMovieRoutes(g *echo.Group) {
	g.GET("/movies", s.handleListMovies)
	g.GET("/movies/search", s.handleSearchMovies)
	g.GET("/movies/:id", s.handleGetMovie)
}

// handleListMovies godoc
// @Summary List Movies
// @Description Paginated movie listing with optional title/genre/year filters
// @Tags movies
// @Produce json
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Items per page (clamped to 1-100), default 20"
// @Param title query string false "Case-insensitive title substring"
// @Param genre query string false "Exact genre membership"
// @Param year query int false "Release year"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /api/movies [get]
func (s *Server) handleListMovies(c echo.Context) error {
	if s.MovieService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}

	var req ListMoviesRequest
	if err := c.Bind(&req); err != nil {
		return errs.Errorf(errs.EINVALID, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := s.MovieService.GetMovies(c.Request().Context(), req.Filter(), req.Window())
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, result)
}

// handleSearchMovies godoc
// @Summary Search Movies
// @Description Search movies by title with optional genre/year filters
// @Tags movies
// @Produce json
// @Param q query string true "Search query"
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Items per page (clamped to 1-100), default 20"
// @Param genre query string false "Exact genre membership"
// @Param year query int false "Release year"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /api/movies/search [get]
func (s *Server) handleSearchMovies(c echo.Context) error {
	if s.MovieService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}

	var req SearchMoviesRequest
	if err := c.Bind(&req); err != nil {
		return movie.ErrInvalidQuery
	}
	if err := c.Validate(&req); err != nil {
		return movie.ErrInvalidQuery
	}

	result, err := s.MovieService.SearchMovies(c.Request().Context(), req.Q, req.Filter(), req.Window())
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, result)
}

// handleGetMovie godoc
// @Summary Get Movie
// @Description Fetch a single movie by id
// @Tags movies
// @Produce json
// @Param id path int true "Movie ID"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse
// @Failure 401 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /api/movies/{id} [get]
func (s *Server) handleGetMovie(c echo.Context) error {
	if s.MovieService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}

	movieID, err := strconv.Atoi(c.Param("id"))
	if err != nil || movieID < 1 {
		return errs.Errorf(errs.EINVALID, "invalid movie id")
	}

	m, err := s.MovieService.GetMovie(c.Request().Context(), movieID)
	if err != nil {
		return err
	}

	return writeSuccess(c, http.StatusOK, m)
}
