package movie

import "movieapi/errs"

var (
	ErrNotFound     = errs.Errorf(errs.ENOTFOUND, "movie not found")
	ErrInvalidQuery = errs.Errorf(errs.EINVALID, "invalid search query")
)

// Movie is a single film record. Titles conventionally embed a trailing
// "(YYYY)" release year; Year is stored independently and is nil when the
// source row carries none.
type Movie struct {
	MovieID int      `json:"movie_id"`
	Title   string   `json:"title"`
	Year    *int     `json:"year,omitempty"`
	Genres  []string `json:"genres"`
}

// Filter holds the optional listing filters. Zero values impose no
// constraint. Genre matching is exact array membership, not substring.
type Filter struct {
	Title string
	Genre string
	Year  *int
}

// Page is a 1-based pagination window.
type Page struct {
	Number int
	Size   int
}

// Offset returns the row offset of the window.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// PaginatedMovies is the response envelope for listing and search.
type PaginatedMovies struct {
	Items      []Movie `json:"items"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalItems int     `json:"total_items"`
	TotalPages int     `json:"total_pages"`
}
