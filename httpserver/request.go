package httpserver

import "movieapi/movie"

type ListMoviesRequest struct {
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
	Title    string `query:"title" validate:"omitempty,max=255"`
	Genre    string `query:"genre" validate:"omitempty,max=100"`
	Year     *int   `query:"year" validate:"omitempty,gte=0"`
}

func (r ListMoviesRequest) Filter() movie.Filter {
	return movie.Filter{
		Title: r.Title,
		Genre: r.Genre,
		Year:  r.Year,
	}
}

// Window returns the requested pagination window with the documented
// defaults. Out-of-range values are clamped by the usecase, not here.
func (r ListMoviesRequest) Window() movie.Page {
	page := movie.Page{Number: r.Page, Size: r.PageSize}
	if page.Number == 0 {
		page.Number = 1
	}
	if page.Size == 0 {
		page.Size = 20
	}
	return page
}

type SearchMoviesRequest struct {
	Q string `query:"q" validate:"required,notblank"`
	ListMoviesRequest
}
