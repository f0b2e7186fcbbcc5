package movie

import "context"

const (
	minPageSize = 1
	maxPageSize = 100
)

type Service interface {
	GetMovies(ctx context.Context, filter Filter, page Page) (PaginatedMovies, error)
	SearchMovies(ctx context.Context, query string, filter Filter, page Page) (PaginatedMovies, error)
	GetMovie(ctx context.Context, movieID int) (Movie, error)
}

type Repository interface {
	GetByID(ctx context.Context, movieID int) (Movie, error)
	List(ctx context.Context, filter Filter, page Page) ([]Movie, int, error)
	Search(ctx context.Context, query string, filter Filter, page Page) ([]Movie, int, error)
}

type Usecase struct {
	r Repository
}

func NewUsecase(r Repository) *Usecase {
	return &Usecase{r: r}
}

// GetMovies returns one page of movies matching the filter. Pagination
// inputs are clamped, never rejected: size to [1, 100], page to a minimum
// of 1. A page past the end of the data yields an empty item list with a
// correct total.
func (uc *Usecase) GetMovies(ctx context.Context, filter Filter, page Page) (PaginatedMovies, error) {
	page = clampPage(page)

	items, total, err := uc.r.List(ctx, filter, page)
	if err != nil {
		return PaginatedMovies{}, err
	}

	return paginate(items, total, page), nil
}

// SearchMovies is listing with the query applied as the title filter.
func (uc *Usecase) SearchMovies(ctx context.Context, query string, filter Filter, page Page) (PaginatedMovies, error) {
	page = clampPage(page)

	items, total, err := uc.r.Search(ctx, query, filter, page)
	if err != nil {
		return PaginatedMovies{}, err
	}

	return paginate(items, total, page), nil
}

// GetMovie returns a single movie. A missing row surfaces as ErrNotFound,
// which the transport layer maps to a 404.
func (uc *Usecase) GetMovie(ctx context.Context, movieID int) (Movie, error) {
	return uc.r.GetByID(ctx, movieID)
}

func clampPage(page Page) Page {
	if page.Size < minPageSize {
		page.Size = minPageSize
	}
	if page.Size > maxPageSize {
		page.Size = maxPageSize
	}
	if page.Number < 1 {
		page.Number = 1
	}
	return page
}

func paginate(items []Movie, total int, page Page) PaginatedMovies {
	totalPages := 0
	if total > 0 {
		totalPages = (total + page.Size - 1) / page.Size
	}
	if items == nil {
		items = []Movie{}
	}

	return PaginatedMovies{
		Items:      items,
		Page:       page.Number,
		PageSize:   page.Size,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
