package postgres

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"movieapi/movie"
)

// MovieModel represents the database model for movies.
type MovieModel struct {
	MovieID int            `gorm:"column:movie_id;primaryKey"`
	Title   string         `gorm:"not null"`
	Year    *int           `gorm:"column:year"`
	Genres  pq.StringArray `gorm:"type:text[];not null"`
}

// TableName specifies the table name for GORM
func (MovieModel) TableName() string {
	return "movies"
}

// MovieRepository implements movie.Repository on PostgreSQL. Filters are
// always bound as parameters; user input never reaches the SQL text.
type MovieRepository struct {
	pool *Pool
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(pool *Pool) *MovieRepository {
	return &MovieRepository{pool: pool}
}

// GetByID fetches a single movie. A missing row is movie.ErrNotFound,
// not a data-access failure.
func (r *MovieRepository) GetByID(ctx context.Context, movieID int) (movie.Movie, error) {
	db, err := r.pool.DB()
	if err != nil {
		return movie.Movie{}, err
	}

	var model MovieModel
	err = db.WithContext(ctx).Where("movie_id = ?", movieID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return movie.Movie{}, movie.ErrNotFound
		}
		slog.Error("movie lookup failed", "movie_id", movieID, "error", err)
		return movie.Movie{}, err
	}

	return toDomainMovie(model), nil
}

// List returns one page of movies matching the filter plus the total
// match count. The count query reuses the exact WHERE clause and
// arguments of the data query; only the data query is windowed.
func (r *MovieRepository) List(ctx context.Context, filter movie.Filter, page movie.Page) ([]movie.Movie, int, error) {
	db, err := r.pool.DB()
	if err != nil {
		return nil, 0, err
	}

	where, args := buildMovieFilter(filter)

	var total int64
	err = db.WithContext(ctx).
		Raw(`SELECT count(*) FROM movies`+where, args...).
		Scan(&total).Error
	if err != nil {
		slog.Error("movie count failed", "error", err)
		return nil, 0, err
	}

	dataSQL := `SELECT movie_id, title, year, genres FROM movies` + where +
		` ORDER BY movie_id LIMIT ? OFFSET ?`
	dataArgs := append(args, page.Size, page.Offset())

	var models []MovieModel
	if err := db.WithContext(ctx).Raw(dataSQL, dataArgs...).Scan(&models).Error; err != nil {
		slog.Error("movie listing failed", "error", err)
		return nil, 0, err
	}

	movies := make([]movie.Movie, len(models))
	for i, model := range models {
		movies[i] = toDomainMovie(model)
	}
	return movies, int(total), nil
}

// Search is listing with the query as the title filter. There is no
// separate ranking; ordering stays by movie_id for stable pages.
func (r *MovieRepository) Search(ctx context.Context, query string, filter movie.Filter, page movie.Page) ([]movie.Movie, int, error) {
	filter.Title = query
	return r.List(ctx, filter, page)
}

// buildMovieFilter assembles the conjunctive WHERE clause for whichever
// filters are set. Title matches are case-insensitive substrings; genre
// is an exact array-membership test against the text[] column.
func buildMovieFilter(filter movie.Filter) (string, []interface{}) {
	var (
		conds []string
		args  []interface{}
	)

	if filter.Title != "" {
		conds = append(conds, "title ILIKE ?")
		args = append(args, "%"+filter.Title+"%")
	}
	if filter.Genre != "" {
		conds = append(conds, "? = ANY(genres)")
		args = append(args, filter.Genre)
	}
	if filter.Year != nil {
		conds = append(conds, "year = ?")
		args = append(args, *filter.Year)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func toDomainMovie(model MovieModel) movie.Movie {
	return movie.Movie{
		MovieID: model.MovieID,
		Title:   model.Title,
		Year:    model.Year,
		Genres:  model.Genres,
	}
}
