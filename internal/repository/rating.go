package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookloan-service/internal/errs"
	"github.com/Astemirdum/bookloan-service/internal/model"
)

type Ratings interface {
	CreateRating(ctx context.Context, bookID, memberID int, req model.RatingRequest) (model.Rating, error)
	MeanRating(ctx context.Context, bookID int) (float64, bool, error)
	ListRatings(ctx context.Context, bookID int) ([]model.Rating, error)
}

func (r *Repository) CreateRating(ctx context.Context, bookID, memberID int, req model.RatingRequest) (model.Rating, error) {
	// re-rating is allowed; every submission is kept
	query, args, err := qb.Insert(ratingTableName).
		Columns("book_id", "member_id", "stars", "review").
		Values(bookID, memberID, req.Stars, req.Review).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Rating{}, err
	}

	var rating model.Rating
	if err := r.db.GetContext(ctx, &rating, query, args...); err != nil {
		if isPgErrCode(err, pgerrcode.ForeignKeyViolation) {
			return model.Rating{}, errs.ErrNotFound
		}
		r.log.Error("CreateRating", zap.String("q", query), zap.Any("args", args))
		return model.Rating{}, err
	}
	return rating, nil
}

// MeanRating reports the arithmetic mean and whether any ratings exist at
// all; callers pick the display default for the empty case.
func (r *Repository) MeanRating(ctx context.Context, bookID int) (float64, bool, error) {
	q := `select avg(stars) from rating where book_id = $1`

	var mean sql.NullFloat64
	if err := r.db.GetContext(ctx, &mean, q, bookID); err != nil {
		return 0, false, err
	}
	if !mean.Valid {
		return 0, false, nil
	}
	return mean.Float64, true, nil
}

func (r *Repository) ListRatings(ctx context.Context, bookID int) ([]model.Rating, error) {
	query, args, err := qb.Select("id", "book_id", "member_id", "stars", "review", "created_at").
		From(ratingTableName).
		Where(sq.Eq{"book_id": bookID}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	var ratings []model.Rating
	if err := r.db.SelectContext(ctx, &ratings, query, args...); err != nil {
		return nil, err
	}
	return ratings, nil
}
