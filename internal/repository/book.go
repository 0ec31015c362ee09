package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/bookloan-service/internal/errs"
	"github.com/Astemirdum/bookloan-service/internal/model"
)

type Books interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error)
	UpdateBookRating(ctx context.Context, id int, rating float64) error
	DeleteBook(ctx context.Context, id int) error
	ListBooks(ctx context.Context, params model.ListParams) (model.ListBooks, error)
}

var bookColumns = []string{
	"id", "title", "author", "publisher", "genre", "isbn_no", "num_of_pages",
	"total_copies", "available_copies", "image_url", "price", "rating",
}

func (r *Repository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	query, args, err := qb.Insert(bookTableName).
		Columns("title", "author", "publisher", "genre", "isbn_no", "num_of_pages",
			"total_copies", "available_copies", "image_url", "price").
		Values(req.Title, req.Author, req.Publisher, req.Genre, req.ISBN, req.NumOfPages,
			req.TotalCopies, req.TotalCopies, req.ImageURL, req.Price).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if isPgErrCode(err, pgerrcode.UniqueViolation) {
			return model.Book{}, errors.Wrap(errs.ErrConflict, "isbn")
		}
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, err
	}
	return book, nil
}

func (r *Repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(bookTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *Repository) UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error) {
	if req == (model.UpdateBookRequest{}) {
		return r.GetBook(ctx, id)
	}
	q := qb.Update(bookTableName).Where(sq.Eq{"id": id}).Suffix("returning *")

	if req.Title != nil {
		q = q.Set("title", *req.Title)
	}
	if req.Author != nil {
		q = q.Set("author", *req.Author)
	}
	if req.Publisher != nil {
		q = q.Set("publisher", *req.Publisher)
	}
	if req.Genre != nil {
		q = q.Set("genre", *req.Genre)
	}
	if req.NumOfPages != nil {
		q = q.Set("num_of_pages", *req.NumOfPages)
	}
	if req.TotalCopies != nil {
		// growing or shrinking the stock moves the free-copy count by the
		// same delta; the check constraint rejects a shrink below what is
		// currently on loan
		q = q.Set("total_copies", *req.TotalCopies).
			Set("available_copies", sq.Expr("available_copies + ? - total_copies", *req.TotalCopies))
	}
	if req.ImageURL != nil {
		q = q.Set("image_url", *req.ImageURL)
	}
	if req.Price != nil {
		q = q.Set("price", *req.Price)
	}

	query, args, err := q.ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		r.log.Error("UpdateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, err
	}
	return book, nil
}

func (r *Repository) UpdateBookRating(ctx context.Context, id int, rating float64) error {
	query, args, err := qb.Update(bookTableName).
		Set("rating", rating).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteBook(ctx context.Context, id int) error {
	query, args, err := qb.Delete(bookTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *Repository) ListBooks(ctx context.Context, params model.ListParams) (model.ListBooks, error) {
	var where []sq.Sqlizer
	if params.Search != "" {
		where = append(where, searchAny(params.Search, "title", "author", "genre", "isbn_no"))
	}

	q := qb.Select(bookColumns...).
		From(bookTableName).
		OrderBy(bookSort.orderBy(params))
	for _, w := range where {
		q = q.Where(w)
	}
	q = withPaging(q, params)

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	var (
		books []model.Book
		total int
	)
	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		return r.db.SelectContext(ctx, &books, query, args...)
	})
	gg.Go(func() error {
		var err error
		total, err = r.countWhere(ctx, bookTableName, where)
		return err
	})
	if err := gg.Wait(); err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Offset: params.Offset,
			Limit:  params.Limit,
			Total:  total,
		},
		Items: books,
	}, nil
}
