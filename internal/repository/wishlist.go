package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookloan-service/internal/errs"
	"github.com/Astemirdum/bookloan-service/internal/model"
)

type Wishlists interface {
	AddToWishlist(ctx context.Context, bookID, memberID int) error
	RemoveFromWishlist(ctx context.Context, bookID, memberID int) error
	ListWishlist(ctx context.Context, memberID int) ([]model.Book, error)
}

func (r *Repository) AddToWishlist(ctx context.Context, bookID, memberID int) error {
	q := `insert into wishlist (book_id, member_id) values ($1, $2)`
	if r.dedupWishlist {
		q = `
insert into wishlist (book_id, member_id)
select $1, $2
where not exists (select 1 from wishlist where book_id = $1 and member_id = $2)`
	}

	if _, err := r.db.ExecContext(ctx, q, bookID, memberID); err != nil {
		if isPgErrCode(err, pgerrcode.ForeignKeyViolation) {
			return errs.ErrNotFound
		}
		r.log.Error("AddToWishlist", zap.Int("bookID", bookID), zap.Int("memberID", memberID))
		return err
	}
	return nil
}

func (r *Repository) RemoveFromWishlist(ctx context.Context, bookID, memberID int) error {
	query, args, err := qb.Delete(wishlistTableName).
		Where(sq.Eq{"book_id": bookID, "member_id": memberID}).
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

func (r *Repository) ListWishlist(ctx context.Context, memberID int) ([]model.Book, error) {
	q := qb.Select("b.id", "b.title", "b.author", "b.publisher", "b.genre", "b.isbn_no",
		"b.num_of_pages", "b.total_copies", "b.available_copies", "b.image_url", "b.price", "b.rating").
		From(bookTableName + " b").
		Join(wishlistTableName + " w on w.book_id = b.id").
		Where(sq.Eq{"w.member_id": memberID}).
		OrderBy("b.title asc")

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}
