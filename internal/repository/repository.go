package repository

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookloan-service/internal/model"
)

const (
	bookTableName     = `book`
	memberTableName   = `member`
	loanTableName     = `loan`
	wishlistTableName = `wishlist`
	ratingTableName   = `rating`
	paymentTableName  = `payment`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type Repository struct {
	db  *sqlx.DB
	log *zap.Logger

	dedupWishlist bool
}

type Option func(*Repository)

// WithWishlistDedup toggles duplicate suppression on wishlist inserts.
// The source app permitted duplicates; dedup is the default here.
func WithWishlistDedup(on bool) Option {
	return func(r *Repository) {
		r.dedupWishlist = on
	}
}

func NewRepository(db *sqlx.DB, log *zap.Logger, opts ...Option) (*Repository, error) {
	r := &Repository{
		db:            db,
		log:           log.Named("repo"),
		dedupWishlist: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// sortSpec maps caller-facing sort names onto columns. Unknown names resolve
// to the entity default rather than erroring.
type sortSpec struct {
	fields map[string]string
	def    string
}

var (
	bookSort = sortSpec{
		fields: map[string]string{
			"title":  "title",
			"author": "author",
			"genre":  "genre",
			"isbn":   "isbn_no",
			"price":  "price",
			"rating": "rating",
		},
		def: "title",
	}
	memberSort = sortSpec{
		fields: map[string]string{
			"firstName": "first_name",
			"lastName":  "last_name",
			"email":     "email",
		},
		def: "first_name",
	}
	loanSort = sortSpec{
		fields: map[string]string{
			"issueDate": "issue_date",
			"dueDate":   "due_date",
			"status":    "status",
		},
		def: "issue_date",
	}
	paymentSort = sortSpec{
		fields: map[string]string{
			"createdAt": "created_at",
			"amount":    "amount",
			"status":    "status",
		},
		def: "created_at",
	}
)

func (s sortSpec) orderBy(p model.ListParams) string {
	col, ok := s.fields[p.SortBy]
	if !ok {
		col = s.def
	}
	dir := "asc"
	if strings.EqualFold(p.SortDir, "desc") {
		dir = "desc"
	}
	return col + " " + dir
}

// searchAny builds a case-insensitive substring match over the given columns.
func searchAny(term string, cols ...string) sq.Sqlizer {
	pat := "%" + term + "%"
	or := make(sq.Or, 0, len(cols))
	for _, col := range cols {
		or = append(or, sq.ILike{col: pat})
	}
	return or
}

func withPaging(q sq.SelectBuilder, p model.ListParams) sq.SelectBuilder {
	if p.Limit > 0 {
		q = q.Limit(uint64(p.Limit))
	}
	if p.Offset > 0 {
		q = q.Offset(uint64(p.Offset))
	}
	return q
}

func isPgErrCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// countWhere runs count(*) under the same filter as the item query so that
// Paging.Total never degrades to len(items).
func (r *Repository) countWhere(ctx context.Context, table string, where []sq.Sqlizer) (int, error) {
	q := qb.Select("count(*)").From(table)
	for _, w := range where {
		q = q.Where(w)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}
	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, err
	}
	return total, nil
}
