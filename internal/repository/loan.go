package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/bookloan-service/internal/errs"
	"github.com/Astemirdum/bookloan-service/internal/model"
)

type Loans interface {
	IssueLoan(ctx context.Context, req model.LoanRequest, issueAt, dueAt time.Time) (model.Loan, error)
	ReturnLoan(ctx context.Context, loanID int, returnAt time.Time) (model.Loan, error)
	CreateRequest(ctx context.Context, req model.LoanRequest, issueAt, dueAt time.Time) (model.Loan, error)
	ApproveRequest(ctx context.Context, loanID int, issueAt, dueAt time.Time) (model.Loan, error)
	ResolveRequest(ctx context.Context, loanID int, to model.LoanStatus) (model.Loan, error)
	GetLoan(ctx context.Context, loanID int) (model.Loan, error)
	ListLoans(ctx context.Context, params model.ListParams, memberID int) (model.ListLoans, error)
}

var loanColumns = []string{
	"id", "loan_uid", "book_id", "member_id", "issue_date", "due_date", "return_date", "status",
}

// decrementAvailable takes one copy off the shelf. The availability guard
// rides in the WHERE clause, so two requests racing for the last copy resolve
// to exactly one winner under the transaction.
func (r *Repository) decrementAvailable(ctx context.Context, tx *sqlx.Tx, bookID int) error {
	res, err := tx.ExecContext(ctx,
		`update book set available_copies = available_copies - 1 where id = $1 and available_copies > 0`,
		bookID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `select exists (select 1 from book where id = $1)`, bookID); err != nil {
			return err
		}
		if !exists {
			return errs.ErrNotFound
		}
		return errs.ErrCapacityExceeded
	}
	return nil
}

// incrementAvailable puts one copy back, capped at total_copies.
func (r *Repository) incrementAvailable(ctx context.Context, tx *sqlx.Tx, bookID int) error {
	_, err := tx.ExecContext(ctx,
		`update book set available_copies = least(available_copies + 1, total_copies) where id = $1`,
		bookID)
	return err
}

func (r *Repository) IssueLoan(ctx context.Context, req model.LoanRequest, issueAt, dueAt time.Time) (model.Loan, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Loan{}, errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	if err := r.decrementAvailable(ctx, tx, req.BookID); err != nil {
		return model.Loan{}, err
	}

	query, args, err := qb.Insert(loanTableName).
		Columns("loan_uid", "book_id", "member_id", "issue_date", "due_date", "status").
		Values(uuid.New(), req.BookID, req.MemberID, issueAt, dueAt, model.StatusIssued).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	var loan model.Loan
	if err := tx.GetContext(ctx, &loan, query, args...); err != nil {
		if isPgErrCode(err, pgerrcode.ForeignKeyViolation) {
			return model.Loan{}, errors.Wrap(errs.ErrNotFound, "member")
		}
		r.log.Error("IssueLoan", zap.String("q", query), zap.Any("args", args))
		return model.Loan{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Loan{}, errors.Wrap(err, "commit")
	}
	return loan, nil
}

func (r *Repository) ReturnLoan(ctx context.Context, loanID int, returnAt time.Time) (model.Loan, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Loan{}, errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	q := `
update loan
    set status = $2, return_date = $3
where id = $1 and status = $4
returning id, loan_uid, book_id, member_id, issue_date, due_date, return_date, status`

	var loan model.Loan
	if err := tx.GetContext(ctx, &loan, q, loanID, model.StatusReturned, returnAt, model.StatusIssued); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, r.classifyMissingTransition(ctx, loanID)
		}
		return model.Loan{}, err
	}

	if err := r.incrementAvailable(ctx, tx, loan.BookID); err != nil {
		return model.Loan{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Loan{}, errors.Wrap(err, "commit")
	}
	return loan, nil
}

func (r *Repository) CreateRequest(ctx context.Context, req model.LoanRequest, issueAt, dueAt time.Time) (model.Loan, error) {
	// Pending rows carry the request timestamp; Approve restamps both dates
	// at decision time.
	query, args, err := qb.Insert(loanTableName).
		Columns("loan_uid", "book_id", "member_id", "issue_date", "due_date", "status").
		Values(uuid.New(), req.BookID, req.MemberID, issueAt, dueAt, model.StatusPending).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, query, args...); err != nil {
		if isPgErrCode(err, pgerrcode.ForeignKeyViolation) {
			return model.Loan{}, errs.ErrNotFound
		}
		r.log.Error("CreateRequest", zap.String("q", query), zap.Any("args", args))
		return model.Loan{}, err
	}
	return loan, nil
}

func (r *Repository) ApproveRequest(ctx context.Context, loanID int, issueAt, dueAt time.Time) (model.Loan, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Loan{}, errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	q := `
update loan
    set status = $2, issue_date = $3, due_date = $4
where id = $1 and status = $5
returning id, loan_uid, book_id, member_id, issue_date, due_date, return_date, status`

	var loan model.Loan
	if err := tx.GetContext(ctx, &loan, q, loanID, model.StatusIssued, issueAt, dueAt, model.StatusPending); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, r.classifyMissingTransition(ctx, loanID)
		}
		return model.Loan{}, err
	}

	// no copies left rolls the whole approval back
	if err := r.decrementAvailable(ctx, tx, loan.BookID); err != nil {
		return model.Loan{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Loan{}, errors.Wrap(err, "commit")
	}
	return loan, nil
}

// ResolveRequest closes a pending request as REJECTED or CANCELLED,
// availability untouched.
func (r *Repository) ResolveRequest(ctx context.Context, loanID int, to model.LoanStatus) (model.Loan, error) {
	query, args, err := qb.Update(loanTableName).
		Set("status", to).
		Where(sq.Eq{"id": loanID, "status": model.StatusPending}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, r.classifyMissingTransition(ctx, loanID)
		}
		return model.Loan{}, err
	}
	return loan, nil
}

// classifyMissingTransition tells an absent loan apart from one in the wrong
// state after a guarded update matched nothing.
func (r *Repository) classifyMissingTransition(ctx context.Context, loanID int) error {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `select exists (select 1 from loan where id = $1)`, loanID); err != nil {
		return err
	}
	if !exists {
		return errs.ErrNotFound
	}
	return errs.ErrInvalidState
}

func (r *Repository) GetLoan(ctx context.Context, loanID int) (model.Loan, error) {
	query, args, err := qb.Select(loanColumns...).
		From(loanTableName).
		Where(sq.Eq{"id": loanID}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrNotFound
		}
		return model.Loan{}, err
	}
	return loan, nil
}

// ListLoans lists the whole ledger, or a single member's slice of it when
// memberID is non-zero.
func (r *Repository) ListLoans(ctx context.Context, params model.ListParams, memberID int) (model.ListLoans, error) {
	var where []sq.Sqlizer
	if memberID != 0 {
		where = append(where, sq.Eq{"member_id": memberID})
	}
	if params.Search != "" {
		where = append(where, searchAny(params.Search, "status"))
	}

	q := qb.Select(loanColumns...).
		From(loanTableName).
		OrderBy(loanSort.orderBy(params))
	for _, w := range where {
		q = q.Where(w)
	}
	q = withPaging(q, params)

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListLoans{}, err
	}
	r.log.Debug("ListLoans", zap.String("query", query), zap.Any("args", args))

	var (
		loans []model.Loan
		total int
	)
	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		return r.db.SelectContext(ctx, &loans, query, args...)
	})
	gg.Go(func() error {
		var err error
		total, err = r.countWhere(ctx, loanTableName, where)
		return err
	})
	if err := gg.Wait(); err != nil {
		return model.ListLoans{}, err
	}

	return model.ListLoans{
		Paging: model.Paging{
			Offset: params.Offset,
			Limit:  params.Limit,
			Total:  total,
		},
		Items: loans,
	}, nil
}
