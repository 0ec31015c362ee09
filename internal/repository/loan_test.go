package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookloan-service/internal/errs"
	"github.com/Astemirdum/bookloan-service/internal/model"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo, err := NewRepository(sqlx.NewDb(db, "sqlmock"), zap.NewNop())
	require.NoError(t, err)
	return repo, mock
}

const (
	decrementQuery  = `update book set available_copies = available_copies - 1 where id = $1 and available_copies > 0`
	incrementQuery  = `update book set available_copies = least(available_copies + 1, total_copies) where id = $1`
	bookExistsQuery = `select exists (select 1 from book where id = $1)`
	loanExistsQuery = `select exists (select 1 from loan where id = $1)`
)

func TestRepository_IssueLoan(t *testing.T) {
	t.Parallel()

	issueAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	dueAt := issueAt.AddDate(0, 0, 7)

	insertQuery := `INSERT INTO loan (loan_uid,book_id,member_id,issue_date,due_date,status) VALUES ($1,$2,$3,$4,$5,$6) returning *`

	t.Run("issues and commits", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(decrementQuery).WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(insertQuery).
			WithArgs(sqlmock.AnyArg(), 1, 2, issueAt, dueAt, string(model.StatusIssued)).
			WillReturnRows(sqlmock.NewRows(loanColumns).
				AddRow(10, "7e7f4f55-7f3b-4a02-9c19-6d6f1f2a8c11", 1, 2, issueAt, dueAt, nil, "ISSUED"))
		mock.ExpectCommit()

		loan, err := repo.IssueLoan(context.Background(), model.LoanRequest{BookID: 1, MemberID: 2}, issueAt, dueAt)
		require.NoError(t, err)
		require.Equal(t, model.StatusIssued, loan.Status)
		require.Equal(t, dueAt, loan.DueDate)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("last copy already gone rolls back", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		// the availability guard in the WHERE clause matched nothing
		mock.ExpectBegin()
		mock.ExpectExec(decrementQuery).WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(bookExistsQuery).WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		_, err := repo.IssueLoan(context.Background(), model.LoanRequest{BookID: 1, MemberID: 2}, issueAt, dueAt)
		require.ErrorIs(t, err, errs.ErrCapacityExceeded)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing book rolls back", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(decrementQuery).WithArgs(77).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(bookExistsQuery).WithArgs(77).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		_, err := repo.IssueLoan(context.Background(), model.LoanRequest{BookID: 77, MemberID: 2}, issueAt, dueAt)
		require.ErrorIs(t, err, errs.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_ReturnLoan(t *testing.T) {
	t.Parallel()

	issueAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	returnAt := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	returnQuery := `update loan set status = $2, return_date = $3 where id = $1 and status = $4 ` +
		`returning id, loan_uid, book_id, member_id, issue_date, due_date, return_date, status`

	t.Run("returns and restores the copy", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(returnQuery).
			WithArgs(10, string(model.StatusReturned), returnAt, string(model.StatusIssued)).
			WillReturnRows(sqlmock.NewRows(loanColumns).
				AddRow(10, "7e7f4f55-7f3b-4a02-9c19-6d6f1f2a8c11", 1, 2, issueAt, issueAt.AddDate(0, 0, 7), returnAt, "RETURNED"))
		mock.ExpectExec(incrementQuery).WithArgs(1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		loan, err := repo.ReturnLoan(context.Background(), 10, returnAt)
		require.NoError(t, err)
		require.Equal(t, model.StatusReturned, loan.Status)
		require.NotNil(t, loan.ReturnDate)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already returned is invalid state", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(returnQuery).
			WithArgs(10, string(model.StatusReturned), returnAt, string(model.StatusIssued)).
			WillReturnRows(sqlmock.NewRows(loanColumns))
		mock.ExpectQuery(loanExistsQuery).WithArgs(10).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		_, err := repo.ReturnLoan(context.Background(), 10, returnAt)
		require.ErrorIs(t, err, errs.ErrInvalidState)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing loan", func(t *testing.T) {
		t.Parallel()
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectQuery(returnQuery).
			WithArgs(99, string(model.StatusReturned), returnAt, string(model.StatusIssued)).
			WillReturnRows(sqlmock.NewRows(loanColumns))
		mock.ExpectQuery(loanExistsQuery).WithArgs(99).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		_, err := repo.ReturnLoan(context.Background(), 99, returnAt)
		require.ErrorIs(t, err, errs.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
