package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookloan-service/internal/errs"
	"github.com/Astemirdum/bookloan-service/internal/model"
	"github.com/Astemirdum/bookloan-service/pkg/auth"
	"github.com/Astemirdum/bookloan-service/pkg/kafka"
)

type stubLoans struct {
	issueLoan      func(ctx context.Context, req model.LoanRequest, issueAt, dueAt time.Time) (model.Loan, error)
	returnLoan     func(ctx context.Context, loanID int, returnAt time.Time) (model.Loan, error)
	createRequest  func(ctx context.Context, req model.LoanRequest, issueAt, dueAt time.Time) (model.Loan, error)
	approveRequest func(ctx context.Context, loanID int, issueAt, dueAt time.Time) (model.Loan, error)
	resolveRequest func(ctx context.Context, loanID int, to model.LoanStatus) (model.Loan, error)
	getLoan        func(ctx context.Context, loanID int) (model.Loan, error)
	listLoans      func(ctx context.Context, params model.ListParams, memberID int) (model.ListLoans, error)
}

func (s *stubLoans) IssueLoan(ctx context.Context, req model.LoanRequest, issueAt, dueAt time.Time) (model.Loan, error) {
	return s.issueLoan(ctx, req, issueAt, dueAt)
}

func (s *stubLoans) ReturnLoan(ctx context.Context, loanID int, returnAt time.Time) (model.Loan, error) {
	return s.returnLoan(ctx, loanID, returnAt)
}

func (s *stubLoans) CreateRequest(ctx context.Context, req model.LoanRequest, issueAt, dueAt time.Time) (model.Loan, error) {
	return s.createRequest(ctx, req, issueAt, dueAt)
}

func (s *stubLoans) ApproveRequest(ctx context.Context, loanID int, issueAt, dueAt time.Time) (model.Loan, error) {
	return s.approveRequest(ctx, loanID, issueAt, dueAt)
}

func (s *stubLoans) ResolveRequest(ctx context.Context, loanID int, to model.LoanStatus) (model.Loan, error) {
	return s.resolveRequest(ctx, loanID, to)
}

func (s *stubLoans) GetLoan(ctx context.Context, loanID int) (model.Loan, error) {
	return s.getLoan(ctx, loanID)
}

func (s *stubLoans) ListLoans(ctx context.Context, params model.ListParams, memberID int) (model.ListLoans, error) {
	return s.listLoans(ctx, params, memberID)
}

type capturedEvent struct {
	topic string
	event model.LoanEvent
}

type stubPublisher struct {
	events []capturedEvent
}

func (p *stubPublisher) Enqueue(topic string, v any) error {
	p.events = append(p.events, capturedEvent{topic: topic, event: v.(model.LoanEvent)})
	return nil
}

func TestLoanService_Issue_DueDatePolicy(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var gotIssue, gotDue time.Time
	repo := &stubLoans{
		issueLoan: func(_ context.Context, req model.LoanRequest, issueAt, dueAt time.Time) (model.Loan, error) {
			gotIssue, gotDue = issueAt, dueAt
			return model.Loan{ID: 1, LoanUID: "u", BookID: req.BookID, MemberID: req.MemberID,
				IssueDate: issueAt, DueDate: dueAt, Status: model.StatusIssued}, nil
		},
	}
	pub := &stubPublisher{}
	svc := NewLoanService(repo, pub, nil, zap.NewNop())
	svc.now = func() time.Time { return now }

	loan, err := svc.Issue(context.Background(), model.LoanRequest{BookID: 1, MemberID: 2})
	require.NoError(t, err)
	require.Equal(t, model.StatusIssued, loan.Status)

	require.Equal(t, now, gotIssue)
	require.Equal(t, 7*24*time.Hour, gotDue.Sub(gotIssue))

	require.Len(t, pub.events, 1)
	require.Equal(t, kafka.LoanEventsTopic, pub.events[0].topic)
	require.Equal(t, "issued", pub.events[0].event.EventType)
}

func TestLoanService_Cancel_OwnerOnly(t *testing.T) {
	t.Parallel()

	repo := &stubLoans{
		getLoan: func(_ context.Context, loanID int) (model.Loan, error) {
			return model.Loan{ID: loanID, BookID: 1, MemberID: 7, Status: model.StatusPending}, nil
		},
		resolveRequest: func(_ context.Context, loanID int, to model.LoanStatus) (model.Loan, error) {
			return model.Loan{ID: loanID, BookID: 1, MemberID: 7, Status: to}, nil
		},
	}
	svc := NewLoanService(repo, nil, nil, zap.NewNop())

	_, err := svc.Cancel(context.Background(), 1, auth.Identity{MemberID: 8, Role: auth.RoleUser})
	require.ErrorIs(t, err, errs.ErrForbidden)

	loan, err := svc.Cancel(context.Background(), 1, auth.Identity{MemberID: 7, Role: auth.RoleUser})
	require.NoError(t, err)
	require.Equal(t, model.StatusCancelled, loan.Status)

	loan, err = svc.Cancel(context.Background(), 1, auth.Identity{MemberID: 8, Role: auth.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, model.StatusCancelled, loan.Status)
}

func TestLoanService_Reject_Notifies(t *testing.T) {
	t.Parallel()

	repo := &stubLoans{
		resolveRequest: func(_ context.Context, loanID int, to model.LoanStatus) (model.Loan, error) {
			require.Equal(t, model.StatusRejected, to)
			return model.Loan{ID: loanID, LoanUID: "u", BookID: 1, MemberID: 2, Status: to}, nil
		},
	}
	pub := &stubPublisher{}
	var notified []model.LoanEvent
	svc := NewLoanService(repo, pub, notifierFunc(func(_ context.Context, e model.LoanEvent) {
		notified = append(notified, e)
	}), zap.NewNop())

	loan, err := svc.Reject(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, model.StatusRejected, loan.Status)

	require.Len(t, pub.events, 1)
	require.Len(t, notified, 1)
	require.Equal(t, "rejected", notified[0].EventType)
}

type notifierFunc func(ctx context.Context, event model.LoanEvent)

func (f notifierFunc) LoanDecision(ctx context.Context, event model.LoanEvent) {
	f(ctx, event)
}
