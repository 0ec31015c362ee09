package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/bookloan-service/internal/errs"
	"github.com/Astemirdum/bookloan-service/internal/model"
	"github.com/Astemirdum/bookloan-service/internal/repository"
	"github.com/Astemirdum/bookloan-service/pkg/auth"
	"github.com/Astemirdum/bookloan-service/pkg/kafka"
)

// Fixed borrowing policy: every loan is due a week after issue.
const loanPeriod = 7 * 24 * time.Hour

type LoanService struct {
	log      *zap.Logger
	repo     repository.Loans
	pub      Publisher
	notifier DecisionNotifier

	now func() time.Time
}

func NewLoanService(repo repository.Loans, pub Publisher, notifier DecisionNotifier, log *zap.Logger) *LoanService {
	return &LoanService{
		log:      log,
		repo:     repo,
		pub:      pub,
		notifier: notifier,
		now:      time.Now,
	}
}

func (s *LoanService) Issue(ctx context.Context, req model.LoanRequest) (model.Loan, error) {
	now := s.now().UTC()
	loan, err := s.repo.IssueLoan(ctx, req, now, now.Add(loanPeriod))
	if err != nil {
		return model.Loan{}, err
	}
	s.publish("issued", loan)
	return loan, nil
}

func (s *LoanService) Return(ctx context.Context, loanID int) (model.Loan, error) {
	loan, err := s.repo.ReturnLoan(ctx, loanID, s.now().UTC())
	if err != nil {
		return model.Loan{}, err
	}
	s.publish("returned", loan)
	return loan, nil
}

func (s *LoanService) Request(ctx context.Context, req model.LoanRequest) (model.Loan, error) {
	now := s.now().UTC()
	loan, err := s.repo.CreateRequest(ctx, req, now, now.Add(loanPeriod))
	if err != nil {
		return model.Loan{}, err
	}
	s.publish("requested", loan)
	return loan, nil
}

func (s *LoanService) Approve(ctx context.Context, loanID int) (model.Loan, error) {
	now := s.now().UTC()
	loan, err := s.repo.ApproveRequest(ctx, loanID, now, now.Add(loanPeriod))
	if err != nil {
		return model.Loan{}, err
	}
	s.publish("approved", loan)
	s.notifyDecision(ctx, "approved", loan)
	return loan, nil
}

func (s *LoanService) Reject(ctx context.Context, loanID int) (model.Loan, error) {
	loan, err := s.repo.ResolveRequest(ctx, loanID, model.StatusRejected)
	if err != nil {
		return model.Loan{}, err
	}
	s.publish("rejected", loan)
	s.notifyDecision(ctx, "rejected", loan)
	return loan, nil
}

// Cancel is owner-or-admin: a member may withdraw only their own pending
// request.
func (s *LoanService) Cancel(ctx context.Context, loanID int, caller auth.Identity) (model.Loan, error) {
	loan, err := s.repo.GetLoan(ctx, loanID)
	if err != nil {
		return model.Loan{}, err
	}
	if !caller.IsAdmin() && loan.MemberID != caller.MemberID {
		return model.Loan{}, errs.ErrForbidden
	}
	loan, err = s.repo.ResolveRequest(ctx, loanID, model.StatusCancelled)
	if err != nil {
		return model.Loan{}, err
	}
	s.publish("cancelled", loan)
	return loan, nil
}

func (s *LoanService) Get(ctx context.Context, loanID int) (model.Loan, error) {
	return s.repo.GetLoan(ctx, loanID)
}

func (s *LoanService) List(ctx context.Context, params model.ListParams, memberID int) (model.ListLoans, error) {
	return s.repo.ListLoans(ctx, params, memberID)
}

// publish is best-effort: a broker outage must not fail the user operation.
func (s *LoanService) publish(eventType string, loan model.Loan) {
	if s.pub == nil {
		return
	}
	event := model.LoanEvent{
		LoanUID:   loan.LoanUID,
		BookID:    loan.BookID,
		MemberID:  loan.MemberID,
		EventType: eventType,
		Status:    loan.Status,
	}
	if err := s.pub.Enqueue(kafka.LoanEventsTopic, event); err != nil {
		s.log.Warn("publish loan event", zap.String("eventType", eventType), zap.Error(err))
	}
}

func (s *LoanService) notifyDecision(ctx context.Context, eventType string, loan model.Loan) {
	if s.notifier == nil {
		return
	}
	s.notifier.LoanDecision(ctx, model.LoanEvent{
		LoanUID:   loan.LoanUID,
		BookID:    loan.BookID,
		MemberID:  loan.MemberID,
		EventType: eventType,
		Status:    loan.Status,
	})
}
