package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Astemirdum/bookloan-service/internal/model"
	"github.com/Astemirdum/bookloan-service/internal/repository"
)

type PaymentService struct {
	log  *zap.Logger
	repo repository.Payments
}

func NewPaymentService(repo repository.Payments, log *zap.Logger) *PaymentService {
	return &PaymentService{
		log:  log,
		repo: repo,
	}
}

func (s *PaymentService) Record(ctx context.Context, req model.PaymentRequest) (model.Payment, error) {
	return s.repo.RecordPayment(ctx, req)
}

func (s *PaymentService) List(ctx context.Context, params model.ListParams) (model.ListPayments, error) {
	return s.repo.ListPayments(ctx, params)
}
