package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/bookloan-service/internal/errs"
	"github.com/Astemirdum/bookloan-service/internal/model"
)

type Payments interface {
	RecordPayment(ctx context.Context, req model.PaymentRequest) (model.Payment, error)
	GetPaymentByOrder(ctx context.Context, orderID string) (model.Payment, error)
	ListPayments(ctx context.Context, params model.ListParams) (model.ListPayments, error)
}

var paymentColumns = []string{
	"id", "order_id", "professor_id", "member_id", "amount", "status", "payment_id", "created_at",
}

// RecordPayment is an idempotent insert keyed by order_id: gateway replays
// land on the conflict clause and the stored row is returned unchanged.
func (r *Repository) RecordPayment(ctx context.Context, req model.PaymentRequest) (model.Payment, error) {
	query, args, err := qb.Insert(paymentTableName).
		Columns("order_id", "professor_id", "member_id", "amount", "status", "payment_id").
		Values(req.OrderID, req.ProfessorID, req.MemberID, req.Amount, req.Status, req.PaymentID).
		Suffix("on conflict (order_id) do nothing").
		ToSql()
	if err != nil {
		return model.Payment{}, err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.log.Error("RecordPayment", zap.String("q", query), zap.Any("args", args))
		return model.Payment{}, err
	}

	return r.GetPaymentByOrder(ctx, req.OrderID)
}

func (r *Repository) GetPaymentByOrder(ctx context.Context, orderID string) (model.Payment, error) {
	query, args, err := qb.Select(paymentColumns...).
		From(paymentTableName).
		Where(sq.Eq{"order_id": orderID}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Payment{}, err
	}

	var p model.Payment
	if err := r.db.GetContext(ctx, &p, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Payment{}, errs.ErrNotFound
		}
		return model.Payment{}, err
	}
	return p, nil
}

func (r *Repository) ListPayments(ctx context.Context, params model.ListParams) (model.ListPayments, error) {
	var where []sq.Sqlizer
	if params.Search != "" {
		where = append(where, searchAny(params.Search, "order_id", "status", "payment_id"))
	}

	q := qb.Select(paymentColumns...).
		From(paymentTableName).
		OrderBy(paymentSort.orderBy(params))
	for _, w := range where {
		q = q.Where(w)
	}
	q = withPaging(q, params)

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListPayments{}, err
	}

	var (
		payments []model.Payment
		total    int
	)
	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		return r.db.SelectContext(ctx, &payments, query, args...)
	})
	gg.Go(func() error {
		var err error
		total, err = r.countWhere(ctx, paymentTableName, where)
		return err
	})
	if err := gg.Wait(); err != nil {
		return model.ListPayments{}, err
	}

	return model.ListPayments{
		Paging: model.Paging{
			Offset: params.Offset,
			Limit:  params.Limit,
			Total:  total,
		},
		Items: payments,
	}, nil
}
