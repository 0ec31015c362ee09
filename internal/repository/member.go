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
	"github.com/Astemirdum/bookloan-service/pkg/auth"
)

type Members interface {
	CreateMember(ctx context.Context, req model.SignupRequest) (model.Member, error)
	GetMember(ctx context.Context, id int) (model.Member, error)
	SetMemberRole(ctx context.Context, id int, role string) (model.Member, error)
	ListMembers(ctx context.Context, params model.ListParams) (model.ListMembers, error)
}

var memberColumns = []string{
	"id", "first_name", "last_name", "email", "phone_number",
	"password_hash", "role", "external_auth_id",
}

func (r *Repository) CreateMember(ctx context.Context, req model.SignupRequest) (model.Member, error) {
	query, args, err := qb.Insert(memberTableName).
		Columns("first_name", "last_name", "email", "phone_number", "password_hash", "role", "external_auth_id").
		Values(req.FirstName, req.LastName, req.Email, req.PhoneNumber, req.PasswordHash, auth.RoleUser, req.ExternalAuthID).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Member{}, err
	}

	var m model.Member
	if err := r.db.GetContext(ctx, &m, query, args...); err != nil {
		if isPgErrCode(err, pgerrcode.UniqueViolation) {
			return model.Member{}, errors.Wrap(errs.ErrConflict, "email")
		}
		r.log.Error("CreateMember", zap.String("q", query), zap.Any("args", args))
		return model.Member{}, err
	}
	return m, nil
}

func (r *Repository) GetMember(ctx context.Context, id int) (model.Member, error) {
	query, args, err := qb.Select(memberColumns...).
		From(memberTableName).
		Where(sq.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Member{}, err
	}

	var m model.Member
	if err := r.db.GetContext(ctx, &m, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Member{}, errs.ErrNotFound
		}
		return model.Member{}, err
	}
	return m, nil
}

func (r *Repository) SetMemberRole(ctx context.Context, id int, role string) (model.Member, error) {
	query, args, err := qb.Update(memberTableName).
		Set("role", role).
		Where(sq.Eq{"id": id}).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Member{}, err
	}

	var m model.Member
	if err := r.db.GetContext(ctx, &m, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Member{}, errs.ErrNotFound
		}
		return model.Member{}, err
	}
	return m, nil
}

func (r *Repository) ListMembers(ctx context.Context, params model.ListParams) (model.ListMembers, error) {
	var where []sq.Sqlizer
	if params.Search != "" {
		where = append(where, searchAny(params.Search, "first_name", "last_name", "email"))
	}

	q := qb.Select(memberColumns...).
		From(memberTableName).
		OrderBy(memberSort.orderBy(params))
	for _, w := range where {
		q = q.Where(w)
	}
	q = withPaging(q, params)

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListMembers{}, err
	}

	var (
		members []model.Member
		total   int
	)
	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		return r.db.SelectContext(ctx, &members, query, args...)
	})
	gg.Go(func() error {
		var err error
		total, err = r.countWhere(ctx, memberTableName, where)
		return err
	})
	if err := gg.Wait(); err != nil {
		return model.ListMembers{}, err
	}

	return model.ListMembers{
		Paging: model.Paging{
			Offset: params.Offset,
			Limit:  params.Limit,
			Total:  total,
		},
		Items: members,
	}, nil
}
