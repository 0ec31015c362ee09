package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Astemirdum/bookloan-service/internal/model"
	"github.com/Astemirdum/bookloan-service/internal/repository"
)

type MemberService struct {
	log  *zap.Logger
	repo repository.Members
}

func NewMemberService(repo repository.Members, log *zap.Logger) *MemberService {
	return &MemberService{
		log:  log,
		repo: repo,
	}
}

// Signup always creates a plain user; role changes go through SetRole on the
// admin path only.
func (s *MemberService) Signup(ctx context.Context, req model.SignupRequest) (model.Member, error) {
	return s.repo.CreateMember(ctx, req)
}

func (s *MemberService) GetMember(ctx context.Context, id int) (model.Member, error) {
	return s.repo.GetMember(ctx, id)
}

func (s *MemberService) SetRole(ctx context.Context, id int, role string) (model.Member, error) {
	return s.repo.SetMemberRole(ctx, id, role)
}

func (s *MemberService) ListMembers(ctx context.Context, params model.ListParams) (model.ListMembers, error) {
	return s.repo.ListMembers(ctx, params)
}
