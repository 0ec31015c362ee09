package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Astemirdum/bookloan-service/internal/model"
	"github.com/Astemirdum/bookloan-service/internal/repository"
)

type WishlistService struct {
	log  *zap.Logger
	repo repository.Wishlists
}

func NewWishlistService(repo repository.Wishlists, log *zap.Logger) *WishlistService {
	return &WishlistService{
		log:  log,
		repo: repo,
	}
}

func (s *WishlistService) Add(ctx context.Context, bookID, memberID int) error {
	return s.repo.AddToWishlist(ctx, bookID, memberID)
}

func (s *WishlistService) Remove(ctx context.Context, bookID, memberID int) error {
	return s.repo.RemoveFromWishlist(ctx, bookID, memberID)
}

func (s *WishlistService) List(ctx context.Context, memberID int) ([]model.Book, error) {
	return s.repo.ListWishlist(ctx, memberID)
}
