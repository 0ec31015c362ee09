package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Astemirdum/bookloan-service/internal/model"
	"github.com/Astemirdum/bookloan-service/internal/repository"
)

type CatalogService struct {
	log  *zap.Logger
	repo repository.Books
}

func NewCatalogService(repo repository.Books, log *zap.Logger) *CatalogService {
	return &CatalogService{
		log:  log,
		repo: repo,
	}
}

func (s *CatalogService) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, req)
}

func (s *CatalogService) GetBook(ctx context.Context, id int) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *CatalogService) UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error) {
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *CatalogService) DeleteBook(ctx context.Context, id int) error {
	return s.repo.DeleteBook(ctx, id)
}

func (s *CatalogService) ListBooks(ctx context.Context, params model.ListParams) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, params)
}
