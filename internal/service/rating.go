package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Astemirdum/bookloan-service/internal/model"
	"github.com/Astemirdum/bookloan-service/internal/repository"
)

type RatingService struct {
	log     *zap.Logger
	ratings repository.Ratings
	books   repository.Books
}

func NewRatingService(ratings repository.Ratings, books repository.Books, log *zap.Logger) *RatingService {
	return &RatingService{
		log:     log,
		ratings: ratings,
		books:   books,
	}
}

func (s *RatingService) Record(ctx context.Context, bookID, memberID int, req model.RatingRequest) (model.Rating, error) {
	return s.ratings.CreateRating(ctx, bookID, memberID, req)
}

// Mean reports the average over all submissions; ok is false when the book
// has no ratings yet.
func (s *RatingService) Mean(ctx context.Context, bookID int) (float64, bool, error) {
	return s.ratings.MeanRating(ctx, bookID)
}

func (s *RatingService) ListRatings(ctx context.Context, bookID int) ([]model.Rating, error) {
	return s.ratings.ListRatings(ctx, bookID)
}

// SyncBookRating recomputes the mean and writes it back onto the book record.
// The stored rating is a denormalized display value; it only moves when a
// caller invokes this explicitly.
func (s *RatingService) SyncBookRating(ctx context.Context, bookID int) (model.Book, error) {
	mean, ok, err := s.ratings.MeanRating(ctx, bookID)
	if err != nil {
		return model.Book{}, err
	}
	if !ok {
		mean = 0
	}
	if err := s.books.UpdateBookRating(ctx, bookID, mean); err != nil {
		return model.Book{}, err
	}
	return s.books.GetBook(ctx, bookID)
}
