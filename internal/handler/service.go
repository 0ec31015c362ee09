package handler

import (
	"context"

	"github.com/Astemirdum/bookloan-service/internal/model"
	"github.com/Astemirdum/bookloan-service/internal/service"
	"github.com/Astemirdum/bookloan-service/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type CatalogService interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int) error
	ListBooks(ctx context.Context, params model.ListParams) (model.ListBooks, error)
}

type MemberService interface {
	Signup(ctx context.Context, req model.SignupRequest) (model.Member, error)
	GetMember(ctx context.Context, id int) (model.Member, error)
	SetRole(ctx context.Context, id int, role string) (model.Member, error)
	ListMembers(ctx context.Context, params model.ListParams) (model.ListMembers, error)
}

type LoanService interface {
	Issue(ctx context.Context, req model.LoanRequest) (model.Loan, error)
	Return(ctx context.Context, loanID int) (model.Loan, error)
	Request(ctx context.Context, req model.LoanRequest) (model.Loan, error)
	Approve(ctx context.Context, loanID int) (model.Loan, error)
	Reject(ctx context.Context, loanID int) (model.Loan, error)
	Cancel(ctx context.Context, loanID int, caller auth.Identity) (model.Loan, error)
	List(ctx context.Context, params model.ListParams, memberID int) (model.ListLoans, error)
}

type RatingService interface {
	Record(ctx context.Context, bookID, memberID int, req model.RatingRequest) (model.Rating, error)
	Mean(ctx context.Context, bookID int) (float64, bool, error)
	ListRatings(ctx context.Context, bookID int) ([]model.Rating, error)
	SyncBookRating(ctx context.Context, bookID int) (model.Book, error)
}

type WishlistService interface {
	Add(ctx context.Context, bookID, memberID int) error
	Remove(ctx context.Context, bookID, memberID int) error
	List(ctx context.Context, memberID int) ([]model.Book, error)
}

type PaymentService interface {
	Record(ctx context.Context, req model.PaymentRequest) (model.Payment, error)
	List(ctx context.Context, params model.ListParams) (model.ListPayments, error)
}

var (
	_ CatalogService  = (*service.CatalogService)(nil)
	_ MemberService   = (*service.MemberService)(nil)
	_ LoanService     = (*service.LoanService)(nil)
	_ RatingService   = (*service.RatingService)(nil)
	_ WishlistService = (*service.WishlistService)(nil)
	_ PaymentService  = (*service.PaymentService)(nil)
)
