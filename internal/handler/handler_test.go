package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookloan-service/internal/errs"
	"github.com/Astemirdum/bookloan-service/internal/handler"
	"github.com/Astemirdum/bookloan-service/internal/model"
	"github.com/Astemirdum/bookloan-service/pkg/auth"
	"github.com/Astemirdum/bookloan-service/pkg/validate"

	service_mocks "github.com/Astemirdum/bookloan-service/internal/handler/mocks"
)

func TestHandler_ListBooks(t *testing.T) {
	t.Parallel()
	type input struct {
		query string
		want  model.ListParams
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCatalogService, req input)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
		wantErr      bool
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockCatalogService, req input) {
				r.EXPECT().
					ListBooks(gomock.Any(), req.want).
					Return(model.ListBooks{
						Paging: model.Paging{
							Offset: 0,
							Limit:  1,
							Total:  3,
						},
						Items: []model.Book{
							{
								ID:              1,
								Title:           "Foundation",
								Author:          "Isaac Asimov",
								Publisher:       "Gnome Press",
								Genre:           "Science Fiction",
								ISBN:            "978-0-553-29335-0",
								NumOfPages:      255,
								TotalCopies:     2,
								AvailableCopies: 1,
								Price:           9.99,
								Rating:          4.5,
							},
						},
					}, nil)
			},
			input: input{
				query: "?search=asimov&limit=1",
				want:  model.ListParams{Limit: 1, Search: "asimov"},
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"pagination":{"offset":0,"limit":1,"total":3},"items":[{"id":1,"title":"Foundation","author":"Isaac Asimov","publisher":"Gnome Press","genre":"Science Fiction","isbnNo":"978-0-553-29335-0","numOfPages":255,"totalCopies":2,"availableCopies":1,"imageUrl":"","price":9.99,"rating":4.5}]}`,
			},
			wantErr: false,
		},
		{
			name:         "err. bad offset",
			mockBehavior: func(r *service_mocks.MockCatalogService, req input) {},
			input: input{
				query: "?offset=abc",
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"offset is invalid"}`,
			},
			wantErr: true,
		},
		{
			name: "err. internal",
			mockBehavior: func(r *service_mocks.MockCatalogService, req input) {
				r.EXPECT().
					ListBooks(gomock.Any(), req.want).
					Return(model.ListBooks{}, errors.New("db internal"))
			},
			input: input{
				query: "",
				want:  model.ListParams{},
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockCatalogService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(handler.Services{Catalog: svc}, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/books", h.ListBooks)

			r := httptest.NewRequest(http.MethodGet, "/books"+tt.input.query, http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc, tt.input)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_IssueLoan(t *testing.T) {
	t.Parallel()

	issueDate := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	dueDate := issueDate.AddDate(0, 0, 7)

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLoanService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"bookId":1,"memberId":2}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					Issue(gomock.Any(), model.LoanRequest{BookID: 1, MemberID: 2}).
					Return(model.Loan{
						ID:        10,
						LoanUID:   "7e7f4f55-7f3b-4a02-9c19-6d6f1f2a8c11",
						BookID:    1,
						MemberID:  2,
						IssueDate: issueDate,
						DueDate:   dueDate,
						Status:    model.StatusIssued,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":10,"loanUid":"7e7f4f55-7f3b-4a02-9c19-6d6f1f2a8c11","bookId":1,"memberId":2,"issueDate":"2024-01-05T10:00:00Z","dueDate":"2024-01-12T10:00:00Z","returnDate":null,"status":"ISSUED"}`,
			},
		},
		{
			name: "err. no copies",
			body: `{"bookId":1,"memberId":2}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					Issue(gomock.Any(), model.LoanRequest{BookID: 1, MemberID: 2}).
					Return(model.Loan{}, errs.ErrCapacityExceeded)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"no available copies"}`,
			},
		},
		{
			name: "err. book not found",
			body: `{"bookId":77,"memberId":2}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					Issue(gomock.Any(), model.LoanRequest{BookID: 77, MemberID: 2}).
					Return(model.Loan{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLoanService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(handler.Services{Loans: svc}, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/loans", h.IssueLoan, auth.Context)

			r := httptest.NewRequest(http.MethodPost, "/loans", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			r.Header.Set(auth.XMemberIDHeader, "1")
			r.Header.Set(auth.XUserRoleHeader, auth.RoleAdmin)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ReturnLoan(t *testing.T) {
	t.Parallel()

	issueDate := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	returnDate := time.Date(2024, 1, 9, 15, 30, 0, 0, time.UTC)

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLoanService)

	var tests = []struct {
		name         string
		loanID       string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:   "ok",
			loanID: "10",
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					Return(gomock.Any(), 10).
					Return(model.Loan{
						ID:         10,
						LoanUID:    "7e7f4f55-7f3b-4a02-9c19-6d6f1f2a8c11",
						BookID:     1,
						MemberID:   2,
						IssueDate:  issueDate,
						DueDate:    issueDate.AddDate(0, 0, 7),
						ReturnDate: &returnDate,
						Status:     model.StatusReturned,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":10,"loanUid":"7e7f4f55-7f3b-4a02-9c19-6d6f1f2a8c11","bookId":1,"memberId":2,"issueDate":"2024-01-05T10:00:00Z","dueDate":"2024-01-12T10:00:00Z","returnDate":"2024-01-09T15:30:00Z","status":"RETURNED"}`,
			},
		},
		{
			name:   "err. already returned",
			loanID: "10",
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().
					Return(gomock.Any(), 10).
					Return(model.Loan{}, errs.ErrInvalidState)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"invalid lifecycle state"}`,
			},
		},
		{
			name:         "err. bad id",
			loanID:       "abc",
			mockBehavior: func(r *service_mocks.MockLoanService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"loanId is invalid"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLoanService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(handler.Services{Loans: svc}, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/loans/:loanId/return", h.ReturnLoan)

			r := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/loans/%s/return", tt.loanID), http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_MeanRating(t *testing.T) {
	t.Parallel()

	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockRatingService)

	var tests = []struct {
		name         string
		bookID       string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:   "mean over [3,4,5]",
			bookID: "1",
			mockBehavior: func(r *service_mocks.MockRatingService) {
				r.EXPECT().
					Mean(gomock.Any(), 1).
					Return(4.0, true, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"rating":4,"rated":true}`,
			},
		},
		{
			name:   "no ratings renders zero",
			bookID: "2",
			mockBehavior: func(r *service_mocks.MockRatingService) {
				r.EXPECT().
					Mean(gomock.Any(), 2).
					Return(0.0, false, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"rating":0,"rated":false}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockRatingService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(handler.Services{Ratings: svc}, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/books/:bookId/rating", h.MeanRating)

			r := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/books/%s/rating", tt.bookID), http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_RequestLoan_UsesCallerIdentity(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLoanService(c)
	log := zap.NewExample().Named("test")
	h := handler.New(handler.Services{Loans: svc}, log)

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.POST("/loans/requests", h.RequestLoan, auth.Context)

	// the body claims memberId 99; the trusted header wins
	svc.EXPECT().
		Request(gomock.Any(), model.LoanRequest{BookID: 5, MemberID: 42}).
		Return(model.Loan{ID: 1, BookID: 5, MemberID: 42, Status: model.StatusPending}, nil)

	r := httptest.NewRequest(http.MethodPost, "/loans/requests", strings.NewReader(`{"bookId":5,"memberId":99}`))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	r.Header.Set(auth.XMemberIDHeader, "42")
	r.Header.Set(auth.XUserRoleHeader, auth.RoleUser)
	w := httptest.NewRecorder()

	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusCreated, w.Code)
}

func TestHandler_AdminOnly(t *testing.T) {
	t.Parallel()
	log := zap.NewExample().Named("test")
	h := handler.New(handler.Services{}, log)

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.GET("/loans", h.ListLoans, auth.Context, auth.AdminOnly)

	r := httptest.NewRequest(http.MethodGet, "/loans", http.NoBody)
	r.Header.Set(auth.XMemberIDHeader, "42")
	r.Header.Set(auth.XUserRoleHeader, auth.RoleUser)
	w := httptest.NewRecorder()

	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusForbidden, w.Code)
}
