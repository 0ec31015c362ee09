package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookloan-service/internal/errs"
	"github.com/Astemirdum/bookloan-service/internal/model"
	"github.com/Astemirdum/bookloan-service/pkg/auth"
	md "github.com/Astemirdum/bookloan-service/pkg/middleware"
	"github.com/Astemirdum/bookloan-service/pkg/validate"
)

type Services struct {
	Catalog  CatalogService
	Members  MemberService
	Loans    LoanService
	Ratings  RatingService
	Wishlist WishlistService
	Payments PaymentService
}

type Handler struct {
	catalogSvc  CatalogService
	memberSvc   MemberService
	loanSvc     LoanService
	ratingSvc   RatingService
	wishlistSvc WishlistService
	paymentSvc  PaymentService
	log         *zap.Logger
}

func New(svcs Services, log *zap.Logger) *Handler {
	return &Handler{
		catalogSvc:  svcs.Catalog,
		memberSvc:   svcs.Members,
		loanSvc:     svcs.Loans,
		ratingSvc:   svcs.Ratings,
		wishlistSvc: svcs.Wishlist,
		paymentSvc:  svcs.Payments,
		log:         log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/members", h.Signup)
	api.GET("/books", h.ListBooks)
	api.GET("/books/:bookId", h.GetBook)
	api.GET("/books/:bookId/rating", h.MeanRating)
	api.GET("/books/:bookId/ratings", h.ListRatings)

	authed := api.Group("", auth.Context)
	authed.POST("/loans/requests", h.RequestLoan)
	authed.POST("/loans/requests/:loanId/cancel", h.CancelRequest)
	authed.GET("/me/loans", h.MyLoans)
	authed.GET("/me/wishlist", h.MyWishlist)
	authed.POST("/me/wishlist", h.AddToWishlist)
	authed.DELETE("/me/wishlist/:bookId", h.RemoveFromWishlist)
	authed.POST("/books/:bookId/ratings", h.RecordRating)
	authed.POST("/books/:bookId/rating/sync", h.SyncBookRating)

	admin := authed.Group("", auth.AdminOnly)
	admin.POST("/books", h.CreateBook)
	admin.PATCH("/books/:bookId", h.UpdateBook)
	admin.DELETE("/books/:bookId", h.DeleteBook)

	admin.GET("/members", h.ListMembers)
	admin.GET("/members/:memberId", h.GetMember)
	admin.PATCH("/members/:memberId/role", h.SetMemberRole)

	admin.GET("/loans", h.ListLoans)
	admin.POST("/loans", h.IssueLoan)
	admin.POST("/loans/:loanId/return", h.ReturnLoan)
	admin.POST("/loans/requests/:loanId/approve", h.ApproveRequest)
	admin.POST("/loans/requests/:loanId/reject", h.RejectRequest)

	admin.GET("/payments", h.ListPayments)
	admin.POST("/payments", h.RecordPayment)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps the error taxonomy onto statuses; anything unclassified is a 500.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrInvalidState),
		errors.Is(err, errs.ErrCapacityExceeded),
		errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func pathParamID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, errors.Errorf("%s is invalid", name)
	}
	return id, nil
}

func listParams(c echo.Context) (model.ListParams, error) {
	var (
		params model.ListParams
		err    error
	)
	if offsetParam := c.QueryParam("offset"); offsetParam != "" {
		if params.Offset, err = strconv.Atoi(offsetParam); err != nil || params.Offset < 0 {
			return model.ListParams{}, errors.New("offset is invalid")
		}
	}
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if params.Limit, err = strconv.Atoi(limitParam); err != nil || params.Limit < 0 {
			return model.ListParams{}, errors.New("limit is invalid")
		}
	}
	params.Search = c.QueryParam("search")
	params.SortBy = c.QueryParam("sortBy")
	params.SortDir = c.QueryParam("sortDir")
	return params, nil
}

func identity(c echo.Context) (auth.Identity, error) {
	id, ok := auth.FromContext(c.Request().Context())
	if !ok {
		return auth.Identity{}, errors.New("no identity")
	}
	return id, nil
}
