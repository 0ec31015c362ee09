package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/bookloan-service/internal/model"
)

func (h *Handler) RecordRating(c echo.Context) error {
	bookID, err := pathParamID(c, "bookId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id, err := identity(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.RatingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	rating, err := h.ratingSvc.Record(c.Request().Context(), bookID, id.MemberID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, rating)
}

// MeanRating renders 0 for a book with no ratings; the explicit empty state
// stays internal to the service contract.
func (h *Handler) MeanRating(c echo.Context) error {
	bookID, err := pathParamID(c, "bookId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	mean, ok, err := h.ratingSvc.Mean(c.Request().Context(), bookID)
	if err != nil {
		return httpError(err)
	}
	type Resp struct {
		Rating float64 `json:"rating"`
		Rated  bool    `json:"rated"`
	}
	if !ok {
		return c.JSON(http.StatusOK, Resp{Rating: 0, Rated: false})
	}
	return c.JSON(http.StatusOK, Resp{Rating: mean, Rated: true})
}

func (h *Handler) ListRatings(c echo.Context) error {
	bookID, err := pathParamID(c, "bookId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ratings, err := h.ratingSvc.ListRatings(c.Request().Context(), bookID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, ratings)
}

func (h *Handler) SyncBookRating(c echo.Context) error {
	bookID, err := pathParamID(c, "bookId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	book, err := h.ratingSvc.SyncBookRating(c.Request().Context(), bookID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}
