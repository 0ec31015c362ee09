package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/bookloan-service/internal/model"
)

func (h *Handler) AddToWishlist(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.WishlistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if err := h.wishlistSvc.Add(c.Request().Context(), req.BookID, id.MemberID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusCreated)
}

func (h *Handler) RemoveFromWishlist(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	bookID, err := pathParamID(c, "bookId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.wishlistSvc.Remove(c.Request().Context(), bookID, id.MemberID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) MyWishlist(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	books, err := h.wishlistSvc.List(c.Request().Context(), id.MemberID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}
