package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/bookloan-service/internal/model"
)

// IssueLoan hands a copy out directly, skipping the request queue. Admin only.
func (h *Handler) IssueLoan(c echo.Context) error {
	var req model.LoanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.MemberID == 0 {
		id, err := identity(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		req.MemberID = id.MemberID
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	loan, err := h.loanSvc.Issue(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, loan)
}

func (h *Handler) ReturnLoan(c echo.Context) error {
	loanID, err := pathParamID(c, "loanId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	loan, err := h.loanSvc.Return(c.Request().Context(), loanID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

// RequestLoan files a borrow request on behalf of the authenticated member;
// availability is untouched until an admin approves.
func (h *Handler) RequestLoan(c echo.Context) error {
	var req model.LoanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id, err := identity(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	req.MemberID = id.MemberID
	if err := c.Validate(req); err != nil {
		return err
	}
	loan, err := h.loanSvc.Request(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, loan)
}

func (h *Handler) ApproveRequest(c echo.Context) error {
	loanID, err := pathParamID(c, "loanId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	loan, err := h.loanSvc.Approve(c.Request().Context(), loanID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) RejectRequest(c echo.Context) error {
	loanID, err := pathParamID(c, "loanId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	loan, err := h.loanSvc.Reject(c.Request().Context(), loanID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) CancelRequest(c echo.Context) error {
	loanID, err := pathParamID(c, "loanId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id, err := identity(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	loan, err := h.loanSvc.Cancel(c.Request().Context(), loanID, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) ListLoans(c echo.Context) error {
	params, err := listParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	loans, err := h.loanSvc.List(c.Request().Context(), params, 0)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) MyLoans(c echo.Context) error {
	params, err := listParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	id, err := identity(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	loans, err := h.loanSvc.List(c.Request().Context(), params, id.MemberID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, loans)
}
