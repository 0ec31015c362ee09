package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Astemirdum/bookloan-service/internal/model"
	"github.com/Astemirdum/bookloan-service/pkg/auth"
)

func (h *Handler) Signup(c echo.Context) error {
	var req model.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	member, err := h.memberSvc.Signup(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, member)
}

func (h *Handler) GetMember(c echo.Context) error {
	memberID, err := pathParamID(c, "memberId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	member, err := h.memberSvc.GetMember(c.Request().Context(), memberID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, member)
}

func (h *Handler) SetMemberRole(c echo.Context) error {
	memberID, err := pathParamID(c, "memberId")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	type Req struct {
		Role string `json:"role" validate:"required,oneof=admin user"`
	}
	var req Req
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	// an admin may not strip their own role through this endpoint
	if id, err := identity(c); err == nil && id.MemberID == memberID && req.Role != auth.RoleAdmin {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot change own role")
	}
	member, err := h.memberSvc.SetRole(c.Request().Context(), memberID, req.Role)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, member)
}

func (h *Handler) ListMembers(c echo.Context) error {
	params, err := listParams(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	members, err := h.memberSvc.ListMembers(c.Request().Context(), params)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, members)
}
