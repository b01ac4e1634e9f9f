package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"outdoormatch/internal/adapter/api/middleware"
	"outdoormatch/internal/usecase"
	"outdoormatch/pkg/errors"
	"outdoormatch/pkg/response"
)

type CommunityHandler struct {
	communityUseCase    *usecase.CommunityUseCase
	availabilityUseCase *usecase.AvailabilityUseCase
}

func NewCommunityHandler(communityUseCase *usecase.CommunityUseCase, availabilityUseCase *usecase.AvailabilityUseCase) *CommunityHandler {
	return &CommunityHandler{
		communityUseCase:    communityUseCase,
		availabilityUseCase: availabilityUseCase,
	}
}

type toggleAvailabilityRequest struct {
	Present *bool `json:"present" validate:"required"`
}

func (h *CommunityHandler) ListCommunities(c echo.Context) error {
	communities, err := h.communityUseCase.ListCommunities(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, communities)
}

func (h *CommunityHandler) GetCommunity(c echo.Context) error {
	community, err := h.communityUseCase.GetCommunity(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, community.Summary())
}

func (h *CommunityHandler) JoinCommunity(c echo.Context) error {
	communityID := c.Param("id")
	if err := h.communityUseCase.JoinCommunity(c.Request().Context(), communityID, middleware.UserID(c)); err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{
		"community_id": communityID,
		"status":       "joined",
	})
}

func (h *CommunityHandler) ListActiveMembers(c echo.Context) error {
	candidates, err := h.availabilityUseCase.ListActiveMembers(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, candidates)
}

func (h *CommunityHandler) GetAvailability(c echo.Context) error {
	week, err := h.availabilityUseCase.GetAvailability(c.Request().Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]interface{}{
		"community_id": c.Param("id"),
		"week":         week,
	})
}

func (h *CommunityHandler) ToggleAvailability(c echo.Context) error {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		return response.Error(c, errors.Validation("day must be a number between 0 and 6"))
	}

	var req toggleAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.availabilityUseCase.ToggleAvailability(c.Request().Context(), usecase.ToggleCommand{
		CommunityID: c.Param("id"),
		UserID:      middleware.UserID(c),
		Day:         day,
		Present:     *req.Present,
	})
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, result)
}
