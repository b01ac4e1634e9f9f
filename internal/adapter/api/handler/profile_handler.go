package handler

import (
	"io"

	"github.com/labstack/echo/v4"

	"outdoormatch/internal/adapter/api/middleware"
	"outdoormatch/internal/usecase"
	"outdoormatch/pkg/errors"
	"outdoormatch/pkg/response"
)

type ProfileHandler struct {
	profileUseCase   *usecase.ProfileUseCase
	communityUseCase *usecase.CommunityUseCase
	matchUseCase     *usecase.MatchUseCase
}

func NewProfileHandler(profileUseCase *usecase.ProfileUseCase, communityUseCase *usecase.CommunityUseCase, matchUseCase *usecase.MatchUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase:   profileUseCase,
		communityUseCase: communityUseCase,
		matchUseCase:     matchUseCase,
	}
}

type createProfileRequest struct {
	Name      string   `json:"name" validate:"required,max=100"`
	Email     string   `json:"email" validate:"omitempty,email"`
	Bio       string   `json:"bio" validate:"max=500"`
	Interests []string `json:"interests" validate:"max=20,dive,max=50"`
}

type updateNotesRequest struct {
	Notes string `json:"notes"`
}

func (h *ProfileHandler) CreateProfile(c echo.Context) error {
	var req createProfileRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.profileUseCase.CreateProfile(c.Request().Context(), middleware.UserID(c), usecase.CreateProfileInput{
		Name:      req.Name,
		Email:     req.Email,
		Bio:       req.Bio,
		Interests: req.Interests,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, user)
}

func (h *ProfileHandler) GetMyProfile(c echo.Context) error {
	user, err := h.profileUseCase.GetProfile(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *ProfileHandler) GetProfile(c echo.Context) error {
	user, err := h.profileUseCase.GetProfile(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user.Public())
}

func (h *ProfileHandler) UpdateNotes(c echo.Context) error {
	var req updateNotesRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, errors.BadRequest("Invalid request body", err))
	}

	user, err := h.profileUseCase.UpdateNotes(c.Request().Context(), middleware.UserID(c), req.Notes)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *ProfileHandler) UploadPhoto(c echo.Context) error {
	file, err := c.FormFile("photo")
	if err != nil {
		return response.Error(c, errors.Validation("Photo is required"))
	}
	if file.Size > usecase.MaxPhotoBytes {
		return response.Error(c, errors.Validation("Photo must be at most 5 MiB"))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to read photo", err))
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, usecase.MaxPhotoBytes+1))
	if err != nil {
		return response.Error(c, errors.BadRequest("Failed to read photo", err))
	}

	user, err := h.profileUseCase.UploadPhoto(c.Request().Context(), middleware.UserID(c), data)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *ProfileHandler) ListChecked(c echo.Context) error {
	checked, err := h.matchUseCase.ListChecked(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, checked)
}

func (h *ProfileHandler) ListMyCommunities(c echo.Context) error {
	communities, err := h.communityUseCase.ListUserCommunities(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, communities)
}
