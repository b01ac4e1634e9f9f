package handler

import (
	"github.com/labstack/echo/v4"

	"outdoormatch/internal/adapter/api/middleware"
	"outdoormatch/internal/usecase"
	"outdoormatch/pkg/response"
)

type MatchHandler struct {
	matchUseCase *usecase.MatchUseCase
}

func NewMatchHandler(matchUseCase *usecase.MatchUseCase) *MatchHandler {
	return &MatchHandler{
		matchUseCase: matchUseCase,
	}
}

func (h *MatchHandler) Check(c echo.Context) error {
	outcome, err := h.matchUseCase.Check(c.Request().Context(), middleware.UserID(c), c.Param("userId"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, outcome)
}
