package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "outdoormatch/pkg/errors"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestErrorMapsAppErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperrors.NotFound("Chat", nil), http.StatusNotFound, apperrors.CodeNotFound},
		{apperrors.Forbidden("not yours", nil), http.StatusForbidden, apperrors.CodeForbidden},
		{apperrors.Transient("store down", nil), http.StatusServiceUnavailable, apperrors.CodeUnavailable},
		{fmt.Errorf("wrapped: %w", apperrors.Conflict("taken")), http.StatusConflict, apperrors.CodeConflict},
		{fmt.Errorf("boom"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tc := range cases {
		c, rec := newContext()
		require.NoError(t, Error(c, tc.err))
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())

		resp := decode(t, rec)
		assert.False(t, resp.Success)
		assert.Equal(t, tc.code, resp.Error.Code)
	}
}

func TestErrorUsesHTTPErrorMessage(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, Error(c, echo.NewHTTPError(http.StatusUnauthorized, "Missing token")))

	resp := decode(t, rec)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, apperrors.CodeUnauthorized, resp.Error.Code)
	assert.Equal(t, "Missing token", resp.Error.Message)
}

func TestErrorDescribesFirstValidationFailure(t *testing.T) {
	type input struct {
		Name string `validate:"required"`
	}
	err := validator.New().Struct(input{})

	c, rec := newContext()
	require.NoError(t, Error(c, err))

	resp := decode(t, rec)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apperrors.CodeValidation, resp.Error.Code)
	assert.Equal(t, "name is required", resp.Error.Message)
}

func TestPaginatedCountsPages(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, Paginated(c, []int{1, 2}, 5, 1, 2))

	var body struct {
		Data PaginatedResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.TotalPages)
	assert.EqualValues(t, 5, body.Data.Total)
}
