package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunehub/tunehub/internal/application"
	"github.com/tunehub/tunehub/internal/domain/entity"
)

func TestStatusForCode(t *testing.T) {
	cases := []struct {
		code string
		want int
	}{
		{"", http.StatusInternalServerError},
		{"ValidationError", http.StatusBadRequest},
		{"User.NotActive", http.StatusForbidden},
		{"Moderator.CannotManageSelf", http.StatusForbidden},
		{"User.RefreshTokenNotFound", http.StatusNotFound},
		{"User.SongNotLiked", http.StatusNotFound},
		{"Song.AlreadyPublished", http.StatusConflict},
		{"User.AlreadyActive", http.StatusConflict},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusForCode(tc.code), tc.code)
	}
}

func TestWriteErrRendersDomainCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	writeErr(c, entity.ErrSongAlreadyPublished)

	assert.Equal(t, http.StatusConflict, w.Code)
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Song.AlreadyPublished", body.Error.Code)
}

func TestWriteErrMapsApplicationErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err  error
		want int
	}{
		{application.ErrInvalidCredentials, http.StatusUnauthorized},
		{application.ErrInvalidRefreshToken, http.StatusUnauthorized},
		{application.ErrSongNotFound, http.StatusNotFound},
		{application.ErrEmailAlreadyTaken, http.StatusConflict},
		{application.ErrInvalidConfirmation, http.StatusBadRequest},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		writeErr(c, tc.err)
		assert.Equal(t, tc.want, w.Code, tc.err.Error())
	}
}
