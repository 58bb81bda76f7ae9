package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tunehub/tunehub/internal/application"
	"github.com/tunehub/tunehub/internal/domain/valueobject"
	"github.com/tunehub/tunehub/pkg/helpers"
	"github.com/tunehub/tunehub/pkg/response"
	"github.com/tunehub/tunehub/pkg/validation"
)

type ModeratorHandler struct {
	Svc     *application.ModeratorService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewModeratorHandler(svc *application.ModeratorService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *ModeratorHandler {
	return &ModeratorHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type moderatorLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/moderation/login
func (h *ModeratorHandler) Login(c *gin.Context) {
	var req moderatorLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	m, access, exp, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeErr(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", access, int(time.Until(exp).Seconds()), "/", h.Cookies.Domain, h.Cookies.Secure, true)
	response.Success(c, http.StatusOK, toModeratorView(m), "login successful", map[string]any{"access_expires_at": exp})
}

type createModeratorRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	FullName string `json:"full_name" binding:"required,max=100"`
	Super    bool   `json:"super"`
}

// Create POST /api/moderation/moderators
func (h *ModeratorHandler) Create(c *gin.Context) {
	var req createModeratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	m, err := h.Svc.CreateModerator(c.Request.Context(), c.GetString("moderatorID"), req.Email, req.Password, req.FullName, req.Super)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toModeratorView(m), "moderator created", nil)
}

type updatePermissionsRequest struct {
	ManageUsers      bool `json:"manage_users"`
	ManageContent    bool `json:"manage_content"`
	ViewReports      bool `json:"view_reports"`
	ManageModerators bool `json:"manage_moderators"`
}

// UpdatePermissions PUT /api/moderation/moderators/:moderatorID/permissions
func (h *ModeratorHandler) UpdatePermissions(c *gin.Context) {
	var req updatePermissionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	perms := valueobject.ModeratorPermissions{
		CanManageUsers:      req.ManageUsers,
		CanManageContent:    req.ManageContent,
		CanViewReports:      req.ViewReports,
		CanManageModerators: req.ManageModerators,
	}
	if err := h.Svc.UpdatePermissions(c.Request.Context(), c.GetString("moderatorID"), c.Param("moderatorID"), perms); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"updated": true}, "permissions updated", nil)
}

// ActivateModerator PUT /api/moderation/moderators/:moderatorID/activate
func (h *ModeratorHandler) ActivateModerator(c *gin.Context) {
	if err := h.Svc.ActivateModerator(c.Request.Context(), c.GetString("moderatorID"), c.Param("moderatorID")); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"active": true}, "moderator activated", nil)
}

// DeactivateModerator PUT /api/moderation/moderators/:moderatorID/deactivate
func (h *ModeratorHandler) DeactivateModerator(c *gin.Context) {
	if err := h.Svc.DeactivateModerator(c.Request.Context(), c.GetString("moderatorID"), c.Param("moderatorID")); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"active": false}, "moderator deactivated", nil)
}

// ActivateUser PUT /api/moderation/users/:userID/activate
func (h *ModeratorHandler) ActivateUser(c *gin.Context) {
	if err := h.Svc.ActivateUser(c.Request.Context(), c.GetString("moderatorID"), c.Param("userID")); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"active": true}, "user activated", nil)
}

// DeactivateUser PUT /api/moderation/users/:userID/deactivate
func (h *ModeratorHandler) DeactivateUser(c *gin.Context) {
	if err := h.Svc.DeactivateUser(c.Request.Context(), c.GetString("moderatorID"), c.Param("userID")); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"active": false}, "user deactivated", nil)
}

// SearchUsers GET /api/moderation/users/search?q=&size=
func (h *ModeratorHandler) SearchUsers(c *gin.Context) {
	hits, err := h.Svc.SearchUsers(c.Request.Context(), c.Query("q"), intQuery(c, "size", 0))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "users", nil)
}

// PublishSong PUT /api/moderation/songs/:songID/publish
func (h *ModeratorHandler) PublishSong(c *gin.Context) {
	if err := h.Svc.PublishSong(c.Request.Context(), c.GetString("moderatorID"), c.Param("songID")); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"published": true}, "song published", nil)
}

// UnpublishSong PUT /api/moderation/songs/:songID/unpublish
func (h *ModeratorHandler) UnpublishSong(c *gin.Context) {
	if err := h.Svc.UnpublishSong(c.Request.Context(), c.GetString("moderatorID"), c.Param("songID")); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"published": false}, "song unpublished", nil)
}

// DeleteSong DELETE /api/moderation/songs/:songID
func (h *ModeratorHandler) DeleteSong(c *gin.Context) {
	if err := h.Svc.DeleteSong(c.Request.Context(), c.GetString("moderatorID"), c.Param("songID")); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "song marked for deletion", nil)
}

type songBatchRequest struct {
	SongIDs []string `json:"song_ids" binding:"required,min=1,dive,uuid"`
}

// PublishSongs PUT /api/moderation/songs/publish
// The whole batch succeeds or nothing changes.
func (h *ModeratorHandler) PublishSongs(c *gin.Context) {
	var req songBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.PublishSongs(c.Request.Context(), c.GetString("moderatorID"), req.SongIDs); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"published": len(req.SongIDs)}, "songs published", nil)
}

// DeleteSongs POST /api/moderation/songs/delete
// The whole batch succeeds or nothing changes.
func (h *ModeratorHandler) DeleteSongs(c *gin.Context) {
	var req songBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.DeleteSongs(c.Request.Context(), c.GetString("moderatorID"), req.SongIDs); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": len(req.SongIDs)}, "songs marked for deletion", nil)
}
