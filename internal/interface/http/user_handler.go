package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tunehub/tunehub/internal/application"
	"github.com/tunehub/tunehub/pkg/response"
	"github.com/tunehub/tunehub/pkg/validation"
)

// maxUploadBytes caps multipart uploads (audio plus cover).
const maxUploadBytes = 64 << 20

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// Me GET /api/users/me
func (h *UserHandler) Me(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserView(u), "profile", nil)
}

type updateProfileRequest struct {
	FullName   string `json:"full_name" binding:"required,max=100"`
	AvatarPath string `json:"avatar_path"`
}

// UpdateProfile PUT /api/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), c.GetString("userID"), application.UpdateProfileInput{
		FullName:   req.FullName,
		AvatarPath: req.AvatarPath,
	})
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserView(u), "profile updated", nil)
}

// UploadAvatar POST /api/users/me/avatar (multipart field: avatar)
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing avatar file", nil)
		return
	}
	f, err := file.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable avatar file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), c.GetString("userID"), f, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"avatar_url": url}, "avatar uploaded", nil)
}

// UploadSong POST /api/users/me/songs
// Multipart fields: title, author, song (audio file), image (optional cover).
func (h *UserHandler) UploadSong(c *gin.Context) {
	if c.Request.ContentLength > maxUploadBytes {
		response.Error[any](c, http.StatusRequestEntityTooLarge, "upload too large", nil)
		return
	}

	title := c.PostForm("title")
	author := c.PostForm("author")
	songFile, err := c.FormFile("song")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "missing song file", nil)
		return
	}
	sf, err := songFile.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "unreadable song file", nil)
		return
	}
	defer func() { _ = sf.Close() }()

	in := application.UploadSongInput{
		Title:           title,
		Author:          author,
		SongReader:      sf,
		SongFilename:    songFile.Filename,
		SongContentType: songFile.Header.Get("Content-Type"),
	}

	if imageFile, err := c.FormFile("image"); err == nil {
		imf, err := imageFile.Open()
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "unreadable image file", nil)
			return
		}
		defer func() { _ = imf.Close() }()
		in.ImageReader = imf
		in.ImageFilename = imageFile.Filename
		in.ImageContentType = imageFile.Header.Get("Content-Type")
	}

	song, err := h.Svc.UploadSong(c.Request.Context(), c.GetString("userID"), in)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toSongView(song), "song uploaded; pending review", nil)
}

// Like PUT /api/users/me/likes/:songID
func (h *UserHandler) Like(c *gin.Context) {
	if err := h.Svc.LikeSong(c.Request.Context(), c.GetString("userID"), c.Param("songID")); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"liked": true}, "song liked", nil)
}

// Unlike DELETE /api/users/me/likes/:songID
func (h *UserHandler) Unlike(c *gin.Context) {
	if err := h.Svc.UnlikeSong(c.Request.Context(), c.GetString("userID"), c.Param("songID")); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"liked": false}, "song unliked", nil)
}

// LikedSongs GET /api/users/me/likes
func (h *UserHandler) LikedSongs(c *gin.Context) {
	songs, err := h.Svc.LikedSongs(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSongViews(songs), "liked songs", nil)
}
