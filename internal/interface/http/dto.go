package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tunehub/tunehub/internal/application"
	"github.com/tunehub/tunehub/internal/domain"
	"github.com/tunehub/tunehub/internal/domain/entity"
	"github.com/tunehub/tunehub/pkg/response"
)

type songView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	SongPath    string    `json:"song_path"`
	ImagePath   string    `json:"image_path,omitempty"`
	UploaderID  string    `json:"uploader_id"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

func toSongView(s *entity.Song) songView {
	return songView{
		ID:          s.ID(),
		Title:       s.Title(),
		Author:      s.Author(),
		SongPath:    s.SongPath().Value(),
		ImagePath:   s.ImagePath().Value(),
		UploaderID:  s.UploaderID(),
		IsPublished: s.IsPublished(),
		CreatedAt:   s.CreatedAt(),
	}
}

func toSongViews(songs []*entity.Song) []songView {
	out := make([]songView, 0, len(songs))
	for _, s := range songs {
		out = append(out, toSongView(s))
	}
	return out
}

type playlistSongView struct {
	SongID  string    `json:"song_id"`
	Order   int       `json:"order"`
	AddedAt time.Time `json:"added_at"`
}

type playlistView struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	ImagePath   string             `json:"image_path,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	Songs       []playlistSongView `json:"songs"`
}

func toPlaylistView(p *entity.Playlist) playlistView {
	songs := p.Songs()
	sv := make([]playlistSongView, 0, len(songs))
	for _, s := range songs {
		sv = append(sv, playlistSongView{SongID: s.SongID(), Order: s.Order(), AddedAt: s.CreatedAt()})
	}
	return playlistView{
		ID:          p.ID(),
		Title:       p.Title(),
		Description: p.Description(),
		ImagePath:   p.ImagePath().Value(),
		CreatedAt:   p.CreatedAt(),
		Songs:       sv,
	}
}

type userView struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name,omitempty"`
	AvatarPath string    `json:"avatar_path,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

func toUserView(u *entity.User) userView {
	return userView{
		ID:         u.ID(),
		Email:      u.Email().Value(),
		FullName:   u.FullName(),
		AvatarPath: u.AvatarPath().Value(),
		IsActive:   u.IsActive(),
		CreatedAt:  u.CreatedAt(),
	}
}

type moderatorView struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	IsActive    bool      `json:"is_active"`
	Permissions permsView `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
}

type permsView struct {
	ManageUsers      bool `json:"manage_users"`
	ManageContent    bool `json:"manage_content"`
	ViewReports      bool `json:"view_reports"`
	ManageModerators bool `json:"manage_moderators"`
}

func toModeratorView(m *entity.Moderator) moderatorView {
	p := m.Permissions()
	return moderatorView{
		ID:       m.ID(),
		Email:    m.Email().Value(),
		FullName: m.FullName(),
		IsActive: m.IsActive(),
		Permissions: permsView{
			ManageUsers:      p.CanManageUsers,
			ManageContent:    p.CanManageContent,
			ViewReports:      p.CanViewReports,
			ManageModerators: p.CanManageModerators,
		},
		CreatedAt: m.CreatedAt(),
	}
}

// writeErr maps domain and application failures onto HTTP statuses.
func writeErr(c *gin.Context, err error) {
	if domain.IsDomain(err) {
		code := domain.CodeOf(err)
		response.Error[any](c, statusForCode(code), err.Error(), gin.H{"code": code, "description": err.Error()})
		return
	}
	switch {
	case errors.Is(err, application.ErrInvalidCredentials),
		errors.Is(err, application.ErrInvalidRefreshToken):
		response.Error[any](c, http.StatusUnauthorized, err.Error(), nil)
	case errors.Is(err, application.ErrUserNotFound),
		errors.Is(err, application.ErrModeratorNotFound),
		errors.Is(err, application.ErrSongNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, application.ErrEmailAlreadyTaken):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, application.ErrInvalidConfirmation):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

// statusForCode maps domain error codes onto HTTP statuses: permission
// and activation guards are 403, missing child entities are 404, and the
// remaining state-guard violations conflict with current state.
func statusForCode(code string) int {
	switch code {
	case "":
		return http.StatusInternalServerError
	case "ValidationError":
		return http.StatusBadRequest
	case "User.NotActive",
		"Moderator.NotActive",
		"Moderator.CannotManageModerators",
		"Moderator.CannotManageUsers",
		"Moderator.CannotManageContent",
		"Moderator.CannotManageSelf":
		return http.StatusForbidden
	case "User.DoesNotHavePlaylist",
		"User.RefreshTokenNotFound",
		"User.SongNotLiked",
		"User.SongNotInPlaylist":
		return http.StatusNotFound
	default:
		return http.StatusConflict
	}
}
