package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tunehub/tunehub/internal/application"
	"github.com/tunehub/tunehub/pkg/response"
)

type PlaylistHandler struct {
	Svc *application.PlaylistService
}

func NewPlaylistHandler(svc *application.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{Svc: svc}
}

// List GET /api/playlists
func (h *PlaylistHandler) List(c *gin.Context) {
	playlists, err := h.Svc.List(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeErr(c, err)
		return
	}
	out := make([]playlistView, 0, len(playlists))
	for _, p := range playlists {
		out = append(out, toPlaylistView(p))
	}
	response.Success(c, http.StatusOK, out, "playlists", nil)
}

// Create POST /api/playlists
func (h *PlaylistHandler) Create(c *gin.Context) {
	p, err := h.Svc.Create(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toPlaylistView(p), "playlist created", nil)
}

// Remove DELETE /api/playlists/:playlistID
func (h *PlaylistHandler) Remove(c *gin.Context) {
	if err := h.Svc.Remove(c.Request.Context(), c.GetString("userID"), c.Param("playlistID")); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"removed": true}, "playlist removed", nil)
}

// AddSong PUT /api/playlists/:playlistID/songs/:songID
func (h *PlaylistHandler) AddSong(c *gin.Context) {
	if err := h.Svc.AddSong(c.Request.Context(), c.GetString("userID"), c.Param("playlistID"), c.Param("songID")); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"added": true}, "song added to playlist", nil)
}

// RemoveSong DELETE /api/playlists/:playlistID/songs/:songID
func (h *PlaylistHandler) RemoveSong(c *gin.Context) {
	if err := h.Svc.RemoveSong(c.Request.Context(), c.GetString("userID"), c.Param("playlistID"), c.Param("songID")); err != nil {
		writeErr(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"removed": true}, "song removed from playlist", nil)
}
