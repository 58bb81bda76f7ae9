package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tunehub/tunehub/internal/application"
	"github.com/tunehub/tunehub/pkg/response"
)

type SongHandler struct {
	Svc *application.SongService
}

func NewSongHandler(svc *application.SongService) *SongHandler {
	return &SongHandler{Svc: svc}
}

func intQuery(c *gin.Context, name string, def int) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return def
	}
	return v
}

// List GET /api/songs?page=&page_size=
func (h *SongHandler) List(c *gin.Context) {
	page := intQuery(c, "page", 1)
	pageSize := intQuery(c, "page_size", 0)
	songs, err := h.Svc.ListPublished(c.Request.Context(), page, pageSize)
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSongViews(songs), "songs", map[string]any{"page": page})
}

// Search GET /api/songs/search?q=&limit=
func (h *SongHandler) Search(c *gin.Context) {
	songs, err := h.Svc.Search(c.Request.Context(), c.Query("q"), intQuery(c, "limit", 0))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSongViews(songs), "search results", nil)
}

// Get GET /api/songs/:songID
func (h *SongHandler) Get(c *gin.Context) {
	song, err := h.Svc.Get(c.Request.Context(), c.Param("songID"))
	if err != nil {
		writeErr(c, err)
		return
	}
	response.Success(c, http.StatusOK, toSongView(song), "song", nil)
}
