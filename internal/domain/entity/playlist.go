package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tunehub/tunehub/internal/domain/valueobject"
)

// Playlist is owned 1:1 by a User and is only mutated through the owning
// User aggregate.
type Playlist struct {
	id          string
	userID      string
	title       string
	description string
	imagePath   valueobject.FilePath
	createdAt   time.Time
	songs       []PlaylistSong
}

// PlaylistSong is the ordered join row between a playlist and a song,
// unique per (playlist, song).
type PlaylistSong struct {
	playlistID string
	songID     string
	order      int
	createdAt  time.Time
}

func newPlaylist(userID string, number int) *Playlist {
	return &Playlist{
		id:        uuid.NewString(),
		userID:    userID,
		title:     fmt.Sprintf("Playlist #%d", number),
		createdAt: time.Now().UTC(),
	}
}

// ReconstitutePlaylist rebuilds a Playlist from persistence.
func ReconstitutePlaylist(id, userID, title, description string, imagePath valueobject.FilePath, createdAt time.Time, songs []PlaylistSong) *Playlist {
	return &Playlist{
		id:          id,
		userID:      userID,
		title:       title,
		description: description,
		imagePath:   imagePath,
		createdAt:   createdAt,
		songs:       songs,
	}
}

// ReconstitutePlaylistSong rebuilds a PlaylistSong join row.
func ReconstitutePlaylistSong(playlistID, songID string, order int, createdAt time.Time) PlaylistSong {
	return PlaylistSong{playlistID: playlistID, songID: songID, order: order, createdAt: createdAt}
}

func (p *Playlist) ID() string                      { return p.id }
func (p *Playlist) UserID() string                  { return p.userID }
func (p *Playlist) Title() string                   { return p.title }
func (p *Playlist) Description() string             { return p.description }
func (p *Playlist) ImagePath() valueobject.FilePath { return p.imagePath }
func (p *Playlist) CreatedAt() time.Time            { return p.createdAt }

// Songs returns a copy of the ordered join rows.
func (p *Playlist) Songs() []PlaylistSong {
	out := make([]PlaylistSong, len(p.songs))
	copy(out, p.songs)
	return out
}

func (s PlaylistSong) PlaylistID() string    { return s.playlistID }
func (s PlaylistSong) SongID() string        { return s.songID }
func (s PlaylistSong) Order() int            { return s.order }
func (s PlaylistSong) CreatedAt() time.Time  { return s.createdAt }

func (p *Playlist) containsSong(songID string) bool {
	for _, s := range p.songs {
		if s.songID == songID {
			return true
		}
	}
	return false
}

func (p *Playlist) addSong(songID string) error {
	if p.containsSong(songID) {
		return ErrSongAlreadyInPlaylist
	}
	p.songs = append(p.songs, PlaylistSong{
		playlistID: p.id,
		songID:     songID,
		order:      len(p.songs) + 1,
		createdAt:  time.Now().UTC(),
	})
	return nil
}

func (p *Playlist) removeSong(songID string) error {
	for i, s := range p.songs {
		if s.songID == songID {
			p.songs = append(p.songs[:i], p.songs[i+1:]...)
			// keep Order values dense after removal
			for j := i; j < len(p.songs); j++ {
				p.songs[j].order = j + 1
			}
			return nil
		}
	}
	return ErrSongNotInPlaylist
}
