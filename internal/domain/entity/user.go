package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tunehub/tunehub/internal/domain"
	"github.com/tunehub/tunehub/internal/domain/valueobject"
)

// User is the aggregate root for a listener account. It owns the user's
// uploaded songs, playlists, liked songs and refresh tokens, and gates
// every mutating operation except Activate behind the activation flag.
//
// A user starts inactive and must confirm the account before doing
// anything else; this is the opposite of Moderator, which starts active.
type User struct {
	domain.EventRecorder

	id           string
	email        valueobject.Email
	passwordHash valueobject.PasswordHash
	fullName     string
	avatarPath   valueobject.FilePath
	isActive     bool
	createdAt    time.Time

	uploadedSongs []*Song
	playlists     []*Playlist
	likedSongs    []LikedSong
	refreshTokens []RefreshToken
}

func NewUser(email valueobject.Email, passwordHash valueobject.PasswordHash) *User {
	u := &User{
		id:           uuid.NewString(),
		email:        email,
		passwordHash: passwordHash,
		createdAt:    time.Now().UTC(),
	}
	u.Record(UserRegisteredEvent{baseEvent: newBaseEvent(), UserID: u.id, Email: email.Value()})
	return u
}

// ReconstituteUser rebuilds a User and its child collections from
// persistence. No events are raised.
func ReconstituteUser(id string, email valueobject.Email, passwordHash valueobject.PasswordHash, fullName string, avatarPath valueobject.FilePath, isActive bool, createdAt time.Time,
	uploadedSongs []*Song, playlists []*Playlist, likedSongs []LikedSong, refreshTokens []RefreshToken) *User {
	return &User{
		id:            id,
		email:         email,
		passwordHash:  passwordHash,
		fullName:      fullName,
		avatarPath:    avatarPath,
		isActive:      isActive,
		createdAt:     createdAt,
		uploadedSongs: uploadedSongs,
		playlists:     playlists,
		likedSongs:    likedSongs,
		refreshTokens: refreshTokens,
	}
}

func (u *User) ID() string                             { return u.id }
func (u *User) Email() valueobject.Email               { return u.email }
func (u *User) PasswordHash() valueobject.PasswordHash { return u.passwordHash }
func (u *User) FullName() string                       { return u.fullName }
func (u *User) AvatarPath() valueobject.FilePath       { return u.avatarPath }
func (u *User) IsActive() bool                         { return u.isActive }
func (u *User) CreatedAt() time.Time                   { return u.createdAt }

func (u *User) UploadedSongs() []*Song { return u.uploadedSongs }
func (u *User) Playlists() []*Playlist { return u.playlists }

func (u *User) LikedSongs() []LikedSong {
	out := make([]LikedSong, len(u.likedSongs))
	copy(out, u.likedSongs)
	return out
}

func (u *User) RefreshTokens() []RefreshToken {
	out := make([]RefreshToken, len(u.refreshTokens))
	copy(out, u.refreshTokens)
	return out
}

// requireActive is the universal gate for every operation but Activate.
func (u *User) requireActive() error {
	if !u.isActive {
		return ErrUserNotActive
	}
	return nil
}

func (u *User) Activate() error {
	if u.isActive {
		return ErrUserAlreadyActive
	}
	u.isActive = true
	return nil
}

// Deactivate flips the account inactive and, as part of the same
// contract, clears the avatar reference and revokes all refresh tokens.
func (u *User) Deactivate() error {
	if !u.isActive {
		return ErrUserAlreadyDeactivated
	}
	u.isActive = false
	u.avatarPath = valueobject.EmptyFilePath()
	u.refreshTokens = nil
	return nil
}

// UpdateProfile replaces the display name and avatar. When the avatar
// actually changes away from a previously set file, the old storage key
// is published for cleanup.
func (u *User) UpdateProfile(fullName string, avatarPath valueobject.FilePath) error {
	if err := u.requireActive(); err != nil {
		return err
	}
	old := u.avatarPath
	u.fullName = strings.TrimSpace(fullName)
	u.avatarPath = avatarPath
	if !old.IsEmpty() && old.Value() != avatarPath.Value() {
		u.Record(UserAvatarChangedEvent{baseEvent: newBaseEvent(), UserID: u.id, OldAvatarPath: old.Value()})
	}
	return nil
}

func (u *User) ChangePassword(newHash valueobject.PasswordHash) error {
	if err := u.requireActive(); err != nil {
		return err
	}
	u.passwordHash = newHash
	return nil
}

// UploadSong creates a new Song owned by this user and tracks it in the
// uploaded set. Song validation failures surface unchanged.
func (u *User) UploadSong(title, author string, songPath, imagePath valueobject.FilePath) (*Song, error) {
	if err := u.requireActive(); err != nil {
		return nil, err
	}
	song, err := NewSong(title, author, songPath, imagePath, u.id)
	if err != nil {
		return nil, err
	}
	u.uploadedSongs = append(u.uploadedSongs, song)
	return song, nil
}

// CreatePlaylist adds a playlist titled "Playlist #N" where N is the
// current playlist count plus one.
func (u *User) CreatePlaylist() (*Playlist, error) {
	if err := u.requireActive(); err != nil {
		return nil, err
	}
	p := newPlaylist(u.id, len(u.playlists)+1)
	u.playlists = append(u.playlists, p)
	return p, nil
}

func (u *User) findPlaylist(playlistID string) (*Playlist, int) {
	for i, p := range u.playlists {
		if p.id == playlistID {
			return p, i
		}
	}
	return nil, -1
}

// RemovePlaylist deletes an owned playlist. A playlist that does not
// exist and one owned by someone else fail identically, so nothing leaks
// about other users' playlists.
func (u *User) RemovePlaylist(playlistID string) error {
	if err := u.requireActive(); err != nil {
		return err
	}
	p, i := u.findPlaylist(playlistID)
	if p == nil {
		return ErrUserDoesNotHavePlaylist
	}
	if !p.imagePath.IsEmpty() {
		u.Record(PlaylistDeletedEvent{baseEvent: newBaseEvent(), PlaylistID: p.id, ImagePath: p.imagePath.Value()})
	}
	u.playlists = append(u.playlists[:i], u.playlists[i+1:]...)
	return nil
}

// AddSongToPlaylist appends the song at the end of the playlist order.
func (u *User) AddSongToPlaylist(playlistID string, song *Song) error {
	if err := u.requireActive(); err != nil {
		return err
	}
	p, _ := u.findPlaylist(playlistID)
	if p == nil {
		return ErrUserDoesNotHavePlaylist
	}
	return p.addSong(song.ID())
}

func (u *User) RemoveSongFromPlaylist(playlistID, songID string) error {
	if err := u.requireActive(); err != nil {
		return err
	}
	p, _ := u.findPlaylist(playlistID)
	if p == nil {
		return ErrUserDoesNotHavePlaylist
	}
	return p.removeSong(songID)
}

func (u *User) isSongLiked(songID string) bool {
	for _, l := range u.likedSongs {
		if l.songID == songID {
			return true
		}
	}
	return false
}

func (u *User) LikeSong(song *Song) error {
	if err := u.requireActive(); err != nil {
		return err
	}
	if !song.IsPublished() {
		return ErrCannotLikeUnpublishedSong
	}
	if u.isSongLiked(song.ID()) {
		return ErrSongAlreadyLiked
	}
	u.likedSongs = append(u.likedSongs, newLikedSong(u.id, song.ID()))
	return nil
}

func (u *User) UnlikeSong(songID string) error {
	if err := u.requireActive(); err != nil {
		return err
	}
	for i, l := range u.likedSongs {
		if l.songID == songID {
			u.likedSongs = append(u.likedSongs[:i], u.likedSongs[i+1:]...)
			return nil
		}
	}
	return ErrSongNotLiked
}

// AddRefreshToken issues a fresh token and appends it.
func (u *User) AddRefreshToken() (RefreshToken, error) {
	if err := u.requireActive(); err != nil {
		return RefreshToken{}, err
	}
	t := newRefreshToken(u.id)
	u.refreshTokens = append(u.refreshTokens, t)
	return t, nil
}

// UpdateRefreshToken rotates a token: the old entry is removed and a
// freshly generated one takes its place.
func (u *User) UpdateRefreshToken(oldToken string) (RefreshToken, error) {
	if err := u.requireActive(); err != nil {
		return RefreshToken{}, err
	}
	for i, t := range u.refreshTokens {
		if t.token == oldToken {
			if t.IsExpired() {
				// expired entries are dropped, never rotated
				u.refreshTokens = append(u.refreshTokens[:i], u.refreshTokens[i+1:]...)
				return RefreshToken{}, ErrRefreshTokenNotFound
			}
			u.refreshTokens = append(u.refreshTokens[:i], u.refreshTokens[i+1:]...)
			fresh := newRefreshToken(u.id)
			u.refreshTokens = append(u.refreshTokens, fresh)
			return fresh, nil
		}
	}
	return RefreshToken{}, ErrRefreshTokenNotFound
}

// CleanRefreshTokens revokes every token. Idempotent: succeeds on an
// already empty collection.
func (u *User) CleanRefreshTokens() error {
	if err := u.requireActive(); err != nil {
		return err
	}
	u.refreshTokens = nil
	return nil
}
