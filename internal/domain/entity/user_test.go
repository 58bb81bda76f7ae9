package entity

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunehub/tunehub/internal/domain"
	"github.com/tunehub/tunehub/internal/domain/valueobject"
)

func mustEmail(t *testing.T, raw string) valueobject.Email {
	t.Helper()
	e, err := valueobject.NewEmail(raw)
	require.NoError(t, err)
	return e
}

func mustHash(t *testing.T, raw string) valueobject.PasswordHash {
	t.Helper()
	h, err := valueobject.NewPasswordHash(raw)
	require.NoError(t, err)
	return h
}

func newInactiveUser(t *testing.T) *User {
	t.Helper()
	u := NewUser(mustEmail(t, "listener@example.com"), mustHash(t, "hash"))
	u.PullEvents() // drop the registration event in tests that don't care
	return u
}

func newActiveUser(t *testing.T) *User {
	t.Helper()
	u := newInactiveUser(t)
	require.NoError(t, u.Activate())
	return u
}

func newPublishedSong(t *testing.T) *Song {
	t.Helper()
	s := newDraftSong(t)
	require.NoError(t, s.Publish())
	return s
}

func TestNewUserStartsInactive(t *testing.T) {
	u := NewUser(mustEmail(t, "listener@example.com"), mustHash(t, "hash"))

	assert.False(t, u.IsActive())
	assert.NotEmpty(t, u.ID())
	assert.False(t, u.CreatedAt().IsZero())

	events := u.PullEvents()
	require.Len(t, events, 1)
	reg, ok := events[0].(UserRegisteredEvent)
	require.True(t, ok)
	assert.Equal(t, u.ID(), reg.UserID)
	assert.Equal(t, "listener@example.com", reg.Email)
}

func TestUserActivate(t *testing.T) {
	u := newInactiveUser(t)

	require.NoError(t, u.Activate())
	assert.True(t, u.IsActive())

	assert.ErrorIs(t, u.Activate(), ErrUserAlreadyActive)
}

func TestUserDeactivateClearsAvatarAndTokens(t *testing.T) {
	u := newActiveUser(t)
	require.NoError(t, u.UpdateProfile("Ada", valueobject.NewFilePath("avatars/u/a.png")))
	_, err := u.AddRefreshToken()
	require.NoError(t, err)

	require.NoError(t, u.Deactivate())
	assert.False(t, u.IsActive())
	assert.True(t, u.AvatarPath().IsEmpty())
	assert.Empty(t, u.RefreshTokens())

	assert.ErrorIs(t, u.Deactivate(), ErrUserAlreadyDeactivated)
}

func TestInactiveUserCannotMutate(t *testing.T) {
	u := newInactiveUser(t)
	song := newPublishedSong(t)

	assert.ErrorIs(t, u.UpdateProfile("X", valueobject.FilePath{}), ErrUserNotActive)
	assert.ErrorIs(t, u.ChangePassword(mustHash(t, "h2")), ErrUserNotActive)
	_, err := u.UploadSong("T", "A", valueobject.FilePath{}, valueobject.FilePath{})
	assert.ErrorIs(t, err, ErrUserNotActive)
	_, err = u.CreatePlaylist()
	assert.ErrorIs(t, err, ErrUserNotActive)
	assert.ErrorIs(t, u.RemovePlaylist("p1"), ErrUserNotActive)
	assert.ErrorIs(t, u.LikeSong(song), ErrUserNotActive)
	assert.ErrorIs(t, u.UnlikeSong(song.ID()), ErrUserNotActive)
	_, err = u.AddRefreshToken()
	assert.ErrorIs(t, err, ErrUserNotActive)
	_, err = u.UpdateRefreshToken("tok")
	assert.ErrorIs(t, err, ErrUserNotActive)
	assert.ErrorIs(t, u.CleanRefreshTokens(), ErrUserNotActive)
}

func TestUserUpdateProfileTrimsName(t *testing.T) {
	u := newActiveUser(t)

	require.NoError(t, u.UpdateProfile("  Ada Lovelace  ", valueobject.FilePath{}))
	assert.Equal(t, "Ada Lovelace", u.FullName())
}

func TestUserAvatarChangedEvent(t *testing.T) {
	u := newActiveUser(t)

	// no previous avatar: no event
	require.NoError(t, u.UpdateProfile("Ada", valueobject.NewFilePath("avatars/u/a.png")))
	assert.Empty(t, u.PullEvents())

	// unchanged avatar: no event
	require.NoError(t, u.UpdateProfile("Ada", valueobject.NewFilePath("avatars/u/a.png")))
	assert.Empty(t, u.PullEvents())

	// changed avatar: event carries the old path
	require.NoError(t, u.UpdateProfile("Ada", valueobject.NewFilePath("avatars/u/b.png")))
	events := u.PullEvents()
	require.Len(t, events, 1)
	changed, ok := events[0].(UserAvatarChangedEvent)
	require.True(t, ok)
	assert.Equal(t, u.ID(), changed.UserID)
	assert.Equal(t, "avatars/u/a.png", changed.OldAvatarPath)
}

func TestUserChangePassword(t *testing.T) {
	u := newActiveUser(t)
	require.NoError(t, u.ChangePassword(mustHash(t, "newhash")))
	assert.Equal(t, "newhash", u.PasswordHash().Value())
}

func TestUserUploadSong(t *testing.T) {
	u := newActiveUser(t)

	song, err := u.UploadSong("Nightfall", "The Harbors", valueobject.NewFilePath("songs/n.mp3"), valueobject.FilePath{})
	require.NoError(t, err)
	assert.Equal(t, u.ID(), song.UploaderID())
	assert.False(t, song.IsPublished())
	require.Len(t, u.UploadedSongs(), 1)

	_, err = u.UploadSong("", "The Harbors", valueobject.FilePath{}, valueobject.FilePath{})
	assert.ErrorIs(t, err, ErrSongEmptyTitle)
	assert.Len(t, u.UploadedSongs(), 1)
}

func TestUserPlaylistNumbering(t *testing.T) {
	u := newActiveUser(t)

	for i := 1; i <= 3; i++ {
		p, err := u.CreatePlaylist()
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("Playlist #%d", i), p.Title())
		assert.Equal(t, u.ID(), p.UserID())
	}
	assert.Len(t, u.Playlists(), 3)
}

func TestUserRemovePlaylist(t *testing.T) {
	u := newActiveUser(t)
	p, err := u.CreatePlaylist()
	require.NoError(t, err)

	assert.ErrorIs(t, u.RemovePlaylist("someone-elses"), ErrUserDoesNotHavePlaylist)

	require.NoError(t, u.RemovePlaylist(p.ID()))
	assert.Empty(t, u.Playlists())
	// playlist had no image, so no cleanup event
	assert.Empty(t, u.PullEvents())
}

func TestUserRemovePlaylistWithImageRaisesEvent(t *testing.T) {
	u := newActiveUser(t)
	p, err := u.CreatePlaylist()
	require.NoError(t, err)
	reloaded := ReconstitutePlaylist(p.ID(), u.ID(), p.Title(), "", valueobject.NewFilePath("playlists/p/cover.jpg"), p.CreatedAt(), nil)
	u2 := ReconstituteUser(u.ID(), u.Email(), u.PasswordHash(), "", valueobject.FilePath{}, true, u.CreatedAt(), nil, []*Playlist{reloaded}, nil, nil)

	require.NoError(t, u2.RemovePlaylist(p.ID()))
	events := u2.PullEvents()
	require.Len(t, events, 1)
	deleted, ok := events[0].(PlaylistDeletedEvent)
	require.True(t, ok)
	assert.Equal(t, p.ID(), deleted.PlaylistID)
	assert.Equal(t, "playlists/p/cover.jpg", deleted.ImagePath)
}

func TestUserPlaylistMembership(t *testing.T) {
	u := newActiveUser(t)
	p, err := u.CreatePlaylist()
	require.NoError(t, err)
	s1 := newPublishedSong(t)
	s2 := newPublishedSong(t)

	require.NoError(t, u.AddSongToPlaylist(p.ID(), s1))
	require.NoError(t, u.AddSongToPlaylist(p.ID(), s2))
	assert.ErrorIs(t, u.AddSongToPlaylist(p.ID(), s1), ErrSongAlreadyInPlaylist)
	assert.ErrorIs(t, u.AddSongToPlaylist("missing", s1), ErrUserDoesNotHavePlaylist)

	songs := p.Songs()
	require.Len(t, songs, 2)
	assert.Equal(t, 1, songs[0].Order())
	assert.Equal(t, 2, songs[1].Order())

	require.NoError(t, u.RemoveSongFromPlaylist(p.ID(), s1.ID()))
	assert.ErrorIs(t, u.RemoveSongFromPlaylist(p.ID(), s1.ID()), ErrSongNotInPlaylist)

	songs = p.Songs()
	require.Len(t, songs, 1)
	assert.Equal(t, s2.ID(), songs[0].SongID())
	assert.Equal(t, 1, songs[0].Order())
}

func TestUserLikeUnlikeRoundTrip(t *testing.T) {
	u := newActiveUser(t)
	song := newPublishedSong(t)

	require.NoError(t, u.LikeSong(song))
	assert.ErrorIs(t, u.LikeSong(song), ErrSongAlreadyLiked)

	require.NoError(t, u.UnlikeSong(song.ID()))
	assert.ErrorIs(t, u.UnlikeSong(song.ID()), ErrSongNotLiked)

	require.NoError(t, u.LikeSong(song))

	liked := u.LikedSongs()
	require.Len(t, liked, 1)
	assert.Equal(t, song.ID(), liked[0].SongID())
	assert.Equal(t, u.ID(), liked[0].UserID())
}

func TestUserCannotLikeUnpublishedSong(t *testing.T) {
	u := newActiveUser(t)
	draft := newDraftSong(t)

	assert.ErrorIs(t, u.LikeSong(draft), ErrCannotLikeUnpublishedSong)
	assert.Empty(t, u.LikedSongs())
}

func TestUserRefreshTokenLifecycle(t *testing.T) {
	u := newActiveUser(t)

	first, err := u.AddRefreshToken()
	require.NoError(t, err)
	assert.NotEmpty(t, first.Token())
	assert.False(t, first.IsExpired())
	assert.Equal(t, u.ID(), first.UserID())

	rotated, err := u.UpdateRefreshToken(first.Token())
	require.NoError(t, err)
	assert.NotEqual(t, first.Token(), rotated.Token())
	require.Len(t, u.RefreshTokens(), 1)
	assert.Equal(t, rotated.Token(), u.RefreshTokens()[0].Token())

	_, err = u.UpdateRefreshToken(first.Token())
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)

	require.NoError(t, u.CleanRefreshTokens())
	assert.Empty(t, u.RefreshTokens())
	// idempotent on an empty collection
	require.NoError(t, u.CleanRefreshTokens())
}

func TestUserExpiredRefreshTokenCannotRotate(t *testing.T) {
	u := newActiveUser(t)
	expired := ReconstituteRefreshToken("rt1", u.ID(), "stale-token",
		time.Now().UTC().Add(-time.Hour), time.Now().UTC().Add(-31*24*time.Hour))
	stored := ReconstituteUser(u.ID(), u.Email(), u.PasswordHash(), u.FullName(),
		u.AvatarPath(), true, u.CreatedAt(), nil, nil, nil, []RefreshToken{expired})

	_, err := stored.UpdateRefreshToken("stale-token")
	assert.ErrorIs(t, err, ErrRefreshTokenNotFound)
	// the dead entry is gone, not left around for another attempt
	assert.Empty(t, stored.RefreshTokens())
}

func TestPullEventsDrainsOnce(t *testing.T) {
	u := NewUser(mustEmail(t, "listener@example.com"), mustHash(t, "hash"))

	first := u.PullEvents()
	require.Len(t, first, 1)
	assert.Empty(t, u.PullEvents())
}

func TestDomainErrorComparesByCode(t *testing.T) {
	err := domain.NewError("User.NotActive", "different wording")
	assert.ErrorIs(t, err, ErrUserNotActive)
	assert.Equal(t, "User.NotActive", domain.CodeOf(ErrUserNotActive))
	assert.True(t, domain.IsDomain(ErrUserNotActive))
	assert.False(t, domain.IsDomain(fmt.Errorf("infra failure")))
}
