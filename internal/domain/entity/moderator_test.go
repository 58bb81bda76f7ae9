package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunehub/tunehub/internal/domain/valueobject"
)

func newModerator(t *testing.T, perms valueobject.ModeratorPermissions) *Moderator {
	t.Helper()
	return NewModerator(mustEmail(t, "mod@example.com"), mustHash(t, "hash"), "Mod", perms)
}

func newSuperAdmin(t *testing.T) *Moderator {
	t.Helper()
	return newModerator(t, valueobject.SuperAdminPermissions())
}

func deactivated(m *Moderator) *Moderator {
	m.isActive = false
	return m
}

func TestNewModeratorStartsActive(t *testing.T) {
	m := NewModerator(mustEmail(t, "a@b.com"), mustHash(t, "h"), "  Mod  ", valueobject.DefaultPermissions())

	assert.True(t, m.IsActive())
	assert.Equal(t, "Mod", m.FullName())
	assert.NotEmpty(t, m.ID())
	assert.False(t, m.Permissions().CanManageModerators)
	assert.True(t, m.Permissions().CanManageUsers)
	assert.True(t, m.Permissions().CanManageContent)
	assert.True(t, m.Permissions().CanViewReports)
}

func TestInactiveModeratorIsRejectedFirst(t *testing.T) {
	// Guard order: actor state is checked before permissions, even for a
	// super admin with every flag set.
	m := deactivated(newSuperAdmin(t))
	target := newSuperAdmin(t)
	user := newActiveUser(t)
	song := newDraftSong(t)

	_, err := m.CreateModerator(mustEmail(t, "x@y.com"), mustHash(t, "h"), "", false)
	assert.ErrorIs(t, err, ErrModeratorNotActive)
	assert.ErrorIs(t, m.UpdateModeratorPermissions(target, valueobject.DefaultPermissions()), ErrModeratorNotActive)
	assert.ErrorIs(t, m.ActivateModerator(target), ErrModeratorNotActive)
	assert.ErrorIs(t, m.DeactivateModerator(target), ErrModeratorNotActive)
	assert.ErrorIs(t, m.ActivateUser(newInactiveUser(t)), ErrModeratorNotActive)
	assert.ErrorIs(t, m.DeactivateUser(user), ErrModeratorNotActive)
	assert.ErrorIs(t, m.PublishSong(song), ErrModeratorNotActive)
	assert.ErrorIs(t, m.UnpublishSong(song), ErrModeratorNotActive)
	assert.ErrorIs(t, m.DeleteSong(song), ErrModeratorNotActive)
	assert.ErrorIs(t, m.PublishSongs([]*Song{song}), ErrModeratorNotActive)
	assert.ErrorIs(t, m.DeleteSongs([]*Song{song}), ErrModeratorNotActive)
}

func TestMissingPermissionIsRejectedSecond(t *testing.T) {
	none := newModerator(t, valueobject.ModeratorPermissions{})
	target := newSuperAdmin(t)
	user := newActiveUser(t)
	song := newDraftSong(t)

	_, err := none.CreateModerator(mustEmail(t, "x@y.com"), mustHash(t, "h"), "", false)
	assert.ErrorIs(t, err, ErrCannotManageModerators)
	assert.ErrorIs(t, none.UpdateModeratorPermissions(target, valueobject.DefaultPermissions()), ErrCannotManageModerators)
	assert.ErrorIs(t, none.ActivateModerator(target), ErrCannotManageModerators)
	assert.ErrorIs(t, none.DeactivateModerator(target), ErrCannotManageModerators)

	assert.ErrorIs(t, none.ActivateUser(newInactiveUser(t)), ErrCannotManageUsers)
	assert.ErrorIs(t, none.DeactivateUser(user), ErrCannotManageUsers)

	assert.ErrorIs(t, none.PublishSong(song), ErrCannotManageContent)
	assert.ErrorIs(t, none.UnpublishSong(song), ErrCannotManageContent)
	assert.ErrorIs(t, none.DeleteSong(song), ErrCannotManageContent)
	assert.ErrorIs(t, none.PublishSongs([]*Song{song}), ErrCannotManageContent)
	assert.ErrorIs(t, none.DeleteSongs([]*Song{song}), ErrCannotManageContent)
}

func TestCreateModerator(t *testing.T) {
	m := newSuperAdmin(t)

	created, err := m.CreateModerator(mustEmail(t, "new@example.com"), mustHash(t, "h"), "New Mod", false)
	require.NoError(t, err)
	assert.True(t, created.IsActive())
	assert.Equal(t, valueobject.DefaultPermissions(), created.Permissions())

	super, err := m.CreateModerator(mustEmail(t, "root@example.com"), mustHash(t, "h"), "", true)
	require.NoError(t, err)
	assert.Equal(t, valueobject.SuperAdminPermissions(), super.Permissions())
}

func TestModeratorCannotManageSelf(t *testing.T) {
	m := newSuperAdmin(t)

	assert.ErrorIs(t, m.UpdateModeratorPermissions(m, valueobject.DefaultPermissions()), ErrCannotManageSelf)
	assert.ErrorIs(t, m.ActivateModerator(m), ErrCannotManageSelf)
	assert.ErrorIs(t, m.DeactivateModerator(m), ErrCannotManageSelf)
	assert.True(t, m.IsActive())
}

func TestUpdateModeratorPermissions(t *testing.T) {
	m := newSuperAdmin(t)
	target := newModerator(t, valueobject.DefaultPermissions())

	require.NoError(t, m.UpdateModeratorPermissions(target, valueobject.SuperAdminPermissions()))
	assert.Equal(t, valueobject.SuperAdminPermissions(), target.Permissions())

	assert.ErrorIs(t, m.UpdateModeratorPermissions(deactivated(target), valueobject.DefaultPermissions()), ErrModeratorNotActive)
}

func TestActivateDeactivateModerator(t *testing.T) {
	m := newSuperAdmin(t)
	target := newModerator(t, valueobject.DefaultPermissions())

	assert.ErrorIs(t, m.ActivateModerator(target), ErrModeratorAlreadyActive)

	require.NoError(t, m.DeactivateModerator(target))
	assert.False(t, target.IsActive())
	assert.ErrorIs(t, m.DeactivateModerator(target), ErrModeratorAlreadyDeactivated)

	require.NoError(t, m.ActivateModerator(target))
	assert.True(t, target.IsActive())
}

func TestModeratorActivateUser(t *testing.T) {
	m := newSuperAdmin(t)
	user := newInactiveUser(t)

	require.NoError(t, m.ActivateUser(user))
	assert.True(t, user.IsActive())
	assert.ErrorIs(t, m.ActivateUser(user), ErrUserAlreadyActive)
}

func TestModeratorDeactivateUser(t *testing.T) {
	m := newSuperAdmin(t)
	user := newActiveUser(t)
	require.NoError(t, user.UpdateProfile("Ada", valueobject.NewFilePath("avatars/u/a.png")))
	user.PullEvents()

	require.NoError(t, m.DeactivateUser(user))
	assert.False(t, user.IsActive())
	assert.True(t, user.AvatarPath().IsEmpty())

	// cleanup event lands on the moderator's list, not the user's
	assert.Empty(t, user.PullEvents())
	events := m.PullEvents()
	require.Len(t, events, 1)
	evt, ok := events[0].(ModeratorDeactivatedUserEvent)
	require.True(t, ok)
	assert.Equal(t, user.ID(), evt.UserID)
	assert.Equal(t, "avatars/u/a.png", evt.AvatarPath)

	assert.ErrorIs(t, m.DeactivateUser(user), ErrUserAlreadyDeactivated)
	assert.Empty(t, m.PullEvents())
}

func TestModeratorDeactivateUserWithoutAvatar(t *testing.T) {
	m := newSuperAdmin(t)
	user := newActiveUser(t)

	require.NoError(t, m.DeactivateUser(user))
	assert.Empty(t, m.PullEvents())
}

func TestModeratorPublishUnpublishSong(t *testing.T) {
	m := newSuperAdmin(t)
	song := newDraftSong(t)

	require.NoError(t, m.PublishSong(song))
	assert.True(t, song.IsPublished())
	assert.ErrorIs(t, m.PublishSong(song), ErrSongAlreadyPublished)

	require.NoError(t, m.UnpublishSong(song))
	assert.ErrorIs(t, m.UnpublishSong(song), ErrSongNotPublished)
}

func TestModeratorDeleteSong(t *testing.T) {
	m := newSuperAdmin(t)
	song := newDraftSong(t)

	require.NoError(t, m.DeleteSong(song))
	assert.True(t, song.MarkedForDeletion())

	events := m.PullEvents()
	require.Len(t, events, 1)
	evt, ok := events[0].(ModeratorDeletedSongEvent)
	require.True(t, ok)
	assert.Equal(t, song.ID(), evt.SongID)
	assert.Equal(t, song.SongPath().Value(), evt.SongPath)

	published := newPublishedSong(t)
	assert.ErrorIs(t, m.DeleteSong(published), ErrCannotDeletePublished)
	assert.Empty(t, m.PullEvents())
}

func TestBatchRejectsEmptyList(t *testing.T) {
	m := newSuperAdmin(t)
	assert.ErrorIs(t, m.PublishSongs(nil), ErrCannotManageEmptySongList)
	assert.ErrorIs(t, m.DeleteSongs([]*Song{}), ErrCannotManageEmptySongList)
}

func TestPublishSongsAtomicity(t *testing.T) {
	m := newSuperAdmin(t)
	ok1 := newDraftSong(t)
	bad := newDraftSong(t)
	require.NoError(t, bad.MarkForDeletion())
	ok2 := newDraftSong(t)

	err := m.PublishSongs([]*Song{ok1, bad, ok2})
	assert.ErrorIs(t, err, ErrCannotPublishMarkedForDeletion)
	assert.False(t, ok1.IsPublished())
	assert.False(t, ok2.IsPublished())

	require.NoError(t, m.PublishSongs([]*Song{ok1, ok2}))
	assert.True(t, ok1.IsPublished())
	assert.True(t, ok2.IsPublished())
}

func TestDeleteSongsAtomicity(t *testing.T) {
	m := newSuperAdmin(t)
	ok1 := newDraftSong(t)
	published := newPublishedSong(t)
	ok2 := newDraftSong(t)

	err := m.DeleteSongs([]*Song{ok1, published, ok2})
	assert.ErrorIs(t, err, ErrCannotDeletePublished)
	assert.False(t, ok1.MarkedForDeletion())
	assert.False(t, ok2.MarkedForDeletion())
	// a failed batch must not leave any events behind
	assert.Empty(t, m.PullEvents())

	require.NoError(t, m.DeleteSongs([]*Song{ok1, ok2}))
	assert.True(t, ok1.MarkedForDeletion())
	assert.True(t, ok2.MarkedForDeletion())
	assert.Len(t, m.PullEvents(), 2)
}
