package entity

import "github.com/tunehub/tunehub/internal/domain"

// Song state-guard errors.
var (
	ErrSongEmptyTitle                 = domain.NewError("ValidationError", "song title must not be empty")
	ErrSongEmptyAuthor                = domain.NewError("ValidationError", "song author must not be empty")
	ErrSongAlreadyPublished           = domain.NewError("Song.AlreadyPublished", "song is already published")
	ErrSongNotPublished               = domain.NewError("Song.NotPublished", "song is already unpublished")
	ErrCannotPublishMarkedForDeletion = domain.NewError("Song.CannotPublishMarkedForDeletion", "song marked for deletion cannot be published")
	ErrCannotDeletePublished          = domain.NewError("Song.CannotDeletePublished", "published song cannot be marked for deletion")
	ErrSongAlreadyMarkedForDeletion   = domain.NewError("Song.AlreadyMarkedForDeletion", "song is already marked for deletion")
)

// User state-guard errors.
var (
	ErrUserNotActive                = domain.NewError("User.NotActive", "user account is not active")
	ErrUserAlreadyActive            = domain.NewError("User.AlreadyActive", "user account is already active")
	ErrUserAlreadyDeactivated       = domain.NewError("User.AlreadyDeactivated", "user account is already deactivated")
	ErrUserDoesNotHavePlaylist      = domain.NewError("User.DoesNotHavePlaylist", "user does not have this playlist")
	ErrSongAlreadyLiked             = domain.NewError("User.SongAlreadyLiked", "song is already liked")
	ErrSongNotLiked                 = domain.NewError("User.SongNotLiked", "song is not liked")
	ErrCannotLikeUnpublishedSong    = domain.NewError("User.CannotLikeUnpublishedSong", "unpublished song cannot be liked")
	ErrRefreshTokenNotFound         = domain.NewError("User.RefreshTokenNotFound", "refresh token not found")
	ErrSongAlreadyInPlaylist        = domain.NewError("User.SongAlreadyInPlaylist", "song is already in the playlist")
	ErrSongNotInPlaylist            = domain.NewError("User.SongNotInPlaylist", "song is not in the playlist")
)

// Moderator state-guard and authorization errors.
var (
	ErrModeratorNotActive          = domain.NewError("Moderator.NotActive", "moderator account is not active")
	ErrModeratorAlreadyActive      = domain.NewError("Moderator.AlreadyActive", "moderator account is already active")
	ErrModeratorAlreadyDeactivated = domain.NewError("Moderator.AlreadyDeactivated", "moderator account is already deactivated")
	ErrCannotManageModerators      = domain.NewError("Moderator.CannotManageModerators", "moderator is not allowed to manage moderators")
	ErrCannotManageUsers           = domain.NewError("Moderator.CannotManageUsers", "moderator is not allowed to manage users")
	ErrCannotManageContent         = domain.NewError("Moderator.CannotManageContent", "moderator is not allowed to manage content")
	ErrCannotManageSelf            = domain.NewError("Moderator.CannotManageSelf", "moderator cannot manage himself")
	ErrCannotManageEmptySongList   = domain.NewError("Moderator.CannotManageEmptySongList", "song list must not be empty")
)
