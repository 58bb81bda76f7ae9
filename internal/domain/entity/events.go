package entity

import "time"

// Event names, namespaced by aggregate.
const (
	UserRegisteredEventName            = "users.UserRegistered"
	UserAvatarChangedEventName         = "users.UserAvatarChanged"
	PlaylistDeletedEventName           = "users.PlaylistDeleted"
	ModeratorDeactivatedUserEventName  = "moderators.UserDeactivated"
	ModeratorDeletedSongEventName      = "moderators.SongDeleted"
)

type baseEvent struct {
	occurredOn time.Time
}

func newBaseEvent() baseEvent { return baseEvent{occurredOn: time.Now().UTC()} }

func (e baseEvent) OccurredOn() time.Time { return e.occurredOn }

// UserRegisteredEvent is raised when a new user account is created.
type UserRegisteredEvent struct {
	baseEvent
	UserID string
	Email  string
}

func (UserRegisteredEvent) EventName() string { return UserRegisteredEventName }

// UserAvatarChangedEvent signals that the previous avatar file became
// unreferenced and can be removed from storage.
type UserAvatarChangedEvent struct {
	baseEvent
	UserID        string
	OldAvatarPath string
}

func (UserAvatarChangedEvent) EventName() string { return UserAvatarChangedEventName }

// PlaylistDeletedEvent signals that a removed playlist left an orphaned
// cover image behind.
type PlaylistDeletedEvent struct {
	baseEvent
	PlaylistID string
	ImagePath  string
}

func (PlaylistDeletedEvent) EventName() string { return PlaylistDeletedEventName }

// ModeratorDeactivatedUserEvent is raised on the moderator's own event
// list when deactivating a user orphaned that user's avatar file.
type ModeratorDeactivatedUserEvent struct {
	baseEvent
	UserID     string
	AvatarPath string
}

func (ModeratorDeactivatedUserEvent) EventName() string { return ModeratorDeactivatedUserEventName }

// ModeratorDeletedSongEvent is raised when a moderator marks a song for
// deletion, carrying the storage keys that need cleanup.
type ModeratorDeletedSongEvent struct {
	baseEvent
	SongID    string
	SongPath  string
	ImagePath string
}

func (ModeratorDeletedSongEvent) EventName() string { return ModeratorDeletedSongEventName }
