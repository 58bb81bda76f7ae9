package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tunehub/tunehub/internal/domain"
	"github.com/tunehub/tunehub/internal/domain/valueobject"
)

// Moderator is the aggregate root for the moderation console. It owns no
// child collections; it acts upon other aggregates (peer moderators,
// users, songs) passed in as arguments and mutated through their own
// guarded methods.
//
// Every public operation runs the same three-phase guard, strictly in
// this order: the acting moderator must be active, must hold the
// permission flag the operation requires, and only then are
// operation-specific guards (self-targeting, target state) evaluated.
type Moderator struct {
	domain.EventRecorder

	id           string
	email        valueobject.Email
	passwordHash valueobject.PasswordHash
	fullName     string
	isActive     bool
	createdAt    time.Time
	permissions  valueobject.ModeratorPermissions
}

// NewModerator creates a moderator account. Unlike users, moderators
// start active.
func NewModerator(email valueobject.Email, passwordHash valueobject.PasswordHash, fullName string, permissions valueobject.ModeratorPermissions) *Moderator {
	return &Moderator{
		id:           uuid.NewString(),
		email:        email,
		passwordHash: passwordHash,
		fullName:     strings.TrimSpace(fullName),
		isActive:     true,
		createdAt:    time.Now().UTC(),
		permissions:  permissions,
	}
}

// ReconstituteModerator rebuilds a Moderator from persistence.
func ReconstituteModerator(id string, email valueobject.Email, passwordHash valueobject.PasswordHash, fullName string, isActive bool, createdAt time.Time, permissions valueobject.ModeratorPermissions) *Moderator {
	return &Moderator{
		id:           id,
		email:        email,
		passwordHash: passwordHash,
		fullName:     fullName,
		isActive:     isActive,
		createdAt:    createdAt,
		permissions:  permissions,
	}
}

func (m *Moderator) ID() string                                    { return m.id }
func (m *Moderator) Email() valueobject.Email                      { return m.email }
func (m *Moderator) PasswordHash() valueobject.PasswordHash        { return m.passwordHash }
func (m *Moderator) FullName() string                              { return m.fullName }
func (m *Moderator) IsActive() bool                                { return m.isActive }
func (m *Moderator) CreatedAt() time.Time                          { return m.createdAt }
func (m *Moderator) Permissions() valueobject.ModeratorPermissions { return m.permissions }

func (m *Moderator) requireActive() error {
	if !m.isActive {
		return ErrModeratorNotActive
	}
	return nil
}

func (m *Moderator) activate() error {
	if m.isActive {
		return ErrModeratorAlreadyActive
	}
	m.isActive = true
	return nil
}

func (m *Moderator) deactivate() error {
	if !m.isActive {
		return ErrModeratorAlreadyDeactivated
	}
	m.isActive = false
	return nil
}

// ---- peer-moderator operations (CanManageModerators) ----

// CreateModerator creates a new peer. No self/target guards apply:
// nothing existing is targeted.
func (m *Moderator) CreateModerator(email valueobject.Email, passwordHash valueobject.PasswordHash, fullName string, super bool) (*Moderator, error) {
	if err := m.requireActive(); err != nil {
		return nil, err
	}
	if !m.permissions.CanManageModerators {
		return nil, ErrCannotManageModerators
	}
	perms := valueobject.DefaultPermissions()
	if super {
		perms = valueobject.SuperAdminPermissions()
	}
	return NewModerator(email, passwordHash, fullName, perms), nil
}

// UpdateModeratorPermissions replaces the target's permission set
// wholesale.
func (m *Moderator) UpdateModeratorPermissions(target *Moderator, permissions valueobject.ModeratorPermissions) error {
	if err := m.requireActive(); err != nil {
		return err
	}
	if !m.permissions.CanManageModerators {
		return ErrCannotManageModerators
	}
	if target.id == m.id {
		return ErrCannotManageSelf
	}
	if !target.isActive {
		return ErrModeratorNotActive
	}
	target.permissions = permissions
	return nil
}

func (m *Moderator) ActivateModerator(target *Moderator) error {
	if err := m.requireActive(); err != nil {
		return err
	}
	if !m.permissions.CanManageModerators {
		return ErrCannotManageModerators
	}
	if target.id == m.id {
		return ErrCannotManageSelf
	}
	return target.activate()
}

func (m *Moderator) DeactivateModerator(target *Moderator) error {
	if err := m.requireActive(); err != nil {
		return err
	}
	if !m.permissions.CanManageModerators {
		return ErrCannotManageModerators
	}
	if target.id == m.id {
		return ErrCannotManageSelf
	}
	return target.deactivate()
}

// ---- user operations (CanManageUsers) ----

func (m *Moderator) ActivateUser(user *User) error {
	if err := m.requireActive(); err != nil {
		return err
	}
	if !m.permissions.CanManageUsers {
		return ErrCannotManageUsers
	}
	return user.Activate()
}

// DeactivateUser deactivates the target user. When the user had an
// avatar set, the orphaned storage key is recorded on the moderator's
// own event list; this is distinct from the user's own avatar-change
// event.
func (m *Moderator) DeactivateUser(user *User) error {
	if err := m.requireActive(); err != nil {
		return err
	}
	if !m.permissions.CanManageUsers {
		return ErrCannotManageUsers
	}
	avatar := user.AvatarPath()
	if err := user.Deactivate(); err != nil {
		return err
	}
	if !avatar.IsEmpty() {
		m.Record(ModeratorDeactivatedUserEvent{baseEvent: newBaseEvent(), UserID: user.ID(), AvatarPath: avatar.Value()})
	}
	return nil
}

// ---- content operations (CanManageContent) ----

func (m *Moderator) requireContent() error {
	if err := m.requireActive(); err != nil {
		return err
	}
	if !m.permissions.CanManageContent {
		return ErrCannotManageContent
	}
	return nil
}

func (m *Moderator) PublishSong(song *Song) error {
	if err := m.requireContent(); err != nil {
		return err
	}
	return song.Publish()
}

func (m *Moderator) UnpublishSong(song *Song) error {
	if err := m.requireContent(); err != nil {
		return err
	}
	return song.Unpublish()
}

func (m *Moderator) DeleteSong(song *Song) error {
	if err := m.requireContent(); err != nil {
		return err
	}
	if err := song.MarkForDeletion(); err != nil {
		return err
	}
	m.recordSongDeleted(song)
	return nil
}

func (m *Moderator) recordSongDeleted(song *Song) {
	m.Record(ModeratorDeletedSongEvent{
		baseEvent: newBaseEvent(),
		SongID:    song.ID(),
		SongPath:  song.SongPath().Value(),
		ImagePath: song.ImagePath().Value(),
	})
}

// PublishSongs publishes every song or none: all guards are validated in
// a read-only pass before any song is mutated, so a failure anywhere in
// the list leaves the whole list untouched.
func (m *Moderator) PublishSongs(songs []*Song) error {
	if err := m.requireContent(); err != nil {
		return err
	}
	if len(songs) == 0 {
		return ErrCannotManageEmptySongList
	}
	for _, s := range songs {
		if err := s.canPublish(); err != nil {
			return err
		}
	}
	for _, s := range songs {
		s.isPublished = true
	}
	return nil
}

// DeleteSongs marks every song for deletion or none, with the same
// validate-all-then-apply-all strategy as PublishSongs. Events are only
// recorded once the whole batch is known to succeed.
func (m *Moderator) DeleteSongs(songs []*Song) error {
	if err := m.requireContent(); err != nil {
		return err
	}
	if len(songs) == 0 {
		return ErrCannotManageEmptySongList
	}
	for _, s := range songs {
		if err := s.canMarkForDeletion(); err != nil {
			return err
		}
	}
	for _, s := range songs {
		s.markedForDeletion = true
		m.recordSongDeleted(s)
	}
	return nil
}
