package valueobject

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "valid", raw: "listener@example.com", want: "listener@example.com"},
		{name: "normalized", raw: "  Listener@Example.COM ", want: "listener@example.com"},
		{name: "empty", raw: "", wantErr: ErrEmptyEmail},
		{name: "blank", raw: "   ", wantErr: ErrEmptyEmail},
		{name: "too long", raw: strings.Repeat("a", 250) + "@b.com", wantErr: ErrEmailTooLong},
		{name: "no at sign", raw: "example.com", wantErr: ErrInvalidEmailFormat},
		{name: "no domain dot", raw: "a@b", wantErr: ErrInvalidEmailFormat},
		{name: "spaces inside", raw: "a b@c.com", wantErr: ErrInvalidEmailFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewEmail(tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.Value())
		})
	}
}

func TestEmailEquality(t *testing.T) {
	a, err := NewEmail("Same@Example.com")
	require.NoError(t, err)
	b, err := NewEmail("same@example.com")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNewPasswordHash(t *testing.T) {
	_, err := NewPasswordHash("")
	assert.ErrorIs(t, err, ErrEmptyPasswordHash)

	h, err := NewPasswordHash("$2a$10$abcdef")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$abcdef", h.Value())
}

func TestFilePath(t *testing.T) {
	assert.True(t, NewFilePath("").IsEmpty())
	assert.True(t, NewFilePath("  ").IsEmpty())
	assert.True(t, EmptyFilePath().IsEmpty())
	assert.Equal(t, "", EmptyFilePath().Value())

	p := NewFilePath("songs/u1/track.mp3")
	assert.False(t, p.IsEmpty())
	assert.Equal(t, "songs/u1/track.mp3", p.Value())
	assert.Equal(t, p, NewFilePath("songs/u1/track.mp3"))
}

func TestModeratorPermissionFactories(t *testing.T) {
	def := DefaultPermissions()
	assert.True(t, def.CanManageUsers)
	assert.True(t, def.CanManageContent)
	assert.True(t, def.CanViewReports)
	assert.False(t, def.CanManageModerators)

	super := SuperAdminPermissions()
	assert.True(t, super.CanManageUsers)
	assert.True(t, super.CanManageContent)
	assert.True(t, super.CanViewReports)
	assert.True(t, super.CanManageModerators)
}
