package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunehub/tunehub/internal/domain"
	"github.com/tunehub/tunehub/internal/domain/entity"
	"github.com/tunehub/tunehub/pkg/cleanup"
)

func TestDispatchEnqueuesCleanupJobs(t *testing.T) {
	pub := &fakePublisher{}
	d := NewEventDispatcher(pub, "file_cleanup", nil)

	d.Dispatch(context.Background(), []domain.Event{
		entity.UserAvatarChangedEvent{UserID: "u1", OldAvatarPath: "avatars/old.png"},
		entity.PlaylistDeletedEvent{PlaylistID: "p1", ImagePath: "covers/p1.png"},
		entity.ModeratorDeletedSongEvent{SongID: "s1", SongPath: "songs/s1.mp3", ImagePath: "covers/s1.png"},
	})

	jobs := pub.published()
	require.Len(t, jobs, 3)
	for _, j := range jobs {
		assert.Equal(t, "file_cleanup", j.queue)
	}

	song, ok := jobs[2].body.(cleanup.Job)
	require.True(t, ok)
	assert.Equal(t, []string{"songs/s1.mp3", "covers/s1.png"}, song.Paths)
	assert.Equal(t, "song deleted", song.Reason)
}

func TestDispatchSkipsEmptyPaths(t *testing.T) {
	pub := &fakePublisher{}
	d := NewEventDispatcher(pub, "file_cleanup", nil)

	d.Dispatch(context.Background(), []domain.Event{
		entity.UserAvatarChangedEvent{UserID: "u1", OldAvatarPath: ""},
		entity.PlaylistDeletedEvent{PlaylistID: "p1", ImagePath: ""},
		entity.ModeratorDeletedSongEvent{SongID: "s1", SongPath: "songs/s1.mp3", ImagePath: ""},
	})

	jobs := pub.published()
	require.Len(t, jobs, 1)
	job, ok := jobs[0].body.(cleanup.Job)
	require.True(t, ok)
	assert.Equal(t, []string{"songs/s1.mp3"}, job.Paths)
}

func TestDispatchIgnoresUnhandledEvents(t *testing.T) {
	pub := &fakePublisher{}
	d := NewEventDispatcher(pub, "file_cleanup", nil)

	d.Dispatch(context.Background(), []domain.Event{
		entity.UserRegisteredEvent{UserID: "u1", Email: "listener@example.com"},
	})
	assert.Empty(t, pub.published())
}

// failingPublisher always errors so we can assert failures are swallowed.
type failingPublisher struct{}

func (failingPublisher) PublishJSON(context.Context, string, any) error {
	return errors.New("broker down")
}

func TestDispatchSwallowsPublishErrors(t *testing.T) {
	d := NewEventDispatcher(failingPublisher{}, "file_cleanup", nil)

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), []domain.Event{
			entity.ModeratorDeletedSongEvent{SongID: "s1", SongPath: "songs/s1.mp3"},
		})
	})
}
