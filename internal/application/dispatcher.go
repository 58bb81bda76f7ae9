package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/tunehub/tunehub/internal/domain"
	"github.com/tunehub/tunehub/internal/domain/entity"
	"github.com/tunehub/tunehub/pkg/cleanup"
)

// JobPublisher publishes JSON jobs to a named queue. Satisfied by
// helpers.RabbitPublisher; faked in tests.
type JobPublisher interface {
	PublishJSON(ctx context.Context, queue string, body any) error
}

// EventDispatcher turns buffered domain events into side effects.
// File-bearing events become storage cleanup jobs so orphaned objects
// get removed from the media bucket out of band.
type EventDispatcher struct {
	Jobs         JobPublisher
	CleanupQueue string
	Logger       *logrus.Logger
}

func NewEventDispatcher(jobs JobPublisher, cleanupQueue string, logger *logrus.Logger) *EventDispatcher {
	return &EventDispatcher{Jobs: jobs, CleanupQueue: cleanupQueue, Logger: logger}
}

// Dispatch handles each event in order. Side-effect failures are logged
// and swallowed: the state change already committed, and cleanup jobs
// are best-effort.
func (d *EventDispatcher) Dispatch(ctx context.Context, events []domain.Event) {
	for _, e := range events {
		switch ev := e.(type) {
		case entity.UserAvatarChangedEvent:
			d.enqueueCleanup(ctx, "avatar replaced", ev.OldAvatarPath)
		case entity.PlaylistDeletedEvent:
			d.enqueueCleanup(ctx, "playlist deleted", ev.ImagePath)
		case entity.ModeratorDeactivatedUserEvent:
			d.enqueueCleanup(ctx, "user deactivated", ev.AvatarPath)
		case entity.ModeratorDeletedSongEvent:
			d.enqueueCleanup(ctx, "song deleted", ev.SongPath, ev.ImagePath)
		default:
			if d.Logger != nil {
				d.Logger.WithField("event", e.EventName()).Debug("no handler for event")
			}
		}
	}
}

func (d *EventDispatcher) enqueueCleanup(ctx context.Context, reason string, paths ...string) {
	nonEmpty := make([]string, 0, len(paths))
	for _, p := range paths {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 || d.Jobs == nil || d.CleanupQueue == "" {
		return
	}
	job := cleanup.Job{Paths: nonEmpty, Reason: reason}
	if err := d.Jobs.PublishJSON(ctx, d.CleanupQueue, job); err != nil && d.Logger != nil {
		d.Logger.WithError(err).WithField("paths", nonEmpty).Warn("enqueue cleanup job failed")
	}
}
