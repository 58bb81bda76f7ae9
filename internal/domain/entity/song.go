package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tunehub/tunehub/internal/domain/valueobject"
)

// Song is the publication state machine for an uploaded track.
//
// A song is in exactly one of three states: draft (neither flag set),
// published, or marked for deletion. "Published and marked for deletion"
// is unreachable: Publish refuses marked songs and MarkForDeletion
// refuses published ones. There is no unmark operation.
type Song struct {
	id                string
	title             string
	author            string
	songPath          valueobject.FilePath
	imagePath         valueobject.FilePath
	uploaderID        string // empty when the uploader was removed
	isPublished       bool
	markedForDeletion bool
	createdAt         time.Time
}

func NewSong(title, author string, songPath, imagePath valueobject.FilePath, uploaderID string) (*Song, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" {
		return nil, ErrSongEmptyTitle
	}
	if author == "" {
		return nil, ErrSongEmptyAuthor
	}
	return &Song{
		id:         uuid.NewString(),
		title:      title,
		author:     author,
		songPath:   songPath,
		imagePath:  imagePath,
		uploaderID: uploaderID,
		createdAt:  time.Now().UTC(),
	}, nil
}

// ReconstituteSong rebuilds a Song from persistence without validation.
func ReconstituteSong(id, title, author string, songPath, imagePath valueobject.FilePath, uploaderID string, isPublished, markedForDeletion bool, createdAt time.Time) *Song {
	return &Song{
		id:                id,
		title:             title,
		author:            author,
		songPath:          songPath,
		imagePath:         imagePath,
		uploaderID:        uploaderID,
		isPublished:       isPublished,
		markedForDeletion: markedForDeletion,
		createdAt:         createdAt,
	}
}

func (s *Song) ID() string                      { return s.id }
func (s *Song) Title() string                   { return s.title }
func (s *Song) Author() string                  { return s.author }
func (s *Song) SongPath() valueobject.FilePath  { return s.songPath }
func (s *Song) ImagePath() valueobject.FilePath { return s.imagePath }
func (s *Song) UploaderID() string              { return s.uploaderID }
func (s *Song) IsPublished() bool               { return s.isPublished }
func (s *Song) MarkedForDeletion() bool         { return s.markedForDeletion }
func (s *Song) CreatedAt() time.Time            { return s.createdAt }

// canPublish is the read-only guard shared by Publish and the moderator
// batch pre-validation pass.
func (s *Song) canPublish() error {
	if s.isPublished {
		return ErrSongAlreadyPublished
	}
	if s.markedForDeletion {
		return ErrCannotPublishMarkedForDeletion
	}
	return nil
}

func (s *Song) Publish() error {
	if err := s.canPublish(); err != nil {
		return err
	}
	s.isPublished = true
	return nil
}

func (s *Song) Unpublish() error {
	if !s.isPublished {
		return ErrSongNotPublished
	}
	s.isPublished = false
	return nil
}

// canMarkForDeletion is the read-only guard shared by MarkForDeletion
// and the moderator batch pre-validation pass.
func (s *Song) canMarkForDeletion() error {
	if s.isPublished {
		return ErrCannotDeletePublished
	}
	if s.markedForDeletion {
		return ErrSongAlreadyMarkedForDeletion
	}
	return nil
}

func (s *Song) MarkForDeletion() error {
	if err := s.canMarkForDeletion(); err != nil {
		return err
	}
	s.markedForDeletion = true
	return nil
}
