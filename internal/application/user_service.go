package application

import (
	"context"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/tunehub/tunehub/internal/domain/entity"
	repo "github.com/tunehub/tunehub/internal/domain/repository"
	"github.com/tunehub/tunehub/internal/domain/valueobject"
	"github.com/tunehub/tunehub/pkg/helpers"
)

// UserService covers the listener-facing operations: profile, avatar,
// song uploads, and likes.
type UserService struct {
	Users      repo.UserRepository
	Songs      repo.SongRepository
	GCS        *storage.Client
	GCSBucket  string
	Redis      *redis.Client
	Dispatcher *EventDispatcher
	Logger     *logrus.Logger
}

func NewUserService(users repo.UserRepository, songs repo.SongRepository, gcs *storage.Client, gcsBucket string, rdb *redis.Client, dispatcher *EventDispatcher, logger *logrus.Logger) *UserService {
	return &UserService{
		Users:      users,
		Songs:      songs,
		GCS:        gcs,
		GCSBucket:  gcsBucket,
		Redis:      rdb,
		Dispatcher: dispatcher,
		Logger:     logger,
	}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

type UpdateProfileInput struct {
	FullName   string
	AvatarPath string // already-uploaded object path; empty keeps the current avatar
}

// UpdateProfile applies the change and dispatches any avatar cleanup event.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	avatar := u.AvatarPath()
	if in.AvatarPath != "" {
		avatar = valueobject.NewFilePath(in.AvatarPath)
	}
	if err := u.UpdateProfile(in.FullName, avatar); err != nil {
		return nil, err
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.dispatch(ctx, u)
	s.refreshSessionName(ctx, u)
	return u, nil
}

// UploadAvatar stores the image in GCS and points the profile at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (string, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", ErrStorageNotConfigured
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", ErrUserNotFound
	}

	objectPath := helpers.ObjectPath("avatars", userID, filename)
	if err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, r); err != nil {
		return "", err
	}
	if err := u.UpdateProfile(u.FullName(), valueobject.NewFilePath(objectPath)); err != nil {
		return "", err
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return "", err
	}
	s.dispatch(ctx, u)
	return helpers.PublicURL(s.GCSBucket, objectPath), nil
}

type UploadSongInput struct {
	Title            string
	Author           string
	SongReader       io.Reader
	SongFilename     string
	SongContentType  string
	ImageReader      io.Reader // optional cover image
	ImageFilename    string
	ImageContentType string
}

// UploadSong stores the audio (and optional cover) in GCS and registers
// the song as an unpublished draft under the uploader.
func (s *UserService) UploadSong(ctx context.Context, userID string, in UploadSongInput) (*entity.Song, error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return nil, ErrStorageNotConfigured
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	songObject := helpers.ObjectPath("songs", userID, in.SongFilename)
	if err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, songObject, in.SongContentType, in.SongReader); err != nil {
		return nil, err
	}

	imagePath := valueobject.EmptyFilePath()
	if in.ImageReader != nil {
		imageObject := helpers.ObjectPath("covers", userID, in.ImageFilename)
		if err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, imageObject, in.ImageContentType, in.ImageReader); err != nil {
			return nil, err
		}
		imagePath = valueobject.NewFilePath(imageObject)
	}

	song, err := u.UploadSong(in.Title, in.Author, valueobject.NewFilePath(songObject), imagePath)
	if err != nil {
		return nil, err
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return song, nil
}

func (s *UserService) LikeSong(ctx context.Context, userID, songID string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	song, err := s.Songs.GetByID(ctx, songID)
	if err != nil {
		return err
	}
	if song == nil {
		return ErrSongNotFound
	}
	if err := u.LikeSong(song); err != nil {
		return err
	}
	return s.Users.Update(ctx, u)
}

func (s *UserService) UnlikeSong(ctx context.Context, userID, songID string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	if err := u.UnlikeSong(songID); err != nil {
		return err
	}
	return s.Users.Update(ctx, u)
}

// LikedSongs resolves the user's liked song ids to full songs, keeping
// the like order.
func (s *UserService) LikedSongs(ctx context.Context, userID string) ([]*entity.Song, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	liked := u.LikedSongs()
	if len(liked) == 0 {
		return []*entity.Song{}, nil
	}
	ids := make([]string, 0, len(liked))
	for _, l := range liked {
		ids = append(ids, l.SongID())
	}
	return s.Songs.GetByIDs(ctx, ids)
}

func (s *UserService) dispatch(ctx context.Context, u *entity.User) {
	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ctx, u.PullEvents())
	}
}

func (s *UserService) refreshSessionName(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	key := helpers.KeyUserSession(u.ID())
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"name":       u.FullName(),
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	if ttl, err := s.Redis.TTL(ctx, key).Result(); err == nil && ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
	}
}
