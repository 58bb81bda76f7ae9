package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/tunehub/tunehub/internal/domain/entity"
	repo "github.com/tunehub/tunehub/internal/domain/repository"
	"github.com/tunehub/tunehub/internal/domain/valueobject"
	"github.com/tunehub/tunehub/pkg/helpers"
)

// ModeratorService covers the moderation console: moderator accounts,
// user management, and the song review queue. Moderator sessions use
// access tokens only; there is no refresh flow for the console.
type ModeratorService struct {
	Moderators   repo.ModeratorRepository
	Users        repo.UserRepository
	Songs        repo.SongRepository
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	Dispatcher   *EventDispatcher
	ES           *elasticsearch.Client
	ESUsersIndex string
	Logger       *logrus.Logger
}

func NewModeratorService(moderators repo.ModeratorRepository, users repo.UserRepository, songs repo.SongRepository, jwt *helpers.JWTManager, rdb *redis.Client, dispatcher *EventDispatcher, es *elasticsearch.Client, esUsersIndex string, logger *logrus.Logger) *ModeratorService {
	return &ModeratorService{
		Moderators:   moderators,
		Users:        users,
		Songs:        songs,
		JWT:          jwt,
		Redis:        rdb,
		Dispatcher:   dispatcher,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		Logger:       logger,
	}
}

// Login validates console credentials and issues an access token.
func (s *ModeratorService) Login(ctx context.Context, email, password string) (*entity.Moderator, string, time.Time, error) {
	m, err := s.Moderators.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if m == nil || !helpers.CompareHashAndPassword(m.PasswordHash().Value(), password) {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if !m.IsActive() {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	access, exp, err := s.JWT.GenerateAccessToken(m.ID(), helpers.RoleModerator)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if s.Redis != nil {
		key := helpers.KeyModeratorSession(m.ID())
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, map[string]any{
			"moderator_id": m.ID(),
			"email":        m.Email().Value(),
			"name":         m.FullName(),
			"updated_at":   nowRFC3339(),
		})
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return m, access, exp, nil
}

func (s *ModeratorService) loadActor(ctx context.Context, actorID string) (*entity.Moderator, error) {
	m, err := s.Moderators.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrModeratorNotFound
	}
	return m, nil
}

// CreateModerator lets a moderator with the moderator-management
// permission add a new console account.
func (s *ModeratorService) CreateModerator(ctx context.Context, actorID, email, password, fullName string, super bool) (*entity.Moderator, error) {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return nil, err
	}

	addr, err := valueobject.NewEmail(email)
	if err != nil {
		return nil, err
	}
	existing, err := s.Moderators.GetByEmail(ctx, addr.Value())
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyTaken
	}

	hashed, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	hash, err := valueobject.NewPasswordHash(hashed)
	if err != nil {
		return nil, err
	}

	created, err := actor.CreateModerator(addr, hash, fullName, super)
	if err != nil {
		return nil, err
	}
	if err := s.Moderators.Add(ctx, created); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *ModeratorService) UpdatePermissions(ctx context.Context, actorID, targetID string, permissions valueobject.ModeratorPermissions) error {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}
	target, err := s.Moderators.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrModeratorNotFound
	}
	if err := actor.UpdateModeratorPermissions(target, permissions); err != nil {
		return err
	}
	return s.Moderators.Update(ctx, target)
}

func (s *ModeratorService) ActivateModerator(ctx context.Context, actorID, targetID string) error {
	return s.changeModeratorState(ctx, actorID, targetID, (*entity.Moderator).ActivateModerator)
}

func (s *ModeratorService) DeactivateModerator(ctx context.Context, actorID, targetID string) error {
	return s.changeModeratorState(ctx, actorID, targetID, (*entity.Moderator).DeactivateModerator)
}

func (s *ModeratorService) changeModeratorState(ctx context.Context, actorID, targetID string, op func(*entity.Moderator, *entity.Moderator) error) error {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}
	target, err := s.Moderators.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrModeratorNotFound
	}
	if err := op(actor, target); err != nil {
		return err
	}
	return s.Moderators.Update(ctx, target)
}

func (s *ModeratorService) ActivateUser(ctx context.Context, actorID, userID string) error {
	return s.changeUserState(ctx, actorID, userID, (*entity.Moderator).ActivateUser)
}

func (s *ModeratorService) DeactivateUser(ctx context.Context, actorID, userID string) error {
	return s.changeUserState(ctx, actorID, userID, (*entity.Moderator).DeactivateUser)
}

func (s *ModeratorService) changeUserState(ctx context.Context, actorID, userID string, op func(*entity.Moderator, *entity.User) error) error {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := op(actor, user); err != nil {
		return err
	}
	if err := s.Users.Update(ctx, user); err != nil {
		return err
	}
	if s.Redis != nil && !user.IsActive() {
		// kill the session of a user who just lost access
		_ = s.Redis.Del(ctx, helpers.KeyUserSession(userID)).Err()
	}
	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ctx, actor.PullEvents())
	}
	_ = s.IndexUser(ctx, user)
	return nil
}

func (s *ModeratorService) PublishSong(ctx context.Context, actorID, songID string) error {
	return s.changeSongState(ctx, actorID, songID, (*entity.Moderator).PublishSong)
}

func (s *ModeratorService) UnpublishSong(ctx context.Context, actorID, songID string) error {
	return s.changeSongState(ctx, actorID, songID, (*entity.Moderator).UnpublishSong)
}

func (s *ModeratorService) DeleteSong(ctx context.Context, actorID, songID string) error {
	return s.changeSongState(ctx, actorID, songID, (*entity.Moderator).DeleteSong)
}

func (s *ModeratorService) changeSongState(ctx context.Context, actorID, songID string, op func(*entity.Moderator, *entity.Song) error) error {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}
	song, err := s.Songs.GetByID(ctx, songID)
	if err != nil {
		return err
	}
	if song == nil {
		return ErrSongNotFound
	}
	if err := op(actor, song); err != nil {
		return err
	}
	if err := s.Songs.Update(ctx, song); err != nil {
		return err
	}
	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ctx, actor.PullEvents())
	}
	return nil
}

// PublishSongs publishes a whole review batch or none of it.
func (s *ModeratorService) PublishSongs(ctx context.Context, actorID string, songIDs []string) error {
	return s.changeSongBatch(ctx, actorID, songIDs, (*entity.Moderator).PublishSongs)
}

// DeleteSongs marks a whole batch for deletion or none of it.
func (s *ModeratorService) DeleteSongs(ctx context.Context, actorID string, songIDs []string) error {
	return s.changeSongBatch(ctx, actorID, songIDs, (*entity.Moderator).DeleteSongs)
}

func (s *ModeratorService) changeSongBatch(ctx context.Context, actorID string, songIDs []string, op func(*entity.Moderator, []*entity.Song) error) error {
	actor, err := s.loadActor(ctx, actorID)
	if err != nil {
		return err
	}
	var songs []*entity.Song
	if len(songIDs) > 0 {
		songs, err = s.Songs.GetByIDs(ctx, songIDs)
		if err != nil {
			return err
		}
	}
	if err := op(actor, songs); err != nil {
		return err
	}
	if err := s.Songs.UpdateAll(ctx, songs); err != nil {
		return err
	}
	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ctx, actor.PullEvents())
	}
	return nil
}

// IndexUser mirrors the user's profile into the console search index.
func (s *ModeratorService) IndexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID(),
		"email":      u.Email().Value(),
		"name":       u.FullName(),
		"is_active":  u.IsActive(),
		"created_at": u.CreatedAt().Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID(), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID()).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID()).Warn("es index response error")
	}
	return nil
}

// SearchUsers runs a multi_match query over email and name for the
// moderation console.
func (s *ModeratorService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"email^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
