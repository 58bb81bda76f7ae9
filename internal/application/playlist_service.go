package application

import (
	"context"

	"github.com/tunehub/tunehub/internal/domain/entity"
	repo "github.com/tunehub/tunehub/internal/domain/repository"
)

// PlaylistService manages a user's playlists. All mutations go through
// the User aggregate so ownership and membership rules hold.
type PlaylistService struct {
	Users      repo.UserRepository
	Songs      repo.SongRepository
	Dispatcher *EventDispatcher
}

func NewPlaylistService(users repo.UserRepository, songs repo.SongRepository, dispatcher *EventDispatcher) *PlaylistService {
	return &PlaylistService{Users: users, Songs: songs, Dispatcher: dispatcher}
}

func (s *PlaylistService) loadUser(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *PlaylistService) List(ctx context.Context, userID string) ([]*entity.Playlist, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.Playlists(), nil
}

func (s *PlaylistService) Create(ctx context.Context, userID string) (*entity.Playlist, error) {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := u.CreatePlaylist()
	if err != nil {
		return nil, err
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PlaylistService) Remove(ctx context.Context, userID, playlistID string) error {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := u.RemovePlaylist(playlistID); err != nil {
		return err
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return err
	}
	if s.Dispatcher != nil {
		s.Dispatcher.Dispatch(ctx, u.PullEvents())
	}
	return nil
}

func (s *PlaylistService) AddSong(ctx context.Context, userID, playlistID, songID string) error {
	u, err := s.loadUser(ctx, userID)
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
	if err := u.AddSongToPlaylist(playlistID, song); err != nil {
		return err
	}
	return s.Users.Update(ctx, u)
}

func (s *PlaylistService) RemoveSong(ctx context.Context, userID, playlistID, songID string) error {
	u, err := s.loadUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := u.RemoveSongFromPlaylist(playlistID, songID); err != nil {
		return err
	}
	return s.Users.Update(ctx, u)
}
