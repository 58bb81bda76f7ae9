package entity

import "time"

// LikedSong is the join row between a user and a song they liked,
// unique per (user, song).
type LikedSong struct {
	userID    string
	songID    string
	createdAt time.Time
}

func newLikedSong(userID, songID string) LikedSong {
	return LikedSong{userID: userID, songID: songID, createdAt: time.Now().UTC()}
}

// ReconstituteLikedSong rebuilds a LikedSong from persistence.
func ReconstituteLikedSong(userID, songID string, createdAt time.Time) LikedSong {
	return LikedSong{userID: userID, songID: songID, createdAt: createdAt}
}

func (l LikedSong) UserID() string       { return l.userID }
func (l LikedSong) SongID() string       { return l.songID }
func (l LikedSong) CreatedAt() time.Time { return l.createdAt }
