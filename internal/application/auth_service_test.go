package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunehub/tunehub/internal/domain/entity"
	"github.com/tunehub/tunehub/internal/infrastructure/redisstore"
	"github.com/tunehub/tunehub/pkg/helpers"
	"github.com/tunehub/tunehub/pkg/mailer"
)

// memoryUserRepo is an in-memory UserRepository for service tests.
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: map[string]*entity.User{}}
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id], nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email().Value() == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) GetByRefreshToken(_ context.Context, token string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		for _, rt := range u.RefreshTokens() {
			if rt.Token() == token {
				return u, nil
			}
		}
	}
	return nil, nil
}

func (r *memoryUserRepo) Add(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID()] = u
	return nil
}

func (r *memoryUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID()] = u
	return nil
}

// fakePublisher captures published jobs instead of talking to a broker.
type fakePublisher struct {
	mu   sync.Mutex
	jobs []publishedJob
}

type publishedJob struct {
	queue string
	body  any
}

func (p *fakePublisher) PublishJSON(_ context.Context, queue string, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jobs = append(p.jobs, publishedJob{queue: queue, body: body})
	return nil
}

func (p *fakePublisher) published() []publishedJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]publishedJob, len(p.jobs))
	copy(out, p.jobs)
	return out
}

func newAuthFixture(t *testing.T) (*AuthService, *memoryUserRepo, *fakePublisher, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	codes := redisstore.NewCodeStore(rdb, 15*time.Minute)
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	repo := newMemoryUserRepo()
	pub := &fakePublisher{}

	svc := NewAuthService(repo, jwt, codes, rdb, pub, "emails", "tunehub", 15*time.Minute, nil)
	return svc, repo, pub, mr
}

// activationCode digs the emailed code out of the captured job.
func activationCode(t *testing.T, pub *fakePublisher) string {
	t.Helper()
	jobs := pub.published()
	require.NotEmpty(t, jobs)
	job, ok := jobs[len(jobs)-1].body.(mailer.EmailJob)
	require.True(t, ok)
	code, ok := job.Data["Code"].(string)
	require.True(t, ok)
	return code
}

func TestRegisterActivateLogin(t *testing.T) {
	svc, _, pub, _ := newAuthFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "listener@example.com", "sup3rsecret")
	require.NoError(t, err)
	assert.False(t, u.IsActive())

	// login before activation fails inside the domain
	_, _, err = svc.Login(ctx, "listener@example.com", "sup3rsecret")
	assert.ErrorIs(t, err, entity.ErrUserNotActive)

	code := activationCode(t, pub)
	require.NoError(t, svc.Activate(ctx, "listener@example.com", code))

	got, pair, err := svc.Login(ctx, "listener@example.com", "sup3rsecret")
	require.NoError(t, err)
	assert.Equal(t, u.ID(), got.ID())
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshTokenExpiry.After(time.Now()))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "listener@example.com", "sup3rsecret")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "listener@example.com", "otherpassword")
	assert.ErrorIs(t, err, ErrEmailAlreadyTaken)
}

func TestActivateWrongCode(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "listener@example.com", "sup3rsecret")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Activate(ctx, "listener@example.com", "000000"), ErrInvalidConfirmation)
	assert.ErrorIs(t, svc.Activate(ctx, "stranger@example.com", "000000"), ErrInvalidConfirmation)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, pub, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "listener@example.com", "sup3rsecret")
	require.NoError(t, err)
	require.NoError(t, svc.Activate(ctx, "listener@example.com", activationCode(t, pub)))

	_, _, err = svc.Login(ctx, "listener@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "sup3rsecret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, pub, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "listener@example.com", "sup3rsecret")
	require.NoError(t, err)
	require.NoError(t, svc.Activate(ctx, "listener@example.com", activationCode(t, pub)))

	_, pair, err := svc.Login(ctx, "listener@example.com", "sup3rsecret")
	require.NoError(t, err)

	_, next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)

	// the old token is dead after rotation
	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)

	// the new one still works
	_, _, err = svc.Refresh(ctx, next.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	svc, repo, pub, _ := newAuthFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "listener@example.com", "sup3rsecret")
	require.NoError(t, err)
	require.NoError(t, svc.Activate(ctx, "listener@example.com", activationCode(t, pub)))

	expired := entity.ReconstituteRefreshToken("rt1", u.ID(), "stale-token",
		time.Now().UTC().Add(-time.Hour), time.Now().UTC().Add(-31*24*time.Hour))
	stale := entity.ReconstituteUser(u.ID(), u.Email(), u.PasswordHash(), u.FullName(),
		u.AvatarPath(), true, u.CreatedAt(), nil, nil, nil, []entity.RefreshToken{expired})
	require.NoError(t, repo.Update(ctx, stale))

	_, _, err = svc.Refresh(ctx, "stale-token")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogoutDropsTokensAndSession(t *testing.T) {
	svc, repo, pub, mr := newAuthFixture(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "listener@example.com", "sup3rsecret")
	require.NoError(t, err)
	require.NoError(t, svc.Activate(ctx, "listener@example.com", activationCode(t, pub)))

	_, pair, err := svc.Login(ctx, "listener@example.com", "sup3rsecret")
	require.NoError(t, err)
	assert.True(t, mr.Exists(helpers.KeyUserSession(u.ID())))

	require.NoError(t, svc.Logout(ctx, u.ID()))
	assert.False(t, mr.Exists(helpers.KeyUserSession(u.ID())))

	stored, err := repo.GetByID(ctx, u.ID())
	require.NoError(t, err)
	assert.Empty(t, stored.RefreshTokens())

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, pub, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "listener@example.com", "oldpassword")
	require.NoError(t, err)
	require.NoError(t, svc.Activate(ctx, "listener@example.com", activationCode(t, pub)))

	// unknown emails are silently accepted
	require.NoError(t, svc.RequestPasswordReset(ctx, "nobody@example.com"))

	require.NoError(t, svc.RequestPasswordReset(ctx, "listener@example.com"))
	code := activationCode(t, pub)

	require.NoError(t, svc.ConfirmPasswordReset(ctx, "listener@example.com", code, "newpassword"))

	_, _, err = svc.Login(ctx, "listener@example.com", "oldpassword")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "listener@example.com", "newpassword")
	assert.NoError(t, err)
}

func TestPasswordResetInvalidatesSessions(t *testing.T) {
	svc, _, pub, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "listener@example.com", "oldpassword")
	require.NoError(t, err)
	require.NoError(t, svc.Activate(ctx, "listener@example.com", activationCode(t, pub)))

	_, pair, err := svc.Login(ctx, "listener@example.com", "oldpassword")
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(ctx, "listener@example.com"))
	require.NoError(t, svc.ConfirmPasswordReset(ctx, "listener@example.com", activationCode(t, pub), "newpassword"))

	_, _, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}
