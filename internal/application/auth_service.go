package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/tunehub/tunehub/internal/domain/entity"
	repo "github.com/tunehub/tunehub/internal/domain/repository"
	"github.com/tunehub/tunehub/internal/domain/valueobject"
	"github.com/tunehub/tunehub/internal/infrastructure/redisstore"
	"github.com/tunehub/tunehub/pkg/helpers"
	"github.com/tunehub/tunehub/pkg/mailer"
	"github.com/tunehub/tunehub/pkg/mailer/templates"
)

const sessionTTL = 24 * time.Hour

// AuthService handles user registration, activation, login, token
// refresh, and password reset.
type AuthService struct {
	Users      repo.UserRepository
	JWT        *helpers.JWTManager
	Codes      *redisstore.CodeStore
	Redis      *redis.Client
	Jobs       JobPublisher
	EmailQueue string
	AppName    string
	CodeTTL    time.Duration
	Logger     *logrus.Logger
}

// TokenPair carries an access JWT and an opaque refresh token.
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, codes *redisstore.CodeStore, rdb *redis.Client, jobs JobPublisher, emailQueue, appName string, codeTTL time.Duration, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Users:      users,
		JWT:        jwt,
		Codes:      codes,
		Redis:      rdb,
		Jobs:       jobs,
		EmailQueue: emailQueue,
		AppName:    appName,
		CodeTTL:    codeTTL,
		Logger:     logger,
	}
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Register creates an inactive account and emails an activation code.
func (s *AuthService) Register(ctx context.Context, email, password string) (*entity.User, error) {
	addr, err := valueobject.NewEmail(email)
	if err != nil {
		return nil, err
	}
	existing, err := s.Users.GetByEmail(ctx, addr.Value())
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

	u := entity.NewUser(addr, hash)
	if err := s.Users.Add(ctx, u); err != nil {
		return nil, err
	}
	// events: UserRegistered
	_ = u.PullEvents()

	if err := s.sendCode(ctx, redisstore.PurposeActivation, templates.TemplateActivateAccount, u.ID(), addr.Value()); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID()).Warn("send activation code failed")
	}
	return u, nil
}

// ResendActivation emails a fresh activation code to an inactive account.
func (s *AuthService) ResendActivation(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil || u.IsActive() {
		// do not leak which emails exist or are already active
		return nil
	}
	return s.sendCode(ctx, redisstore.PurposeActivation, templates.TemplateActivateAccount, u.ID(), u.Email().Value())
}

// Activate confirms the emailed code and switches the account to active.
func (s *AuthService) Activate(ctx context.Context, email, code string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrInvalidConfirmation
	}
	if err := s.Codes.Consume(ctx, redisstore.PurposeActivation, u.ID(), code); err != nil {
		if errors.Is(err, redisstore.ErrCodeMismatch) {
			return ErrInvalidConfirmation
		}
		return err
	}
	if err := u.Activate(); err != nil {
		return err
	}
	return s.Users.Update(ctx, u)
}

// Login validates credentials, stores a refresh token on the aggregate,
// and records a session hash in Redis.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if u == nil || !helpers.CompareHashAndPassword(u.PasswordHash().Value(), password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	rt, err := u.AddRefreshToken()
	if err != nil {
		return nil, TokenPair{}, err
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.issueAccess(u.ID(), rt)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.recordSession(ctx, u)
	return u, pair, nil
}

// Refresh rotates the presented refresh token and issues a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*entity.User, TokenPair, error) {
	u, err := s.Users.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if u == nil {
		return nil, TokenPair{}, ErrInvalidRefreshToken
	}

	rt, err := u.UpdateRefreshToken(refreshToken)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidRefreshToken
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return nil, TokenPair{}, err
	}

	pair, err := s.issueAccess(u.ID(), rt)
	if err != nil {
		return nil, TokenPair{}, err
	}
	s.recordSession(ctx, u)
	return u, pair, nil
}

// Logout drops all of the user's refresh tokens and the Redis session.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	if err := u.CleanRefreshTokens(); err != nil {
		return err
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return err
	}
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, helpers.KeyUserSession(userID)).Err()
	}
	return nil
}

// RequestPasswordReset emails a reset code. Unknown emails are ignored
// so the endpoint does not reveal which accounts exist.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return nil
	}
	return s.sendCode(ctx, redisstore.PurposePasswordReset, templates.TemplateResetPassword, u.ID(), u.Email().Value())
}

// ConfirmPasswordReset validates the code and replaces the password hash.
// Every refresh token is dropped so stolen sessions die with the old password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrInvalidConfirmation
	}
	if err := s.Codes.Consume(ctx, redisstore.PurposePasswordReset, u.ID(), code); err != nil {
		if errors.Is(err, redisstore.ErrCodeMismatch) {
			return ErrInvalidConfirmation
		}
		return err
	}

	hashed, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	hash, err := valueobject.NewPasswordHash(hashed)
	if err != nil {
		return err
	}
	if err := u.ChangePassword(hash); err != nil {
		return err
	}
	if err := u.CleanRefreshTokens(); err != nil {
		return err
	}
	if err := s.Users.Update(ctx, u); err != nil {
		return err
	}
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, helpers.KeyUserSession(u.ID())).Err()
	}
	return nil
}

func (s *AuthService) issueAccess(userID string, rt entity.RefreshToken) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, helpers.RoleUser)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:        access,
		AccessTokenExpiry:  aexp,
		RefreshToken:       rt.Token(),
		RefreshTokenExpiry: rt.Expires(),
	}, nil
}

func (s *AuthService) recordSession(ctx context.Context, u *entity.User) {
	if s.Redis == nil {
		return
	}
	key := helpers.KeyUserSession(u.ID())
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    u.ID(),
		"email":      u.Email().Value(),
		"name":       u.FullName(),
		"logged_in":  true,
		"updated_at": nowRFC3339(),
	})
	pipe.Expire(ctx, key, sessionTTL)
	if _, err := pipe.Exec(ctx); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
	}
}

func (s *AuthService) sendCode(ctx context.Context, purpose, template, userID, email string) error {
	code, err := helpers.GenCode()
	if err != nil {
		return err
	}
	if err := s.Codes.Save(ctx, purpose, userID, code); err != nil {
		return err
	}
	if s.Jobs == nil || s.EmailQueue == "" {
		return nil
	}
	minutes := int(s.CodeTTL.Minutes())
	job := mailer.EmailJob{
		To:       email,
		Template: template,
		Data:     templates.NewActivateAccountData(s.AppName, email, code, minutes),
	}
	if template == templates.TemplateResetPassword {
		job.Data = templates.NewResetPasswordData(s.AppName, email, code, minutes)
	}
	return s.Jobs.PublishJSON(ctx, s.EmailQueue, job)
}
