package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/internalpj/crm-api/internal/core/credential"
	"github.com/internalpj/crm-api/internal/core/domain"
	"github.com/internalpj/crm-api/internal/core/ports"
	"github.com/internalpj/crm-api/internal/core/token"
)

// AttemptLimiter throttles repeated login attempts per username. Allow is
// consulted before credential verification; Reset clears the counter after a
// successful login. Implementations should fail open on backend errors.
type AttemptLimiter interface {
	Allow(ctx context.Context, username string) (bool, error)
	Reset(ctx context.Context, username string) error
}

// AccountService implements registration, login, and user lookups. It owns no
// state of its own: tokens are stateless and the repository is the only
// shared mutable resource.
type AccountService struct {
	repo    ports.UserRepository
	codec   *credential.Codec
	tokens  *token.Service
	limiter AttemptLimiter
	audit   ports.AuditRecorder
	logger  zerolog.Logger
}

func NewAccountService(
	repo ports.UserRepository,
	codec *credential.Codec,
	tokens *token.Service,
	limiter AttemptLimiter,
	audit ports.AuditRecorder,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		repo:    repo,
		codec:   codec,
		tokens:  tokens,
		limiter: limiter,
		audit:   audit,
		logger:  logger,
	}
}

// Register creates a new account. Username uniqueness is checked before email
// uniqueness, so when both collide the username conflict wins. The repository
// backs both checks with unique indexes and reports the same coded errors on
// a concurrent insert, so the check-then-insert race cannot slip through.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) error {
	taken, err := s.repo.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrUsernameTaken
	}

	taken, err = s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrEmailTaken
	}

	hash, err := s.codec.Hash(in.Password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		RoleID:       in.RoleID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := s.repo.Save(ctx, user); err != nil {
		return err
	}

	s.record(in.Username, domain.AuditRegistered, in.RemoteIP)
	s.logger.Info().Str("username", in.Username).Int("role_id", in.RoleID).Msg("user registered")
	return nil
}

// Login verifies the supplied credentials and issues a bearer token. An
// unknown username and a wrong password both fail with
// domain.ErrInvalidCredentials so the response does not disclose which factor
// failed.
func (s *AccountService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, in.Username)
		if err != nil {
			// Fail open: a throttle backend outage must not lock everyone out.
			s.logger.Warn().Err(err).Str("username", in.Username).Msg("attempt limiter unavailable, allowing login")
		} else if !allowed {
			s.record(in.Username, domain.AuditLoginFailed, in.RemoteIP)
			return nil, domain.ErrTooManyAttempts
		}
	}

	user, err := s.repo.FindByUsername(ctx, in.Username)
	if err != nil {
		if err == domain.ErrUserNotFound {
			s.record(in.Username, domain.AuditLoginFailed, in.RemoteIP)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.codec.Verify(in.Password, user.PasswordHash) {
		s.record(in.Username, domain.AuditLoginFailed, in.RemoteIP)
		return nil, domain.ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.Error().Err(err).Str("username", in.Username).Msg("token signing failed")
		return nil, err
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, in.Username); err != nil {
			s.logger.Warn().Err(err).Str("username", in.Username).Msg("failed to reset attempt counter")
		}
	}

	s.record(in.Username, domain.AuditLoginOK, in.RemoteIP)
	s.logger.Info().Str("username", in.Username).Int64("user_id", user.ID).Msg("login succeeded")

	return &ports.LoginResult{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		AccessToken: tok,
	}, nil
}

// FindByID returns the non-deleted user with the given id.
func (s *AccountService) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.repo.FindByID(ctx, id)
}

// ListUsers returns all active users.
func (s *AccountService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.repo.FindAll(ctx)
}

func (s *AccountService) record(username, action, remoteIP string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEntry{
		Username:  username,
		Action:    action,
		RemoteIP:  remoteIP,
		Timestamp: time.Now().UTC(),
	})
}
