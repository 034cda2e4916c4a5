package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	autherrors "leavedesk/internal/auth/errors"
	"leavedesk/internal/domain"
	"leavedesk/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultStoreTimeout = 5 * time.Second

type Service interface {
	Login(ctx context.Context, email, password string) (token string, resp AuthResponse, err error)
	Register(ctx context.Context, req RegisterRequest) (token string, resp AuthResponse, err error)
	ResolveToken(ctx context.Context, token string) (domain.Identity, error)
	GetMe(ctx context.Context, userID string) (AuthResponse, error)
}

type service struct {
	repo         Repository
	tokens       *TokenManager
	storeTimeout time.Duration
	logger       *zap.Logger
}

func NewService(repo Repository, tokens *TokenManager, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, tokens: tokens, storeTimeout: defaultStoreTimeout, logger: l}
}

func (s *service) Login(ctx context.Context, email, password string) (string, AuthResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if storeErr := mapStoreError(err); storeErr != nil {
			return "", AuthResponse{}, storeErr
		}
		return "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID.String())
	if err != nil {
		return "", AuthResponse{}, err
	}

	s.logger.Info("login success",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role),
	)
	return token, mapToAuthResponse(*user), nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (string, AuthResponse, error) {
	role := req.Role
	if role == "" {
		role = domain.RoleEmployee
	}
	if !domain.ValidRole(role) {
		return "", AuthResponse{}, autherrors.ErrInvalidRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", AuthResponse{}, apperror.Wrap(err, apperror.CodeInternalError, "Could not hash password", http.StatusInternalServerError)
	}

	user := &User{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(req.Name),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Password:   string(hashed),
		Role:       role,
		Phone:      req.Phone,
		Department: req.Department,
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	if err := s.repo.Create(ctx, user); err != nil {
		if isUniqueViolation(err) {
			s.logger.Warn("register duplicate email", zap.String("email", user.Email))
			return "", AuthResponse{}, autherrors.ErrEmailAlreadyRegistered
		}
		if storeErr := mapStoreError(err); storeErr != nil {
			return "", AuthResponse{}, storeErr
		}
		s.logger.Error("register persist failed", zap.Error(err))
		return "", AuthResponse{}, apperror.Wrap(err, apperror.CodeInternalError, "Could not create user", http.StatusInternalServerError)
	}

	token, err := s.tokens.Issue(user.ID.String())
	if err != nil {
		return "", AuthResponse{}, err
	}

	s.logger.Info("register success",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role),
	)
	return token, mapToAuthResponse(*user), nil
}

// ResolveToken verifies the presented bearer token and loads the identity it
// names. A well-formed token whose user has since disappeared fails the same
// way a bad credential does.
func (s *service) ResolveToken(ctx context.Context, token string) (domain.Identity, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Identity{}, err
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.Identity{}, autherrors.ErrInvalidToken
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if storeErr := mapStoreError(err); storeErr != nil {
			return domain.Identity{}, storeErr
		}
		return domain.Identity{}, autherrors.ErrIdentityGone
	}

	return domain.Identity{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return AuthResponse{}, autherrors.ErrIdentityGone
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if storeErr := mapStoreError(err); storeErr != nil {
			return AuthResponse{}, storeErr
		}
		return AuthResponse{}, autherrors.ErrIdentityGone
	}

	return mapToAuthResponse(*user), nil
}

// mapStoreError translates infrastructure failures; it returns nil for
// errors the caller interprets itself (e.g. record not found).
func mapStoreError(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.ErrStoreUnavailable
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return nil
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapToAuthResponse(u User) AuthResponse {
	return AuthResponse{
		ID:         u.ID.String(),
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Phone:      u.Phone,
		Department: u.Department,
	}
}
