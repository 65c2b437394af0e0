package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gemcatalog/catalog-service/internal/app/catalog/entity"
	"gemcatalog/catalog-service/internal/app/catalog/repository"
	"gemcatalog/catalog-service/internal/app/catalog/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LoginResult - выпущенная сессия и пользователь, для которого она выпущена
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// AuthService обрабатывает вход администратора и проверку сессий
type AuthService struct {
	userRepo  repository.UserRepository
	sessions  *util.SessionManager
	now       func() time.Time
	dummyHash string
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, sessions *util.SessionManager) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		now:      time.Now,
	}
}

// EnableTimingGuard выравнивает время ответа для неизвестного email:
// пароль сверяется с фиктивным хэшем той же стоимости, что и у настоящих.
func (s *AuthService) EnableTimingGuard(bcryptCost int) error {
	hash, err := util.HashPassword(primitive.NewObjectID().Hex(), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to prepare timing guard: %w", err)
	}
	s.dummyHash = hash
	return nil
}

// Login проверяет пароль, отмечает время входа и выпускает сессию.
// Неизвестный email и неверный пароль неразличимы для вызывающего.
func (s *AuthService) Login(ctx context.Context, req *entity.LoginRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			if s.dummyHash != "" {
				util.CheckPassword(req.Password, s.dummyHash)
			}
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to update last login: %w", err)
	}
	user.LastLogin = &now
	user.UpdatedAt = now

	token, expiresAt, err := s.sessions.Issue(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Me возвращает пользователя текущей сессии
func (s *AuthService) Me(ctx context.Context, subjectID string) (*entity.User, error) {
	id, err := primitive.ObjectIDFromHex(subjectID)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Identify никогда не падает: отсутствующий или недействительный токен дает анонима (nil)
func (s *AuthService) Identify(token string) *entity.Identity {
	if token == "" {
		return nil
	}

	claims, err := s.sessions.Verify(token)
	if err != nil {
		return nil
	}

	return &entity.Identity{SubjectID: claims.Subject, Role: claims.Role}
}

// RequireRole: аноним - ErrUnauthenticated, чужая роль - ErrForbidden
func RequireRole(identity *entity.Identity, role string) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if identity.Role != role {
		return ErrForbidden
	}
	return nil
}
