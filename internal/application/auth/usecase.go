package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jdvalencia/fieldops-api/internal/application/dto"
	"github.com/jdvalencia/fieldops-api/internal/domain"
	"github.com/jdvalencia/fieldops-api/internal/domain/entity"
	"github.com/jdvalencia/fieldops-api/internal/domain/repository"
	"github.com/jdvalencia/fieldops-api/pkg/jwt"
)

// Roles aceptados al registrar usuarios.
var validRoles = map[string]bool{
	"admin":     true,
	"bodeguero": true,
	"tecnico":   true,
}

// UseCase implementa registro y login. La autenticación es plomería de
// borde: el núcleo de inventario solo consume el user_id como actor.
type UseCase struct {
	userRepo repository.UserRepository

	jwtSecret     string
	jwtIssuer     string
	jwtExpMinutes int
}

// NewUseCase construye el caso de uso.
func NewUseCase(userRepo repository.UserRepository, jwtSecret, jwtIssuer string, jwtExpMinutes int) *UseCase {
	return &UseCase{userRepo: userRepo, jwtSecret: jwtSecret, jwtIssuer: jwtIssuer, jwtExpMinutes: jwtExpMinutes}
}

// Register crea el usuario con hash bcrypt y emite un token.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" || in.OrganizationID == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Password) < 8 {
		return nil, domain.ErrInvalidInput
	}
	if !validRoles[in.Role] {
		return nil, domain.ErrInvalidInput
	}

	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		ID:             uuid.New().String(),
		OrganizationID: in.OrganizationID,
		Email:          email,
		PasswordHash:   string(hash),
		FullName:       in.FullName,
		Role:           in.Role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return uc.issueToken(user)
}

// Login verifica las credenciales y emite un token.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.issueToken(user)
}

func (uc *UseCase) issueToken(user *entity.User) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.jwtSecret, user.ID, user.OrganizationID, user.Role, uc.jwtIssuer, uc.jwtExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:          token,
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Role:           user.Role,
	}, nil
}
