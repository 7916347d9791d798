package service

import (
	"context"
	"errors"
	"time"

	"inventario/internal/config"
	"inventario/internal/dto"
	"inventario/internal/model"
	"inventario/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	RolOperador      = "operador"
	RolAdministrador = "administrador"
)

type AuthService interface {
	Login(ctx context.Context, req dto.CredencialesRequest) (*dto.SesionResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.SesionResponse, error)
}

type authService struct {
	repo repository.UsuarioRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UsuarioRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.CredencialesRequest) (*dto.SesionResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrCredenciales
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrCredenciales
	}
	return s.emitirTokens(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.SesionResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("refresh token invalido o expirado")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("claims invalidos")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("token mal formado")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("token mal formado")
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Activo {
		return nil, errors.New("usuario no encontrado o inactivo")
	}
	return s.emitirTokens(user)
}

func (s *authService) emitirTokens(user *model.Usuario) (*dto.SesionResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.SesionResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		Usuario: dto.ActorResponse{
			ID:       user.ID.String(),
			Username: user.Username,
			Nombre:   user.Nombre,
			Rol:      user.Rol,
		},
	}, nil
}

func (s *authService) generateToken(user *model.Usuario, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"nombre":   user.Nombre,
		"rol":      user.Rol,
		"exp":      time.Now().Add(duration).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
