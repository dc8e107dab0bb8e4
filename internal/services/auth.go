package services

import (
	"errors"
	"time"

	"flota-backend/internal/models"
	"flota-backend/internal/repository"
	"flota-backend/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo *repository.UserRepository
	jwtUtil  *jwt.JWTUtil
}

func NewAuthService(userRepo *repository.UserRepository, jwtUtil *jwt.JWTUtil) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		jwtUtil:  jwtUtil,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  *models.AuthUser `json:"user"`
	Token string           `json:"token"`
}

// Register creates a pending account. New accounts land as GUEST and stay
// unapproved until an admin promotes them, so a fresh registration cannot
// see fleet data.
func (s *AuthService) Register(req *RegisterRequest) (*models.AuthUser, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &models.User{
		Email:         req.Email,
		Name:          req.Name,
		Password:      string(hashed),
		Role:          models.RoleGuest,
		Approved:      false,
		Phone:         req.Phone,
		ReceiveAlerts: false,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	created, err := s.userRepo.Create(user)
	if err != nil {
		return nil, err
	}

	return toAuthUser(created), nil
}

func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	if !user.Approved {
		return nil, errors.New("account pending approval")
	}

	now := time.Now()
	user.LastLogin = &now
	if _, err := s.userRepo.Update(user.ID.Hex(), user); err != nil {
		return nil, err
	}

	token, err := s.jwtUtil.GenerateToken(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		User:  toAuthUser(user),
		Token: token,
	}, nil
}

// RefreshToken reissues a token close to expiry.
func (s *AuthService) RefreshToken(tokenString string) (string, error) {
	newToken, err := s.jwtUtil.RefreshToken(tokenString)
	if err != nil {
		return "", errors.New("failed to refresh token")
	}
	return newToken, nil
}

func (s *AuthService) GetProfile(userID string) (*models.AuthUser, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	return toAuthUser(user), nil
}

func toAuthUser(user *models.User) *models.AuthUser {
	return &models.AuthUser{
		ID:            user.ID.Hex(),
		Email:         user.Email,
		Name:          user.Name,
		Role:          user.Role,
		Approved:      user.Approved,
		CostCenter:    user.CostCenter,
		ReceiveAlerts: user.ReceiveAlerts,
	}
}
