package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/moa-app/moa-backend/config"
	"github.com/moa-app/moa-backend/internal/auditlog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
)

type Service interface {
	Signup(input SignupInput, ip string) (*User, string, error)
	Login(input LoginInput, ip string) (*User, string, error)
	UpdateProfile(userID string, input ProfileInput) (*User, string, error)
	GetUserByID(userID string) (*User, error)
	ParseToken(tokenStr string) (userID string, email string, err error)
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
	secret   string
	tokenTTL time.Duration
}

func NewService(r Repository, auditSvc auditlog.Service, cfg *config.Config) Service {
	return &service{
		repo:     r,
		auditSvc: auditSvc,
		secret:   cfg.JWTSecret,
		tokenTTL: time.Duration(cfg.JWTTokenTTLDays) * 24 * time.Hour,
	}
}

// =============================
// Signup
// =============================

type SignupInput struct {
	Email      string
	Password   string
	Name       string
	University string
}

func (s *service) Signup(in SignupInput, ip string) (*User, string, error) {
	// Pre-check for a friendly conflict error. The unique index on email is
	// the real guarantee: a concurrent signup racing past this check fails
	// on Create below and is mapped to the same conflict.
	if _, err := s.repo.FindByEmail(in.Email); err == nil {
		s.auditSvc.LogAction(context.Background(), nil, "USER_SIGNUP",
			map[string]interface{}{"email": in.Email, "error": "email taken"}, ip, "failure")
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		University:   in.University,
	}

	if err := s.repo.Create(user); err != nil {
		if isDuplicateKeyError(err) {
			s.auditSvc.LogAction(context.Background(), nil, "USER_SIGNUP",
				map[string]interface{}{"email": in.Email, "error": "email taken"}, ip, "failure")
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	s.auditSvc.LogAction(context.Background(), &user.ID, "USER_SIGNUP",
		map[string]interface{}{"email": user.Email, "university": user.University}, ip, "success")

	return user, token, nil
}

// =============================
// Login
// =============================

type LoginInput struct {
	Email    string
	Password string
}

func (s *service) Login(in LoginInput, ip string) (*User, string, error) {
	user, err := s.repo.FindByEmail(in.Email)
	if err != nil {
		// Unknown email and wrong password must be indistinguishable to the
		// client.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.auditSvc.LogAction(context.Background(), nil, "USER_LOGIN",
				map[string]interface{}{"email": in.Email, "error": "unknown email"}, ip, "failure")
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		s.auditSvc.LogAction(context.Background(), &user.ID, "USER_LOGIN",
			map[string]interface{}{"email": in.Email, "error": "bad password"}, ip, "failure")
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	s.auditSvc.LogAction(context.Background(), &user.ID, "USER_LOGIN",
		map[string]interface{}{"email": user.Email}, ip, "success")

	return user, token, nil
}

// =============================
// Profile Update
// =============================

type ProfileInput struct {
	Major          *string
	GraduationYear *string
	Bio            *string
}

func (s *service) UpdateProfile(userID string, in ProfileInput) (*User, string, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	user.Major = in.Major
	user.GraduationYear = in.GraduationYear
	user.Bio = in.Bio

	if err := s.repo.Update(user); err != nil {
		return nil, "", err
	}

	// The client replaces its stored token on every profile save
	token, err := s.generateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *service) GetUserByID(userID string) (*User, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// =============================
// Tokens
// =============================

func (s *service) generateToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// ParseToken verifies signature and expiry and returns the identity claims.
func (s *service) ParseToken(tokenStr string) (string, string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return "", "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid token claims")
	}

	userID, _ := claims["user_id"].(string)
	email, _ := claims["email"].(string)
	if userID == "" {
		return "", "", errors.New("user_id missing in token")
	}

	return userID, email, nil
}

// isDuplicateKeyError matches the unique-violation text of both postgres
// (23505) and the sqlite driver used in tests.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}
