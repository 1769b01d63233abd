package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendance_backend/internals/configs"
	"attendance_backend/internals/constants"
	authHelper "attendance_backend/internals/features/users/auth/helper"
	authRepo "attendance_backend/internals/features/users/auth/repository"
	userModel "attendance_backend/internals/features/users/user/model"
	helper "attendance_backend/internals/helpers"
)

/* ==========================
   Const & Types
========================== */

const accessTTLDefault = 12 * time.Hour

var (
	ErrBadCredentials = errors.New("invalid username or password")
	ErrUserInactive   = errors.New("account has been deactivated")
	ErrMissingSecret  = errors.New("JWT_SECRET is not set")
)

type Service struct {
	DB     *gorm.DB
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

func New(db *gorm.DB, cfg *configs.Config) *Service {
	ttl := cfg.JWTTTL
	if ttl <= 0 {
		ttl = accessTTLDefault
	}
	return &Service{DB: db, Secret: strings.TrimSpace(cfg.JWTSecret), TTL: ttl, Now: time.Now}
}

type LoginUser struct {
	ID       uuid.UUID      `json:"id"`
	UserName string         `json:"user_name"`
	FullName string         `json:"full_name"`
	Email    *string        `json:"email,omitempty"`
	Role     constants.Role `json:"role"`
}

type LoginResult struct {
	User        LoginUser `json:"user"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	RedirectTo  string    `json:"redirect_to"`
}

func toLoginUser(u userModel.UserModel) LoginUser {
	return LoginUser{ID: u.ID, UserName: u.UserName, FullName: u.FullName, Email: u.Email, Role: u.Role}
}

/* ==========================
   LOGIN
========================== */

// Login checks credentials and issues an access token. Unknown users and
// wrong passwords get the same error.
func (s *Service) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if err := authHelper.ValidateLoginInput(identifier, password); err != nil {
		return nil, helper.Invalid("identifier", err.Error())
	}

	user, err := authRepo.FindUserByEmailOrUsername(ctx, s.DB, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if err := authHelper.CheckPasswordHash(user.Password, password); err != nil {
		return nil, ErrBadCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	token, exp, err := s.IssueToken(*user)
	if err != nil {
		return nil, err
	}
	log.Printf("[INFO] login user=%s role=%s", user.UserName, user.Role)
	return &LoginResult{
		User:        toLoginUser(*user),
		AccessToken: token,
		ExpiresAt:   exp,
		RedirectTo:  constants.DefaultPath(user.Role),
	}, nil
}

func buildAccessClaims(user userModel.UserModel, now time.Time, ttl time.Duration) jwt.MapClaims {
	return jwt.MapClaims{
		"typ":       "access",
		"sub":       user.ID.String(),
		"id":        user.ID.String(),
		"user_name": user.UserName,
		"role":      string(user.Role),
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
	}
}

// IssueToken signs an HS256 access token for user.
func (s *Service) IssueToken(user userModel.UserModel) (string, time.Time, error) {
	if s.Secret == "" {
		return "", time.Time{}, ErrMissingSecret
	}
	now := s.Now().UTC()
	claims := buildAccessClaims(user, now, s.TTL)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, now.Add(s.TTL), nil
}

/* ==========================
   LOGOUT
========================== */

// Logout blacklists the raw access token until it would have expired.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		log.Println("[INFO] logout without access token")
		return nil
	}
	return authRepo.BlacklistToken(ctx, s.DB, accessToken, s.blacklistUntil(accessToken))
}

func (s *Service) blacklistUntil(accessToken string) time.Time {
	now := s.Now().UTC()
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(accessToken, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.Secret), nil
	}); err == nil {
		if exp, ok := claims["exp"].(float64); ok {
			if until := time.Unix(int64(exp), 0).UTC(); until.After(now) {
				return until.Add(time.Minute)
			}
		}
	}
	return now.Add(s.TTL)
}

/* ==========================
   ME
========================== */

func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*userModel.UserModel, error) {
	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}
