package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/agriferti/agriferti-backend/pkg/auth"
	"github.com/agriferti/agriferti-backend/pkg/auth/session"
	"github.com/agriferti/agriferti-backend/pkg/config"
	"github.com/agriferti/agriferti-backend/pkg/db"
	"github.com/agriferti/agriferti-backend/pkg/db/models"
	pkgerrors "github.com/agriferti/agriferti-backend/pkg/errors"
	"github.com/agriferti/agriferti-backend/pkg/security"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*TokenResponse, error)
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	CheckUser(ctx context.Context, req CheckUserRequest) (*CheckUserResponse, error)
	RequestOTP(ctx context.Context, req OTPRequest) error
	VerifyOTP(ctx context.Context, req OTPVerifyRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error)
	Logout(ctx context.Context, req LogoutRequest) error
}

type userRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, accessID, refreshToken string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type otpStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	OTPKey(phoneNumber string) string
}

// OTPSender delivers a generated code; the SMS gateway lives outside this
// repo, so main wires a logging sender in dev.
type OTPSender interface {
	SendOTP(ctx context.Context, phoneNumber, code string) error
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	UserRepo       userRepository
	SessionManager sessionManager
	OTPStore       otpStore
	OTPSender      OTPSender
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	OTPConfig      config.OTPConfig
}

type service struct {
	users       userRepository
	session     sessionManager
	otpStore    otpStore
	otpSender   OTPSender
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	otpCfg      config.OTPConfig
}

// NewService constructs an auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.UserRepo == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if params.OTPStore == nil {
		return nil, fmt.Errorf("otp store is required")
	}
	if params.OTPSender == nil {
		return nil, fmt.Errorf("otp sender is required")
	}
	return &service{
		users:       params.UserRepo,
		session:     params.SessionManager,
		otpStore:    params.OTPStore,
		otpSender:   params.OTPSender,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		otpCfg:      params.OTPConfig,
	}, nil
}

// Signup creates an account keyed by email or phone and returns a token pair.
func (s *service) Signup(ctx context.Context, req SignupRequest) (*TokenResponse, error) {
	email, phone, err := normalizeIdentifier(req.Email, req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if len(req.Password) < 8 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}

	hash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: hash,
	}
	created, err := s.users.Create(ctx, user)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account already exists for this identifier")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	return s.issueTokens(ctx, created, time.Now().UTC())
}

// Login checks the password for the account behind the identifier. Unknown
// user and wrong password are indistinguishable to the caller.
func (s *service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.lookup(ctx, req.Email, req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	valid, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	return s.recordLoginAndIssue(ctx, user)
}

// CheckUser reports whether an account exists for the identifier.
func (s *service) CheckUser(ctx context.Context, req CheckUserRequest) (*CheckUserResponse, error) {
	user, err := s.lookup(ctx, req.Email, req.PhoneNumber)
	if err != nil {
		return nil, err
	}
	return &CheckUserResponse{Exists: user != nil}, nil
}

// RequestOTP issues a login code for an existing phone account and hands it
// to the configured sender. The code lives in Redis until its TTL expires or
// it is consumed.
func (s *service) RequestOTP(ctx context.Context, req OTPRequest) error {
	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone number is required")
	}
	user, err := s.findByPhone(ctx, phone)
	if err != nil {
		return err
	}
	if user == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "no account for this phone number")
	}

	code, err := security.GenerateOTP(s.otpCfg.Digits)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp")
	}
	if err := s.otpStore.Set(ctx, s.otpStore.OTPKey(phone), code, s.otpCfg.TTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store otp")
	}
	if err := s.otpSender.SendOTP(ctx, phone, code); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send otp")
	}
	return nil
}

// VerifyOTP exchanges an issued code for a token pair. Codes are single-use.
func (s *service) VerifyOTP(ctx context.Context, req OTPVerifyRequest) (*TokenResponse, error) {
	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" || req.Code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone number and code are required")
	}

	key := s.otpStore.OTPKey(phone)
	stored, err := s.otpStore.Get(ctx, key)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(req.Code)) != 1 {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
	}
	if err := s.otpStore.Del(ctx, key); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume otp")
	}

	user, err := s.findByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired code")
	}

	return s.recordLoginAndIssue(ctx, user)
}

// Refresh rotates the refresh token and mints a fresh access token for the
// same owner.
func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.session.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session")
	}

	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgauth.AccessTokenPayload{
		OwnerID: claims.OwnerID,
		JTI:     newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
	}, nil
}

// Logout revokes the refresh session tied to the access token. Revoking an
// already-dead session is not an error.
func (s *service) Logout(ctx context.Context, req LogoutRequest) error {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}
	if err := s.session.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func (s *service) recordLoginAndIssue(ctx context.Context, user *models.User) (*TokenResponse, error) {
	now := time.Now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	user.LastLoginAt = &now
	return s.issueTokens(ctx, user, now)
}

func (s *service) issueTokens(ctx context.Context, user *models.User, now time.Time) (*TokenResponse, error) {
	accessID := session.NewAccessID()
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		OwnerID: user.ID,
		JTI:     accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}
	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         fromModel(user),
	}, nil
}

// lookup resolves the identifier to a user, or nil when no account exists.
func (s *service) lookup(ctx context.Context, email, phone string) (*models.User, error) {
	normEmail, normPhone, err := normalizeIdentifier(email, phone)
	if err != nil {
		return nil, err
	}
	if normEmail != nil {
		return s.findByEmail(ctx, *normEmail)
	}
	return s.findByPhone(ctx, *normPhone)
}

func (s *service) findByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}

func (s *service) findByPhone(ctx context.Context, phone string) (*models.User, error) {
	user, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}

func fromModel(user *models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}

// normalizeIdentifier trims and lowercases the identifier pair, requiring
// exactly one of email or phone to be usable.
func normalizeIdentifier(email, phone string) (*string, *string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "email or phone number is required")
	}
	var emailPtr, phonePtr *string
	if email != "" {
		emailPtr = &email
	}
	if phone != "" {
		phonePtr = &phone
	}
	return emailPtr, phonePtr, nil
}
