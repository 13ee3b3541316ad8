package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/sakalaundry/laundry-api/internal/auth"
	"github.com/sakalaundry/laundry-api/internal/config"
	"github.com/sakalaundry/laundry-api/internal/domain"
	"github.com/sakalaundry/laundry-api/internal/repository"
	apperrors "github.com/sakalaundry/laundry-api/pkg/util"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// AuthService coordinates signup, login and account administration.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	otpStore   *redis.Client
	bcryptCost int
	otpLength  int
	otpTTL     time.Duration
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, otpStore *redis.Client) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL()),
		otpStore:   otpStore,
		bcryptCost: cfg.BcryptCost,
		otpLength:  cfg.OTPLength,
		otpTTL:     cfg.OTPTTL(),
	}
}

// Signup creates a customer account. The phone is normalized to digits
// before the uniqueness check so formatting variants of the same number
// collide. Store-level unique violations are translated to duplicate
// errors in case of a concurrent signup racing past the pre-check.
func (s *AuthService) Signup(ctx context.Context, name, phone, password, email string) (*domain.User, string, time.Time, error) {
	if name == "" || phone == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("name, phone and password are required", nil)
	}

	normalizedPhone := domain.NormalizePhone(phone)
	if normalizedPhone == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("invalid phone", map[string]any{"field": "phone"})
	}

	if _, err := s.users.GetByPhone(ctx, normalizedPhone); err == nil {
		return nil, "", time.Time{}, apperrors.NewDuplicate("phone already in use")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	var emailPtr *string
	if email != "" {
		lowered := strings.ToLower(strings.TrimSpace(email))
		if _, err := s.users.GetByEmail(ctx, lowered); err == nil {
			return nil, "", time.Time{}, apperrors.NewDuplicate("email already in use")
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, err
		}
		emailPtr = &lowered
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Name:         name,
		Phone:        normalizedPhone,
		Email:        emailPtr,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if apperrors.IsUniqueViolation(err, "") {
			return nil, "", time.Time{}, apperrors.NewDuplicate("phone or email already in use")
		}
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Login authenticates by email or phone. The identifier is routed on shape:
// anything that looks like an email address is matched against email,
// everything else against digits-only phone.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.User, string, time.Time, error) {
	if password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("password is required", nil)
	}
	id := strings.TrimSpace(identifier)
	if id == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("provide email or phone number to sign in", nil)
	}

	var (
		user *domain.User
		err  error
	)
	if emailPattern.MatchString(id) {
		user, err = s.users.GetByEmail(ctx, strings.ToLower(id))
	} else {
		user, err = s.users.GetByPhone(ctx, domain.NormalizePhone(id))
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials", "")
		}
		return nil, "", time.Time{}, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials", "")
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Profile returns the account for the authenticated caller.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, err
	}
	return user, nil
}

// RequestPasswordReset generates a numeric OTP for the account behind the
// phone number and stores it in redis under a TTL. When no account exists
// the response is indistinguishable from success, to avoid leaking which
// numbers are registered; the returned otp is empty in that case.
func (s *AuthService) RequestPasswordReset(ctx context.Context, phone string) (string, time.Duration, error) {
	normalized := domain.NormalizePhone(phone)
	if len(normalized) < 6 {
		return "", 0, apperrors.NewValidationError("invalid phone", map[string]any{"field": "phone"})
	}

	if _, err := s.users.GetByPhone(ctx, normalized); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", s.otpTTL, nil
		}
		return "", 0, err
	}

	otp, err := generateOTP(s.otpLength)
	if err != nil {
		return "", 0, err
	}
	if err := s.otpStore.Set(ctx, otpKey(normalized), otp, s.otpTTL).Err(); err != nil {
		return "", 0, err
	}
	return otp, s.otpTTL, nil
}

// ConfirmPasswordReset verifies and consumes the OTP, then rehashes the
// account password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, phone, otp, newPassword string) error {
	if phone == "" || otp == "" || newPassword == "" {
		return apperrors.NewValidationError("phone, otp and newPassword are required", nil)
	}
	normalized := domain.NormalizePhone(phone)
	if normalized == "" {
		return apperrors.NewValidationError("invalid phone", map[string]any{"field": "phone"})
	}

	stored, err := s.otpStore.Get(ctx, otpKey(normalized)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return apperrors.NewValidationError("no reset code found or expired", nil)
		}
		return err
	}
	if stored != strings.TrimSpace(otp) {
		return apperrors.NewUnauthorized("invalid reset code", "")
	}

	user, err := s.users.GetByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user")
		}
		return err
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}

	_ = s.otpStore.Del(ctx, otpKey(normalized)).Err()
	return nil
}

// AdminListUsers returns all accounts for the dashboard.
func (s *AuthService) AdminListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// AdminSetRole promotes or demotes an account.
func (s *AuthService) AdminSetRole(ctx context.Context, userID string, role domain.Role) (*domain.User, error) {
	if !domain.ValidRole(role) {
		return nil, apperrors.NewValidationError(`role must be "admin" or "customer"`, map[string]any{"field": "role"})
	}
	user, err := s.users.UpdateRole(ctx, userID, role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, err
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func otpKey(phone string) string {
	return fmt.Sprintf("otp:%s", phone)
}

func generateOTP(length int) (string, error) {
	if length <= 0 {
		length = 4
	}
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
