// file: internal/services/auth_service.go
package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"personahub/internal/config"
	"personahub/internal/events"
	"personahub/internal/models"
	"personahub/internal/repositories"
	"personahub/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// authService implements AuthService
type authService struct {
	accountRepo repositories.AccountRepository
	profileRepo repositories.ProfileRepository
	cfg         *config.AuthConfig
	events      events.EventBus
	logger      *zap.Logger

	hashPassword    func(password string, cost int) ([]byte, error)
	comparePassword func(hash, password []byte) error
}

// NewAuthService creates a new auth service
func NewAuthService(
	accountRepo repositories.AccountRepository,
	profileRepo repositories.ProfileRepository,
	cfg *config.AuthConfig,
	events events.EventBus,
	logger *zap.Logger,
) AuthService {
	return &authService{
		accountRepo:     accountRepo,
		profileRepo:     profileRepo,
		cfg:             cfg,
		events:          events,
		logger:          logger,
		hashPassword:    bcryptHash,
		comparePassword: bcryptCompare,
	}
}

// ===============================
// REGISTRATION AND BOOTSTRAP
// ===============================

// Register provisions a new account together with its bootstrap profiles:
// a public default profile named after the display name and an anonymous
// private profile with a generated name. Profile provisioning is best-effort; a
// failure there is logged and the account is still returned.
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid registration request", err)
	}
	if len(req.Password) < s.cfg.MinPasswordLength {
		return nil, NewValidationError(
			fmt.Sprintf("password must be at least %d characters", s.cfg.MinPasswordLength), nil)
	}

	hashed, err := s.hashPassword(req.Password, s.cfg.BCryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return nil, NewInternalError("failed to process password")
	}

	account := &models.Account{
		Email:        strings.ToLower(req.Email),
		Handle:       req.Handle,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hashed),
		Role:         "user",
		IsActive:     true,
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		switch {
		case repositories.IsDuplicateEmail(err):
			return nil, NewConflictError("email already registered", "EMAIL_TAKEN")
		case repositories.IsDuplicateHandle(err):
			return nil, NewConflictError("handle already taken", "HANDLE_TAKEN")
		default:
			s.logger.Error("failed to create account", zap.Error(err), zap.String("email", account.Email))
			return nil, NewInternalError("failed to create account")
		}
	}

	profiles := s.bootstrapProfiles(ctx, account)

	tokens, err := s.issueTokens(account.ID)
	if err != nil {
		s.logger.Error("failed to issue tokens", zap.Error(err), zap.Int64("account_id", account.ID))
		return nil, NewInternalError("failed to issue tokens")
	}

	if err := s.events.PublishAsync(ctx, events.NewAccountCreatedEvent(
		account.ID, account.Email, account.Handle,
	)); err != nil {
		s.logger.Warn("failed to publish account created event", zap.Error(err), zap.Int64("account_id", account.ID))
	}

	s.logger.Info("account registered",
		zap.Int64("account_id", account.ID),
		zap.String("handle", account.Handle),
		zap.Int("bootstrap_profiles", len(profiles)),
	)

	account.PasswordHash = ""
	return &AuthResponse{Account: account, Profiles: profiles, Tokens: tokens}, nil
}

// bootstrapProfiles provisions the two standard profiles for a fresh
// account. Failures are logged and swallowed; registration never fails on
// profile provisioning.
func (s *authService) bootstrapProfiles(ctx context.Context, account *models.Account) []*models.Profile {
	profiles := make([]*models.Profile, 0, 2)

	publicName := account.DisplayName
	if publicName == "" {
		publicName = account.Handle
	}
	public := &models.Profile{
		AccountID:   account.ID,
		ProfileName: publicName,
		DisplayName: account.DisplayName,
		Kind:        models.ProfileKindPublic,
		Status:      models.ProfileStatusPublic,
		IsActive:    true,
		IsDefault:   true,
		Settings:    models.DefaultProfileSettings(),
	}
	if err := s.profileRepo.Create(ctx, public); err != nil {
		s.logger.Error("failed to provision default profile",
			zap.Error(err),
			zap.Int64("account_id", account.ID),
		)
	} else {
		profiles = append(profiles, public)
	}

	anon := &models.Profile{
		AccountID:   account.ID,
		ProfileName: anonymousProfileName(),
		Kind:        models.ProfileKindAnonymous,
		Status:      models.ProfileStatusPrivate,
		IsActive:    true,
		IsDefault:   false,
		Settings:    models.DefaultProfileSettings(),
	}
	if err := s.profileRepo.Create(ctx, anon); err != nil {
		s.logger.Error("failed to provision anonymous profile",
			zap.Error(err),
			zap.Int64("account_id", account.ID),
		)
	} else {
		profiles = append(profiles, anon)
	}

	return profiles
}

// anonymousProfileName generates a name of the form Anon followed by six
// random digits
func anonymousProfileName() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// Fall back to a time-derived suffix; collisions surface as a
		// duplicate-name error and are swallowed by the caller
		return fmt.Sprintf("Anon%06d", time.Now().UnixNano()%1000000)
	}
	return fmt.Sprintf("Anon%06d", n.Int64())
}

// ===============================
// LOGIN AND TOKENS
// ===============================

// Login authenticates by email or handle and issues a token pair
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid login request", err)
	}

	account, err := s.lookupAccount(ctx, req.Identifier)
	if err != nil {
		// Do not reveal whether the identifier exists
		return nil, NewUnauthorizedError("invalid credentials")
	}

	if !account.IsActive {
		return nil, NewUnauthorizedError("account is deactivated")
	}

	if err := s.comparePassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewUnauthorizedError("invalid credentials")
	}

	tokens, err := s.issueTokens(account.ID)
	if err != nil {
		s.logger.Error("failed to issue tokens", zap.Error(err), zap.Int64("account_id", account.ID))
		return nil, NewInternalError("failed to issue tokens")
	}

	profiles, err := s.profileRepo.ListByAccount(ctx, account.ID)
	if err != nil {
		s.logger.Warn("failed to list profiles at login", zap.Error(err), zap.Int64("account_id", account.ID))
		profiles = nil
	}

	if err := s.events.PublishAsync(ctx, events.NewAccountLoggedInEvent(account.ID, "")); err != nil {
		s.logger.Warn("failed to publish login event", zap.Error(err), zap.Int64("account_id", account.ID))
	}

	account.PasswordHash = ""
	return &AuthResponse{Account: account, Profiles: profiles, Tokens: tokens}, nil
}

// RefreshTokens exchanges a valid refresh token for a new pair
func (s *authService) RefreshTokens(ctx context.Context, req *RefreshTokenRequest) (*TokenPair, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("invalid refresh request", err)
	}

	accountID, tokenType, err := s.parseToken(req.RefreshToken)
	if err != nil || tokenType != "refresh" {
		return nil, NewUnauthorizedError("invalid refresh token")
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil || !account.IsActive {
		return nil, NewUnauthorizedError("invalid refresh token")
	}

	tokens, err := s.issueTokens(accountID)
	if err != nil {
		s.logger.Error("failed to rotate tokens", zap.Error(err), zap.Int64("account_id", accountID))
		return nil, NewInternalError("failed to issue tokens")
	}

	return tokens, nil
}

// ValidateAccessToken verifies an access token and returns the account ID
func (s *authService) ValidateAccessToken(ctx context.Context, token string) (int64, error) {
	accountID, tokenType, err := s.parseToken(token)
	if err != nil || tokenType != "access" {
		return 0, NewUnauthorizedError("invalid access token")
	}
	return accountID, nil
}

// ===============================
// HELPERS
// ===============================

func (s *authService) lookupAccount(ctx context.Context, identifier string) (*models.Account, error) {
	if strings.Contains(identifier, "@") {
		return s.accountRepo.GetByEmail(ctx, identifier)
	}
	return s.accountRepo.GetByHandle(ctx, identifier)
}

func (s *authService) issueTokens(accountID int64) (*TokenPair, error) {
	now := time.Now()
	accessExpiry := now.Add(s.cfg.AccessTokenExpiry)

	access, err := s.signToken(accountID, "access", now, accessExpiry)
	if err != nil {
		return nil, err
	}

	refresh, err := s.signToken(accountID, "refresh", now, now.Add(s.cfg.RefreshTokenExpiry))
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    accessExpiry,
	}, nil
}

func (s *authService) signToken(accountID int64, tokenType string, issuedAt, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(accountID, 10),
		"type": tokenType,
		"iss":  s.cfg.Issuer,
		"iat":  issuedAt.Unix(),
		"exp":  expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authService) parseToken(tokenString string) (int64, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithIssuer(s.cfg.Issuer), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return 0, "", fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", fmt.Errorf("unexpected claims type")
	}

	sub, _ := claims["sub"].(string)
	accountID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || accountID <= 0 {
		return 0, "", fmt.Errorf("invalid subject claim")
	}

	tokenType, _ := claims["type"].(string)
	return accountID, tokenType, nil
}
