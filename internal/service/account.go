package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/developer-az/food-tracker/internal/config"
	"github.com/developer-az/food-tracker/internal/models"
	"github.com/developer-az/food-tracker/internal/util"
)

var (
	// ErrInvalidCredentials is returned for an unknown user or wrong password.
	ErrInvalidCredentials = fmt.Errorf("invalid username or password: %w", util.ErrUnauthenticated)
	// ErrAccountLocked is returned while a user is locked out after repeated failures.
	ErrAccountLocked = fmt.Errorf("account temporarily locked: %w", util.ErrUnauthenticated)
)

// Registration holds an already form-validated sign-up.
type Registration struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// ProfileUpdate holds the editable profile fields.
type ProfileUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// AccountService handles users, passwords and login sessions.
type AccountService struct {
	db       *gorm.DB
	log      *logrus.Entry
	security config.SecurityConfig
	jwt      config.JWTConfig
}

func NewAccountService(db *gorm.DB, log *logrus.Logger, security config.SecurityConfig, jwt config.JWTConfig) *AccountService {
	return &AccountService{db: db, log: scoped(log, "account"), security: security, jwt: jwt}
}

func (s *AccountService) sessionTTL() time.Duration {
	if s.jwt.ExpireHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(s.jwt.ExpireHours) * time.Hour
}

// Register creates the user and their default goal in one transaction.
func (s *AccountService) Register(ctx context.Context, r Registration) (*models.User, error) {
	r.Username = strings.TrimSpace(r.Username)

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", r.Username).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if count > 0 {
		return nil, util.NewValidationError("username", "A user with that username already exists.")
	}

	hash, err := util.HashPassword(r.Password, s.security.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     r.Username,
		PasswordHash: hash,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Email:        r.Email,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return conflict(err, "create user")
		}
		if err := tx.Create(models.NewDefaultGoal(user.ID)).Error; err != nil {
			return fmt.Errorf("create default goal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("user registered")
	return user, nil
}

// Authenticate checks a username (case-insensitive) and password. After
// MaxLoginAttempts consecutive failures the account is locked for
// LockMinutes.
func (s *AccountService) Authenticate(ctx context.Context, username, password, ip string, now time.Time) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("LOWER(username) = LOWER(?)", strings.TrimSpace(username)).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		return nil, ErrAccountLocked
	}

	if !util.CheckPassword(password, user.PasswordHash) {
		user.FailedLoginAttempts++
		maxAttempts := s.security.MaxLoginAttempts
		if maxAttempts <= 0 {
			maxAttempts = 5
		}
		if user.FailedLoginAttempts >= maxAttempts {
			lockUntil := now.Add(time.Duration(s.security.LockMinutes) * time.Minute)
			user.LockedUntil = &lockUntil
			user.FailedLoginAttempts = 0
			s.log.WithField("user_id", user.ID).Warn("account locked after failed logins")
		}
		if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
			return nil, fmt.Errorf("record failed login: %w", err)
		}
		return nil, ErrInvalidCredentials
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginIP = ip
	user.LastLoginAt = &now
	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	return &user, nil
}

// StartSession persists a new session for user and returns its signed token.
func (s *AccountService) StartSession(ctx context.Context, user *models.User, ip string, now time.Time) (string, *models.Session, error) {
	ttl := s.sessionTTL()
	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(ttl),
		IP:        ip,
		CreatedAt: now,
	}
	if err := s.db.WithContext(ctx).Omit("User").Create(sess).Error; err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}
	token, err := util.GenerateToken(s.jwt.Secret, s.jwt.Issuer, sess.ID, user.ID, now, ttl)
	if err != nil {
		return "", nil, fmt.Errorf("sign session: %w", err)
	}
	return token, sess, nil
}

// ResolveSession maps a token back to its user. Any problem with the token
// or its session yields util.ErrUnauthenticated.
func (s *AccountService) ResolveSession(ctx context.Context, token string, now time.Time) (*models.User, *models.Session, error) {
	if token == "" {
		return nil, nil, util.ErrUnauthenticated
	}
	claims, err := util.ParseToken(s.jwt.Secret, token)
	if err != nil || claims.ID == "" {
		return nil, nil, util.ErrUnauthenticated
	}

	var sess models.Session
	err = s.db.WithContext(ctx).Preload("User").
		Where("id = ? AND user_id = ?", claims.ID, claims.UserID).
		First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrUnauthenticated
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load session: %w", err)
	}
	if !sess.Active(now) {
		return nil, nil, util.ErrUnauthenticated
	}
	user := sess.User
	return &user, &sess, nil
}

// EndSession revokes a session. Revoking an unknown session is a no-op.
func (s *AccountService) EndSession(ctx context.Context, sessionID string) error {
	err := s.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("revoked", true).Error
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *AccountService) Get(ctx context.Context, userID uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, userID).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UpdateProfile changes the user's name and email.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, p ProfileUpdate) (*models.User, error) {
	ve := &util.ValidationError{}
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.TrimSpace(p.Email)
	if len([]rune(p.FirstName)) > 30 {
		ve.Add("first_name", "Ensure this value has at most 30 characters.")
	}
	if len([]rune(p.LastName)) > 30 {
		ve.Add("last_name", "Ensure this value has at most 30 characters.")
	}
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		ve.Add("email", "Enter a valid email address.")
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.FirstName = p.FirstName
	user.LastName = p.LastName
	user.Email = p.Email
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// ChangePassword verifies oldPassword, stores newPassword and revokes every
// session of the user except keepSession.
func (s *AccountService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword, keepSession string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !util.CheckPassword(oldPassword, user.PasswordHash) {
		return util.NewValidationError("old_password", "Your old password was entered incorrectly.")
	}
	if newPassword == oldPassword {
		return util.NewValidationError("new_password", "The new password must differ from the old one.")
	}
	hash, err := util.HashPassword(newPassword, s.security.BcryptCost)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Update("password_hash", hash).Error; err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		if err := tx.Model(&models.Session{}).
			Where("user_id = ? AND id <> ?", userID, keepSession).
			Update("revoked", true).Error; err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
		return nil
	})
}

// DeleteAccount removes the user after checking password. Entries, goal,
// sessions, backups and audit rows go with it.
func (s *AccountService) DeleteAccount(ctx context.Context, userID uint, password string) error {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	if !util.CheckPassword(password, user.PasswordHash) {
		return util.NewValidationError("password", "Password is incorrect.")
	}
	if err := s.db.WithContext(ctx).Delete(&models.User{}, userID).Error; err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.log.WithField("user_id", userID).Info("account deleted")
	return nil
}
