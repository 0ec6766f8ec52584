package user

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/teamtodo/server/internal/rpc"
	apperrors "github.com/teamtodo/server/internal/utils/errors"
	"github.com/teamtodo/server/internal/utils/metrics"
)

// resetTokenTTL is how long a mailed password reset token stays valid.
const resetTokenTTL = 24 * time.Hour

// MailSender dispatches mail without waiting on delivery.
type MailSender interface {
	Send(req rpc.SendMailRequest)
}

// Service implements the user store operations.
type Service struct {
	repo    Repository
	jwt     *JWTManager
	mail    MailSender
	cache   *SnapshotCache
	logger  *zap.Logger
	metrics *metrics.Metrics
	baseURL string
}

// NewService creates a new user service.
func NewService(repo Repository, jwt *JWTManager, mail MailSender, cache *SnapshotCache, logger *zap.Logger, m *metrics.Metrics, baseURL string) *Service {
	return &Service{
		repo:    repo,
		jwt:     jwt,
		mail:    mail,
		cache:   cache,
		logger:  logger,
		metrics: m,
		baseURL: baseURL,
	}
}

// GetUserByID returns the user snapshot for the id.
func (s *Service) GetUserByID(ctx context.Context, userID string) (*rpc.UserSnapshot, error) {
	if snap := s.cache.Get(ctx, userID); snap != nil {
		return snap, nil
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap := snapshot(u)
	s.cache.Set(ctx, snap)
	return snap, nil
}

// AddTodoRef adds a todo id to the user's todo set.
func (s *Service) AddTodoRef(ctx context.Context, userID, todoID string) error {
	if err := s.repo.AddTodoRef(ctx, userID, todoID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

// RemoveTodoRef removes a todo id from the user's todo set.
func (s *Service) RemoveTodoRef(ctx context.Context, userID, todoID string) error {
	if err := s.repo.RemoveTodoRef(ctx, userID, todoID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

// AddTeamRef adds a team id to the user's team set.
func (s *Service) AddTeamRef(ctx context.Context, userID, teamID string) error {
	if err := s.repo.AddTeamRef(ctx, userID, teamID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

// RemoveTeamRef removes a team id from the user's team set.
func (s *Service) RemoveTeamRef(ctx context.Context, userID, teamID string) error {
	if err := s.repo.RemoveTeamRef(ctx, userID, teamID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, userID)
	return nil
}

// Register creates a new account and issues a token.
func (s *Service) Register(ctx context.Context, req rpc.RegisterRequest) (*rpc.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" || req.Username == "" {
		return nil, apperrors.ValidationError("username, email and password are required")
	}
	if len(req.Password) < 8 {
		return nil, apperrors.ValidationError("password must be at least 8 characters")
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !apperrors.IsNotFound(err) {
		return nil, apperrors.Internal("lookup email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("hash password", err)
	}

	u := &User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		UserType:     UserTypeUser,
		UserStatus:   UserStatusActive,
		Todos:        []string{},
		Teams:        []string{},
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, apperrors.Internal("create user", err)
	}

	token, err := s.jwt.Generate(u)
	if err != nil {
		return nil, apperrors.Internal("issue token", err)
	}

	s.recordAuthEvent("register")
	s.logger.Info("user registered",
		zap.String("user_id", u.ID),
		zap.String("email", u.Email),
	)

	s.mail.Send(rpc.SendMailRequest{
		User: rpc.MailUser{
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		},
		URL:      s.baseURL,
		MailType: rpc.MailTypeConfirmation,
	})

	return &rpc.AuthResponse{Token: token, User: *snapshot(u)}, nil
}

// Login authenticates by email and password and issues a token.
func (s *Service) Login(ctx context.Context, req rpc.LoginRequest) (*rpc.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.recordAuthEvent("login_failed")
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.recordAuthEvent("login_failed")
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.Generate(u)
	if err != nil {
		return nil, apperrors.Internal("issue token", err)
	}

	s.recordAuthEvent("login_success")
	return &rpc.AuthResponse{Token: token, User: *snapshot(u)}, nil
}

// ValidateToken verifies a JWT and returns its claims.
func (s *Service) ValidateToken(ctx context.Context, token string) (*rpc.TokenClaims, error) {
	claims, err := s.jwt.Validate(token)
	if err != nil {
		s.recordAuthEvent("token_invalid")
		return nil, err
	}
	return &rpc.TokenClaims{
		UserID:     claims.UserID,
		Username:   claims.Username,
		Email:      claims.Email,
		UserType:   claims.UserType,
		UserStatus: claims.UserStatus,
	}, nil
}

// Update updates the user's profile fields.
func (s *Service) Update(ctx context.Context, req rpc.UpdateUserRequest) (*rpc.UserSnapshot, error) {
	u, err := s.repo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		if strings.TrimSpace(*req.Username) == "" {
			return nil, apperrors.ValidationError("username cannot be empty")
		}
		u.Username = *req.Username
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.ProfileImage != nil {
		u.ProfileImage = *req.ProfileImage
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, apperrors.Internal("update user", err)
	}
	s.cache.Invalidate(ctx, u.ID)
	return snapshot(u), nil
}

// ChangePasswordRequest stores a reset token on the account and mails it.
func (s *Service) ChangePasswordRequest(ctx context.Context, email string) error {
	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}

	token, err := resetToken()
	if err != nil {
		return apperrors.Internal("generate reset token", err)
	}

	expires := time.Now().Add(resetTokenTTL)
	u.ResetPasswordToken = token
	u.RPTExpires = &expires
	if err := s.repo.Update(ctx, u); err != nil {
		return apperrors.Internal("store reset token", err)
	}
	s.cache.Invalidate(ctx, u.ID)

	s.mail.Send(rpc.SendMailRequest{
		User: rpc.MailUser{
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		},
		Token:    token,
		URL:      s.baseURL,
		MailType: rpc.MailTypeForgotPassword,
	})

	s.logger.Info("password reset requested", zap.String("user_id", u.ID))
	return nil
}

// ChangePassword completes a reset using the mailed token.
func (s *Service) ChangePassword(ctx context.Context, req rpc.ChangePasswordRequest) error {
	if len(req.NewPassword) < 8 {
		return apperrors.ValidationError("password must be at least 8 characters")
	}

	u, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return err
	}

	if u.ResetPasswordToken == "" || u.ResetPasswordToken != req.Token {
		return ErrInvalidResetToken
	}
	if u.RPTExpires == nil || time.Now().After(*u.RPTExpires) {
		return ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Internal("hash password", err)
	}

	u.PasswordHash = string(hash)
	u.ResetPasswordToken = ""
	u.RPTExpires = nil
	if err := s.repo.Update(ctx, u); err != nil {
		return apperrors.Internal("update password", err)
	}
	s.cache.Invalidate(ctx, u.ID)

	s.logger.Info("password changed", zap.String("user_id", u.ID))
	return nil
}

// Ban sets the BANNED status with a reason. Admin only.
func (s *Service) Ban(ctx context.Context, req rpc.BanUserRequest) (*rpc.UserSnapshot, error) {
	if err := s.requireAdmin(ctx, req.OperatingUserID); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	u.UserStatus = UserStatusBanned
	u.BanReason = req.Reason
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, apperrors.Internal("ban user", err)
	}
	s.cache.Invalidate(ctx, u.ID)

	s.logger.Warn("user banned",
		zap.String("user_id", u.ID),
		zap.String("operating_user_id", req.OperatingUserID),
		zap.String("reason", req.Reason),
	)
	return snapshot(u), nil
}

// GrantAdmin grants the ADMIN type. Admin only.
func (s *Service) GrantAdmin(ctx context.Context, req rpc.AdminGrantRequest) (*rpc.UserSnapshot, error) {
	return s.setUserType(ctx, req, UserTypeAdmin)
}

// TakeAdmin revokes the ADMIN type. Admin only.
func (s *Service) TakeAdmin(ctx context.Context, req rpc.AdminGrantRequest) (*rpc.UserSnapshot, error) {
	return s.setUserType(ctx, req, UserTypeUser)
}

func (s *Service) setUserType(ctx context.Context, req rpc.AdminGrantRequest, t UserType) (*rpc.UserSnapshot, error) {
	if err := s.requireAdmin(ctx, req.OperatingUserID); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	u.UserType = t
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, apperrors.Internal("update user type", err)
	}
	s.cache.Invalidate(ctx, u.ID)

	s.logger.Info("user type changed",
		zap.String("user_id", u.ID),
		zap.String("user_type", string(t)),
		zap.String("operating_user_id", req.OperatingUserID),
	)
	return snapshot(u), nil
}

func (s *Service) requireAdmin(ctx context.Context, operatingUserID string) error {
	operator, err := s.repo.GetByID(ctx, operatingUserID)
	if err != nil {
		return err
	}
	if operator.UserType != UserTypeAdmin {
		return ErrNotAdmin
	}
	return nil
}

func (s *Service) recordAuthEvent(event string) {
	if s.metrics != nil {
		s.metrics.RecordAuthEvent(event)
	}
}

// snapshot maps the row to the wire view. Password and reset-token
// fields stay inside this package.
func snapshot(u *User) *rpc.UserSnapshot {
	return &rpc.UserSnapshot{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		ProfileImage: u.ProfileImage,
		UserType:     string(u.UserType),
		UserStatus:   string(u.UserStatus),
		BanReason:    u.BanReason,
		Todos:        append([]string{}, u.Todos...),
		Teams:        append([]string{}, u.Teams...),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// resetToken returns a 6-digit numeric token.
func resetToken() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return big.NewInt(0).Add(n, big.NewInt(100000)).String(), nil
}
