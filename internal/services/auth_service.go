package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"gotours/internal/apperrors"
	"gotours/internal/config"
	"gotours/internal/models"
	"gotours/internal/repositories/interfaces"
	"gotours/internal/utils"
	"gotours/internal/validators"
	"gotours/pkg/logger"
	"gotours/pkg/mailer"
)

type AuthService interface {
	Signup(ctx context.Context, request *SignupRequest) (*models.User, string, error)
	Login(ctx context.Context, request *LoginRequest) (*models.User, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawToken string, request *ResetPasswordRequest) (*models.User, string, error)
	UpdatePassword(ctx context.Context, userID primitive.ObjectID, request *UpdatePasswordRequest) (*models.User, string, error)
}

type authService struct {
	userRepo interfaces.UserRepository
	email    mailer.EmailSender
	security *config.SecurityConfig
	baseURL  string
	logger   *logger.Logger
}

type SignupRequest struct {
	UserName        string `json:"user_name" validate:"required,min=2,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func NewAuthService(
	userRepo interfaces.UserRepository,
	email mailer.EmailSender,
	security *config.SecurityConfig,
	baseURL string,
	logger *logger.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		email:    email,
		security: security,
		baseURL:  baseURL,
		logger:   logger,
	}
}

func (s *authService) Signup(ctx context.Context, request *SignupRequest) (*models.User, string, error) {
	if err := validators.ValidateStruct(request); err != nil {
		return nil, "", err
	}

	hashed, err := hashPassword(request.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		UserName: request.UserName,
		Email:    utils.NormalizeEmail(request.Email),
		Password: hashed,
		Role:     models.RoleUser,
		Active:   true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.WithUserID(user.ID).Info("User signed up")

	return user, token, nil
}

func (s *authService) Login(ctx context.Context, request *LoginRequest) (*models.User, string, error) {
	if request.Email == "" || request.Password == "" {
		return nil, "", apperrors.BadRequest("Please provide email and password")
	}

	// Unknown email and wrong password must be indistinguishable.
	user, err := s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(request.Email))
	if err != nil || !checkPassword(request.Password, user.Password) {
		s.logger.WithField("email", request.Email).Warn("Login attempt with invalid credentials")
		return nil, "", apperrors.Unauthorized(utils.ErrInvalidCredentials)
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.WithUserID(user.ID).Info("User logged in")

	return user, token, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return apperrors.NotFound("There is no user with that email address")
	}

	rawToken, err := user.NewPasswordResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	_, err = s.userRepo.Update(ctx, user.ID, bson.M{
		"password_reset_token":   user.PasswordResetToken,
		"password_reset_expires": user.PasswordResetExpires,
	})
	if err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/api/v1/users/reset-password/%s", s.baseURL, rawToken)
	body := fmt.Sprintf(
		"Forgot your password?\nSubmit a PATCH request with your new password and password confirm to:\n%s\nIf you didn't forget your password, please ignore this email.",
		resetURL,
	)

	if err := s.email.Send(ctx, user.Email, "Your password reset token (valid for 10 minutes)", body); err != nil {
		// Roll back the reset fields so the half-written token can't linger.
		if _, rbErr := s.userRepo.Update(ctx, user.ID, bson.M{
			"password_reset_token":   "",
			"password_reset_expires": nil,
		}); rbErr != nil {
			s.logger.WithError(rbErr).WithUserID(user.ID).Error("Failed to roll back reset token")
		}

		s.logger.WithError(err).WithUserID(user.ID).Error("Failed to send password reset email")
		return apperrors.New(500, "There was an error sending the email. Try again later")
	}

	s.logger.WithUserID(user.ID).Info("Password reset token sent")

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, rawToken string, request *ResetPasswordRequest) (*models.User, string, error) {
	if err := validators.ValidateStruct(request); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.GetByResetTokenHash(ctx, models.HashResetToken(rawToken))
	if err != nil {
		return nil, "", err
	}

	user, err = s.setPassword(ctx, user.ID, request.Password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.WithUserID(user.ID).Info("Password reset completed")

	return user, token, nil
}

func (s *authService) UpdatePassword(ctx context.Context, userID primitive.ObjectID, request *UpdatePasswordRequest) (*models.User, string, error) {
	if err := validators.ValidateStruct(request); err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	if !checkPassword(request.CurrentPassword, user.Password) {
		return nil, "", apperrors.Unauthorized("Your current password is wrong")
	}

	user, err = s.setPassword(ctx, userID, request.Password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.signToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.logger.WithUserID(user.ID).Info("Password updated")

	return user, token, nil
}

// setPassword stores a new hash, stamps the change time and clears any
// pending reset token. The change time is backdated one second so a token
// signed in the same instant still fails the freshness check.
func (s *authService) setPassword(ctx context.Context, userID primitive.ObjectID, password string) (*models.User, error) {
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	changedAt := time.Now().Add(-time.Second)

	return s.userRepo.Update(ctx, userID, bson.M{
		"password":               hashed,
		"password_changed_at":    changedAt,
		"password_reset_token":   "",
		"password_reset_expires": nil,
	})
}

func (s *authService) signToken(userID primitive.ObjectID) (string, error) {
	token, err := utils.SignToken(userID, s.security.JWTSecret, s.security.JWTTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), utils.BcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
