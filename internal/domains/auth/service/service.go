package service

import (
	"context"
	"errors"
	"fmt"

	"innkeeper/infras/jwt"
	"innkeeper/infras/mailer"
	"innkeeper/infras/otel"
	"innkeeper/internal/access"
	"innkeeper/internal/audit"
	"innkeeper/internal/domains/auth/model/dto"
	"innkeeper/internal/domains/auth/otp"
	userModel "innkeeper/internal/domains/user/model"
	userRepository "innkeeper/internal/domains/user/repository"
	"innkeeper/shared"
	"innkeeper/shared/constant"
	gDto "innkeeper/shared/dto"
	"innkeeper/shared/failure"
	"innkeeper/shared/password"
	"innkeeper/shared/timezone"

	"github.com/rs/zerolog/log"
)

type Auth interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.RegisterResponse, error)
	VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) error
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	RequestPasswordReset(ctx context.Context, req dto.RequestPasswordResetRequest) (dto.RequestPasswordResetResponse, error)
	ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) error
	ChangePassword(ctx context.Context, scope access.Scope, req dto.ChangePasswordRequest) error
}

type serviceImpl struct {
	users      userRepository.User
	otp        otp.Store
	mailer     mailer.Mailer
	jwtService jwt.JWT
	audit      audit.Recorder
	otel       otel.Otel
}

func New(users userRepository.User, otpStore otp.Store, mail mailer.Mailer, jwtService jwt.JWT, auditRecorder audit.Recorder, otel otel.Otel) Auth {
	return &serviceImpl{
		users:      users,
		otp:        otpStore,
		mailer:     mail,
		jwtService: jwtService,
		audit:      auditRecorder,
		otel:       otel,
	}
}

// Register creates a customer account and sends the verification OTP. When
// delivery fails the OTP rides back in the response so the flow can finish.
func (s *serviceImpl) Register(ctx context.Context, req dto.RegisterRequest) (res dto.RegisterResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Register")
	defer scope.End()
	defer scope.TraceIfError(err)

	exists, err := s.users.Exist(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return res, failure.BadRequestFromString("email already registered")
	}

	hashedPassword, err := password.Hash(req.Password)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash password")

		return res, fmt.Errorf("failed to hash password: %w", err)
	}

	user := req.ToUserModel(constant.ContextGuest, hashedPassword)

	if err = s.users.Insert(ctx, user); err != nil {
		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	res.UserID = user.ID
	res.Email = user.Email
	res.OTPFallback = s.deliverOTP(ctx, otp.PurposeRegistration, user.Email,
		"Verify your email",
		"Your verification code is %s. It expires in 5 minutes.")

	return res, nil
}

// VerifyOTP marks the account as verified once the registration OTP checks
// out. Verifying an already verified account is a no-op.
func (s *serviceImpl) VerifyOTP(ctx context.Context, req dto.VerifyOTPRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".VerifyOTP")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.otp.Verify(ctx, otp.PurposeRegistration, req.Email, req.OTP); err != nil {
		return mapOTPError(err)
	}

	user, err := s.getUserByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	if user.IsVerified {
		return nil
	}

	updatedFields := shared.TransformFields(dto.UpdateVerifiedRequest{IsVerified: true}, user.ID)

	if err = s.users.Update(ctx, updatedFields, emailFilter(req.Email)); err != nil {
		log.Error().Err(err).Msg("failed to mark user as verified")

		return fmt.Errorf("failed to mark user as verified: %w", err)
	}

	return nil
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.users.Get(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.BadRequestFromString("invalid email or password")
	}

	if err = password.Verify(req.Password, user.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.BadRequestFromString("invalid email or password")
	}

	if !user.Active {
		return res, failure.BadRequestFromString("user account is deactivated")
	}

	if !user.IsVerified {
		return res, failure.BadRequestFromString("email is not verified")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role, user.HotelID)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	lastLogin := dto.UpdateLastLoginRequest{LastLogin: timezone.Now()}
	updatedFields := shared.TransformFields(lastLogin, user.ID)

	if err := s.users.Update(ctx, updatedFields, emailFilter(req.Email)); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
	}

	userScope := access.Scope{UserID: user.ID, Email: user.Email, Role: user.Role, HotelID: user.HotelID}
	s.audit.Record(ctx, userScope, audit.ActionLogin, userModel.EntityName, user.ID, nil)

	res.FromTokenPair(tokenPair)
	res.User.FromModel(user)

	return res, nil
}

// RefreshToken reloads the account so a deactivated or deleted user cannot
// mint fresh tokens from an old refresh token.
func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	claims, err := s.jwtService.ValidateToken(req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to validate refresh token")

		return res, failure.Unauthorized("invalid refresh token")
	}

	user, err := s.users.Get(ctx, emailFilter(claims.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" || user.ID != claims.UserID || !user.Active {
		return res, failure.Unauthorized("invalid refresh token")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(user.ID, user.Email, user.Role, user.HotelID)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

// RequestPasswordReset answers the same way whether or not the email exists,
// so the endpoint cannot be used to enumerate accounts.
func (s *serviceImpl) RequestPasswordReset(ctx context.Context, req dto.RequestPasswordResetRequest) (res dto.RequestPasswordResetResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RequestPasswordReset")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.users.Get(ctx, emailFilter(req.Email))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return res, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" || !user.Active {
		log.Warn().Str("email", req.Email).Msg("password reset requested for unknown or inactive account")

		return res, nil
	}

	res.OTPFallback = s.deliverOTP(ctx, otp.PurposePasswordReset, user.Email,
		"Reset your password",
		"Your password reset code is %s. It expires in 5 minutes.")

	return res, nil
}

func (s *serviceImpl) ResetPassword(ctx context.Context, req dto.ResetPasswordRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ResetPassword")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.otp.Verify(ctx, otp.PurposePasswordReset, req.Email, req.OTP); err != nil {
		return mapOTPError(err)
	}

	user, err := s.getUserByEmail(ctx, req.Email)
	if err != nil {
		return err
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatedFields := shared.TransformFields(dto.UpdatePasswordRequest{Password: hashedPassword}, user.ID)

	if err = s.users.Update(ctx, updatedFields, emailFilter(req.Email)); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, scope access.Scope, req dto.ChangePasswordRequest) (err error) {
	ctx, otelScope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer otelScope.End()
	defer otelScope.TraceIfError(err)

	filter := shared.FilterByID(scope.UserID, userModel.FieldID, userModel.TableName)

	user, err := s.users.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return failure.NotFound("user not found")
	}

	if err = password.Verify(req.CurrentPassword, user.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect")
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatedFields := shared.TransformFields(dto.UpdatePasswordRequest{Password: hashedPassword}, scope.UserID)

	if err = s.users.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// deliverOTP issues a code and mails it. The code is returned for the
// response fallback when delivery fails, empty otherwise. Issue failures are
// logged only: the account flow must not die on the OTP side channel.
func (s *serviceImpl) deliverOTP(ctx context.Context, purpose, email, subject, bodyFormat string) string {
	code, err := s.otp.Issue(ctx, purpose, email)
	if err != nil {
		log.Error().Err(err).Str("purpose", purpose).Msg("failed to issue otp")

		return ""
	}

	if err = s.mailer.Send(ctx, email, subject, fmt.Sprintf(bodyFormat, code)); err != nil {
		if !errors.Is(err, mailer.ErrDisabled) {
			log.Warn().Err(err).Str("purpose", purpose).Msg("failed to send otp email")
		}

		return code
	}

	return ""
}

func (s *serviceImpl) getUserByEmail(ctx context.Context, email string) (userModel.User, error) {
	user, err := s.users.Get(ctx, emailFilter(email))
	if err != nil {
		log.Error().Err(err).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return user, failure.NotFound("user not found")
	}

	return user, nil
}

func mapOTPError(err error) error {
	switch {
	case errors.Is(err, otp.ErrExpired):
		return failure.BadRequestFromString("otp is invalid or has expired")
	case errors.Is(err, otp.ErrMismatch):
		return failure.BadRequestFromString("otp is incorrect")
	case errors.Is(err, otp.ErrTooManyAttempts):
		return failure.BadRequestFromString("too many failed attempts, request a new otp")
	default:
		log.Error().Err(err).Msg("failed to verify otp")

		return fmt.Errorf("failed to verify otp: %w", err)
	}
}

func emailFilter(email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    userModel.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    email,
				Table:    userModel.TableName,
			},
		},
	}
}
