package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"github.com/shiftwise/scheduler/internal/domain"
	"github.com/shiftwise/scheduler/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

type AuthClaims struct {
	Plan string `json:"plan"`
	jwt.RegisteredClaims
}

func (h *Handler) signToken(user *domain.User) (string, error) {
	expiration := time.Now().Add(time.Duration(h.config.JWT.Expiration) * time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Plan: string(user.Plan),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	})

	return token.SignedString([]byte(h.config.JWT.Secret))
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name" validate:"required,max=64"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8,max=72"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	exists, err := h.repository.CheckEmailIfExists(req.Email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if exists {
		h.errorResponse(w, r, "an account with this email already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Plan:         domain.PlanFree,
	}
	if err := h.repository.CreateUser(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "users_email_key":
			// Lost the race with a concurrent registration.
			h.errorResponse(w, r, "an account with this email already exists")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// Mail the verification code. Registration already succeeded, so a
	// broken mail pipeline must not undo it.
	if err := h.sendOTP(user, "verify_email"); err != nil {
		slog.Error("failed to send verification email", "email", user.Email, "error", err)
	}

	token, err := h.signToken(user)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "account created", map[string]any{
		"token": token,
		"user":  user,
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user, err := h.repository.GetUserByEmail(req.Email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "wrong email or password")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			h.errorResponse(w, r, "wrong email or password")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	token, err := h.signToken(user)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "logged in", map[string]any{
		"token": token,
		"user":  user,
	})
}

// sendOTP stores a one-time code in redis and queues the matching email.
// purpose is either verify_email or reset_password.
func (h *Handler) sendOTP(user *domain.User, purpose string) error {
	otp := utils.GenerateRandomOTP()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	key := fmt.Sprintf("otp_%s_%s", user.Email, purpose)
	if err := h.redisClient.Set(ctx, key, otp, time.Duration(h.config.OTP.Expiration)*time.Second).Err(); err != nil {
		return err
	}

	msg := domain.NotificationMessage{
		Type: purpose,
		To:   user.Email,
	}
	// The email shows the expiration in minutes
	switch purpose {
	case "verify_email":
		msg.Data = domain.VerifyEmailData{
			Name:       user.Name,
			OTP:        otp,
			Expiration: h.config.OTP.Expiration / 60,
		}
	default:
		msg.Data = domain.ResetPasswordData{
			Name:       user.Name,
			OTP:        otp,
			Expiration: h.config.OTP.Expiration / 60,
		}
	}

	return h.publishNotification(msg)
}

// checkOTP compares the submitted code against redis and deletes it on a
// match so each code is single-use.
func (h *Handler) checkOTP(ctx context.Context, email, purpose, submitted string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	key := fmt.Sprintf("otp_%s_%s", email, purpose)
	otp, err := h.redisClient.Get(ctx, key).Result()
	if err != nil {
		// Missing key and wrong code look the same to the caller, but a
		// redis outage is the server's problem, not theirs.
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if otp != submitted {
		return false, nil
	}

	if err := h.redisClient.Del(ctx, key).Err(); err != nil {
		return false, err
	}

	return true, nil
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user, err := h.repository.GetUserByEmail(req.Email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// Claim success anyway so the endpoint cannot be used to
			// probe which emails are registered
			h.successResponse(w, r, "a reset code has been emailed to you", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.sendOTP(user, "reset_password"); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "a reset code has been emailed to you", nil)
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		OTP      string `json:"otp" validate:"required"`
		Password string `json:"password" validate:"required,min=8,max=72"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ok, err := h.checkOTP(r.Context(), req.Email, "reset_password", req.OTP)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !ok {
		h.errorResponse(w, r, "wrong or expired code")
		return
	}

	user, err := h.repository.GetUserByEmail(req.Email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	user.PasswordHash = string(hashedPassword)

	if err := h.repository.UpdateUser(user); err != nil {
		switch {
		case errors.Is(err, domain.ErrConcurrencyConflict):
			h.errorResponse(w, r, "please try again")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "password updated", nil)
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
		OTP   string `json:"otp" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	ok, err := h.checkOTP(r.Context(), req.Email, "verify_email", req.OTP)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !ok {
		h.errorResponse(w, r, "wrong or expired code")
		return
	}

	user, err := h.repository.GetUserByEmail(req.Email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user.EmailVerified = true
	if err := h.repository.UpdateUser(user); err != nil {
		switch {
		case errors.Is(err, domain.ErrConcurrencyConflict):
			h.errorResponse(w, r, "please try again")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "email verified", user)
}

func (h *Handler) GetUserDetails(w http.ResponseWriter, r *http.Request) {
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)
	h.successResponse(w, r, "ok", myInfo)
}
