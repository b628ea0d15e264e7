package users

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gasgenie/gasgenie-service/internal/storage"
	"github.com/gasgenie/gasgenie-service/internal/types/users"
	"github.com/gasgenie/gasgenie-service/internal/utils/jwt"
	"github.com/gasgenie/gasgenie-service/internal/utils/password"
	"github.com/gasgenie/gasgenie-service/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

var errBadCredentials = errors.New("invalid email or password")

// Accounts is the part of storage.Storage the auth endpoints need.
type Accounts interface {
	CreateUser(ctx context.Context, email, password string) (string, error)
	GetUserByEmail(ctx context.Context, email string) (string, string, error)
}

func decodeCredentials(r *http.Request, dst any) (int, response.Response, bool) {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return http.StatusBadRequest, response.GeneralError(errors.New("invalid request body")), false
	}
	if err := validator.New().Struct(dst); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			return http.StatusBadRequest, response.ValidationError(ve), false
		}
		return http.StatusBadRequest, response.GeneralError(err), false
	}
	return 0, response.Response{}, true
}

// SignUp handles user registration
// @Summary Register a new user
// @Description Register a technician account
// @Tags users
// @Accept json
// @Produce json
// @Param user body users.SignUpRequest true "User registration details"
// @Success 201 {object} users.SignUpResponse "User created successfully"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 409 {object} response.Response "Email already registered"
// @Failure 500 {object} response.Response "Internal server error"
// @Router /signup [post]
func SignUp(accounts Accounts) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req users.SignUpRequest
		if status, body, ok := decodeCredentials(r, &req); !ok {
			response.WriteJSON(w, status, body)
			return
		}
		email := strings.ToLower(strings.TrimSpace(req.Email))

		hashedPassword, err := password.HashPassword(req.Password)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to hash password")))
			return
		}

		userID, err := accounts.CreateUser(r.Context(), email, hashedPassword)
		if err != nil {
			if errors.Is(err, storage.ErrConflict) {
				response.WriteJSON(w, http.StatusConflict, response.GeneralError(errors.New("email already registered")))
				return
			}
			slog.Error("Failed to create user", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to create user")))
			return
		}
		slog.Info("User created", slog.String("user_id", userID))

		response.WriteJSON(w, http.StatusCreated, users.SignUpResponse{ID: userID})
	}
}

// Login handles user authentication
// @Summary Authenticate a user
// @Description Authenticate a user and return a JWT valid for 72 hours
// @Tags users
// @Accept json
// @Produce json
// @Param user body users.SignInRequest true "User login details"
// @Success 200 {object} users.LoginResponse "User authenticated successfully with token"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Router /login [post]
func Login(accounts Accounts, jwtSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req users.SignInRequest
		if status, body, ok := decodeCredentials(r, &req); !ok {
			response.WriteJSON(w, status, body)
			return
		}

		userID, hashedPassword, err := accounts.GetUserByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				slog.Error("Failed to look up user", slog.String("error", err.Error()))
			}
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errBadCredentials))
			return
		}

		if !password.CheckPasswordHash(req.Password, hashedPassword) {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errBadCredentials))
			return
		}

		token, err := jwt.CreateToken(userID, jwtSecret)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to generate token")))
			return
		}

		response.WriteJSON(w, http.StatusOK, users.LoginResponse{UserID: userID, Token: token})
	}
}
