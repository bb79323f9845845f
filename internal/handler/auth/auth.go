// Package auth implements registration, login and profile management.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"evolv-store/internal/api"
	"evolv-store/internal/database"
	"evolv-store/internal/middleware"
	"evolv-store/internal/model"
	"evolv-store/internal/service"
	"evolv-store/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
)

// Seams for tests.
var (
	hashPassword       = service.HashPassword
	authenticateUser   = service.AuthenticateUser
	issueAccessToken   = service.IssueAccessToken
	createUser         = store.CreateUser
	getUserByID        = store.GetUserByID
	getUserByEmail     = store.GetUserByEmail
	updateUserProfile  = store.UpdateUserProfile
	updateUserPassword = store.UpdateUserPassword
)

// uniqueViolation is the Postgres error code the users.email constraint
// raises; the constraint is authoritative for the register race.
const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// @Summary     Register a new account
// @Description Creates a user, hashes the password and returns a bearer token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body api.RegisterRequest true "registration data"
// @Success     201 {object} api.Response{data=api.AuthData}
// @Failure     400 {object} api.Response
// @Failure     409 {object} api.Response
// @Failure     500 {object} api.Response
// @Router      /auth/register [post]
func RegisterHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid request body"))
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error(err.Error()))
		}

		req.Email = strings.ToLower(req.Email)

		// Fast-path duplicate check; the unique constraint below is what
		// actually closes the race between check and insert.
		if _, err := getUserByEmail(c.Request().Context(), db, req.Email); err == nil {
			return c.JSON(http.StatusConflict, api.Error("email already registered"))
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("failed to hash password"))
		}

		user, err := createUser(c.Request().Context(), db, &model.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			FitnessGoals: req.FitnessGoals,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return c.JSON(http.StatusConflict, api.Error("email already registered"))
			}
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}

		token, err := issueAccessToken(*user, service.AccessTokenTTL())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("failed to issue token"))
		}

		return c.JSON(http.StatusCreated, api.Success("account created", api.AuthData{
			User:  user,
			Token: token,
		}))
	}
}

// @Summary     Log in
// @Description Verifies email and password, returns a bearer token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body api.LoginRequest true "credentials"
// @Success     200 {object} api.Response{data=api.AuthData}
// @Failure     400 {object} api.Response
// @Failure     401 {object} api.Response
// @Failure     500 {object} api.Response
// @Router      /auth/login [post]
func LoginHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid request body"))
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error(err.Error()))
		}

		user, err := getUserByEmail(c.Request().Context(), db, strings.ToLower(req.Email))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusUnauthorized, api.Error("invalid credentials"))
			}
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}

		if err := authenticateUser(c.Request().Context(), *user, req.Password); err != nil {
			return c.JSON(http.StatusUnauthorized, api.Error("invalid credentials"))
		}

		token, err := issueAccessToken(*user, service.AccessTokenTTL())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("failed to issue token"))
		}

		return c.JSON(http.StatusOK, api.Success("login successful", api.AuthData{
			User:  user,
			Token: token,
		}))
	}
}

// @Summary     Get my profile
// @Tags        auth
// @Produce     json
// @Success     200 {object} api.Response{data=model.User}
// @Failure     404 {object} api.Response
// @Security    ApiKeyAuth
// @Router      /auth/profile [get]
func GetProfileHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		user, err := getUserByID(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.Error("user not found"))
		}
		return c.JSON(http.StatusOK, api.Success("", user))
	}
}

// @Summary     Update my profile
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body api.UpdateProfileRequest true "profile fields"
// @Success     200 {object} api.Response{data=model.User}
// @Failure     400 {object} api.Response
// @Failure     500 {object} api.Response
// @Security    ApiKeyAuth
// @Router      /auth/profile [put]
func UpdateProfileHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := c.Get(middleware.ContextUserKey).(*service.CustomClaims)

		var req api.UpdateProfileRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid request body"))
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error(err.Error()))
		}

		user, err := updateUserProfile(c.Request().Context(), db, claims.UserID, req.Name, req.FitnessGoals)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}
		return c.JSON(http.StatusOK, api.Success("profile updated", user))
	}
}

// @Summary     Change my password
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body api.ChangePasswordRequest true "current and new password"
// @Success     200 {object} api.Response
// @Failure     400 {object} api.Response
// @Failure     401 {object} api.Response
// @Failure     500 {object} api.Response
// @Security    ApiKeyAuth
// @Router      /auth/password [put]
func ChangePasswordHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := c.Get(middleware.ContextUserKey).(*service.CustomClaims)

		var req api.ChangePasswordRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid request body"))
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error(err.Error()))
		}

		user, err := getUserByID(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.Error("user not found"))
		}

		if err := authenticateUser(c.Request().Context(), *user, req.CurrentPassword); err != nil {
			return c.JSON(http.StatusUnauthorized, api.Error("current password is incorrect"))
		}

		hash, err := hashPassword(req.NewPassword)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("failed to hash password"))
		}
		if err := updateUserPassword(c.Request().Context(), db, claims.UserID, hash); err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}

		return c.JSON(http.StatusOK, api.Success("password changed", nil))
	}
}
