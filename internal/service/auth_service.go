package service

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/HuongLanTo/split-money/internal/auth"
)

// AuthService handles registration and login.
type AuthService struct {
	authenticator auth.Authenticator
	jwt           *auth.JWTManager
}

// NewAuthService creates a new AuthService.
func NewAuthService(authenticator auth.Authenticator, jwt *auth.JWTManager) *AuthService {
	return &AuthService{authenticator: authenticator, jwt: jwt}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register creates a new user account.
func (s *AuthService) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := s.authenticator.Register(c.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		slog.Warn("Register failed", "email", req.Email, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	slog.Info("User registered", "user_id", user.ID)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully.",
		"user":    user.Ref(),
	})
}

// Login verifies credentials and issues a JWT.
func (s *AuthService) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := s.authenticator.Authenticate(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		slog.Error("Login failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login failed"})
	}

	token, err := s.jwt.Generate(user)
	if err != nil {
		slog.Error("Token generation failed", "user_id", user.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "login failed"})
	}

	slog.Info("User logged in", "user_id", user.ID)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Login successful.",
		"token":   token,
		"user":    user.Ref(),
	})
}
