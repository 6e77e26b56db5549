package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-ticketing/internal/api/dto"
	"github.com/spec-kit/crm-ticketing/internal/config"
	"github.com/spec-kit/crm-ticketing/internal/domain"
	"github.com/spec-kit/crm-ticketing/internal/ratelimit"
	"github.com/spec-kit/crm-ticketing/internal/service"
	apperrors "github.com/spec-kit/crm-ticketing/pkg/util"
)

// UsersHandler exposes login and admin user management endpoints.
type UsersHandler struct {
	auth    *service.AuthService
	users   *service.UserService
	limiter ratelimit.Limiter
	limits  config.RateLimitConfig
	logger  *zap.Logger
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, userService *service.UserService, limiter ratelimit.Limiter, limits config.RateLimitConfig, logger *zap.Logger) *UsersHandler {
	return &UsersHandler{auth: authService, users: userService, limiter: limiter, limits: limits, logger: logger}
}

// Login handles POST /api/users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	if h.limiter != nil {
		allowed, err := h.limiter.Allow(c.Context(), c.IP(), h.limits.LoginLimit, h.limits.LoginWindow())
		if err != nil {
			// limiter failure must not lock users out
			h.logger.Warn("login rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			return apperrors.NewTooManyRequests("too many login attempts")
		}
	}

	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password are required", nil)
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		Token:          token,
		ExpiresAt:      exp,
		UserID:         user.ID,
		Username:       user.Username,
		Role:           user.Role,
		Email:          user.Email,
		ProfilePicture: user.ProfilePicture,
	})
}

// ListUsers GET /api/users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetUser GET /api/users/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.users.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// CreateUser POST /api/users.
func (h *UsersHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.Create(c.Context(), userInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// UpdateUser PUT /api/users/:id.
func (h *UsersHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.users.Update(c.Context(), c.Params("id"), userInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// DeleteUser DELETE /api/users/:id.
func (h *UsersHandler) DeleteUser(c *fiber.Ctx) error {
	if err := h.users.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func userInput(req dto.UserRequest) service.UserInput {
	return service.UserInput{
		Username:       req.Username,
		Password:       req.Password,
		Email:          req.Email,
		Role:           req.Role,
		ProfilePicture: req.ProfilePicture,
	}
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		Role:           user.Role,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}
