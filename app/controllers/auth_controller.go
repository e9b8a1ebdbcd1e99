package controllers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/FelixBrandt/StackDroid/app/models"
	"github.com/FelixBrandt/StackDroid/app/repository"
	"github.com/FelixBrandt/StackDroid/internal/pkg/session"
	"github.com/FelixBrandt/StackDroid/internal/pkg/usercontext"
)

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignup registers a new account and logs it in.
func HandleSignup(c *fiber.Ctx) error {
	var req signupRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Name, a valid email and a password of at least 6 characters are required")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if err := repo.Create(c.Context(), user); err != nil {
		if errors.Is(err, repository.ErrExists) {
			return jsonError(c, fiber.StatusConflict, "validation_error", "An account with this email already exists")
		}
		log.Errorf("user create failed: %v", err)
		return jsonError(c, fiber.StatusServiceUnavailable, "infrastructure_error", "Account could not be created")
	}

	if err := establishSession(c, user); err != nil {
		log.Errorf("session setup after signup failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Account created but login failed")
	}

	getMeteringService().TrackEvent(c.Context(), "user_signup", map[string]interface{}{
		"user_id": user.ID,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Account created",
		"user_id": user.ID,
		"user":    user.Public(),
	})
}

// HandleSignin authenticates email and password and opens a session.
func HandleSignin(c *fiber.Ctx) error {
	var req signinRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_error", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(c.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		}
		log.Errorf("user lookup failed: %v", err)
		return jsonError(c, fiber.StatusServiceUnavailable, "infrastructure_error", "Login is temporarily unavailable")
	}

	if !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	}

	if err := establishSession(c, user); err != nil {
		log.Errorf("session setup after signin failed: %v", err)
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Login failed")
	}

	return c.JSON(fiber.Map{"success": true, "user": user.Public()})
}

// HandleLogout destroys the current session.
func HandleLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			log.Warnf("session destroy failed: %v", err)
		}
	}
	return c.JSON(fiber.Map{"success": true})
}

func establishSession(c *fiber.Ctx, user *models.User) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return err
	}

	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUsername, user.Name)
	sess.Set(usercontext.KeyIsAdmin, user.IsAdmin())

	return sess.Save()
}
