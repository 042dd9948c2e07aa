package controllers

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"Auto-Checkin-EHR/src/config"
	"Auto-Checkin-EHR/src/utils"
)

// Cfg 由 main 注入
var Cfg *config.Config

// Login - dashboard 登入，成功回傳 JWT
func Login(c *fiber.Ctx) error {
	type LoginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.HandleError(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if req.Username == "" || req.Password == "" {
		return utils.HandleError(c, fiber.StatusBadRequest, "Username and password are required")
	}

	if Cfg.DashboardUser == "" || Cfg.DashboardPassHash == "" {
		return utils.HandleError(c, fiber.StatusServiceUnavailable, "Dashboard login is not configured")
	}

	if req.Username != Cfg.DashboardUser ||
		bcrypt.CompareHashAndPassword([]byte(Cfg.DashboardPassHash), []byte(req.Password)) != nil {
		return utils.HandleError(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := utils.GenerateJWT(Cfg.JWTSecret, req.Username)
	if err != nil {
		return utils.HandleError(c, fiber.StatusInternalServerError, "Token generation failed")
	}

	return c.JSON(fiber.Map{"token": token})
}
