package routes

import (
	"github.com/gofiber/fiber/v2"

	"Auto-Checkin-EHR/src/controllers"
)

// authRoutes dashboard 登入
func authRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	auth.Post("/login", controllers.Login) // 🔐 login
}
