package routes

import (
	"github.com/gofiber/fiber/v2"
)

func InitRoutes(app *fiber.App, jwtSecret string) {
	authRoutes(app)
	punchRoutes(app, jwtSecret)

	// Route 檢查 API 是否運作中
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("✅ API is running...")
	})
}
