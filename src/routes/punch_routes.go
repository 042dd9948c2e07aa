package routes

import (
	"github.com/gofiber/fiber/v2"

	"Auto-Checkin-EHR/src/controllers"
	"Auto-Checkin-EHR/src/middleware"
)

// punchRoutes 打卡相關 API，全部要登入
func punchRoutes(app *fiber.App, jwtSecret string) {
	api := app.Group("/api", middleware.AuthJWT(jwtSecret))

	api.Get("/punch/status", controllers.GetStatus)
	api.Get("/punch/logs", controllers.GetLogs)
	api.Post("/punch/:action", controllers.TriggerPunch)
	api.Post("/email/test", controllers.TestEmail)
}
