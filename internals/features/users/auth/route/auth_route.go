// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"attendance_backend/internals/configs"
	controller "attendance_backend/internals/features/users/auth/controller"
	"attendance_backend/internals/features/users/auth/service"
	rateLimiter "attendance_backend/internals/middlewares"
	authMiddleware "attendance_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthRoutes mounts /api/auth. Login is public; the rest needs a token.
func AuthRoutes(app *fiber.App, db *gorm.DB, cfg *configs.Config) {
	authController := controller.NewAuthController(service.New(db, cfg))

	baseAuth := app.Group("/api/auth")
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)

	protectedAuth := baseAuth.Group("", authMiddleware.AuthMiddleware(db, cfg.JWTSecret))
	protectedAuth.Post("/logout", authController.Logout)
	protectedAuth.Get("/me", authController.Me)
	protectedAuth.Post("/change-password", authController.ChangePassword)
}
