package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/subsyncapp/subsync/app/controllers"
	"github.com/subsyncapp/subsync/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		// Webhook deliveries burst on processor retries; keep the limiter
		// permissive enough not to trigger spurious redelivery loops.
		Max: 120,
	}))

	// Paystack entry points. The callback is hit by the user's browser, the
	// webhook by Paystack's servers; neither carries a session.
	paystack := api.Group("/paystack")
	paystack.Get("/callback", controllers.HandlePaystackCallback)
	paystack.Post("/webhook", controllers.HandlePaystackWebhook)

	// Authenticated surface.
	api.Post("/checkout", middleware.RequireSession, controllers.HandleCheckoutInitialize)
	api.Get("/user/subscription", middleware.RequireSession, controllers.HandleSubscriptionQuery)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
