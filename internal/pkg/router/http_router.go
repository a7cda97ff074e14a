package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/subsyncapp/subsync/internal/pkg/middleware"
	"github.com/subsyncapp/subsync/internal/pkg/session"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}
