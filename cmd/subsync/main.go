package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/subsyncapp/subsync/app/controllers"
	"github.com/subsyncapp/subsync/internal/pkg/cache"
	"github.com/subsyncapp/subsync/internal/pkg/database"
	"github.com/subsyncapp/subsync/internal/pkg/env"
	"github.com/subsyncapp/subsync/internal/pkg/jobqueue"
	"github.com/subsyncapp/subsync/internal/pkg/metrics/counter"
	"github.com/subsyncapp/subsync/internal/pkg/notifications"
	"github.com/subsyncapp/subsync/internal/pkg/router"
)

func main() {
	app, queue := NewApplication()
	defer queue.Stop()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() (*fiber.App, *jobqueue.Queue) {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()

	// Notification queue workers deliver emails off the request path.
	queue := jobqueue.NewQueue(3)
	queue.Start()
	controllers.InitializeBillingControllers(notifications.NewDispatcher(queue))

	app := fiber.New(fiber.Config{
		AppName: "subsync",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics plus webhook counters
	metricsAuth := basicauth.New(basicauth.Config{
		Users: map[string]string{
			"admin": env.GetEnv("METRICS_PASSWORD", "test"),
		},
	})
	app.Get("/metrics", metricsAuth, monitor.New())
	app.Get("/metrics/webhooks", metricsAuth, func(c *fiber.Ctx) error {
		received, duplicate, failed, err := counter.Snapshot()
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Counter read failed"})
		}
		return c.JSON(fiber.Map{
			"received":  received,
			"duplicate": duplicate,
			"failed":    failed,
		})
	})

	// ROUTER
	router.InstallRouter(app)

	return app, queue
}
