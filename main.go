package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FelixBrandt/StackDroid/internal/pkg/constants"
	"github.com/FelixBrandt/StackDroid/internal/pkg/env"
	"github.com/FelixBrandt/StackDroid/internal/pkg/keyvalue"
	"github.com/FelixBrandt/StackDroid/internal/pkg/metrics"
	"github.com/FelixBrandt/StackDroid/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	keyvalue.SetupStore()
	metrics.Init()

	app := fiber.New(fiber.Config{
		BodyLimit: 1 * 1024 * 1024,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// prometheus metrics plus the fiber runtime monitor
	app.Get(constants.MetricsRoute, adaptor.HTTPHandler(promhttp.Handler()))
	app.Get(constants.MonitorRoute, monitor.New())

	// ROUTER
	router.InstallRouter(app)

	return app
}
