package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/magforge/pressdesk/app/controllers"
	"github.com/magforge/pressdesk/app/repository"
	"github.com/magforge/pressdesk/internal/pkg/cache"
	"github.com/magforge/pressdesk/internal/pkg/database"
	"github.com/magforge/pressdesk/internal/pkg/env"
	"github.com/magforge/pressdesk/internal/pkg/payments"
	"github.com/magforge/pressdesk/internal/pkg/router"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "5004")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	cache.SetupCache()
	repository.InitializeFactory(database.GetDB())

	paymentCfg := payments.LoadConfig()
	if paymentCfg.KeyID != "" && paymentCfg.KeySecret != "" {
		controllers.SetPaymentService(payments.NewServiceFromDB(database.GetDB(), paymentCfg))
	} else {
		log.Println("[PressDesk] Razorpay credentials missing, payment routes disabled")
	}

	app := fiber.New(fiber.Config{
		AppName: "PressDesk",
	})
	app.Use(recover.New(), logger.New(), cors.New())

	router.InstallRouter(app)

	return app
}
