package config

import (
	"errors"
	"io"
	"os"
	"time"

	"foodgram/domain"
	"foodgram/internal/api/handlers"
	"foodgram/internal/api/presenters"
	"foodgram/internal/api/routes"
	"foodgram/internal/middleware"
	"foodgram/internal/utils"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/catalog"
	"foodgram/pkg/jwt"
	"foodgram/pkg/recipe"
	"foodgram/pkg/shoppinglist"
	"foodgram/pkg/user"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// Options carries the external collaborators of the app. Zero fields are filled from config.
type Options struct {
	S3         storage.AwsS3
	Mailer     mailing.Mailer
	JWTService jwt.JWTService
	AccessLog  io.Writer
	// RateLimit is the number of requests per second per client; negative disables the limiter.
	RateLimit int
}

func NewApp(db *gorm.DB) (*fiber.App, error) {
	return NewAppWithOptions(db, Options{})
}

func NewAppWithOptions(db *gorm.DB, opts Options) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	if opts.AccessLog == nil {
		if err := os.MkdirAll("./logs", os.ModePerm); err != nil {
			return nil, err
		}
		file, err := os.OpenFile(
			"./logs/app.log",
			os.O_RDWR|os.O_CREATE|os.O_APPEND,
			0666,
		)
		if err != nil {
			return nil, err
		}
		opts.AccessLog = file
	}

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     opts.AccessLog,
	}))

	if opts.RateLimit == 0 {
		opts.RateLimit = utils.GetConfigInt("RATE_LIMIT", 10)
	}
	if opts.RateLimit > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RateLimit,
			Expiration: 1 * time.Second,
		}))
	}

	metrics := fiberprometheus.NewWithRegistry(prometheus.NewRegistry(), "foodgram", "http", "", nil)
	metrics.RegisterAt(app, "/metrics")
	app.Use(metrics.Middleware)

	// utils
	if opts.S3 == nil {
		opts.S3 = storage.NewAwsS3()
	}
	if opts.Mailer == nil {
		opts.Mailer = mailing.NewMailer()
	}
	if opts.JWTService == nil {
		opts.JWTService = jwt.NewJWTService()
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	catalogRepository := catalog.NewCatalogRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	shoppingListRepository := shoppinglist.NewShoppingListRepository(db)

	// Service
	userService := user.NewUserService(userRepository)
	catalogService := catalog.NewCatalogService(catalogRepository)
	recipeService := recipe.NewRecipeService(recipeRepository, catalogRepository, userRepository, opts.S3)
	shoppingListService := shoppinglist.NewShoppingListService(shoppingListRepository, userRepository, opts.Mailer)

	// Handler
	userHandler := handlers.NewUserHandler(userService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	recipeHandler := handlers.NewRecipeHandler(recipeService, shoppingListService, validator)

	// routes
	routesConfig := routes.Config{
		App:            app,
		UserHandler:    userHandler,
		CatalogHandler: catalogHandler,
		RecipeHandler:  recipeHandler,
		Middleware:     middlewares,
		JWTService:     opts.JWTService,
	}
	routesConfig.Setup()
	return app, nil
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return presenters.ErrorResponse(c, fiberErr.Code, fiberErr.Message, fiberErr)
	}

	utils.Log.WithError(err).WithField("path", c.Path()).Error("unhandled error")
	return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedProcessRequest, errors.New(domain.MessageFailedProcessRequest))
}
