package routes

import (
	"foodgram/internal/api/handlers"
	"foodgram/internal/middleware"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App            *fiber.App
	UserHandler    handlers.UserHandler
	CatalogHandler handlers.CatalogHandler
	RecipeHandler  handlers.RecipeHandler
	Middleware     middleware.Middleware
	JWTService     jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.User()
	c.Catalog()
	c.Recipes()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) User() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	user := c.App.Group("/api/users", c.Middleware.OptionalAuthMiddleware(c.JWTService))
	{
		user.Get("", c.UserHandler.GetUsers)
		user.Get("/me", auth, c.UserHandler.Me)
		user.Get("/subscriptions", auth, c.UserHandler.GetSubscriptions)
		user.Get("/:id", auth, c.UserHandler.GetUser)
		user.Post("/:id/subscribe", auth, c.UserHandler.Subscribe)
		user.Delete("/:id/subscribe", auth, c.UserHandler.Unsubscribe)
	}
}

func (c *Config) Catalog() {
	tags := c.App.Group("/api/tags")
	tags.Get("", c.CatalogHandler.GetTags)
	tags.Get("/:id", c.CatalogHandler.GetTag)

	ingredients := c.App.Group("/api/ingredients")
	ingredients.Get("", c.CatalogHandler.GetIngredients)
	ingredients.Get("/:id", c.CatalogHandler.GetIngredient)
}

func (c *Config) Recipes() {
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	recipes := c.App.Group("/api/recipes", c.Middleware.OptionalAuthMiddleware(c.JWTService))

	recipes.Get("/download_shopping_cart", auth, c.RecipeHandler.DownloadShoppingCart)
	recipes.Post("/send_shopping_cart", auth, c.RecipeHandler.SendShoppingCart)

	recipes.Get("", c.RecipeHandler.GetRecipes)
	recipes.Post("", auth, c.RecipeHandler.CreateRecipe)
	recipes.Get("/:id", c.RecipeHandler.GetRecipe)
	recipes.Patch("/:id", auth, c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", auth, c.RecipeHandler.DeleteRecipe)

	recipes.Post("/:id/favorite", auth, c.RecipeHandler.AddFavorite)
	recipes.Delete("/:id/favorite", auth, c.RecipeHandler.RemoveFavorite)
	recipes.Post("/:id/shopping_cart", auth, c.RecipeHandler.AddToShoppingCart)
	recipes.Delete("/:id/shopping_cart", auth, c.RecipeHandler.RemoveFromShoppingCart)
}
