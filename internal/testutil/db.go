// Package testutil builds throwaway databases and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	migration "foodgram/cmd/database/migrate"
	"foodgram/entities"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get test database handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := migration.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, username string) *entities.User {
	t.Helper()
	user := &entities.User{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: username,
		LastName:  "Tester",
		Password:  "not-a-hash",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func CreateTag(t testing.TB, db *gorm.DB, name, color, slug string) *entities.Tag {
	t.Helper()
	tag := &entities.Tag{Name: name, Color: color, Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag: %v", err)
	}
	return tag
}

func CreateIngredient(t testing.TB, db *gorm.DB, name, unit string) *entities.Ingredient {
	t.Helper()
	ingredient := &entities.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient: %v", err)
	}
	return ingredient
}

// IngredientAmount pairs an ingredient with its amount in a fixture recipe.
type IngredientAmount struct {
	Ingredient *entities.Ingredient
	Amount     int
}

// CreateRecipe stores a recipe with the given tags and ingredients. Recipes created later
// get a later pub_date so default ordering is deterministic.
func CreateRecipe(t testing.TB, db *gorm.DB, author *entities.User, name string, tags []*entities.Tag, ingredients ...IngredientAmount) *entities.Recipe {
	t.Helper()

	var count int64
	db.Model(&entities.Recipe{}).Count(&count)

	recipe := &entities.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		ImageURL:    "https://example.com/" + name + ".png",
		Text:        name + " text",
		CookingTime: 10,
		PubDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(count) * time.Minute),
		Tags:        tags,
	}
	for _, ia := range ingredients {
		recipe.RecipeIngredients = append(recipe.RecipeIngredients, &entities.RecipeIngredient{
			IngredientID: ia.Ingredient.ID,
			Amount:       ia.Amount,
		})
	}
	if err := db.Create(recipe).Error; err != nil {
		t.Fatalf("failed to create recipe: %v", err)
	}
	return recipe
}

func AddFavorite(t testing.TB, db *gorm.DB, user *entities.User, recipe *entities.Recipe) {
	t.Helper()
	if err := db.Create(&entities.FavoriteRecipe{UserID: user.ID, RecipeID: recipe.ID, CreatedAt: time.Now()}).Error; err != nil {
		t.Fatalf("failed to add favorite: %v", err)
	}
}

func AddToCart(t testing.TB, db *gorm.DB, user *entities.User, recipe *entities.Recipe) {
	t.Helper()
	if err := db.Create(&entities.ShoppingCart{UserID: user.ID, RecipeID: recipe.ID, CreatedAt: time.Now()}).Error; err != nil {
		t.Fatalf("failed to add to cart: %v", err)
	}
}
