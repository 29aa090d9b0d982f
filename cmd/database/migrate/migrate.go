package migration

import (
	"fmt"

	"foodgram/entities"
	"foodgram/internal/utils"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	models := []any{
		&entities.User{},
		&entities.Follow{},
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeIngredient{},
		&entities.FavoriteRecipe{},
		&entities.ShoppingCart{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("error migrating %T: %w", model, err)
		}
	}

	utils.Log.WithField("dialect", db.Dialector.Name()).Info("database migration complete")
	return nil
}
