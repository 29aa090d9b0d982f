package shoppinglist

import (
	"context"

	"foodgram/domain"
	"foodgram/entities"

	"gorm.io/gorm"
)

type (
	ShoppingListRepository interface {
		CountCartRecipes(ctx context.Context, userID string) (int64, error)
		GetCartLines(ctx context.Context, userID string) ([]domain.ShoppingListLine, error)
	}

	shoppingListRepository struct {
		db *gorm.DB
	}
)

func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db: db}
}

func (r *shoppingListRepository) CountCartRecipes(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.ShoppingCart{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GetCartLines returns one row per ingredient of every recipe in the user's cart, ungrouped.
func (r *shoppingListRepository) GetCartLines(ctx context.Context, userID string) ([]domain.ShoppingListLine, error) {
	var lines []domain.ShoppingListLine
	if err := r.db.WithContext(ctx).
		Table("shopping_carts").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, recipe_ingredients.amount AS amount").
		Joins("JOIN recipe_ingredients ON recipe_ingredients.recipe_id = shopping_carts.recipe_id").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Where("shopping_carts.user_id = ?", userID).
		Scan(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}
