package recipe

import (
	"context"

	"foodgram/entities"

	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		GetRecipes(ctx context.Context, scope func(*gorm.DB) *gorm.DB, page, limit int) ([]*entities.Recipe, int64, error)
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		DeleteRecipe(ctx context.Context, recipe *entities.Recipe) error

		CreateFavorite(ctx context.Context, favorite *entities.FavoriteRecipe) error
		DeleteFavorite(ctx context.Context, userID, recipeID string) (int64, error)
		IsFavorited(ctx context.Context, userID, recipeID string) (bool, error)
		GetFavoritedIDs(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error)

		CreateShoppingCart(ctx context.Context, cart *entities.ShoppingCart) error
		DeleteShoppingCart(ctx context.Context, userID, recipeID string) (int64, error)
		IsInShoppingCart(ctx context.Context, userID, recipeID string) (bool, error)
		GetShoppingCartIDs(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name asc") }).
		Preload("RecipeIngredients.Ingredient")
}

// GetRecipes returns one page of recipes matching scope, newest first, and the total match
// count. A non-positive limit returns every match.
func (r *recipeRepository) GetRecipes(ctx context.Context, scope func(*gorm.DB) *gorm.DB, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64

	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Scopes(scope).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).
		Scopes(scope, withDetails).
		Order("recipes.pub_date desc").
		Order("recipes.id asc")
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * limit).Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Scopes(withDetails).
		Where("recipes.id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Omit("Author", "Tags.*").Create(recipe).Error
	})
}

// UpdateRecipe stores scalar fields and replaces the tag set and the ingredient rows
// wholesale, all in one transaction.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).
			Select("name", "image_url", "text", "cooking_time", "updated_at").
			Updates(recipe).Error; err != nil {
			return err
		}

		tags := tx.Model(recipe).Association("Tags")
		if len(recipe.Tags) == 0 {
			if err := tags.Clear(); err != nil {
				return err
			}
		} else if err := tags.Replace(recipe.Tags); err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		for _, ri := range recipe.RecipeIngredients {
			ri.RecipeID = recipe.ID
		}
		if len(recipe.RecipeIngredients) == 0 {
			return nil
		}
		return tx.Omit("Ingredient").Create(recipe.RecipeIngredients).Error
	})
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		for _, model := range []interface{}{&entities.RecipeIngredient{}, &entities.FavoriteRecipe{}, &entities.ShoppingCart{}} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Delete(recipe).Error
	})
}

func (r *recipeRepository) CreateFavorite(ctx context.Context, favorite *entities.FavoriteRecipe) error {
	return r.db.WithContext(ctx).Create(favorite).Error
}

func (r *recipeRepository) DeleteFavorite(ctx context.Context, userID, recipeID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.FavoriteRecipe{})
	return result.RowsAffected, result.Error
}

func (r *recipeRepository) IsFavorited(ctx context.Context, userID, recipeID string) (bool, error) {
	return r.exists(ctx, &entities.FavoriteRecipe{}, userID, recipeID)
}

func (r *recipeRepository) GetFavoritedIDs(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
	return r.markedIDs(ctx, &entities.FavoriteRecipe{}, userID, recipeIDs)
}

func (r *recipeRepository) CreateShoppingCart(ctx context.Context, cart *entities.ShoppingCart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *recipeRepository) DeleteShoppingCart(ctx context.Context, userID, recipeID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&entities.ShoppingCart{})
	return result.RowsAffected, result.Error
}

func (r *recipeRepository) IsInShoppingCart(ctx context.Context, userID, recipeID string) (bool, error) {
	return r.exists(ctx, &entities.ShoppingCart{}, userID, recipeID)
}

func (r *recipeRepository) GetShoppingCartIDs(ctx context.Context, userID string, recipeIDs []string) (map[string]bool, error) {
	return r.markedIDs(ctx, &entities.ShoppingCart{}, userID, recipeIDs)
}

func (r *recipeRepository) exists(ctx context.Context, model interface{}, userID, recipeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) markedIDs(ctx context.Context, model interface{}, userID string, recipeIDs []string) (map[string]bool, error) {
	marked := make(map[string]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return marked, nil
	}

	var ids []string
	if err := r.db.WithContext(ctx).
		Model(model).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		marked[id] = true
	}
	return marked, nil
}
