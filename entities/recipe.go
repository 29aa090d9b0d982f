// File: entities/recipe.go
package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	AuthorID    uuid.UUID `gorm:"type:char(36);not null;index" json:"author_id"`
	Name        string    `gorm:"size:200;not null" json:"name"`
	ImageURL    string    `json:"image_url"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	CookingTime int       `gorm:"not null;check:chk_recipes_cooking_time,cooking_time >= 1" json:"cooking_time"`
	PubDate     time.Time `gorm:"type:timestamp;not null;index" json:"pub_date"`

	Author            *User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Tags              []*Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	RecipeIngredients []*RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Timestamp
}

type RecipeIngredient struct {
	ID           uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	RecipeID     uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_recipe_ingredient" json:"recipe_id"`
	IngredientID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_recipe_ingredient;index" json:"ingredient_id"`
	Amount       int       `gorm:"not null;check:chk_recipe_ingredients_amount,amount >= 1" json:"amount"`

	Ingredient *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

type FavoriteRecipe struct {
	ID        uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_favorite_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_favorite_user_recipe;index" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

type ShoppingCart struct {
	ID        uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_shopping_cart_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_shopping_cart_user_recipe;index" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}
