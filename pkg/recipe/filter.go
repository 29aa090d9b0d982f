package recipe

import (
	"foodgram/domain"
	"foodgram/entities"

	"gorm.io/gorm"
)

// FilterRecipes composes the listing query. Every present parameter narrows the result
// (AND); the tag slugs among themselves widen it (OR). The tag condition is a subquery,
// so a recipe carrying several requested tags is still returned once.
//
// is_favorited and is_in_shopping_cart set to true match nothing for an anonymous
// requester. Set to false they never restrict the result.
func FilterRecipes(filter domain.RecipeFilter, requester domain.Requester) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		newDB := db.Session(&gorm.Session{NewDB: true})

		if slugs := uniqueSlugs(filter.Tags); len(slugs) > 0 {
			tagged := newDB.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", slugs)
			db = db.Where("recipes.id IN (?)", tagged)
		}

		if filter.AuthorID != "" {
			db = db.Where("recipes.author_id = ?", filter.AuthorID)
		}

		db = markedBy(db, newDB, &entities.FavoriteRecipe{}, filter.IsFavorited, requester)
		db = markedBy(db, newDB, &entities.ShoppingCart{}, filter.IsInShoppingCart, requester)

		return db
	}
}

func markedBy(db, newDB *gorm.DB, model interface{}, wanted *bool, requester domain.Requester) *gorm.DB {
	if wanted == nil || !*wanted {
		return db
	}
	if !requester.IsAuthenticated() {
		return db.Where("1 = 0")
	}
	marked := newDB.Model(model).Select("recipe_id").Where("user_id = ?", requester.UserID)
	return db.Where("recipes.id IN (?)", marked)
}

func uniqueSlugs(slugs []string) []string {
	seen := make(map[string]struct{}, len(slugs))
	result := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		if slug == "" {
			continue
		}
		if _, ok := seen[slug]; ok {
			continue
		}
		seen[slug] = struct{}{}
		result = append(result, slug)
	}
	return result
}
