package catalog

import (
	"context"
	"strings"

	"foodgram/entities"

	"gorm.io/gorm"
)

type (
	CatalogRepository interface {
		GetTags(ctx context.Context) ([]*entities.Tag, error)
		GetTagByID(ctx context.Context, id string) (*entities.Tag, error)
		GetTagsByIDs(ctx context.Context, ids []string) ([]*entities.Tag, error)

		GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error)
		GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error)
		GetIngredientsByIDs(ctx context.Context, ids []string) ([]*entities.Ingredient, error)
		CountIngredients(ctx context.Context) (int64, error)
		CreateIngredients(ctx context.Context, ingredients []*entities.Ingredient) error
	}

	catalogRepository struct {
		db *gorm.DB
	}
)

const ingredientBatchSize = 500

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) GetTags(ctx context.Context) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	if err := r.db.WithContext(ctx).Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *catalogRepository) GetTagByID(ctx context.Context, id string) (*entities.Tag, error) {
	var tag entities.Tag
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *catalogRepository) GetTagsByIDs(ctx context.Context, ids []string) ([]*entities.Tag, error) {
	var tags []*entities.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`).Replace(s)
}

func (r *catalogRepository) GetIngredients(ctx context.Context, namePrefix string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient

	query := r.db.WithContext(ctx)
	if namePrefix != "" {
		pattern := escapeLike(strings.ToLower(namePrefix)) + "%"
		query = query.Where(`search_name LIKE ? ESCAPE '!'`, pattern)
	}

	if err := query.Order("name asc").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *catalogRepository) GetIngredientByID(ctx context.Context, id string) (*entities.Ingredient, error) {
	var ingredient entities.Ingredient
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *catalogRepository) GetIngredientsByIDs(ctx context.Context, ids []string) ([]*entities.Ingredient, error) {
	var ingredients []*entities.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *catalogRepository) CountIngredients(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Ingredient{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *catalogRepository) CreateIngredients(ctx context.Context, ingredients []*entities.Ingredient) error {
	return r.db.WithContext(ctx).CreateInBatches(ingredients, ingredientBatchSize).Error
}
