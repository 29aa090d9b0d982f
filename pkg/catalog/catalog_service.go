package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils"

	"gorm.io/gorm"
)

type (
	CatalogService interface {
		GetTags(ctx context.Context) ([]domain.Tag, error)
		GetTag(ctx context.Context, id string) (domain.Tag, error)
		GetIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error)
		GetIngredient(ctx context.Context, id string) (domain.Ingredient, error)
		LoadIngredients(ctx context.Context, r io.Reader) (int, error)
	}

	catalogService struct {
		catalogRepository CatalogRepository
	}
)

func NewCatalogService(catalogRepository CatalogRepository) CatalogService {
	return &catalogService{
		catalogRepository: catalogRepository,
	}
}

func ToTag(tag *entities.Tag) domain.Tag {
	return domain.Tag{
		ID:    tag.ID.String(),
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}
}

func ToIngredient(ingredient *entities.Ingredient) domain.Ingredient {
	return domain.Ingredient{
		ID:              ingredient.ID.String(),
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}
}

func (s *catalogService) GetTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.catalogRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Tag, 0, len(tags))
	for _, tag := range tags {
		result = append(result, ToTag(tag))
	}
	return result, nil
}

func (s *catalogService) GetTag(ctx context.Context, id string) (domain.Tag, error) {
	tag, err := s.catalogRepository.GetTagByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Tag{}, domain.ErrTagNotFound
		}
		return domain.Tag{}, err
	}
	return ToTag(tag), nil
}

func (s *catalogService) GetIngredients(ctx context.Context, namePrefix string) ([]domain.Ingredient, error) {
	ingredients, err := s.catalogRepository.GetIngredients(ctx, strings.TrimSpace(namePrefix))
	if err != nil {
		return nil, err
	}

	result := make([]domain.Ingredient, 0, len(ingredients))
	for _, ingredient := range ingredients {
		result = append(result, ToIngredient(ingredient))
	}
	return result, nil
}

func (s *catalogService) GetIngredient(ctx context.Context, id string) (domain.Ingredient, error) {
	ingredient, err := s.catalogRepository.GetIngredientByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Ingredient{}, domain.ErrIngredientNotFound
		}
		return domain.Ingredient{}, err
	}
	return ToIngredient(ingredient), nil
}

// LoadIngredients bulk-loads "name,measurement_unit" rows. It refuses to run twice.
func (s *catalogService) LoadIngredients(ctx context.Context, r io.Reader) (int, error) {
	count, err := s.catalogRepository.CountIngredients(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, domain.ErrIngredientsAlreadyLoaded
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	var ingredients []*entities.Ingredient
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %v", domain.ErrInvalidIngredientsDataset, err)
		}
		name, unit := strings.TrimSpace(row[0]), strings.TrimSpace(row[1])
		if name == "" || unit == "" {
			line, _ := reader.FieldPos(0)
			return 0, fmt.Errorf("%w: empty field on line %d", domain.ErrInvalidIngredientsDataset, line)
		}
		ingredients = append(ingredients, &entities.Ingredient{Name: name, MeasurementUnit: unit})
	}

	if err := s.catalogRepository.CreateIngredients(ctx, ingredients); err != nil {
		return 0, err
	}

	utils.Log.WithField("count", len(ingredients)).Info("ingredients loaded")
	return len(ingredients), nil
}
