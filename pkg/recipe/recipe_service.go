package recipe

import (
	"context"
	"errors"
	"strings"
	"time"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/catalog"
	"foodgram/pkg/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, requester domain.Requester, filter domain.RecipeFilter, page, limit int) ([]domain.Recipe, int64, error)
		GetRecipe(ctx context.Context, requester domain.Requester, id string) (domain.Recipe, error)
		CreateRecipe(ctx context.Context, requester domain.Requester, req domain.RecipeRequest) (domain.Recipe, error)
		UpdateRecipe(ctx context.Context, requester domain.Requester, id string, req domain.RecipeRequest) (domain.Recipe, error)
		DeleteRecipe(ctx context.Context, requester domain.Requester, id string) error

		AddFavorite(ctx context.Context, requester domain.Requester, id string) (domain.RecipeShort, error)
		RemoveFavorite(ctx context.Context, requester domain.Requester, id string) error
		AddToShoppingCart(ctx context.Context, requester domain.Requester, id string) (domain.RecipeShort, error)
		RemoveFromShoppingCart(ctx context.Context, requester domain.Requester, id string) error
	}

	recipeService struct {
		recipeRepository  RecipeRepository
		catalogRepository catalog.CatalogRepository
		userRepository    user.UserRepository
		s3                storage.AwsS3
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	catalogRepository catalog.CatalogRepository,
	userRepository user.UserRepository,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository:  recipeRepository,
		catalogRepository: catalogRepository,
		userRepository:    userRepository,
		s3:                s3,
	}
}

func (s *recipeService) GetRecipes(ctx context.Context, requester domain.Requester, filter domain.RecipeFilter, page, limit int) ([]domain.Recipe, int64, error) {
	recipes, count, err := s.recipeRepository.GetRecipes(ctx, FilterRecipes(filter, requester), page, limit)
	if err != nil {
		return nil, 0, err
	}

	marks, err := s.marksFor(ctx, requester, recipes)
	if err != nil {
		return nil, 0, err
	}

	result := make([]domain.Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		result = append(result, marks.apply(recipe))
	}
	return result, count, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, requester domain.Requester, id string) (domain.Recipe, error) {
	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return domain.Recipe{}, err
	}
	if err := CheckAccess(domain.OperationRead, requester, recipe); err != nil {
		return domain.Recipe{}, err
	}
	return s.represent(ctx, requester, recipe)
}

func (s *recipeService) CreateRecipe(ctx context.Context, requester domain.Requester, req domain.RecipeRequest) (domain.Recipe, error) {
	if err := CheckAccess(domain.OperationCreate, requester, nil); err != nil {
		return domain.Recipe{}, err
	}

	authorID, err := uuid.Parse(requester.UserID)
	if err != nil {
		return domain.Recipe{}, domain.ErrParseUUID
	}

	if strings.TrimSpace(req.Image) == "" {
		return domain.Recipe{}, domain.ErrImageRequired
	}
	tags, ingredients, image, err := s.prepare(ctx, req)
	if err != nil {
		return domain.Recipe{}, err
	}

	recipeID := uuid.New()
	imageURL, err := s.upload(ctx, recipeID, image)
	if err != nil {
		return domain.Recipe{}, err
	}

	recipe := &entities.Recipe{
		ID:                recipeID,
		AuthorID:          authorID,
		Name:              req.Name,
		ImageURL:          imageURL,
		Text:              req.Text,
		CookingTime:       req.CookingTime,
		PubDate:           time.Now().UTC(),
		Tags:              tags,
		RecipeIngredients: ingredients,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		s.discard(ctx, imageURL)
		return domain.Recipe{}, err
	}

	utils.Log.WithFields(map[string]interface{}{
		"user_id":   requester.UserID,
		"recipe_id": recipeID.String(),
	}).Info("recipe created")

	return s.GetRecipe(ctx, requester, recipeID.String())
}

func (s *recipeService) UpdateRecipe(ctx context.Context, requester domain.Requester, id string, req domain.RecipeRequest) (domain.Recipe, error) {
	if !requester.IsAuthenticated() {
		return domain.Recipe{}, domain.ErrAuthRequired
	}

	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return domain.Recipe{}, err
	}
	if err := CheckAccess(domain.OperationUpdate, requester, recipe); err != nil {
		return domain.Recipe{}, err
	}

	tags, ingredients, image, err := s.prepare(ctx, req)
	if err != nil {
		return domain.Recipe{}, err
	}

	oldImageURL := recipe.ImageURL
	if image != nil {
		imageURL, err := s.upload(ctx, recipe.ID, image)
		if err != nil {
			return domain.Recipe{}, err
		}
		recipe.ImageURL = imageURL
	}

	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	recipe.Tags = tags
	recipe.RecipeIngredients = ingredients

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
		if recipe.ImageURL != oldImageURL {
			s.discard(ctx, recipe.ImageURL)
		}
		return domain.Recipe{}, err
	}
	if recipe.ImageURL != oldImageURL {
		s.discard(ctx, oldImageURL)
	}

	return s.GetRecipe(ctx, requester, id)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, requester domain.Requester, id string) error {
	if !requester.IsAuthenticated() {
		return domain.ErrAuthRequired
	}

	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return err
	}
	if err := CheckAccess(domain.OperationDelete, requester, recipe); err != nil {
		return err
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipe); err != nil {
		return err
	}
	s.discard(ctx, recipe.ImageURL)

	utils.Log.WithFields(map[string]interface{}{
		"user_id":   requester.UserID,
		"recipe_id": id,
	}).Info("recipe deleted")
	return nil
}

func (s *recipeService) AddFavorite(ctx context.Context, requester domain.Requester, id string) (domain.RecipeShort, error) {
	return s.addRelation(ctx, requester, id, relation{
		exists:     s.recipeRepository.IsFavorited,
		alreadyErr: domain.ErrAlreadyFavorited,
		create: func(ctx context.Context, userID, recipeID uuid.UUID) error {
			return s.recipeRepository.CreateFavorite(ctx, &entities.FavoriteRecipe{UserID: userID, RecipeID: recipeID, CreatedAt: time.Now()})
		},
	})
}

func (s *recipeService) RemoveFavorite(ctx context.Context, requester domain.Requester, id string) error {
	return s.removeRelation(ctx, requester, id, s.recipeRepository.DeleteFavorite, domain.ErrNotFavorited)
}

func (s *recipeService) AddToShoppingCart(ctx context.Context, requester domain.Requester, id string) (domain.RecipeShort, error) {
	return s.addRelation(ctx, requester, id, relation{
		exists:     s.recipeRepository.IsInShoppingCart,
		alreadyErr: domain.ErrAlreadyInShoppingCart,
		create: func(ctx context.Context, userID, recipeID uuid.UUID) error {
			return s.recipeRepository.CreateShoppingCart(ctx, &entities.ShoppingCart{UserID: userID, RecipeID: recipeID, CreatedAt: time.Now()})
		},
	})
}

func (s *recipeService) RemoveFromShoppingCart(ctx context.Context, requester domain.Requester, id string) error {
	return s.removeRelation(ctx, requester, id, s.recipeRepository.DeleteShoppingCart, domain.ErrNotInShoppingCart)
}

// relation describes one user-to-recipe marker kind.
type relation struct {
	exists     func(ctx context.Context, userID, recipeID string) (bool, error)
	create     func(ctx context.Context, userID, recipeID uuid.UUID) error
	alreadyErr error
}

func (s *recipeService) addRelation(ctx context.Context, requester domain.Requester, id string, rel relation) (domain.RecipeShort, error) {
	if !requester.IsAuthenticated() {
		return domain.RecipeShort{}, domain.ErrAuthRequired
	}
	userID, err := uuid.Parse(requester.UserID)
	if err != nil {
		return domain.RecipeShort{}, domain.ErrParseUUID
	}

	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return domain.RecipeShort{}, err
	}

	exists, err := rel.exists(ctx, requester.UserID, recipe.ID.String())
	if err != nil {
		return domain.RecipeShort{}, err
	}
	if exists {
		return domain.RecipeShort{}, rel.alreadyErr
	}

	if err := rel.create(ctx, userID, recipe.ID); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.RecipeShort{}, rel.alreadyErr
		}
		return domain.RecipeShort{}, err
	}
	return user.ToRecipeShort(recipe), nil
}

func (s *recipeService) removeRelation(
	ctx context.Context,
	requester domain.Requester,
	id string,
	remove func(ctx context.Context, userID, recipeID string) (int64, error),
	missingErr error,
) error {
	if !requester.IsAuthenticated() {
		return domain.ErrAuthRequired
	}

	recipe, err := s.getRecipe(ctx, id)
	if err != nil {
		return err
	}

	deleted, err := remove(ctx, requester.UserID, recipe.ID.String())
	if err != nil {
		return err
	}
	if deleted == 0 {
		return missingErr
	}
	return nil
}

// prepare validates a create/update request against the catalog before anything is written.
// image is nil when the request carries none.
func (s *recipeService) prepare(ctx context.Context, req domain.RecipeRequest) ([]*entities.Tag, []*entities.RecipeIngredient, []byte, error) {
	if req.CookingTime < 1 {
		return nil, nil, nil, domain.ErrInvalidCookingTime
	}
	if len(req.Ingredients) == 0 {
		return nil, nil, nil, domain.ErrNoIngredients
	}

	tagIDs := uniqueIDs(req.Tags)
	tags, err := s.catalogRepository.GetTagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(tags) != len(tagIDs) {
		return nil, nil, nil, domain.ErrUnknownTag
	}

	ingredientIDs := make([]string, 0, len(req.Ingredients))
	seen := make(map[string]bool, len(req.Ingredients))
	for _, item := range req.Ingredients {
		if item.Amount < 1 {
			return nil, nil, nil, domain.ErrInvalidAmount
		}
		id := strings.ToLower(item.ID)
		if seen[id] {
			return nil, nil, nil, domain.ErrDuplicateIngredient
		}
		seen[id] = true
		ingredientIDs = append(ingredientIDs, id)
	}

	found, err := s.catalogRepository.GetIngredientsByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(found) != len(ingredientIDs) {
		return nil, nil, nil, domain.ErrUnknownIngredient
	}

	ingredients := make([]*entities.RecipeIngredient, 0, len(req.Ingredients))
	for i, item := range req.Ingredients {
		id, err := uuid.Parse(ingredientIDs[i])
		if err != nil {
			return nil, nil, nil, domain.ErrUnknownIngredient
		}
		ingredients = append(ingredients, &entities.RecipeIngredient{IngredientID: id, Amount: item.Amount})
	}

	var image []byte
	if strings.TrimSpace(req.Image) != "" {
		image, err = decodeImage(req.Image)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	return tags, ingredients, image, nil
}

func (s *recipeService) upload(ctx context.Context, recipeID uuid.UUID, image []byte) (string, error) {
	fileName := recipeID.String() + "-" + uuid.NewString()[:8]
	key, err := s.s3.UploadFile(ctx, fileName, image, recipeImageFolder, storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return "", domain.ErrInvalidImageFormat
		}
		return "", err
	}
	return s.s3.GetPublicLinkKey(key), nil
}

// discard removes a stored image; failures only get logged.
func (s *recipeService) discard(ctx context.Context, imageURL string) {
	key := s.s3.GetObjectKeyFromLink(imageURL)
	if key == "" {
		return
	}
	if err := s.s3.DeleteFile(ctx, key); err != nil {
		utils.Log.WithError(err).WithField("key", key).Warn("failed to delete recipe image")
	}
}

func (s *recipeService) getRecipe(ctx context.Context, id string) (*entities.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return recipe, nil
}

func (s *recipeService) represent(ctx context.Context, requester domain.Requester, recipe *entities.Recipe) (domain.Recipe, error) {
	marks, err := s.marksFor(ctx, requester, []*entities.Recipe{recipe})
	if err != nil {
		return domain.Recipe{}, err
	}
	return marks.apply(recipe), nil
}

// marks holds the requester-specific flags of a batch of recipes.
type marks struct {
	favorited  map[string]bool
	inCart     map[string]bool
	subscribed map[string]bool
}

func (s *recipeService) marksFor(ctx context.Context, requester domain.Requester, recipes []*entities.Recipe) (marks, error) {
	m := marks{favorited: map[string]bool{}, inCart: map[string]bool{}, subscribed: map[string]bool{}}
	if !requester.IsAuthenticated() || len(recipes) == 0 {
		return m, nil
	}

	ids := make([]string, 0, len(recipes))
	for _, recipe := range recipes {
		ids = append(ids, recipe.ID.String())
	}

	var err error
	if m.favorited, err = s.recipeRepository.GetFavoritedIDs(ctx, requester.UserID, ids); err != nil {
		return m, err
	}
	if m.inCart, err = s.recipeRepository.GetShoppingCartIDs(ctx, requester.UserID, ids); err != nil {
		return m, err
	}
	if m.subscribed, err = s.userRepository.GetFollowedAuthorIDs(ctx, requester.UserID); err != nil {
		return m, err
	}
	return m, nil
}

func (m marks) apply(recipe *entities.Recipe) domain.Recipe {
	id := recipe.ID.String()

	tags := make([]domain.Tag, 0, len(recipe.Tags))
	for _, tag := range recipe.Tags {
		tags = append(tags, catalog.ToTag(tag))
	}

	ingredients := make([]domain.RecipeIngredient, 0, len(recipe.RecipeIngredients))
	for _, ri := range recipe.RecipeIngredients {
		item := domain.RecipeIngredient{ID: ri.IngredientID.String(), Amount: ri.Amount}
		if ri.Ingredient != nil {
			item.Name = ri.Ingredient.Name
			item.MeasurementUnit = ri.Ingredient.MeasurementUnit
		}
		ingredients = append(ingredients, item)
	}

	var author domain.User
	if recipe.Author != nil {
		author = user.ToUser(recipe.Author, m.subscribed[recipe.AuthorID.String()])
	}

	return domain.Recipe{
		ID:               id,
		Tags:             tags,
		Author:           author,
		Ingredients:      ingredients,
		IsFavorited:      m.favorited[id],
		IsInShoppingCart: m.inCart[id],
		Name:             recipe.Name,
		Image:            recipe.ImageURL,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	result := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToLower(id)
		if seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, id)
	}
	return result
}
