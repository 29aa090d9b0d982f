package domain

var (
	MessageSuccessGetRecipes          = "success get recipes"
	MessageSuccessGetRecipeDetail     = "success get recipe detail"
	MessageSuccessCreateRecipe        = "recipe created successfully"
	MessageSuccessUpdateRecipe        = "recipe updated successfully"
	MessageSuccessDeleteRecipe        = "recipe deleted successfully"
	MessageSuccessAddFavorite         = "recipe added to favorites"
	MessageSuccessRemoveFavorite      = "recipe removed from favorites"
	MessageSuccessAddShoppingCart     = "recipe added to shopping cart"
	MessageSuccessRemoveShoppingCart  = "recipe removed from shopping cart"
	MessageSuccessSendShoppingCart    = "shopping list sent"
	MessageFailedGetRecipes           = "failed to get recipes"
	MessageFailedGetRecipeDetail      = "failed to get recipe detail"
	MessageFailedCreateRecipe         = "failed to create recipe"
	MessageFailedUpdateRecipe         = "failed to update recipe"
	MessageFailedDeleteRecipe         = "failed to delete recipe"
	MessageFailedAddFavorite          = "failed to add recipe to favorites"
	MessageFailedRemoveFavorite       = "failed to remove recipe from favorites"
	MessageFailedAddShoppingCart      = "failed to add recipe to shopping cart"
	MessageFailedRemoveShoppingCart   = "failed to remove recipe from shopping cart"
	MessageFailedDownloadShoppingCart = "failed to download shopping list"
	MessageFailedSendShoppingCart     = "failed to send shopping list"
	MessageShoppingCartEmpty          = "shopping list is empty"

	DefaultRecipesPageSize = 6

	ErrRecipeNotFound           = notFoundError("recipe not found")
	ErrUnauthorizedRecipeAccess = forbiddenError("only the author can change this recipe")
	ErrInvalidCookingTime       = validationError("cooking time must be at least 1 minute")
	ErrInvalidAmount            = validationError("ingredient amount must be a positive number")
	ErrDuplicateIngredient      = validationError("ingredients must not repeat")
	ErrNoIngredients            = validationError("recipe must have at least one ingredient")
	ErrUnknownTag               = validationError("tag does not exist")
	ErrUnknownIngredient        = validationError("ingredient does not exist")
	ErrImageRequired            = validationError("image is required")
	ErrInvalidImageFormat       = validationError("invalid image encoding")
	ErrAlreadyFavorited         = validationError("recipe is already in favorites")
	ErrNotFavorited             = validationError("recipe is not in favorites")
	ErrAlreadyInShoppingCart    = validationError("recipe is already in shopping cart")
	ErrNotInShoppingCart        = validationError("recipe is not in shopping cart")
	ErrInvalidFilterValue       = validationError("boolean filters accept 0, 1, true or false")
	ErrShoppingCartEmpty        = &kindError{kind: ErrEmptyResult, msg: MessageShoppingCartEmpty}
)

// Operation is the kind of access requested on a recipe.
type Operation int

const (
	OperationRead Operation = iota
	OperationCreate
	OperationUpdate
	OperationDelete
)

type (
	// RecipeFilter holds the listing query. Nil booleans mean the parameter was absent.
	RecipeFilter struct {
		Tags             []string
		AuthorID         string
		IsFavorited      *bool
		IsInShoppingCart *bool
	}

	RecipeIngredientRequest struct {
		ID     string `json:"id" validate:"required,uuid"`
		Amount int    `json:"amount" validate:"required,min=1"`
	}

	// RecipeRequest is the body of both create and update; update replaces tags and
	// ingredients wholesale and keeps the stored image when Image is empty.
	RecipeRequest struct {
		Tags        []string                  `json:"tags" validate:"dive,uuid"`
		Ingredients []RecipeIngredientRequest `json:"ingredients" validate:"required,min=1,dive"`
		Name        string                    `json:"name" validate:"required,max=200"`
		Image       string                    `json:"image"`
		Text        string                    `json:"text" validate:"required"`
		CookingTime int                       `json:"cooking_time" validate:"required,min=1"`
	}

	RecipeIngredient struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int    `json:"amount"`
	}

	Recipe struct {
		ID               string             `json:"id"`
		Tags             []Tag              `json:"tags"`
		Author           User               `json:"author"`
		Ingredients      []RecipeIngredient `json:"ingredients"`
		IsFavorited      bool               `json:"is_favorited"`
		IsInShoppingCart bool               `json:"is_in_shopping_cart"`
		Name             string             `json:"name"`
		Image            string             `json:"image"`
		Text             string             `json:"text"`
		CookingTime      int                `json:"cooking_time"`
	}

	RecipeShort struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Image       string `json:"image"`
		CookingTime int    `json:"cooking_time"`
	}

	// ShoppingListLine is one ingredient row of a cart recipe before grouping.
	ShoppingListLine struct {
		Name            string
		MeasurementUnit string
		Amount          int
	}

	ShoppingListItem struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
		Amount          int64  `json:"amount"`
	}
)
