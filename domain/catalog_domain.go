package domain

var (
	MessageSuccessGetTags        = "success get tags"
	MessageSuccessGetTag         = "success get tag"
	MessageSuccessGetIngredients = "success get ingredients"
	MessageSuccessGetIngredient  = "success get ingredient"

	MessageFailedGetTags        = "failed to get tags"
	MessageFailedGetTag         = "failed to get tag"
	MessageFailedGetIngredients = "failed to get ingredients"
	MessageFailedGetIngredient  = "failed to get ingredient"

	ErrTagNotFound               = notFoundError("tag not found")
	ErrIngredientNotFound        = notFoundError("ingredient not found")
	ErrIngredientsAlreadyLoaded  = validationError("ingredients are already loaded")
	ErrInvalidIngredientsDataset = validationError("invalid ingredients dataset")
)

type (
	Tag struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Color string `json:"color"`
		Slug  string `json:"slug"`
	}

	Ingredient struct {
		ID              string `json:"id"`
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	}
)
