package domain

var (
	MessageSuccessGetUsers         = "success get users"
	MessageSuccessGetUser          = "success get user"
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessUnsubscribe      = "unsubscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"

	MessageFailedGetUsers         = "failed to get users"
	MessageFailedGetUser          = "failed to get user"
	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"

	ErrUserNotFound        = notFoundError("user not found")
	ErrEmailAlreadyExists  = validationError("user with this email already exists")
	ErrAlreadySubscribed   = validationError("subscription already exists")
	ErrSelfSubscription    = validationError("you cannot subscribe to yourself")
	ErrSubscriptionMissing = validationError("you were not subscribed to this user")
)

type (
	CreateUserRequest struct {
		Email     string `json:"email" validate:"required,email,max=254"`
		Username  string `json:"username" validate:"required,max=150"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8,max=150"`
	}

	User struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
	}

	Subscription struct {
		User
		Recipes      []RecipeShort `json:"recipes"`
		RecipesCount int64         `json:"recipes_count"`
	}
)
