package user

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		CreateUser(ctx context.Context, req domain.CreateUserRequest) (domain.User, error)
		GetUsers(ctx context.Context, requester domain.Requester) ([]domain.User, error)
		GetUser(ctx context.Context, requester domain.Requester, id string) (domain.User, error)
		Me(ctx context.Context, requester domain.Requester) (domain.User, error)
		Subscribe(ctx context.Context, requester domain.Requester, authorID string, recipesLimit int) (domain.Subscription, error)
		Unsubscribe(ctx context.Context, requester domain.Requester, authorID string) error
		GetSubscriptions(ctx context.Context, requester domain.Requester, recipesLimit int) ([]domain.Subscription, error)
	}

	userService struct {
		userRepository UserRepository
	}
)

func NewUserService(userRepository UserRepository) UserService {
	return &userService{
		userRepository: userRepository,
	}
}

func ToUser(user *entities.User, isSubscribed bool) domain.User {
	return domain.User{
		ID:           user.ID.String(),
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

func ToRecipeShort(recipe *entities.Recipe) domain.RecipeShort {
	return domain.RecipeShort{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}

func (s *userService) CreateUser(ctx context.Context, req domain.CreateUserRequest) (domain.User, error) {
	exists, err := s.userRepository.CheckUserByEmail(ctx, req.Email)
	if err != nil {
		return domain.User{}, err
	}
	if exists {
		return domain.User{}, domain.ErrEmailAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}

	user := &entities.User{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  string(hashed),
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.User{}, domain.ErrEmailAlreadyExists
		}
		return domain.User{}, err
	}
	return ToUser(user, false), nil
}

func (s *userService) GetUsers(ctx context.Context, requester domain.Requester) ([]domain.User, error) {
	users, err := s.userRepository.GetUsers(ctx)
	if err != nil {
		return nil, err
	}

	followed, err := s.followedBy(ctx, requester)
	if err != nil {
		return nil, err
	}

	result := make([]domain.User, 0, len(users))
	for _, user := range users {
		result = append(result, ToUser(user, followed[user.ID.String()]))
	}
	return result, nil
}

func (s *userService) GetUser(ctx context.Context, requester domain.Requester, id string) (domain.User, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return domain.User{}, err
	}

	isSubscribed := false
	if requester.IsAuthenticated() {
		isSubscribed, err = s.userRepository.IsFollowing(ctx, requester.UserID, id)
		if err != nil {
			return domain.User{}, err
		}
	}
	return ToUser(user, isSubscribed), nil
}

func (s *userService) Me(ctx context.Context, requester domain.Requester) (domain.User, error) {
	if !requester.IsAuthenticated() {
		return domain.User{}, domain.ErrAuthRequired
	}
	user, err := s.getUser(ctx, requester.UserID)
	if err != nil {
		return domain.User{}, err
	}
	return ToUser(user, false), nil
}

func (s *userService) Subscribe(ctx context.Context, requester domain.Requester, authorID string, recipesLimit int) (domain.Subscription, error) {
	if !requester.IsAuthenticated() {
		return domain.Subscription{}, domain.ErrAuthRequired
	}

	author, err := s.getUser(ctx, authorID)
	if err != nil {
		return domain.Subscription{}, err
	}
	if author.ID.String() == requester.UserID {
		return domain.Subscription{}, domain.ErrSelfSubscription
	}

	following, err := s.userRepository.IsFollowing(ctx, requester.UserID, authorID)
	if err != nil {
		return domain.Subscription{}, err
	}
	if following {
		return domain.Subscription{}, domain.ErrAlreadySubscribed
	}

	user, err := s.getUser(ctx, requester.UserID)
	if err != nil {
		return domain.Subscription{}, err
	}

	follow := &entities.Follow{UserID: user.ID, AuthorID: author.ID}
	if err := s.userRepository.CreateFollow(ctx, follow); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.Subscription{}, domain.ErrAlreadySubscribed
		}
		return domain.Subscription{}, err
	}

	utils.Log.WithFields(map[string]interface{}{
		"user_id":   requester.UserID,
		"author_id": authorID,
	}).Info("subscribed")

	return s.subscription(ctx, author, recipesLimit)
}

func (s *userService) Unsubscribe(ctx context.Context, requester domain.Requester, authorID string) error {
	if !requester.IsAuthenticated() {
		return domain.ErrAuthRequired
	}

	if _, err := s.getUser(ctx, authorID); err != nil {
		return err
	}

	deleted, err := s.userRepository.DeleteFollow(ctx, requester.UserID, authorID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return domain.ErrSubscriptionMissing
	}
	return nil
}

func (s *userService) GetSubscriptions(ctx context.Context, requester domain.Requester, recipesLimit int) ([]domain.Subscription, error) {
	if !requester.IsAuthenticated() {
		return nil, domain.ErrAuthRequired
	}

	authors, err := s.userRepository.GetFollowedAuthors(ctx, requester.UserID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Subscription, 0, len(authors))
	for _, author := range authors {
		sub, err := s.subscription(ctx, author, recipesLimit)
		if err != nil {
			return nil, err
		}
		result = append(result, sub)
	}
	return result, nil
}

// subscription renders a followed author. recipesLimit < 0 returns every recipe.
func (s *userService) subscription(ctx context.Context, author *entities.User, recipesLimit int) (domain.Subscription, error) {
	authorID := author.ID.String()

	recipes, err := s.userRepository.GetAuthorRecipes(ctx, authorID, recipesLimit)
	if err != nil {
		return domain.Subscription{}, err
	}
	count, err := s.userRepository.CountAuthorRecipes(ctx, authorID)
	if err != nil {
		return domain.Subscription{}, err
	}

	shorts := make([]domain.RecipeShort, 0, len(recipes))
	for _, recipe := range recipes {
		shorts = append(shorts, ToRecipeShort(recipe))
	}

	return domain.Subscription{
		User:         ToUser(author, true),
		Recipes:      shorts,
		RecipesCount: count,
	}, nil
}

func (s *userService) getUser(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) followedBy(ctx context.Context, requester domain.Requester) (map[string]bool, error) {
	if !requester.IsAuthenticated() {
		return map[string]bool{}, nil
	}
	return s.userRepository.GetFollowedAuthorIDs(ctx, requester.UserID)
}
