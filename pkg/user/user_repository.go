package user

import (
	"context"

	"foodgram/entities"

	"gorm.io/gorm"
)

type (
	UserRepository interface {
		CreateUser(ctx context.Context, user *entities.User) error
		GetUsers(ctx context.Context) ([]*entities.User, error)
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		CheckUserByEmail(ctx context.Context, email string) (bool, error)

		CreateFollow(ctx context.Context, follow *entities.Follow) error
		DeleteFollow(ctx context.Context, userID, authorID string) (int64, error)
		IsFollowing(ctx context.Context, userID, authorID string) (bool, error)
		GetFollowedAuthorIDs(ctx context.Context, userID string) (map[string]bool, error)
		GetFollowedAuthors(ctx context.Context, userID string) ([]*entities.User, error)

		GetAuthorRecipes(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, error)
		CountAuthorRecipes(ctx context.Context, authorID string) (int64, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetUsers(ctx context.Context) ([]*entities.User, error) {
	var users []*entities.User
	if err := r.db.WithContext(ctx).Order("username asc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CheckUserByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) CreateFollow(ctx context.Context, follow *entities.Follow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

func (r *userRepository) DeleteFollow(ctx context.Context, userID, authorID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&entities.Follow{})
	return result.RowsAffected, result.Error
}

func (r *userRepository) IsFollowing(ctx context.Context, userID, authorID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepository) GetFollowedAuthorIDs(ctx context.Context, userID string) (map[string]bool, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Where("user_id = ?", userID).
		Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}

	followed := make(map[string]bool, len(ids))
	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}

func (r *userRepository) GetFollowedAuthors(ctx context.Context, userID string) ([]*entities.User, error) {
	var authors []*entities.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN follows ON follows.author_id = users.id").
		Where("follows.user_id = ?", userID).
		Order("users.username asc").
		Find(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}

// GetAuthorRecipes returns the newest recipes of an author; limit < 0 means no limit.
func (r *userRepository) GetAuthorRecipes(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date desc").
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *userRepository) CountAuthorRecipes(ctx context.Context, authorID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entities.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
