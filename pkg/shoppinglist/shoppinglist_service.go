package shoppinglist

import (
	"context"
	"errors"

	"foodgram/domain"
	"foodgram/internal/utils"
	"foodgram/internal/utils/mailing"
	"foodgram/pkg/user"

	"gorm.io/gorm"
)

const mailSubject = "Foodgram shopping list"

type (
	ShoppingListService interface {
		GetShoppingList(ctx context.Context, requester domain.Requester) ([]domain.ShoppingListItem, error)
		Download(ctx context.Context, requester domain.Requester) ([]byte, error)
		Send(ctx context.Context, requester domain.Requester) error
	}

	shoppingListService struct {
		shoppingListRepository ShoppingListRepository
		userRepository         user.UserRepository
		mailer                 mailing.Mailer
	}
)

func NewShoppingListService(
	shoppingListRepository ShoppingListRepository,
	userRepository user.UserRepository,
	mailer mailing.Mailer,
) ShoppingListService {
	return &shoppingListService{
		shoppingListRepository: shoppingListRepository,
		userRepository:         userRepository,
		mailer:                 mailer,
	}
}

// GetShoppingList aggregates the requester's cart. An empty cart yields ErrShoppingCartEmpty.
func (s *shoppingListService) GetShoppingList(ctx context.Context, requester domain.Requester) ([]domain.ShoppingListItem, error) {
	if !requester.IsAuthenticated() {
		return nil, domain.ErrAuthRequired
	}

	count, err := s.shoppingListRepository.CountCartRecipes(ctx, requester.UserID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, domain.ErrShoppingCartEmpty
	}

	lines, err := s.shoppingListRepository.GetCartLines(ctx, requester.UserID)
	if err != nil {
		return nil, err
	}
	items := BuildShoppingList(lines)
	if len(items) == 0 {
		return nil, domain.ErrShoppingCartEmpty
	}
	return items, nil
}

func (s *shoppingListService) Download(ctx context.Context, requester domain.Requester) ([]byte, error) {
	items, err := s.GetShoppingList(ctx, requester)
	if err != nil {
		return nil, err
	}
	return []byte(RenderShoppingList(items)), nil
}

// Send mails the rendered list to the requester as a FileName attachment.
func (s *shoppingListService) Send(ctx context.Context, requester domain.Requester) error {
	content, err := s.Download(ctx, requester)
	if err != nil {
		return err
	}

	recipient, err := s.userRepository.GetUserByID(ctx, requester.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	body := "Hi " + recipient.FirstName + ",\n\nyour shopping list is attached."
	if err := s.mailer.SendMail(recipient.Email, mailSubject, body, mailing.Attachment{
		FileName: FileName,
		Content:  content,
	}); err != nil {
		utils.Log.WithError(err).WithField("user_id", requester.UserID).Error("failed to send shopping list")
		return err
	}
	return nil
}
