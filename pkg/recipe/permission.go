package recipe

import (
	"foodgram/domain"
	"foodgram/entities"
)

// CheckAccess decides whether requester may perform op. Reads are open to everyone,
// creation needs a signed-in requester, and update or delete is reserved to the author
// of recipe.
func CheckAccess(op domain.Operation, requester domain.Requester, recipe *entities.Recipe) error {
	if op == domain.OperationRead {
		return nil
	}
	if !requester.IsAuthenticated() {
		return domain.ErrAuthRequired
	}
	if op == domain.OperationCreate {
		return nil
	}
	if recipe == nil || recipe.AuthorID.String() != requester.UserID {
		return domain.ErrUnauthorizedRecipeAccess
	}
	return nil
}
