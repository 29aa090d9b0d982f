package shoppinglist

import (
	"context"
	"errors"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"
	"foodgram/internal/utils/mailing"
	"foodgram/pkg/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type sentMail struct {
	to          string
	subject     string
	attachments []mailing.Attachment
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (m *fakeMailer) SendMail(to, subject, _ string, attachments ...mailing.Attachment) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, attachments: attachments})
	return nil
}

type cartFixture struct {
	db     *gorm.DB
	svc    ShoppingListService
	mailer *fakeMailer
	buyer  *entities.User
}

// newCartFixture puts two recipes sharing "Соль (г)" through different ingredient rows
// into the buyer's cart, plus a third recipe that stays out of it.
func newCartFixture(t *testing.T) cartFixture {
	db := testutil.NewDB(t)
	author := testutil.CreateUser(t, db, "author")
	buyer := testutil.CreateUser(t, db, "buyer")

	salt := testutil.CreateIngredient(t, db, "Соль", "г")
	saltAgain := testutil.CreateIngredient(t, db, "Соль", "г")
	apple := testutil.CreateIngredient(t, db, "Яблоко", "шт")
	banana := testutil.CreateIngredient(t, db, "Банан", "шт")

	pie := testutil.CreateRecipe(t, db, author, "Шарлотка", nil,
		testutil.IngredientAmount{Ingredient: apple, Amount: 4},
		testutil.IngredientAmount{Ingredient: salt, Amount: 5},
	)
	smoothie := testutil.CreateRecipe(t, db, author, "Смузи", nil,
		testutil.IngredientAmount{Ingredient: banana, Amount: 2},
		testutil.IngredientAmount{Ingredient: saltAgain, Amount: 3},
	)
	testutil.CreateRecipe(t, db, author, "Компот", nil,
		testutil.IngredientAmount{Ingredient: apple, Amount: 10},
	)

	testutil.AddToCart(t, db, buyer, pie)
	testutil.AddToCart(t, db, buyer, smoothie)

	mailer := &fakeMailer{}
	return cartFixture{
		db:     db,
		svc:    NewShoppingListService(NewShoppingListRepository(db), user.NewUserRepository(db), mailer),
		mailer: mailer,
		buyer:  buyer,
	}
}

func TestDownload(t *testing.T) {
	f := newCartFixture(t)
	buyer := domain.AuthenticatedAs(f.buyer.ID.String())

	content, err := f.svc.Download(context.Background(), buyer)
	require.NoError(t, err)
	assert.Equal(t, "Банан (шт) - 2\nСоль (г) - 8\nЯблоко (шт) - 4", string(content))

	again, err := f.svc.Download(context.Background(), buyer)
	require.NoError(t, err)
	assert.Equal(t, content, again)
}

func TestDownloadEmptyCart(t *testing.T) {
	f := newCartFixture(t)
	nobody := testutil.CreateUser(t, f.db, "nobody")

	content, err := f.svc.Download(context.Background(), domain.AuthenticatedAs(nobody.ID.String()))
	assert.ErrorIs(t, err, domain.ErrShoppingCartEmpty)
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
	assert.Nil(t, content)
}

func TestDownloadRequiresAuthentication(t *testing.T) {
	f := newCartFixture(t)

	_, err := f.svc.Download(context.Background(), domain.Anonymous())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestSend(t *testing.T) {
	f := newCartFixture(t)

	require.NoError(t, f.svc.Send(context.Background(), domain.AuthenticatedAs(f.buyer.ID.String())))
	require.Len(t, f.mailer.sent, 1)

	mail := f.mailer.sent[0]
	assert.Equal(t, "buyer@example.com", mail.to)
	require.Len(t, mail.attachments, 1)
	assert.Equal(t, FileName, mail.attachments[0].FileName)
	assert.Contains(t, string(mail.attachments[0].Content), "Соль (г) - 8")
}

func TestSendEmptyCartSendsNothing(t *testing.T) {
	f := newCartFixture(t)
	nobody := testutil.CreateUser(t, f.db, "nobody")

	err := f.svc.Send(context.Background(), domain.AuthenticatedAs(nobody.ID.String()))
	assert.ErrorIs(t, err, domain.ErrShoppingCartEmpty)
	assert.Empty(t, f.mailer.sent)
}

func TestSendPropagatesMailerFailure(t *testing.T) {
	f := newCartFixture(t)
	f.mailer.err = errors.New("smtp down")

	err := f.svc.Send(context.Background(), domain.AuthenticatedAs(f.buyer.ID.String()))
	assert.EqualError(t, err, "smtp down")
}
