package user

import (
	"context"
	"testing"

	"foodgram/domain"
	"foodgram/entities"
	"foodgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSubscribe(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	testutil.CreateRecipe(t, db, bob, "Борщ", nil)
	testutil.CreateRecipe(t, db, bob, "Пельмени", nil)
	testutil.CreateRecipe(t, db, bob, "Блины", nil)

	svc := NewUserService(NewUserRepository(db))
	ctx := context.Background()
	me := domain.AuthenticatedAs(alice.ID.String())

	sub, err := svc.Subscribe(ctx, me, bob.ID.String(), 2)
	require.NoError(t, err)
	assert.Equal(t, "bob", sub.Username)
	assert.True(t, sub.IsSubscribed)
	assert.EqualValues(t, 3, sub.RecipesCount)
	require.Len(t, sub.Recipes, 2)
	assert.Equal(t, "Блины", sub.Recipes[0].Name)

	_, err = svc.Subscribe(ctx, me, bob.ID.String(), 2)
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)
	assert.ErrorIs(t, err, domain.ErrValidation)

	user, err := svc.GetUser(ctx, me, bob.ID.String())
	require.NoError(t, err)
	assert.True(t, user.IsSubscribed)
}

func TestSubscribeToSelfIsRejected(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	svc := NewUserService(NewUserRepository(db))

	_, err := svc.Subscribe(context.Background(), domain.AuthenticatedAs(alice.ID.String()), alice.ID.String(), 3)
	assert.ErrorIs(t, err, domain.ErrSelfSubscription)

	var count int64
	db.Model(&entities.Follow{}).Count(&count)
	assert.Zero(t, count)
}

func TestSubscribeRequiresAuthAndExistingAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	svc := NewUserService(NewUserRepository(db))

	_, err := svc.Subscribe(context.Background(), domain.Anonymous(), bob.ID.String(), 3)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.Subscribe(context.Background(), domain.AuthenticatedAs(alice.ID.String()), "00000000-0000-0000-0000-000000000000", 3)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDuplicateFollowRowIsReportedAsAlreadySubscribed(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	repo := NewUserRepository(db)

	require.NoError(t, repo.CreateFollow(context.Background(), &entities.Follow{UserID: alice.ID, AuthorID: bob.ID}))

	svc := &userService{userRepository: racingRepository{UserRepository: repo}}
	_, err := svc.Subscribe(context.Background(), domain.AuthenticatedAs(alice.ID.String()), bob.ID.String(), 3)
	assert.ErrorIs(t, err, domain.ErrAlreadySubscribed)
}

// racingRepository hides existing follows from the pre-check so the unique index is hit.
type racingRepository struct {
	UserRepository
}

func (racingRepository) IsFollowing(context.Context, string, string) (bool, error) {
	return false, nil
}

func TestUnsubscribe(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	svc := NewUserService(NewUserRepository(db))
	ctx := context.Background()
	me := domain.AuthenticatedAs(alice.ID.String())

	err := svc.Unsubscribe(ctx, me, bob.ID.String())
	assert.ErrorIs(t, err, domain.ErrSubscriptionMissing)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Subscribe(ctx, me, bob.ID.String(), 3)
	require.NoError(t, err)
	require.NoError(t, svc.Unsubscribe(ctx, me, bob.ID.String()))

	subs, err := svc.GetSubscriptions(ctx, me, 3)
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestGetSubscriptionsWithoutLimit(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	for _, name := range []string{"a", "b", "c", "d"} {
		testutil.CreateRecipe(t, db, carol, name, nil)
	}

	svc := NewUserService(NewUserRepository(db))
	ctx := context.Background()
	me := domain.AuthenticatedAs(alice.ID.String())
	_, err := svc.Subscribe(ctx, me, bob.ID.String(), 3)
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, me, carol.ID.String(), 3)
	require.NoError(t, err)

	subs, err := svc.GetSubscriptions(ctx, me, -1)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "bob", subs[0].Username)
	assert.Empty(t, subs[0].Recipes)
	assert.Len(t, subs[1].Recipes, 4)
	assert.EqualValues(t, 4, subs[1].RecipesCount)
}

func TestGetUsersMarksSubscriptions(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	svc := NewUserService(NewUserRepository(db))
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, domain.AuthenticatedAs(alice.ID.String()), bob.ID.String(), 3)
	require.NoError(t, err)

	users, err := svc.GetUsers(ctx, domain.AuthenticatedAs(alice.ID.String()))
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.False(t, users[0].IsSubscribed)
	assert.True(t, users[1].IsSubscribed)

	users, err = svc.GetUsers(ctx, domain.Anonymous())
	require.NoError(t, err)
	for _, u := range users {
		assert.False(t, u.IsSubscribed)
	}
}

func TestMe(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	svc := NewUserService(NewUserRepository(db))

	me, err := svc.Me(context.Background(), domain.AuthenticatedAs(alice.ID.String()))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", me.Email)

	_, err = svc.Me(context.Background(), domain.Anonymous())
	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestCreateUserHashesPassword(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewUserService(NewUserRepository(db))
	req := domain.CreateUserRequest{
		Email:     "chef@example.com",
		Username:  "chef",
		FirstName: "Gordon",
		LastName:  "Ramsay",
		Password:  "very-secret",
	}

	created, err := svc.CreateUser(context.Background(), req)
	require.NoError(t, err)

	var stored entities.User
	require.NoError(t, db.Where("id = ?", created.ID).First(&stored).Error)
	assert.NotEqual(t, req.Password, stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(req.Password)))

	_, err = svc.CreateUser(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}
