package config

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"foodgram/entities"
	"foodgram/internal/testutil"
	"foodgram/internal/utils/mailing"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type nopStorage struct{}

func (nopStorage) UploadFile(_ context.Context, fileName string, _ []byte, folder string, _ ...string) (string, error) {
	return folder + "/" + fileName, nil
}

func (nopStorage) DeleteFile(context.Context, string) error { return nil }

func (nopStorage) GetPublicLinkKey(key string) string { return "https://media.test/" + key }

func (nopStorage) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://media.test/")
}

type recordingMailer struct {
	to []string
}

func (m *recordingMailer) SendMail(to, _, _ string, _ ...mailing.Attachment) error {
	m.to = append(m.to, to)
	return nil
}

type apiFixture struct {
	app    *fiber.App
	db     *gorm.DB
	jwt    jwt.JWTService
	mailer *recordingMailer
	alice  *entities.User
	bob    *entities.User
	soup   *entities.Recipe
	cake   *entities.Recipe
}

func newAPIFixture(t *testing.T) apiFixture {
	db := testutil.NewDB(t)
	jwtService := jwt.NewJWTServiceWithSecret("test-secret")
	mailer := &recordingMailer{}

	app, err := NewAppWithOptions(db, Options{
		S3:         nopStorage{},
		Mailer:     mailer,
		JWTService: jwtService,
		AccessLog:  io.Discard,
		RateLimit:  -1,
	})
	require.NoError(t, err)

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	lunch := testutil.CreateTag(t, db, "Обед", "#49B64E", "lunch")
	dessert := testutil.CreateTag(t, db, "Десерт", "#E26C2D", "dessert")
	salt := testutil.CreateIngredient(t, db, "Соль", "г")
	sugar := testutil.CreateIngredient(t, db, "Сахар", "г")

	soup := testutil.CreateRecipe(t, db, alice, "Суп", []*entities.Tag{lunch},
		testutil.IngredientAmount{Ingredient: salt, Amount: 5})
	cake := testutil.CreateRecipe(t, db, alice, "Торт", []*entities.Tag{lunch, dessert},
		testutil.IngredientAmount{Ingredient: sugar, Amount: 100},
		testutil.IngredientAmount{Ingredient: salt, Amount: 1})

	return apiFixture{app: app, db: db, jwt: jwtService, mailer: mailer, alice: alice, bob: bob, soup: soup, cake: cake}
}

func (f apiFixture) do(t *testing.T, method, path string, as *entities.User, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if as != nil {
		token, err := f.jwt.GenerateTokenUser(as.ID.String())
		require.NoError(t, err)
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decode(t *testing.T, resp *http.Response, data interface{}) envelope {
	t.Helper()
	defer resp.Body.Close()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

type recipePage struct {
	Recipes []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		IsFavorited bool   `json:"is_favorited"`
	} `json:"recipes"`
	Count int64 `json:"count"`
}

func TestPing(t *testing.T) {
	f := newAPIFixture(t)
	resp := f.do(t, http.MethodGet, "/api/ping", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	f.do(t, http.MethodGet, "/api/ping", nil, "")

	resp := f.do(t, http.MethodGet, "/metrics", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestListRecipesByRepeatedTags(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodGet, "/api/recipes?tags=lunch&tags=dessert", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var page recipePage
	decode(t, resp, &page)
	assert.EqualValues(t, 2, page.Count)
	require.Len(t, page.Recipes, 2)
	assert.Equal(t, "Торт", page.Recipes[0].Name)
	assert.Equal(t, "Суп", page.Recipes[1].Name)
}

func TestListRecipesFavoritesFilter(t *testing.T) {
	f := newAPIFixture(t)
	testutil.AddFavorite(t, f.db, f.bob, f.soup)

	var page recipePage
	decode(t, f.do(t, http.MethodGet, "/api/recipes?is_favorited=1", nil, ""), &page)
	assert.Empty(t, page.Recipes)

	decode(t, f.do(t, http.MethodGet, "/api/recipes?is_favorited=0", nil, ""), &page)
	assert.Len(t, page.Recipes, 2)

	decode(t, f.do(t, http.MethodGet, "/api/recipes?is_favorited=1", f.bob, ""), &page)
	require.Len(t, page.Recipes, 1)
	assert.Equal(t, f.soup.ID.String(), page.Recipes[0].ID)
	assert.True(t, page.Recipes[0].IsFavorited)

	resp := f.do(t, http.MethodGet, "/api/recipes?is_favorited=maybe", nil, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestDownloadShoppingCart(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", f.bob, "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	for _, recipe := range []*entities.Recipe{f.soup, f.cake} {
		resp = f.do(t, http.MethodPost, "/api/recipes/"+recipe.ID.String()+"/shopping_cart", f.bob, "")
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp = f.do(t, http.MethodGet, "/api/recipes/download_shopping_cart", f.bob, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), "text/plain"))
	assert.Equal(t, "attachment; filename=shopping_cart.txt", resp.Header.Get(fiber.HeaderContentDisposition))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Сахар (г) - 100\nСоль (г) - 6", string(body))
}

func TestSendShoppingCart(t *testing.T) {
	f := newAPIFixture(t)
	testutil.AddToCart(t, f.db, f.bob, f.soup)

	resp := f.do(t, http.MethodPost, "/api/recipes/send_shopping_cart", f.bob, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"bob@example.com"}, f.mailer.to)
}

func TestFavoriteLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	path := "/api/recipes/" + f.soup.ID.String() + "/favorite"

	resp := f.do(t, http.MethodPost, path, nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = f.do(t, http.MethodPost, path, f.bob, "")
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = f.do(t, http.MethodPost, path, f.bob, "")
	env := decode(t, resp, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "recipe is already in favorites", env.Error)

	resp = f.do(t, http.MethodDelete, path, f.bob, "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = f.do(t, http.MethodDelete, path, f.bob, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/recipes/00000000-0000-0000-0000-000000000000/favorite", f.bob, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestSubscribeEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/users/"+f.bob.ID.String()+"/subscribe", f.bob, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/users/"+f.alice.ID.String()+"/subscribe?recipes_limit=1", f.bob, "")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var sub struct {
		Username     string `json:"username"`
		IsSubscribed bool   `json:"is_subscribed"`
		Recipes      []struct {
			Name string `json:"name"`
		} `json:"recipes"`
		RecipesCount int64 `json:"recipes_count"`
	}
	decode(t, resp, &sub)
	assert.Equal(t, "alice", sub.Username)
	assert.True(t, sub.IsSubscribed)
	assert.Len(t, sub.Recipes, 1)
	assert.EqualValues(t, 2, sub.RecipesCount)

	resp = f.do(t, http.MethodGet, "/api/users/subscriptions", f.bob, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodDelete, "/api/users/"+f.alice.ID.String()+"/subscribe", f.bob, "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = f.do(t, http.MethodDelete, "/api/users/"+f.alice.ID.String()+"/subscribe", f.bob, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestOnlyAuthorMayPatchOrDelete(t *testing.T) {
	f := newAPIFixture(t)
	path := "/api/recipes/" + f.soup.ID.String()
	body := `{"tags":[],"ingredients":[{"id":"` + f.soup.RecipeIngredients[0].IngredientID.String() + `","amount":7}],` +
		`"name":"Суп 2","text":"Варить","cooking_time":20}`

	resp := f.do(t, http.MethodPatch, path, f.bob, body)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = f.do(t, http.MethodDelete, path, f.bob, "")
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = f.do(t, http.MethodPatch, path, f.alice, body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodDelete, path, f.alice, "")
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestCreateRecipeRejectsInvalidBody(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/recipes", f.alice, `{"name":"Каша","text":"x","cooking_time":0,"ingredients":[]}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/recipes", nil, `{}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestInvalidTokenIsRejected(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/recipes", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer not-a-token")
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestIngredientSearch(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodGet, "/api/ingredients?name=%D1%81%D0%B0", nil, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var ingredients []struct {
		Name string `json:"name"`
	}
	decode(t, resp, &ingredients)
	require.Len(t, ingredients, 1)
	assert.Equal(t, "Сахар", ingredients[0].Name)
}
