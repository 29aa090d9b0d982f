package catalog

import (
	"context"
	"strings"
	"testing"

	"foodgram/domain"
	"foodgram/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetIngredientsPrefixSearch(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateIngredient(t, db, "Молоко", "мл")
	testutil.CreateIngredient(t, db, "молочный шоколад", "г")
	testutil.CreateIngredient(t, db, "Кисломолочный сыр", "г")
	testutil.CreateIngredient(t, db, "Соль", "г")

	svc := NewCatalogService(NewCatalogRepository(db))

	found, err := svc.GetIngredients(context.Background(), "мол")
	require.NoError(t, err)

	names := make([]string, 0, len(found))
	for _, i := range found {
		names = append(names, i.Name)
	}
	assert.ElementsMatch(t, []string{"Молоко", "молочный шоколад"}, names)

	all, err := svc.GetIngredients(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestGetIngredientsWildcardsMatchLiterally(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.CreateIngredient(t, db, "Сахар", "г")
	testutil.CreateIngredient(t, db, "100% сок", "мл")

	svc := NewCatalogService(NewCatalogRepository(db))

	found, err := svc.GetIngredients(context.Background(), "%")
	require.NoError(t, err)
	assert.Empty(t, found)

	found, err = svc.GetIngredients(context.Background(), "100%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "100% сок", found[0].Name)
}

func TestGetTagAndIngredientNotFound(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCatalogService(NewCatalogRepository(db))

	_, err := svc.GetTag(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetIngredient(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
}

func TestGetTags(t *testing.T) {
	db := testutil.NewDB(t)
	lunch := testutil.CreateTag(t, db, "Обед", "#00FF00", "lunch")
	testutil.CreateTag(t, db, "Завтрак", "#FF0000", "breakfast")

	svc := NewCatalogService(NewCatalogRepository(db))

	tags, err := svc.GetTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 2)

	tag, err := svc.GetTag(context.Background(), lunch.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "lunch", tag.Slug)
	assert.Equal(t, "#00FF00", tag.Color)
}

func TestLoadIngredients(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCatalogService(NewCatalogRepository(db))

	n, err := svc.LoadIngredients(context.Background(), strings.NewReader("абрикосовое варенье,г\nабрикосы, шт\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	found, err := svc.GetIngredients(context.Background(), "абрикосы")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "шт", found[0].MeasurementUnit)

	_, err = svc.LoadIngredients(context.Background(), strings.NewReader("соль,г\n"))
	assert.ErrorIs(t, err, domain.ErrIngredientsAlreadyLoaded)
}

func TestLoadIngredientsRejectsMalformedRows(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewCatalogService(NewCatalogRepository(db))

	_, err := svc.LoadIngredients(context.Background(), strings.NewReader("соль,г\nперец\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidIngredientsDataset)

	_, err = svc.LoadIngredients(context.Background(), strings.NewReader("соль,\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidIngredientsDataset)
}
