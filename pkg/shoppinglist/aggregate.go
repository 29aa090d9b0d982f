// Package shoppinglist turns the recipes in a user's shopping cart into one flat,
// downloadable list of ingredients.
package shoppinglist

import (
	"fmt"
	"slices"
	"strings"

	"foodgram/domain"
)

// FileName is the attachment name of a rendered list.
const FileName = "shopping_cart.txt"

type groupKey struct {
	name string
	unit string
}

// BuildShoppingList groups lines by ingredient name and measurement unit and sums their
// amounts. Distinct ingredients sharing both name and unit collapse into one item. Items are
// ordered by name using byte-wise comparison, then by unit.
func BuildShoppingList(lines []domain.ShoppingListLine) []domain.ShoppingListItem {
	index := make(map[groupKey]int, len(lines))
	items := make([]domain.ShoppingListItem, 0, len(lines))

	for _, line := range lines {
		key := groupKey{name: line.Name, unit: line.MeasurementUnit}
		if i, ok := index[key]; ok {
			items[i].Amount += int64(line.Amount)
			continue
		}
		index[key] = len(items)
		items = append(items, domain.ShoppingListItem{
			Name:            line.Name,
			MeasurementUnit: line.MeasurementUnit,
			Amount:          int64(line.Amount),
		})
	}

	slices.SortFunc(items, func(a, b domain.ShoppingListItem) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.MeasurementUnit, b.MeasurementUnit)
	})
	return items
}

// RenderShoppingList writes one "<name> (<unit>) - <amount>" line per item, newline separated.
func RenderShoppingList(items []domain.ShoppingListItem) string {
	rendered := make([]string, 0, len(items))
	for _, item := range items {
		rendered = append(rendered, fmt.Sprintf("%s (%s) - %d", item.Name, item.MeasurementUnit, item.Amount))
	}
	return strings.Join(rendered, "\n")
}
