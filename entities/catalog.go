package entities

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ingredient struct {
	ID              uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	Name            string    `gorm:"size:200;not null;index" json:"name"`
	MeasurementUnit string    `gorm:"size:200;not null" json:"measurement_unit"`

	// SearchName is Name lowered in Go so prefix search folds non-ASCII letters on every dialect.
	SearchName string `gorm:"size:200;not null;index" json:"-"`
}

func (i *Ingredient) BeforeSave(_ *gorm.DB) error {
	i.SearchName = strings.ToLower(i.Name)
	return nil
}

type Tag struct {
	ID    uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	Name  string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Color string    `gorm:"size:7;uniqueIndex;not null" json:"color"`
	Slug  string    `gorm:"size:200;uniqueIndex;not null" json:"slug"`
}
