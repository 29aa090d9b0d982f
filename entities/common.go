package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Timestamp struct {
	CreatedAt time.Time `gorm:"type:timestamp" json:"created_at"`
	UpdatedAt time.Time `gorm:"type:timestamp" json:"updated_at"`
}

// newID fills an empty primary key so rows can be created on every supported dialect,
// including the ones without uuid_generate_v4().
func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	newID(&u.ID)
	return nil
}

func (f *Follow) BeforeCreate(_ *gorm.DB) error {
	newID(&f.ID)
	return nil
}

func (i *Ingredient) BeforeCreate(_ *gorm.DB) error {
	newID(&i.ID)
	return nil
}

func (t *Tag) BeforeCreate(_ *gorm.DB) error {
	newID(&t.ID)
	return nil
}

func (r *Recipe) BeforeCreate(_ *gorm.DB) error {
	newID(&r.ID)
	return nil
}

func (ri *RecipeIngredient) BeforeCreate(_ *gorm.DB) error {
	newID(&ri.ID)
	return nil
}

func (f *FavoriteRecipe) BeforeCreate(_ *gorm.DB) error {
	newID(&f.ID)
	return nil
}

func (s *ShoppingCart) BeforeCreate(_ *gorm.DB) error {
	newID(&s.ID)
	return nil
}
