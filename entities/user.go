package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	Email     string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username  string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	Password  string    `gorm:"size:150;not null" json:"-"`

	Recipes []*Recipe `gorm:"foreignKey:AuthorID"`
	Timestamp
}

// Follow is a directed subscription of UserID to AuthorID.
type Follow struct {
	ID       uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	UserID   uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_follow_user_author" json:"user_id"`
	AuthorID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_follow_user_author;index" json:"author_id"`

	User   *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Timestamp
}
