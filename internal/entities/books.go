package entities

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:150" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:255" json:"email"`
	FirstName    string    `gorm:"size:150" json:"first_name"`
	LastName     string    `gorm:"size:150" json:"last_name"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Book is a catalogue record. Reading lists reference books by id but never own them.
type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"index;size:255" json:"title"`
	Authors         string    `gorm:"index;size:255" json:"authors"`
	Genre           string    `gorm:"size:100" json:"genre"`
	PublicationDate time.Time `gorm:"type:date" json:"publication_date"`
	Description     *string   `gorm:"type:text" json:"description"`
	CreatedBy       *uint     `gorm:"index" json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsCreatedBy reports whether userID is the recorded creator of the book.
func (b *Book) IsCreatedBy(userID uint) bool {
	return b.CreatedBy != nil && *b.CreatedBy == userID
}

func (User) TableName() string {
	return "users"
}

func (Book) TableName() string {
	return "books"
}
