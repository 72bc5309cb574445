package entities

import "time"

// ReadingList is a named, user-owned collection of books.
// The (UserID, Name) pair is unique.
type ReadingList struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	UserID    uint              `gorm:"uniqueIndex:idx_reading_lists_user_name;not null" json:"user"`
	Name      string            `gorm:"uniqueIndex:idx_reading_lists_user_name;size:255;not null" json:"name"`
	Items     []ReadingListItem `gorm:"foreignKey:ReadingListID" json:"-"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ReadingListItem is a book's membership in a reading list.
// Order is persisted as "position" since ORDER is a reserved word.
type ReadingListItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReadingListID uint      `gorm:"uniqueIndex:idx_reading_list_items_list_book;not null" json:"reading_list"`
	BookID        uint      `gorm:"uniqueIndex:idx_reading_list_items_list_book;index;not null" json:"book_id"`
	Order         int       `gorm:"column:position;not null;default:0" json:"order"`
	Book          Book      `gorm:"foreignKey:BookID" json:"book"`
	AddedAt       time.Time `gorm:"autoCreateTime" json:"added_at"`
}

func (ReadingList) TableName() string {
	return "reading_lists"
}

func (ReadingListItem) TableName() string {
	return "reading_list_items"
}
