package domain

import "time"

type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	UserID    string    `gorm:"type:varchar(32);not null;index" json:"-"`
	CreatedAt time.Time `json:"-"`
}

func (Tag) TableName() string { return "tags" }

func (t Tag) String() string { return t.Name }
