package models

import "time"

type Todo struct {
	ID        string    `gorm:"column:id;type:text;primaryKey" json:"id"` // uuid v4
	UserID    string    `gorm:"column:user_id;type:text;not null;index" json:"userId"`
	Title     string    `gorm:"column:title;type:text;not null" json:"title"`
	Completed bool      `gorm:"column:completed;not null;default:false" json:"completed"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"createdAt"`
}

func (Todo) TableName() string { return "todos" }
