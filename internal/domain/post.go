package domain

import "time"

type Post struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostCreate content 用指针：必填但允许空串
type PostCreate struct {
	Title   string  `json:"title"   binding:"required,min=1,max=200"`
	Content *string `json:"content" binding:"required"`
}

type PostUpdate struct {
	Title   *string `json:"title" binding:"omitempty,min=1,max=200"`
	Content *string `json:"content"`
}
