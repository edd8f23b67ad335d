package domain

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     *string   `json:"full_name"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserCreate 创建入参（字段校验走 binding）
type UserCreate struct {
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Email    string  `json:"email"    binding:"required,email"`
	FullName *string `json:"full_name"`
	Password string  `json:"password" binding:"required,min=6"`
}

// UserUpdate 部分更新：nil = 不改该字段
type UserUpdate struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Email    *string `json:"email"    binding:"omitempty,email"`
	FullName *string `json:"full_name"`
	Password *string `json:"password" binding:"omitempty,min=6"`
}
