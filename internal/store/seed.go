package store

import (
	"time"

	"github.com/kairowan/users-api/internal/domain"
	"github.com/kairowan/users-api/pkg/utils"
)

func strPtr(s string) *string { return &s }

// seedLocked 演示数据；调用方需已持锁
func (m *Memory) seedLocked() {
	now := time.Now()

	m.users[1] = &domain.User{
		ID:           1,
		Username:     "johndoe",
		Email:        "john@example.com",
		FullName:     strPtr("John Doe"),
		PasswordHash: utils.HashPassword("password123"),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[2] = &domain.User{
		ID:           2,
		Username:     "janedoe",
		Email:        "jane@example.com",
		FullName:     strPtr("Jane Doe"),
		PasswordHash: utils.HashPassword("password456"),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.userSeq = 3

	m.posts[1] = &domain.Post{
		ID:        1,
		UserID:    1,
		Title:     "My First Post",
		Content:   "This is my first post content",
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.posts[2] = &domain.Post{
		ID:        2,
		UserID:    1,
		Title:     "Another Post",
		Content:   "More content here",
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.postSeq = 3
}
