package service

import (
	"errors"

	"github.com/kairowan/users-api/internal/domain"
	"github.com/kairowan/users-api/internal/store"
	"github.com/kairowan/users-api/pkg/utils"
)

type UserService struct{ store *store.Memory }

func NewUserService(s *store.Memory) *UserService { return &UserService{store: s} }

func (s *UserService) List(skip, limit int) []domain.User {
	return s.store.ListUsers(skip, limit)
}

func (s *UserService) Get(id int) (domain.User, error) {
	u, err := s.store.GetUser(id)
	if errors.Is(err, store.ErrUserNotFound) {
		return domain.User{}, NotFound("User with id %d not found", id)
	}
	return u, err
}

// Create 用户名/邮箱全局唯一，检查和写入由 store 在一次持锁内完成；
// bcrypt 在进临界区之前算好，密码只存变换后的形式
func (s *UserService) Create(in domain.UserCreate) (domain.User, error) {
	u, err := s.store.InsertUser(domain.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: utils.HashPassword(in.Password),
		IsActive:     true,
	})
	switch {
	case errors.Is(err, store.ErrDuplicateUsername):
		return domain.User{}, Conflict("Username already registered")
	case errors.Is(err, store.ErrDuplicateEmail):
		return domain.User{}, Conflict("Email already registered")
	}
	return u, err
}

// Update 只动 payload 里出现的字段；唯一性由 store 在提交前校验（排除自身）
func (s *UserService) Update(id int, in domain.UserUpdate) (domain.User, error) {
	var hash string
	if in.Password != nil {
		hash = utils.HashPassword(*in.Password)
	}
	u, err := s.store.UpdateUser(id, func(u *domain.User) {
		if in.Username != nil {
			u.Username = *in.Username
		}
		if in.Email != nil {
			u.Email = *in.Email
		}
		if in.FullName != nil {
			u.FullName = in.FullName
		}
		if in.Password != nil {
			u.PasswordHash = hash
		}
	})
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		return domain.User{}, NotFound("User with id %d not found", id)
	case errors.Is(err, store.ErrDuplicateUsername):
		return domain.User{}, Conflict("Username already taken")
	case errors.Is(err, store.ErrDuplicateEmail):
		return domain.User{}, Conflict("Email already taken")
	}
	return u, err
}

// Delete 连带删除该用户的所有帖子
func (s *UserService) Delete(id int) error {
	if err := s.store.DeleteUser(id); errors.Is(err, store.ErrUserNotFound) {
		return NotFound("User with id %d not found", id)
	}
	return nil
}
