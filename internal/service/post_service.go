package service

import (
	"errors"

	"github.com/kairowan/users-api/internal/domain"
	"github.com/kairowan/users-api/internal/store"
)

// PostService 所有操作先确认所属用户存在。
// 归属不匹配时读返回 NotFound、写返回 Forbidden —— 与现有对外行为保持一致，
// 是否统一待产品确认。
type PostService struct{ store *store.Memory }

func NewPostService(s *store.Memory) *PostService { return &PostService{store: s} }

func (s *PostService) requireUser(userID int) error {
	if _, err := s.store.GetUser(userID); errors.Is(err, store.ErrUserNotFound) {
		return NotFound("User with id %d not found", userID)
	}
	return nil
}

func (s *PostService) List(userID int) ([]domain.Post, error) {
	if err := s.requireUser(userID); err != nil {
		return nil, err
	}
	return s.store.ListPostsByUser(userID), nil
}

// Create 用户存在性由 store 在插入的同一次持锁内确认
func (s *PostService) Create(userID int, in domain.PostCreate) (domain.Post, error) {
	p, err := s.store.InsertPost(domain.Post{
		UserID:  userID,
		Title:   in.Title,
		Content: *in.Content,
	})
	if errors.Is(err, store.ErrUserNotFound) {
		return domain.Post{}, NotFound("User with id %d not found", userID)
	}
	return p, err
}

func (s *PostService) Get(userID, postID int) (domain.Post, error) {
	if err := s.requireUser(userID); err != nil {
		return domain.Post{}, err
	}
	p, err := s.store.GetPost(postID)
	if errors.Is(err, store.ErrPostNotFound) {
		return domain.Post{}, NotFound("Post with id %d not found", postID)
	}
	if p.UserID != userID {
		// 读路径不暴露跨用户存在性
		return domain.Post{}, NotFound("Post %d does not belong to user %d", postID, userID)
	}
	return p, nil
}

func (s *PostService) Update(userID, postID int, in domain.PostUpdate) (domain.Post, error) {
	if err := s.checkOwned(userID, postID); err != nil {
		return domain.Post{}, err
	}
	p, err := s.store.UpdatePost(postID, func(p *domain.Post) {
		if in.Title != nil {
			p.Title = *in.Title
		}
		if in.Content != nil {
			p.Content = *in.Content
		}
	})
	if errors.Is(err, store.ErrPostNotFound) {
		return domain.Post{}, NotFound("Post with id %d not found", postID)
	}
	return p, err
}

func (s *PostService) Delete(userID, postID int) error {
	if err := s.checkOwned(userID, postID); err != nil {
		return err
	}
	if err := s.store.DeletePost(postID); errors.Is(err, store.ErrPostNotFound) {
		return NotFound("Post with id %d not found", postID)
	}
	return nil
}

// checkOwned 写路径：帖子存在但属于别人时返回 Forbidden
func (s *PostService) checkOwned(userID, postID int) error {
	if err := s.requireUser(userID); err != nil {
		return err
	}
	p, err := s.store.GetPost(postID)
	if errors.Is(err, store.ErrPostNotFound) {
		return NotFound("Post with id %d not found", postID)
	}
	if p.UserID != userID {
		return Forbidden("Post %d does not belong to user %d", postID, userID)
	}
	return nil
}
