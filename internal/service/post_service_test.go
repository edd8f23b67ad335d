package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairowan/users-api/internal/domain"
	"github.com/kairowan/users-api/internal/store"
)

func TestListPostsByUser(t *testing.T) {
	svc := NewPostService(store.NewMemory())

	ps, err := svc.List(1)
	require.NoError(t, err)
	assert.Len(t, ps, 2)

	ps, err = svc.List(2)
	require.NoError(t, err)
	assert.Empty(t, ps)

	_, err = svc.List(42)
	assert.Equal(t, KindNotFound, kindOf(t, err))
	assert.Equal(t, "User with id 42 not found", err.Error())
}

func TestCreatePost(t *testing.T) {
	svc := NewPostService(store.NewMemory())

	p, err := svc.Create(2, domain.PostCreate{Title: "Hello", Content: strp("world")})
	require.NoError(t, err)
	assert.Equal(t, 3, p.ID)
	assert.Equal(t, 2, p.UserID)
	assert.Equal(t, p.CreatedAt, p.UpdatedAt)

	_, err = svc.Create(42, domain.PostCreate{Title: "x", Content: strp("y")})
	assert.Equal(t, KindNotFound, kindOf(t, err))
}

// 并发建帖与删用户：用户存在性与插入同锁，删除后不残留孤儿帖
func TestConcurrentCreatePostVsDeleteUser(t *testing.T) {
	mem := store.NewMemory()
	users := NewUserService(mem)
	posts := NewPostService(mem)

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n + 1)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, _ = posts.Create(1, domain.PostCreate{
				Title:   fmt.Sprintf("post %d", i),
				Content: strp("x"),
			})
		}(i)
	}
	go func() {
		defer wg.Done()
		_ = users.Delete(1)
	}()
	wg.Wait()

	_, err := users.Get(1)
	assert.Equal(t, KindNotFound, kindOf(t, err))
	assert.Empty(t, mem.ListPostsByUser(1))
}

func TestGetPostOwnershipHiddenAsNotFound(t *testing.T) {
	svc := NewPostService(store.NewMemory())

	p, err := svc.Get(1, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, p.UserID)

	// 帖子 1 属于用户 1：以用户 2 读取时按不存在处理
	_, err = svc.Get(2, 1)
	assert.Equal(t, KindNotFound, kindOf(t, err))
	assert.Equal(t, "Post 1 does not belong to user 2", err.Error())

	_, err = svc.Get(1, 42)
	assert.Equal(t, KindNotFound, kindOf(t, err))
	assert.Equal(t, "Post with id 42 not found", err.Error())
}

func TestMutatePostOwnershipIsForbidden(t *testing.T) {
	svc := NewPostService(store.NewMemory())

	_, err := svc.Update(2, 1, domain.PostUpdate{Title: strp("hijack")})
	assert.Equal(t, KindForbidden, kindOf(t, err))
	assert.Equal(t, "Post 1 does not belong to user 2", err.Error())

	err = svc.Delete(2, 1)
	assert.Equal(t, KindForbidden, kindOf(t, err))

	// 原帖未被动过
	p, err := svc.Get(1, 1)
	require.NoError(t, err)
	assert.Equal(t, "My First Post", p.Title)
}

func TestUpdatePostPartial(t *testing.T) {
	svc := NewPostService(store.NewMemory())

	p, err := svc.Update(1, 1, domain.PostUpdate{Title: strp("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Title)
	assert.Equal(t, "This is my first post content", p.Content)

	p, err = svc.Update(1, 1, domain.PostUpdate{Content: strp("")})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", p.Title)
	assert.Empty(t, p.Content)
}

func TestDeletePost(t *testing.T) {
	svc := NewPostService(store.NewMemory())

	require.NoError(t, svc.Delete(1, 1))

	_, err := svc.Get(1, 1)
	assert.Equal(t, KindNotFound, kindOf(t, err))

	err = svc.Delete(1, 42)
	assert.Equal(t, KindNotFound, kindOf(t, err))
	err = svc.Delete(42, 2)
	assert.Equal(t, KindNotFound, kindOf(t, err))
}
