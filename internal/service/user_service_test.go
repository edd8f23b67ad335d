package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairowan/users-api/internal/domain"
	"github.com/kairowan/users-api/internal/store"
	"github.com/kairowan/users-api/pkg/utils"
)

func kindOf(t *testing.T, err error) Kind {
	t.Helper()
	var se *Error
	require.True(t, errors.As(err, &se), "expected *service.Error, got %v", err)
	return se.Kind
}

func strp(s string) *string { return &s }

func TestCreateUserHashesPassword(t *testing.T) {
	svc := NewUserService(store.NewMemory())

	u, err := svc.Create(domain.UserCreate{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "secret99",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, u.ID)
	assert.True(t, u.IsActive)
	assert.Equal(t, u.CreatedAt, u.UpdatedAt)
	assert.NotEqual(t, "secret99", u.PasswordHash)
	assert.True(t, utils.CheckPassword("secret99", u.PasswordHash))
}

func TestCreateUserConflicts(t *testing.T) {
	mem := store.NewMemory()
	svc := NewUserService(mem)

	_, err := svc.Create(domain.UserCreate{
		Username: "johndoe", Email: "new@x.com", Password: "abcdef",
	})
	require.Error(t, err)
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.Equal(t, "Username already registered", err.Error())

	_, err = svc.Create(domain.UserCreate{
		Username: "someoneelse", Email: "john@example.com", Password: "abcdef",
	})
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.Equal(t, "Email already registered", err.Error())

	// 冲突时不插入、计数器不动
	assert.Len(t, svc.List(0, 100), 2)
	userSeq, _ := mem.Counters()
	assert.Equal(t, 3, userSeq)
}

func TestCreateUserUsernameCaseSensitive(t *testing.T) {
	svc := NewUserService(store.NewMemory())

	_, err := svc.Create(domain.UserCreate{
		Username: "JohnDoe", Email: "johnny@example.com", Password: "abcdef",
	})
	assert.NoError(t, err)
}

// 并发创建同名用户：唯一性检查与写入同锁，恰好一个成功
func TestConcurrentCreateSameUsername(t *testing.T) {
	svc := NewUserService(store.NewMemory())

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Create(domain.UserCreate{
				Username: "dupe",
				Email:    fmt.Sprintf("dupe%d@example.com", i),
				Password: "secret99",
			})
		}(i)
	}
	wg.Wait()

	created := 0
	for _, err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.Equal(t, KindConflict, kindOf(t, err))
	}
	assert.Equal(t, 1, created)

	count := 0
	for _, u := range svc.List(0, 100) {
		if u.Username == "dupe" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestUpdateUserPartial(t *testing.T) {
	svc := NewUserService(store.NewMemory())

	before, err := svc.Get(1)
	require.NoError(t, err)

	after, err := svc.Update(1, domain.UserUpdate{FullName: strp("X")})
	require.NoError(t, err)

	assert.Equal(t, "X", *after.FullName)
	assert.Equal(t, before.Username, after.Username)
	assert.Equal(t, before.Email, after.Email)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
}

func TestUpdateUserConflictExcludesSelf(t *testing.T) {
	svc := NewUserService(store.NewMemory())

	// 改回自己的用户名不算冲突
	_, err := svc.Update(1, domain.UserUpdate{Username: strp("johndoe")})
	assert.NoError(t, err)

	_, err = svc.Update(1, domain.UserUpdate{Username: strp("janedoe")})
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.Equal(t, "Username already taken", err.Error())

	_, err = svc.Update(1, domain.UserUpdate{Email: strp("jane@example.com")})
	assert.Equal(t, KindConflict, kindOf(t, err))
	assert.Equal(t, "Email already taken", err.Error())
}

func TestUpdateUserPasswordRehashed(t *testing.T) {
	svc := NewUserService(store.NewMemory())

	u, err := svc.Update(1, domain.UserUpdate{Password: strp("newpass1")})
	require.NoError(t, err)
	assert.NotEqual(t, "newpass1", u.PasswordHash)
	assert.True(t, utils.CheckPassword("newpass1", u.PasswordHash))
}

func TestUserNotFound(t *testing.T) {
	svc := NewUserService(store.NewMemory())

	_, err := svc.Get(42)
	assert.Equal(t, KindNotFound, kindOf(t, err))
	assert.Equal(t, "User with id 42 not found", err.Error())

	_, err = svc.Update(42, domain.UserUpdate{})
	assert.Equal(t, KindNotFound, kindOf(t, err))

	err = svc.Delete(42)
	assert.Equal(t, KindNotFound, kindOf(t, err))
}

func TestDeleteUserCascades(t *testing.T) {
	mem := store.NewMemory()
	users := NewUserService(mem)
	posts := NewPostService(mem)

	require.NoError(t, users.Delete(1))

	_, err := posts.List(1)
	assert.Equal(t, KindNotFound, kindOf(t, err))

	// 级联删除后其它用户也取不到这些帖子
	_, err = posts.Get(2, 1)
	assert.Equal(t, KindNotFound, kindOf(t, err))
}
