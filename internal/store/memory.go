package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/kairowan/users-api/internal/domain"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrPostNotFound      = errors.New("post not found")
	ErrDuplicateUsername = errors.New("username already in use")
	ErrDuplicateEmail    = errors.New("email already in use")
)

// Memory 进程内存储：map + 自增计数器，单锁串行化所有读写
type Memory struct {
	mu      sync.Mutex
	users   map[int]*domain.User
	posts   map[int]*domain.Post
	userSeq int
	postSeq int
}

func NewMemory() *Memory {
	m := &Memory{}
	m.Reset()
	return m
}

// Reset 清空并回到种子数据（重启即丢，测试也用它）
func (m *Memory) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = make(map[int]*domain.User)
	m.posts = make(map[int]*domain.Post)
	m.userSeq = 1
	m.postSeq = 1
	m.seedLocked()
}

func (m *Memory) GetUser(id int) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	return *u, nil
}

// ListUsers 按插入序（即 id 序）切片；越界返回空，不报错
func (m *Memory) ListUsers(skip, limit int) []domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	if skip < 0 {
		skip = 0
	}
	if limit < 0 {
		limit = 0
	}
	if skip > len(ids) {
		skip = len(ids)
	}
	end := skip + limit
	if end > len(ids) {
		end = len(ids)
	}

	out := make([]domain.User, 0, end-skip)
	for _, id := range ids[skip:end] {
		out = append(out, *m.users[id])
	}
	return out
}

// InsertUser 唯一性检查和写入在同一次持锁内完成，
// 并发 create 不会双双通过检查；冲突时计数器不前进
func (m *Memory) InsertUser(u domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkUniqueLocked(u.Username, u.Email, 0); err != nil {
		return domain.User{}, err
	}
	now := time.Now()
	u.ID = m.userSeq
	m.userSeq++
	u.CreatedAt = now
	u.UpdatedAt = now
	m.users[u.ID] = &u
	return u, nil
}

// UpdateUser 在锁内对副本应用 mutate、校验唯一性（排除自身）后才提交
func (m *Memory) UpdateUser(id int, mutate func(*domain.User)) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, ErrUserNotFound
	}
	next := *u
	mutate(&next)
	if err := m.checkUniqueLocked(next.Username, next.Email, id); err != nil {
		return domain.User{}, err
	}
	next.UpdatedAt = time.Now()
	*u = next
	return next, nil
}

// checkUniqueLocked 调用方需已持锁；excludeID<=0 表示不排除任何记录
func (m *Memory) checkUniqueLocked(username, email string, excludeID int) error {
	for id, o := range m.users {
		if id != excludeID && o.Username == username {
			return ErrDuplicateUsername
		}
	}
	for id, o := range m.users {
		if id != excludeID && o.Email == email {
			return ErrDuplicateEmail
		}
	}
	return nil
}

// DeleteUser 级联删除该用户的全部帖子
func (m *Memory) DeleteUser(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return ErrUserNotFound
	}
	for pid, p := range m.posts {
		if p.UserID == id {
			delete(m.posts, pid)
		}
	}
	delete(m.users, id)
	return nil
}

func (m *Memory) GetPost(id int) (domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return domain.Post{}, ErrPostNotFound
	}
	return *p, nil
}

func (m *Memory) ListPostsByUser(userID int) []domain.Post {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int, 0, len(m.posts))
	for id, p := range m.posts {
		if p.UserID == userID {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	out := make([]domain.Post, 0, len(ids))
	for _, id := range ids {
		out = append(out, *m.posts[id])
	}
	return out
}

// InsertPost 在同一次持锁内确认所属用户仍存在，
// 与并发的 DeleteUser 级联删除之间不会留下孤儿帖
func (m *Memory) InsertPost(p domain.Post) (domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[p.UserID]; !ok {
		return domain.Post{}, ErrUserNotFound
	}
	now := time.Now()
	p.ID = m.postSeq
	m.postSeq++
	p.CreatedAt = now
	p.UpdatedAt = now
	m.posts[p.ID] = &p
	return p, nil
}

func (m *Memory) UpdatePost(id int, mutate func(*domain.Post)) (domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return domain.Post{}, ErrPostNotFound
	}
	mutate(p)
	p.UpdatedAt = time.Now()
	return *p, nil
}

func (m *Memory) DeletePost(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return ErrPostNotFound
	}
	delete(m.posts, id)
	return nil
}

// Counters 当前计数器值（只读，测试用）
func (m *Memory) Counters() (userSeq, postSeq int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userSeq, m.postSeq
}
