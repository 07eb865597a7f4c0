package repository

import (
	"context"
	"sync"
	"time"

	"gateway.example/filter-gateway/internal/models"
)

// MemoryUserRepository 是 UserRepository 的内存实现，
// 用于未配置数据库时的本地运行和单元测试。
type MemoryUserRepository struct {
	mu     sync.RWMutex
	users  map[uint]*models.User
	byName map[string]uint
	nextID uint
}

// NewMemoryUserRepository 创建一个空的内存用户仓库
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:  make(map[uint]*models.User),
		byName: make(map[string]uint),
		nextID: 1,
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[user.Username]; exists {
		return ErrDuplicate
	}

	user.ID = r.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.nextID++

	stored := *user
	r.users[user.ID] = &stored
	r.byName[user.Username] = user.ID
	return nil
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byName[username]
	if !ok {
		return nil, ErrNotFound
	}
	found := *r.users[id]
	return &found, nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[user.ID]
	if !ok {
		return ErrNotFound
	}

	if user.Username != existing.Username {
		if _, taken := r.byName[user.Username]; taken {
			return ErrDuplicate
		}
		delete(r.byName, existing.Username)
		r.byName[user.Username] = user.ID
	}

	user.UpdatedAt = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *MemoryUserRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byName, existing.Username)
	delete(r.users, id)
	return nil
}

// 编译期检查两种实现都满足接口
var (
	_ UserRepository = (*MemoryUserRepository)(nil)
	_ UserRepository = (*GormUserRepository)(nil)
)
