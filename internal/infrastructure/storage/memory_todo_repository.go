package storage

import (
	"fmt"
	"math"
	"sync"

	"github.com/ita-manila/todo-api/internal/domain/todo"
)

// MemoryTodoRepository 待办事项内存仓储实现
// 所有操作由同一把读写锁保护，保证线性一致
type MemoryTodoRepository struct {
	mu     sync.RWMutex
	items  map[int]*todo.Todo
	order  []int // 插入顺序
	lastID int   // 已分配过的最大 ID，删除后不复用
}

// NewMemoryTodoRepository 创建内存仓储，可选预置数据
func NewMemoryTodoRepository(seed ...*todo.Todo) (*MemoryTodoRepository, error) {
	r := &MemoryTodoRepository{
		items: make(map[int]*todo.Todo),
	}
	for _, item := range seed {
		if _, err := r.Insert(item); err != nil {
			return nil, fmt.Errorf("failed to seed todo %d: %w", item.ID, err)
		}
	}
	return r, nil
}

// FindAll 按插入顺序返回全部待办
func (r *MemoryTodoRepository) FindAll() ([]*todo.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*todo.Todo, 0, len(r.order))
	for _, id := range r.order {
		items = append(items, r.items[id].Clone())
	}
	return items, nil
}

// FindByID 根据 ID 查找待办
func (r *MemoryTodoRepository) FindByID(id int) (*todo.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return item.Clone(), nil
}

// Insert 新增待办，ID 重复时拒绝
func (r *MemoryTodoRepository) Insert(item *todo.Todo) (*todo.Todo, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := item.Clone()
	if stored.ID == 0 {
		if r.lastID == math.MaxInt {
			return nil, fmt.Errorf("insert todo: %w", todo.ErrIDExhausted)
		}
		stored.ID = r.lastID + 1
	} else if _, exists := r.items[stored.ID]; exists {
		return nil, fmt.Errorf("insert todo %d: %w", stored.ID, todo.ErrDuplicateID)
	}

	if stored.ID > r.lastID {
		r.lastID = stored.ID
	}
	r.items[stored.ID] = stored
	r.order = append(r.order, stored.ID)

	return stored.Clone(), nil
}

// DeleteByID 删除待办，返回删除前的内容
func (r *MemoryTodoRepository) DeleteByID(id int) (*todo.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("delete todo %d: %w", id, todo.ErrNotFound)
	}
	r.remove(id)
	return item.Clone(), nil
}

// Update 部分更新待办
func (r *MemoryTodoRepository) Update(id int, patch todo.Patch) (*todo.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.items[id]
	if !ok {
		return nil, fmt.Errorf("update todo %d: %w", id, todo.ErrNotFound)
	}

	// 先在副本上校验，失败时不改变原值
	updated := item.Clone()
	patch.Apply(updated)
	if err := updated.Validate(); err != nil {
		return nil, err
	}

	r.items[id] = updated
	return updated.Clone(), nil
}

// DeleteCompleted 删除所有已完成的待办
func (r *MemoryTodoRepository) DeleteCompleted() ([]*todo.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := make([]*todo.Todo, 0)
	for _, id := range append([]int(nil), r.order...) {
		if item := r.items[id]; item.Completed {
			r.remove(id)
			deleted = append(deleted, item.Clone())
		}
	}
	return deleted, nil
}

// remove 调用方必须持有写锁
func (r *MemoryTodoRepository) remove(id int) {
	delete(r.items, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// 编译时检查接口实现
var _ todo.Repository = (*MemoryTodoRepository)(nil)
