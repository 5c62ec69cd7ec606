package todo

// Repository 待办事项仓储接口
// 每个方法对存储而言都是原子的，失败时不改变已有状态
type Repository interface {
	// FindAll 按插入顺序返回全部待办的快照
	FindAll() ([]*Todo, error)

	// FindByID 根据 ID 查找待办，不存在时返回 nil, nil
	FindByID(id int) (*Todo, error)

	// Insert 新增待办
	// ID 为 0 时自动分配；ID 已存在时返回 ErrDuplicateID
	// 已分配过 math.MaxInt 后无法再自动分配，返回 ErrIDExhausted
	Insert(item *Todo) (*Todo, error)

	// DeleteByID 删除待办并返回被删除的记录，不存在时返回 ErrNotFound
	DeleteByID(id int) (*Todo, error)

	// Update 部分更新待办，不存在时返回 ErrNotFound
	Update(id int, patch Patch) (*Todo, error)

	// DeleteCompleted 删除所有已完成的待办，按插入顺序返回被删除的记录
	DeleteCompleted() ([]*Todo, error)
}
