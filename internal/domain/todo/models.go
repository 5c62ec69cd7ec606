package todo

// Todo 待办事项实体
type Todo struct {
	ID        int    `json:"id"`        // 唯一标识，创建后不可变
	Title     string `json:"title"`     // 标题
	Completed bool   `json:"completed"` // 是否完成
	UserID    int    `json:"userId"`    // 所属用户
}

// Clone 返回副本，仓储对外只暴露副本
func (t *Todo) Clone() *Todo {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Validate 校验必填字段
func (t *Todo) Validate() error {
	if t.Title == "" {
		return ErrInvalidTodo
	}
	if t.ID < 0 {
		return ErrInvalidTodo
	}
	return nil
}

// Patch 部分更新，nil 字段保持原值
type Patch struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
	UserID    *int    `json:"userId"`
}

// IsEmpty 是否没有任何需要更新的字段
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil && p.UserID == nil
}

// Apply 逐字段应用到 t 上，ID 不受影响
func (p Patch) Apply(t *Todo) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.UserID != nil {
		t.UserID = *p.UserID
	}
}

// Filter 列表过滤条件，nil 表示不过滤
type Filter struct {
	UserID    *int
	Completed *bool
}

// Match 判断待办是否满足过滤条件
func (f Filter) Match(t *Todo) bool {
	if f.UserID != nil && t.UserID != *f.UserID {
		return false
	}
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	return true
}

// Apply 过滤列表，保持原有顺序
func (f Filter) Apply(items []*Todo) []*Todo {
	result := make([]*Todo, 0, len(items))
	for _, item := range items {
		if f.Match(item) {
			result = append(result, item)
		}
	}
	return result
}
