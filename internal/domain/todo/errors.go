package todo

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound 待办不存在
	ErrNotFound = errors.New("todo not found")
	// ErrDuplicateID 待办 ID 已存在
	ErrDuplicateID = errors.New("todo id already exists")
	// ErrInvalidTodo 待办字段缺失或非法
	ErrInvalidTodo = errors.New("invalid todo")
	// ErrIDExhausted 自动分配的 ID 已到上限，同时满足 errors.Is(err, ErrInvalidTodo)
	ErrIDExhausted = fmt.Errorf("%w: id space exhausted", ErrInvalidTodo)
)
