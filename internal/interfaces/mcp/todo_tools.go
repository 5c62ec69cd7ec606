package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ita-manila/todo-api/internal/domain/todo"
)

// ListTodosInput 列表工具输入
type ListTodosInput struct {
	UserID    *int  `json:"userId,omitempty" jsonschema:"只返回该用户的待办"`
	Completed *bool `json:"completed,omitempty" jsonschema:"只返回该完成状态的待办"`
}

// ListTodosOutput 列表工具输出
type ListTodosOutput struct {
	Todos []todo.Todo `json:"todos" jsonschema:"按插入顺序排列的待办"`
	Count int         `json:"count" jsonschema:"待办数量"`
}

// GetTodoInput 查询工具输入
type GetTodoInput struct {
	ID int `json:"id" jsonschema:"待办ID"`
}

// CreateTodoInput 创建工具输入
type CreateTodoInput struct {
	ID        int    `json:"id,omitempty" jsonschema:"待办ID，省略时自动分配"`
	Title     string `json:"title" jsonschema:"标题"`
	Completed bool   `json:"completed,omitempty" jsonschema:"是否完成"`
	UserID    int    `json:"userId,omitempty" jsonschema:"所属用户"`
}

// UpdateTodoInput 更新工具输入，省略的字段保持原值
type UpdateTodoInput struct {
	ID        int     `json:"id" jsonschema:"待办ID"`
	Title     *string `json:"title,omitempty" jsonschema:"新标题"`
	Completed *bool   `json:"completed,omitempty" jsonschema:"新的完成状态"`
	UserID    *int    `json:"userId,omitempty" jsonschema:"新的所属用户"`
}

// DeleteTodoInput 删除工具输入
type DeleteTodoInput struct {
	ID int `json:"id" jsonschema:"待办ID"`
}

// DeleteTodoOutput 删除工具输出
type DeleteTodoOutput struct {
	ID      int  `json:"id" jsonschema:"待办ID"`
	Deleted bool `json:"deleted" jsonschema:"是否已删除"`
}

// listTodosTool 列出待办
func (s *MCPServer) listTodosTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListTodosInput,
) (*mcp.CallToolResult, ListTodosOutput, error) {
	items, err := s.store.FindAll()
	if err != nil {
		return nil, ListTodosOutput{}, fmt.Errorf("failed to list todos: %w", err)
	}

	filtered := todo.Filter{UserID: input.UserID, Completed: input.Completed}.Apply(items)

	output := ListTodosOutput{
		Todos: make([]todo.Todo, 0, len(filtered)),
		Count: len(filtered),
	}
	for _, item := range filtered {
		output.Todos = append(output.Todos, *item)
	}
	return nil, output, nil
}

// getTodoTool 查询单个待办
func (s *MCPServer) getTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input GetTodoInput,
) (*mcp.CallToolResult, todo.Todo, error) {
	item, err := s.store.FindByID(input.ID)
	if err != nil {
		return nil, todo.Todo{}, fmt.Errorf("failed to get todo %d: %w", input.ID, err)
	}
	if item == nil {
		return nil, todo.Todo{}, fmt.Errorf("todo %d: %w", input.ID, todo.ErrNotFound)
	}
	return nil, *item, nil
}

// createTodoTool 创建待办
func (s *MCPServer) createTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input CreateTodoInput,
) (*mcp.CallToolResult, todo.Todo, error) {
	created, err := s.store.Insert(&todo.Todo{
		ID:        input.ID,
		Title:     input.Title,
		Completed: input.Completed,
		UserID:    input.UserID,
	})
	if err != nil {
		return nil, todo.Todo{}, err
	}

	s.logger.Info("todo created via MCP", "id", created.ID)
	return nil, *created, nil
}

// updateTodoTool 部分更新待办
func (s *MCPServer) updateTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input UpdateTodoInput,
) (*mcp.CallToolResult, todo.Todo, error) {
	updated, err := s.store.Update(input.ID, todo.Patch{
		Title:     input.Title,
		Completed: input.Completed,
		UserID:    input.UserID,
	})
	if err != nil {
		return nil, todo.Todo{}, err
	}
	return nil, *updated, nil
}

// deleteTodoTool 删除待办
func (s *MCPServer) deleteTodoTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input DeleteTodoInput,
) (*mcp.CallToolResult, DeleteTodoOutput, error) {
	if _, err := s.store.DeleteByID(input.ID); err != nil {
		return nil, DeleteTodoOutput{}, err
	}
	return nil, DeleteTodoOutput{ID: input.ID, Deleted: true}, nil
}
