package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/ita-manila/todo-api/internal/domain/todo"
)

// SQLiteTodoRepository 待办事项 SQLite 仓储实现
type SQLiteTodoRepository struct {
	db *sql.DB
}

// NewSQLiteTodoRepository 创建待办事项仓储实例，并确保表存在
func NewSQLiteTodoRepository(db *sql.DB) (*SQLiteTodoRepository, error) {
	if err := initTodoTable(db); err != nil {
		return nil, err
	}
	return &SQLiteTodoRepository{db: db}, nil
}

// initTodoTable 初始化待办事项表
// seq 记录插入顺序；todo_meta.last_id 记录已分配的最大 ID，删除后不复用
func initTodoTable(db *sql.DB) error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS todos (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id INTEGER NOT NULL UNIQUE,
		title TEXT NOT NULL,
		completed INTEGER NOT NULL DEFAULT 0,
		user_id INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS todo_meta (
		key TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);`

	if _, err := db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to create todos table: %w", err)
	}

	createIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_todos_completed ON todos(completed);
	CREATE INDEX IF NOT EXISTS idx_todos_user_id ON todos(user_id);`

	if _, err := db.Exec(createIndexSQL); err != nil {
		return fmt.Errorf("failed to create todos indexes: %w", err)
	}

	return nil
}

// rowScanner sql.Row 与 sql.Rows 的公共接口
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(s rowScanner) (*todo.Todo, error) {
	var item todo.Todo
	var completed int
	if err := s.Scan(&item.ID, &item.Title, &completed, &item.UserID); err != nil {
		return nil, err
	}
	item.Completed = completed == 1
	return &item, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// FindAll 按插入顺序获取所有待办事项
func (r *SQLiteTodoRepository) FindAll() ([]*todo.Todo, error) {
	query := `
		SELECT id, title, completed, user_id
		FROM todos
		ORDER BY seq ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	items := make([]*todo.Todo, 0)
	for rows.Next() {
		item, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return items, nil
}

// FindByID 根据 ID 查找待办事项
func (r *SQLiteTodoRepository) FindByID(id int) (*todo.Todo, error) {
	query := `
		SELECT id, title, completed, user_id
		FROM todos
		WHERE id = ?`

	item, err := scanTodo(r.db.QueryRow(query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query todo: %w", err)
	}
	return item, nil
}

// Insert 新增待办事项
func (r *SQLiteTodoRepository) Insert(item *todo.Todo) (*todo.Todo, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var lastID int
	err = tx.QueryRow(`SELECT value FROM todo_meta WHERE key = 'last_id'`).Scan(&lastID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read last id: %w", err)
	}

	stored := item.Clone()
	if stored.ID == 0 {
		if lastID == math.MaxInt {
			return nil, fmt.Errorf("insert todo: %w", todo.ErrIDExhausted)
		}
		stored.ID = lastID + 1
	} else {
		var exists int
		err := tx.QueryRow(`SELECT 1 FROM todos WHERE id = ?`, stored.ID).Scan(&exists)
		if err == nil {
			return nil, fmt.Errorf("insert todo %d: %w", stored.ID, todo.ErrDuplicateID)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to check todo id: %w", err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO todos (id, title, completed, user_id)
		VALUES (?, ?, ?, ?)`,
		stored.ID,
		stored.Title,
		boolToInt(stored.Completed),
		stored.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert todo: %w", err)
	}

	if stored.ID > lastID {
		_, err = tx.Exec(`
			INSERT INTO todo_meta (key, value) VALUES ('last_id', ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, stored.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update last id: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit todo insert: %w", err)
	}
	return stored, nil
}

// DeleteByID 删除待办事项，返回删除前的内容
func (r *SQLiteTodoRepository) DeleteByID(id int) (*todo.Todo, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := scanTodo(tx.QueryRow(`
		SELECT id, title, completed, user_id
		FROM todos
		WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("delete todo %d: %w", id, todo.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query todo: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM todos WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("failed to delete todo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit todo delete: %w", err)
	}
	return item, nil
}

// Update 部分更新待办事项
func (r *SQLiteTodoRepository) Update(id int, patch todo.Patch) (*todo.Todo, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := scanTodo(tx.QueryRow(`
		SELECT id, title, completed, user_id
		FROM todos
		WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("update todo %d: %w", id, todo.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query todo: %w", err)
	}

	patch.Apply(item)
	if err := item.Validate(); err != nil {
		return nil, err
	}

	_, err = tx.Exec(`
		UPDATE todos SET title = ?, completed = ?, user_id = ?
		WHERE id = ?`,
		item.Title,
		boolToInt(item.Completed),
		item.UserID,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit todo update: %w", err)
	}
	return item, nil
}

// DeleteCompleted 删除所有已完成的待办事项，按插入顺序返回被删除的记录
func (r *SQLiteTodoRepository) DeleteCompleted() ([]*todo.Todo, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		SELECT id, title, completed, user_id
		FROM todos
		WHERE completed = 1
		ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed todos: %w", err)
	}

	deleted := make([]*todo.Todo, 0)
	for rows.Next() {
		item, err := scanTodo(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		deleted = append(deleted, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to iterate completed todos: %w", err)
	}
	rows.Close()

	if _, err := tx.Exec(`DELETE FROM todos WHERE completed = 1`); err != nil {
		return nil, fmt.Errorf("failed to delete completed todos: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit completed todos delete: %w", err)
	}
	return deleted, nil
}

// 编译时检查接口实现
var _ todo.Repository = (*SQLiteTodoRepository)(nil)
