package storage

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ita-manila/todo-api/internal/domain/todo"
)

// runRepositoryContract 两种仓储实现共用的行为测试
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) todo.Repository) {
	t.Run("insert then find", func(t *testing.T) {
		repo := newRepo(t)

		item := &todo.Todo{ID: 1, Title: "To Pass ITA", Completed: true, UserID: 2}
		created, err := repo.Insert(item)
		require.NoError(t, err)
		assert.Equal(t, item, created)

		found, err := repo.FindByID(1)
		require.NoError(t, err)
		assert.Equal(t, item, found)
	})

	t.Run("find missing returns nil", func(t *testing.T) {
		repo := newRepo(t)

		found, err := repo.FindByID(42)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("find all keeps insertion order", func(t *testing.T) {
		repo := newRepo(t)

		for _, id := range []int{3, 1, 2} {
			_, err := repo.Insert(&todo.Todo{ID: id, Title: "t"})
			require.NoError(t, err)
		}

		all, err := repo.FindAll()
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, 3, all[0].ID)
		assert.Equal(t, 1, all[1].ID)
		assert.Equal(t, 2, all[2].ID)
	})

	t.Run("empty store returns empty slice", func(t *testing.T) {
		repo := newRepo(t)

		all, err := repo.FindAll()
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("zero id is assigned sequentially", func(t *testing.T) {
		repo := newRepo(t)

		first, err := repo.Insert(&todo.Todo{Title: "a"})
		require.NoError(t, err)
		second, err := repo.Insert(&todo.Todo{Title: "b"})
		require.NoError(t, err)
		assert.Equal(t, 1, first.ID)
		assert.Equal(t, 2, second.ID)

		_, err = repo.Insert(&todo.Todo{ID: 10, Title: "c"})
		require.NoError(t, err)
		next, err := repo.Insert(&todo.Todo{Title: "d"})
		require.NoError(t, err)
		assert.Equal(t, 11, next.ID)

		// 删除最大 ID 后不复用
		_, err = repo.DeleteByID(11)
		require.NoError(t, err)
		again, err := repo.Insert(&todo.Todo{Title: "e"})
		require.NoError(t, err)
		assert.Equal(t, 12, again.ID)
	})

	t.Run("auto id stops at max int", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Insert(&todo.Todo{ID: math.MaxInt, Title: "last"})
		require.NoError(t, err)

		_, err = repo.Insert(&todo.Todo{Title: "overflow"})
		assert.ErrorIs(t, err, todo.ErrIDExhausted)
		assert.ErrorIs(t, err, todo.ErrInvalidTodo)

		all, err := repo.FindAll()
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, math.MaxInt, all[0].ID)

		// 显式指定 ID 仍可插入
		explicit, err := repo.Insert(&todo.Todo{ID: 7, Title: "explicit"})
		require.NoError(t, err)
		assert.Equal(t, 7, explicit.ID)
	})

	t.Run("duplicate id is rejected", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Insert(&todo.Todo{ID: 1, Title: "original"})
		require.NoError(t, err)

		_, err = repo.Insert(&todo.Todo{ID: 1, Title: "duplicate"})
		assert.ErrorIs(t, err, todo.ErrDuplicateID)

		found, err := repo.FindByID(1)
		require.NoError(t, err)
		assert.Equal(t, "original", found.Title, "重复插入不应覆盖原记录")

		all, err := repo.FindAll()
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("insert without title is invalid", func(t *testing.T) {
		repo := newRepo(t)

		_, err := repo.Insert(&todo.Todo{ID: 1})
		assert.ErrorIs(t, err, todo.ErrInvalidTodo)
	})

	t.Run("update applies only set fields", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Insert(&todo.Todo{ID: 1, Title: "To Pass ITA", Completed: true, UserID: 2})
		require.NoError(t, err)

		title := "To Pass ITA This year"
		updated, err := repo.Update(1, todo.Patch{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, &todo.Todo{ID: 1, Title: title, Completed: true, UserID: 2}, updated)

		found, err := repo.FindByID(1)
		require.NoError(t, err)
		assert.Equal(t, updated, found)
	})

	t.Run("update missing leaves store unchanged", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Insert(&todo.Todo{ID: 1, Title: "a"})
		require.NoError(t, err)
		before, err := repo.FindAll()
		require.NoError(t, err)

		title := "b"
		_, err = repo.Update(2, todo.Patch{Title: &title})
		assert.ErrorIs(t, err, todo.ErrNotFound)

		after, err := repo.FindAll()
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("update to empty title is invalid", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Insert(&todo.Todo{ID: 1, Title: "a"})
		require.NoError(t, err)

		empty := ""
		_, err = repo.Update(1, todo.Patch{Title: &empty})
		assert.ErrorIs(t, err, todo.ErrInvalidTodo)

		found, err := repo.FindByID(1)
		require.NoError(t, err)
		assert.Equal(t, "a", found.Title)
	})

	t.Run("delete then find returns nil", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Insert(&todo.Todo{ID: 1, Title: "a"})
		require.NoError(t, err)

		removed, err := repo.DeleteByID(1)
		require.NoError(t, err)
		assert.Equal(t, &todo.Todo{ID: 1, Title: "a"}, removed)

		found, err := repo.FindByID(1)
		require.NoError(t, err)
		assert.Nil(t, found)

		// 再次删除报告不存在
		_, err = repo.DeleteByID(1)
		assert.ErrorIs(t, err, todo.ErrNotFound)
	})

	t.Run("count equals inserts minus deletes", func(t *testing.T) {
		repo := newRepo(t)

		inserted := 0
		for i := 1; i <= 10; i++ {
			_, err := repo.Insert(&todo.Todo{ID: i, Title: "t"})
			require.NoError(t, err)
			inserted++
		}
		// 重复插入和删除不存在的记录都不计数
		_, err := repo.Insert(&todo.Todo{ID: 3, Title: "dup"})
		require.Error(t, err)

		deleted := 0
		for _, id := range []int{2, 4, 6, 99} {
			if _, err := repo.DeleteByID(id); err == nil {
				deleted++
			}
		}

		all, err := repo.FindAll()
		require.NoError(t, err)
		assert.Len(t, all, inserted-deleted)
	})

	t.Run("delete completed", func(t *testing.T) {
		repo := newRepo(t)
		items := []*todo.Todo{
			{ID: 1, Title: "未完成1"},
			{ID: 2, Title: "已完成1", Completed: true},
			{ID: 3, Title: "已完成2", Completed: true},
			{ID: 4, Title: "未完成2"},
		}
		for _, item := range items {
			_, err := repo.Insert(item)
			require.NoError(t, err)
		}

		deleted, err := repo.DeleteCompleted()
		require.NoError(t, err)
		assert.Equal(t, []*todo.Todo{items[1], items[2]}, deleted)

		all, err := repo.FindAll()
		require.NoError(t, err)
		require.Len(t, all, 2)
		for _, item := range all {
			assert.False(t, item.Completed, "剩余的应该都是未完成的")
		}

		// 没有已完成待办时返回空切片
		deleted, err = repo.DeleteCompleted()
		require.NoError(t, err)
		assert.NotNil(t, deleted)
		assert.Empty(t, deleted)
	})

	t.Run("returned values are copies", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Insert(&todo.Todo{ID: 1, Title: "a"})
		require.NoError(t, err)

		created.Title = "mutated"
		found, err := repo.FindByID(1)
		require.NoError(t, err)
		found.Title = "mutated again"

		again, err := repo.FindByID(1)
		require.NoError(t, err)
		assert.Equal(t, "a", again.Title)
	})
}
