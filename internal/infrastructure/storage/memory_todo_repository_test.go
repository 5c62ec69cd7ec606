package storage

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ita-manila/todo-api/internal/domain/todo"
)

func TestMemoryTodoRepository_Contract(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) todo.Repository {
		repo, err := NewMemoryTodoRepository()
		require.NoError(t, err)
		return repo
	})
}

func TestMemoryTodoRepository_Seed(t *testing.T) {
	repo, err := NewMemoryTodoRepository(
		&todo.Todo{ID: 1, Title: "To Pass ITA", Completed: true, UserID: 2},
		&todo.Todo{Title: "seeded"},
	)
	require.NoError(t, err)

	all, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 2, all[1].ID)

	_, err = NewMemoryTodoRepository(
		&todo.Todo{ID: 1, Title: "a"},
		&todo.Todo{ID: 1, Title: "b"},
	)
	assert.ErrorIs(t, err, todo.ErrDuplicateID)
}

func TestMemoryTodoRepository_ConcurrentInsert(t *testing.T) {
	repo, err := NewMemoryTodoRepository()
	require.NoError(t, err)

	const workers = 8
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := repo.Insert(&todo.Todo{Title: "concurrent"})
				assert.NoError(t, err)
				_, _ = repo.FindAll()
			}
		}()
	}
	wg.Wait()

	all, err := repo.FindAll()
	require.NoError(t, err)
	assert.Len(t, all, workers*perWorker)

	// ID 唯一
	seen := make(map[int]bool, len(all))
	for _, item := range all {
		assert.False(t, seen[item.ID], "duplicate id %d", item.ID)
		seen[item.ID] = true
	}
}
