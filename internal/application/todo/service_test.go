package todo

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ita-manila/todo-api/internal/domain/events"
	"github.com/ita-manila/todo-api/internal/domain/todo"
	"github.com/ita-manila/todo-api/internal/infrastructure/storage"
)

// recordingBus 同步记录发布的事件
type recordingBus struct {
	mu        sync.Mutex
	published []events.Event
}

func (b *recordingBus) Subscribe(events.EventType, events.Handler) func() { return func() {} }

func (b *recordingBus) SubscribeMultiple([]events.EventType, events.Handler) func() {
	return func() {}
}

func (b *recordingBus) Publish(event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
}

func (b *recordingBus) Close() {}

func (b *recordingBus) types() []events.EventType {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := make([]events.EventType, 0, len(b.published))
	for _, e := range b.published {
		result = append(result, e.Type())
	}
	return result
}

func newTestService(t *testing.T) (*Service, *recordingBus) {
	t.Helper()

	repo, err := storage.NewMemoryTodoRepository()
	require.NoError(t, err)
	bus := &recordingBus{}
	return NewService(repo, bus), bus
}

func TestService_PublishesOnSuccess(t *testing.T) {
	svc, bus := newTestService(t)

	created, err := svc.Insert(&todo.Todo{ID: 1, Title: "To Pass ITA", Completed: true, UserID: 2})
	require.NoError(t, err)

	title := "To Pass ITA This year"
	_, err = svc.Update(created.ID, todo.Patch{Title: &title})
	require.NoError(t, err)

	removed, err := svc.DeleteByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, title, removed.Title)

	assert.Equal(t, []events.EventType{events.TodoCreated, events.TodoUpdated, events.TodoDeleted}, bus.types())

	deleted := bus.published[2].(*events.TodoEvent)
	assert.Equal(t, title, deleted.Todo.Title, "删除事件应携带删除前的内容")
}

func TestService_NoEventOnFailure(t *testing.T) {
	svc, bus := newTestService(t)

	_, err := svc.Insert(&todo.Todo{ID: 1, Title: "a"})
	require.NoError(t, err)

	_, err = svc.Insert(&todo.Todo{ID: 1, Title: "dup"})
	assert.ErrorIs(t, err, todo.ErrDuplicateID)

	title := "b"
	_, err = svc.Update(2, todo.Patch{Title: &title})
	assert.ErrorIs(t, err, todo.ErrNotFound)

	_, err = svc.DeleteByID(2)
	assert.ErrorIs(t, err, todo.ErrNotFound)

	assert.Equal(t, []events.EventType{events.TodoCreated}, bus.types())
}

func TestService_DeleteCompleted(t *testing.T) {
	svc, bus := newTestService(t)

	for _, item := range []*todo.Todo{
		{ID: 1, Title: "a", Completed: true},
		{ID: 2, Title: "b"},
		{ID: 3, Title: "c", Completed: true},
	} {
		_, err := svc.Insert(item)
		require.NoError(t, err)
	}

	deleted, err := svc.DeleteCompleted()
	require.NoError(t, err)
	require.Len(t, deleted, 2)
	assert.Equal(t, 1, deleted[0].ID)
	assert.Equal(t, 3, deleted[1].ID)

	types := bus.types()
	assert.Len(t, types, 5)
	assert.Equal(t, events.TodoDeleted, types[3])
	assert.Equal(t, events.TodoDeleted, types[4])

	remaining, err := svc.FindAll()
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, 2, remaining[0].ID)
}

// flippingRepo 在真正清除前修改完成状态，模拟并发 PATCH 插入到清除之前
type flippingRepo struct {
	todo.Repository
	before func(repo todo.Repository)
}

func (r *flippingRepo) DeleteCompleted() ([]*todo.Todo, error) {
	r.before(r.Repository)
	return r.Repository.DeleteCompleted()
}

func TestService_DeleteCompletedEventsFollowStore(t *testing.T) {
	done, notDone := true, false

	tests := []struct {
		name          string
		before        func(repo todo.Repository)
		wantDeleted   []int
		wantRemaining []int
	}{
		{
			name: "重新打开的待办不发布删除事件",
			before: func(repo todo.Repository) {
				_, _ = repo.Update(1, todo.Patch{Completed: &notDone})
			},
			wantDeleted:   []int{},
			wantRemaining: []int{1, 2},
		},
		{
			name: "刚完成的待办也发布删除事件",
			before: func(repo todo.Repository) {
				_, _ = repo.Update(2, todo.Patch{Completed: &done})
			},
			wantDeleted:   []int{1, 2},
			wantRemaining: []int{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem, err := storage.NewMemoryTodoRepository(
				&todo.Todo{ID: 1, Title: "a", Completed: true},
				&todo.Todo{ID: 2, Title: "b"},
			)
			require.NoError(t, err)

			bus := &recordingBus{}
			svc := NewService(&flippingRepo{Repository: mem, before: tt.before}, bus)

			deleted, err := svc.DeleteCompleted()
			require.NoError(t, err)

			deletedIDs := make([]int, 0)
			for _, item := range deleted {
				deletedIDs = append(deletedIDs, item.ID)
			}
			assert.Equal(t, tt.wantDeleted, deletedIDs)

			eventIDs := make([]int, 0)
			for _, e := range bus.published {
				require.Equal(t, events.TodoDeleted, e.Type())
				eventIDs = append(eventIDs, e.(*events.TodoEvent).Todo.ID)
			}
			assert.Equal(t, tt.wantDeleted, eventIDs)

			remaining, err := mem.FindAll()
			require.NoError(t, err)
			remainingIDs := make([]int, 0)
			for _, item := range remaining {
				remainingIDs = append(remainingIDs, item.ID)
			}
			assert.Equal(t, tt.wantRemaining, remainingIDs)
		})
	}
}

func TestService_NilBus(t *testing.T) {
	repo, err := storage.NewMemoryTodoRepository()
	require.NoError(t, err)
	svc := NewService(repo, nil)

	_, err = svc.Insert(&todo.Todo{Title: "a"})
	require.NoError(t, err)

	found, err := svc.FindByID(1)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "a", found.Title)
}
