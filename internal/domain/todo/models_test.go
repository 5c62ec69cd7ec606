package todo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatch_Apply(t *testing.T) {
	title := "To Pass ITA This year"
	done := false

	item := &Todo{ID: 1, Title: "To Pass ITA", Completed: true, UserID: 2}
	Patch{Title: &title}.Apply(item)

	assert.Equal(t, 1, item.ID)
	assert.Equal(t, title, item.Title)
	assert.True(t, item.Completed, "未设置的字段应保持原值")
	assert.Equal(t, 2, item.UserID)

	Patch{Completed: &done}.Apply(item)
	assert.False(t, item.Completed)
	assert.Equal(t, title, item.Title)
}

func TestPatch_IsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())

	userID := 3
	assert.False(t, Patch{UserID: &userID}.IsEmpty())
}

func TestTodo_Validate(t *testing.T) {
	assert.NoError(t, (&Todo{Title: "a"}).Validate())
	assert.ErrorIs(t, (&Todo{}).Validate(), ErrInvalidTodo)
	assert.ErrorIs(t, (&Todo{ID: -1, Title: "a"}).Validate(), ErrInvalidTodo)
}

func TestTodo_Clone(t *testing.T) {
	item := &Todo{ID: 1, Title: "a"}
	c := item.Clone()
	c.Title = "b"

	assert.Equal(t, "a", item.Title)
	assert.Nil(t, (*Todo)(nil).Clone())
}

func TestFilter_Apply(t *testing.T) {
	items := []*Todo{
		{ID: 1, Title: "a", Completed: true, UserID: 1},
		{ID: 2, Title: "b", Completed: false, UserID: 1},
		{ID: 3, Title: "c", Completed: true, UserID: 2},
	}

	userID := 1
	completed := true

	assert.Len(t, Filter{}.Apply(items), 3)
	assert.Len(t, Filter{UserID: &userID}.Apply(items), 2)

	result := Filter{UserID: &userID, Completed: &completed}.Apply(items)
	if assert.Len(t, result, 1) {
		assert.Equal(t, 1, result[0].ID)
	}
}
