package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListZeroValueIsAbsent(t *testing.T) {
	var l List[int]
	assert.False(t, l.Present())
	assert.Nil(t, l.Items())
	assert.Equal(t, 0, l.Len())
}

func TestListOfEmptyIsAbsent(t *testing.T) {
	assert.Equal(t, List[string]{}, ListOf[string]())
}

func TestListRemoveLastBecomesAbsent(t *testing.T) {
	l := ListOf(1, 2)
	assert.Equal(t, 1, l.RemoveAt(0))
	assert.Equal(t, []int{2}, l.Items())
	assert.Equal(t, 2, l.RemoveAt(0))
	assert.False(t, l.Present())
	assert.Equal(t, List[int]{}, l)
}

func TestListIndexAndSet(t *testing.T) {
	l := ListOf("a", "b", "c")
	i := l.Index(func(s string) bool { return s == "b" })
	assert.Equal(t, 1, i)
	l.Set(i, "B")
	assert.Equal(t, []string{"a", "B", "c"}, l.Items())
	assert.Equal(t, -1, l.Index(func(s string) bool { return s == "z" }))
}

func TestListCloneIsIndependent(t *testing.T) {
	l := ListOf(1, 2, 3)
	c := l.Clone()
	c.Set(0, 9)
	c.Append(4)
	assert.Equal(t, []int{1, 2, 3}, l.Items())
	assert.Equal(t, []int{9, 2, 3, 4}, c.Items())
}

func TestListItemsIsCopy(t *testing.T) {
	l := ListOf(1)
	items := l.Items()
	items[0] = 5
	assert.Equal(t, 1, l.At(0))
}
