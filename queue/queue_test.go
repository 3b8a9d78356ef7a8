package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushPopOrder(t *testing.T) {
	q := New[int](4)
	require.True(t, q.Empty())

	q.Push(1)
	q.Push(2)
	q.Push(3)

	assert.Equal(t, 1, q.Front())
	q.Pop()
	assert.Equal(t, 2, q.Front())
	q.Pop()
	assert.Equal(t, 3, q.Front())
	q.Pop()
	assert.True(t, q.Empty())
}

func TestFullPanicsOnOverflow(t *testing.T) {
	q := New[int](2)
	q.Push(1)
	q.Push(2)
	assert.True(t, q.Full())
	assert.Panics(t, func() { q.Push(3) })
}

func TestWrapAround(t *testing.T) {
	q := New[int](3)
	q.Push(1)
	q.Push(2)
	q.Pop()
	q.Push(3)
	q.Push(4)

	var got []int
	for !q.Empty() {
		got = append(got, q.Front())
		q.Pop()
	}
	assert.Equal(t, []int{2, 3, 4}, got)
}

func TestPassToFront(t *testing.T) {
	q := New[int](4)
	q.Push(1)
	q.Push(2)
	q.Push(3)

	q.PassToFront(99, 1)

	var got []int
	for !q.Empty() {
		got = append(got, q.Front())
		q.Pop()
	}
	assert.Equal(t, []int{1, 99, 2, 3}, got)
}
