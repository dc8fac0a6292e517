package queue

// fifo is an unbounded first-in first-out buffer. It is not safe for
// concurrent use; the Manager guards it with its lock.
type fifo[T any] []T

func (q *fifo[T]) Len() int { return len(*q) }

func (q *fifo[T]) Push(t T) {
	*q = append(*q, t)
}

// Pop removes the oldest element. ok is false when the buffer is empty.
func (q *fifo[T]) Pop() (t T, ok bool) {
	old := *q
	if len(old) == 0 {
		return t, false
	}

	t = old[0]
	var zero T
	old[0] = zero
	*q = old[1:]

	if len(*q) == 0 {
		*q = nil
	}

	return t, true
}

// Drain empties the buffer and returns what it held, oldest first.
func (q *fifo[T]) Drain() []T {
	items := *q
	*q = nil
	return items
}
