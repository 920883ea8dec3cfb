// Copyright ©2025 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ring implements a simple ring buffer that retains the most
// recently written values.
package ring

type Buffer[T any] struct {
	data []T
	head int // next write position
	n    int
}

func NewBuffer[T any](n int) *Buffer[T] {
	return &Buffer[T]{data: make([]T, n)}
}

func (r *Buffer[T]) Len() int {
	return r.n
}

func (r *Buffer[T]) Size() int {
	return len(r.data)
}

// Write appends src, overwriting the oldest values when the buffer is full.
func (r *Buffer[T]) Write(src ...T) {
	if len(r.data) == 0 {
		return
	}
	if len(src) >= len(r.data) {
		copy(r.data, src[len(src)-len(r.data):])
		r.head = 0
		r.n = len(r.data)
		return
	}
	for len(src) != 0 {
		c := copy(r.data[r.head:], src)
		src = src[c:]
		r.head = (r.head + c) % len(r.data)
		r.n = min(r.n+c, len(r.data))
	}
}

// Values returns the retained values, oldest first.
func (r *Buffer[T]) Values() []T {
	v := make([]T, 0, r.n)
	start := (r.head - r.n + len(r.data)) % max(len(r.data), 1)
	if start+r.n <= len(r.data) {
		return append(v, r.data[start:start+r.n]...)
	}
	v = append(v, r.data[start:]...)
	return append(v, r.data[:r.head]...)
}

// Reset discards all retained values.
func (r *Buffer[T]) Reset() {
	clear(r.data)
	r.head = 0
	r.n = 0
}
