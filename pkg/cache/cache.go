// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cache memoizes facts that are assumed constant for the lifetime of
// a process.
//
// Two policies exist:
//   - Static: the first fetch result is kept, whatever it was.
//   - QuasiStatic: the result is kept only once a fetch succeeds; failed
//     fetches are returned to the caller and retried on the next call.
//
// Cached values are never invalidated. Concurrent callers observe either an
// empty cell or the fully populated value, and the fetch runs at most once
// per population.
package cache

import (
	"context"
	"sync"
)

// Policy decides which fetch results are kept.
type Policy int

const (
	// Static keeps the first result, including a failed one.
	Static Policy = iota
	// QuasiStatic keeps the first successful result.
	QuasiStatic
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case Static:
		return "static"
	case QuasiStatic:
		return "quasi-static"
	default:
		return "unknown"
	}
}

// FetchFunc produces the value of a cell.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Cell is a lazily populated, guarded optional value.
// The zero value is an empty Static cell.
type Cell[T any] struct {
	policy Policy

	mu     sync.Mutex
	filled bool
	value  T
	err    error
}

// NewCell returns an empty cell with the given policy.
func NewCell[T any](p Policy) *Cell[T] {
	return &Cell[T]{policy: p}
}

// Get returns the cached value, populating the cell with fetch first if it is
// empty. The mutex is held across fetch so concurrent callers wait for the
// first population instead of fetching themselves.
func (c *Cell[T]) Get(ctx context.Context, fetch FetchFunc[T]) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.filled {
		return c.value, c.err
	}

	v, err := fetch(ctx)
	if err != nil && c.policy == QuasiStatic {
		return v, err
	}

	c.value, c.err, c.filled = v, err, true
	return v, err
}

// Peek returns the cached value without fetching.
func (c *Cell[T]) Peek() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.filled
}

// Policy returns the cell policy.
func (c *Cell[T]) Policy() Policy {
	return c.policy
}
