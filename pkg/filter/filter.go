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

// Package filter selects list entries by name using wildcard patterns.
//
// Supported patterns:
//   - "prefix*" matches names starting with "prefix"
//   - "*suffix" matches names ending with "suffix"
//   - "*contains*" matches names containing "contains"
//   - "a*b*c" matches names holding the segments in order
//   - "exact" matches the name exactly
//
// Out and In keep the order of the input and never return nil.
package filter

import "strings"

// Out returns the items whose name matches none of the patterns.
func Out[T any](items []T, patterns []string, name func(T) string) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if !MatchAny(name(item), patterns) {
			result = append(result, item)
		}
	}
	return result
}

// In returns the items whose name matches at least one of the patterns.
// This is the complement of Out.
func In[T any](items []T, patterns []string, name func(T) string) []T {
	result := make([]T, 0, len(items))
	for _, item := range items {
		if MatchAny(name(item), patterns) {
			result = append(result, item)
		}
	}
	return result
}

// MatchAny reports whether name matches one of the patterns.
func MatchAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if Match(name, pattern) {
			return true
		}
	}
	return false
}

// Match reports whether name matches a wildcard pattern.
func Match(name, pattern string) bool {
	if !strings.Contains(pattern, "*") {
		return name == pattern
	}

	segments := strings.Split(pattern, "*")

	pos := 0
	for i, segment := range segments {
		if segment == "" {
			continue // consecutive or edge wildcards
		}

		// first segment is anchored unless the pattern starts with *
		if i == 0 {
			if !strings.HasPrefix(name, segment) {
				return false
			}
			pos = len(segment)
			continue
		}

		// last segment is anchored unless the pattern ends with *
		if i == len(segments)-1 {
			return len(name)-pos >= len(segment) && strings.HasSuffix(name[pos:], segment)
		}

		idx := strings.Index(name[pos:], segment)
		if idx == -1 {
			return false
		}
		pos += idx + len(segment)
	}

	return true
}
