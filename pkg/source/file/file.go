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

package file

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/NVIDIA/hostprobe/pkg/errors"
)

// Option configures a Parser.
type Option func(*Parser)

// Parser splits text into lines or key/value pairs.
type Parser struct {
	delimiter       string
	maxSize         int
	skipComments    bool
	kvDelimiter     string
	vDefault        string
	vTrimChars      string
	skipEmptyValues bool
	firstWins       bool
}

// WithDelimiter sets the delimiter used to split entries. Default is "\n".
func WithDelimiter(delim string) Option {
	return func(p *Parser) {
		p.delimiter = delim
	}
}

// WithMaxSize sets the maximum content size in bytes. Default is 1MB.
func WithMaxSize(size int) Option {
	return func(p *Parser) {
		p.maxSize = size
	}
}

// WithSkipComments sets whether lines starting with '#' are dropped.
// Default is true.
func WithSkipComments(skip bool) Option {
	return func(p *Parser) {
		p.skipComments = skip
	}
}

// WithKVDelimiter sets the key/value delimiter used by the map readers.
// Default is "=".
func WithKVDelimiter(kvDelim string) Option {
	return func(p *Parser) {
		p.kvDelimiter = kvDelim
	}
}

// WithVDefault sets the value used for keys without a delimiter.
func WithVDefault(vDefault string) Option {
	return func(p *Parser) {
		p.vDefault = vDefault
	}
}

// WithVTrimChars sets characters trimmed from both ends of values.
func WithVTrimChars(trimChars string) Option {
	return func(p *Parser) {
		p.vTrimChars = trimChars
	}
}

// WithSkipEmptyValues drops keys whose value is empty.
func WithSkipEmptyValues(skip bool) Option {
	return func(p *Parser) {
		p.skipEmptyValues = skip
	}
}

// WithFirstValueWins keeps the first value seen for a repeated key instead
// of the last. /proc/cpuinfo repeats every key once per logical processor.
func WithFirstValueWins(first bool) Option {
	return func(p *Parser) {
		p.firstWins = first
	}
}

// NewParser creates a parser with the provided options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		delimiter:    "\n",
		maxSize:      1 << 20,
		skipComments: true,
		kvDelimiter:  "=",
	}

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GetLines reads the file at path and returns its non-empty lines.
func (p *Parser) GetLines(path string) ([]string, error) {
	if path == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "file path cannot be empty")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeUnavailable,
			"failed to read file", err, map[string]any{"path": path})
	}

	return p.ParseLines(b, path)
}

// GetMap reads the file at path and returns its key/value pairs.
func (p *Parser) GetMap(path string) (map[string]string, error) {
	lines, err := p.GetLines(path)
	if err != nil {
		return nil, err
	}
	return p.toMap(lines), nil
}

// ParseLines splits already captured content into non-empty lines.
// origin names the content in errors and logs.
func (p *Parser) ParseLines(b []byte, origin string) ([]string, error) {
	if !utf8.Valid(b) {
		return nil, errors.NewWithContext(errors.ErrCodeFieldParse,
			"content is not valid UTF-8", map[string]any{"origin": origin})
	}

	if len(b) > p.maxSize {
		return nil, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("content exceeds maximum size of %d bytes", p.maxSize),
			map[string]any{"origin": origin})
	}

	parts := strings.Split(string(b), p.delimiter)

	result := make([]string, 0, len(parts))
	for _, part := range parts {
		clean := strings.TrimSpace(part)
		if clean == "" {
			continue
		}
		if p.skipComments && strings.HasPrefix(clean, "#") {
			continue
		}
		result = append(result, clean)
	}

	return result, nil
}

// ParseMap splits already captured content into key/value pairs.
func (p *Parser) ParseMap(b []byte, origin string) (map[string]string, error) {
	lines, err := p.ParseLines(b, origin)
	if err != nil {
		return nil, err
	}
	return p.toMap(lines), nil
}

func (p *Parser) toMap(lines []string) map[string]string {
	result := make(map[string]string, len(lines))
	for _, line := range lines {
		key, value, found := strings.Cut(line, p.kvDelimiter)
		key = strings.TrimSpace(key)

		if !found {
			if p.skipEmptyValues && p.vDefault == "" {
				continue
			}
			value = p.vDefault
		} else {
			value = strings.TrimSpace(value)
			if p.vTrimChars != "" {
				value = strings.Trim(value, p.vTrimChars)
			}
			if p.skipEmptyValues && value == "" {
				slog.Debug("skipping entry with empty value", "key", key)
				continue
			}
		}

		if _, seen := result[key]; seen && p.firstWins {
			continue
		}
		result[key] = value
	}
	return result
}
