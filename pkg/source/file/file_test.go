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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/hostprobe/pkg/errors"
)

const cpuinfo = `processor	: 0
vendor_id	: GenuineIntel
model name	: Intel(R) Xeon(R) CPU E5-2680 v4 @ 2.40GHz
physical id	: 0
siblings	: 28
cpu cores	: 14
cpu MHz		: 2394.454
flags		:

processor	: 1
vendor_id	: GenuineIntel
model name	: Intel(R) Xeon(R) CPU E5-2680 v4 @ 2.40GHz
physical id	: 1
siblings	: 28
cpu cores	: 14
cpu MHz		: 1200.000
`

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewParser_Defaults(t *testing.T) {
	p := NewParser()
	assert.Equal(t, "\n", p.delimiter)
	assert.Equal(t, 1<<20, p.maxSize)
	assert.True(t, p.skipComments)
	assert.Equal(t, "=", p.kvDelimiter)
	assert.False(t, p.firstWins)
}

func TestGetMap_CPUInfoFirstWins(t *testing.T) {
	path := writeTemp(t, cpuinfo)

	p := NewParser(WithKVDelimiter(":"), WithFirstValueWins(true))
	m, err := p.GetMap(path)
	require.NoError(t, err)

	assert.Equal(t, "Intel(R) Xeon(R) CPU E5-2680 v4 @ 2.40GHz", m["model name"])
	assert.Equal(t, "0", m["physical id"])
	assert.Equal(t, "2394.454", m["cpu MHz"])
	assert.Equal(t, "", m["flags"])
}

func TestGetMap_LastWinsByDefault(t *testing.T) {
	p := NewParser(WithKVDelimiter(":"))
	m, err := p.ParseMap([]byte(cpuinfo), "cpuinfo")
	require.NoError(t, err)
	assert.Equal(t, "1", m["physical id"])
}

func TestParseMap_Options(t *testing.T) {
	content := `NAME="Ubuntu"
# comment
VERSION_ID="24.04"
EMPTY=
FLAG
`
	tests := []struct {
		name string
		opts []Option
		want map[string]string
	}{
		{
			name: "trim quotes",
			opts: []Option{WithVTrimChars(`"`)},
			want: map[string]string{"NAME": "Ubuntu", "VERSION_ID": "24.04", "EMPTY": "", "FLAG": ""},
		},
		{
			name: "skip empty",
			opts: []Option{WithVTrimChars(`"`), WithSkipEmptyValues(true)},
			want: map[string]string{"NAME": "Ubuntu", "VERSION_ID": "24.04"},
		},
		{
			name: "default value",
			opts: []Option{WithVTrimChars(`"`), WithVDefault("true")},
			want: map[string]string{"NAME": "Ubuntu", "VERSION_ID": "24.04", "EMPTY": "", "FLAG": "true"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewParser(tt.opts...).ParseMap([]byte(content), "os-release")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLines(t *testing.T) {
	stat := "cpu  10 0 5 100 0\ncpu0 5 0 2 50 0\n\n#x\nintr 1 2\n"

	lines, err := NewParser().ParseLines([]byte(stat), "stat")
	require.NoError(t, err)
	assert.Equal(t, []string{"cpu  10 0 5 100 0", "cpu0 5 0 2 50 0", "intr 1 2"}, lines)

	lines, err = NewParser(WithSkipComments(false)).ParseLines([]byte(stat), "stat")
	require.NoError(t, err)
	assert.Len(t, lines, 4)
}

func TestParseLines_CustomDelimiter(t *testing.T) {
	lines, err := NewParser(WithDelimiter(";")).ParseLines([]byte("a; b ;;c"), "inline")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestParseLines_Errors(t *testing.T) {
	_, err := NewParser().ParseLines([]byte{0xff, 0xfe}, "bin")
	assert.True(t, errors.IsCode(err, errors.ErrCodeFieldParse))

	_, err = NewParser(WithMaxSize(4)).ParseLines([]byte(strings.Repeat("x", 5)), "big")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))
}

func TestGetLines_Errors(t *testing.T) {
	_, err := NewParser().GetLines("")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidRequest))

	_, err = NewParser().GetLines(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnavailable))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
