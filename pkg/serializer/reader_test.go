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

package serializer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"snap.json":      FormatJSON,
		"snap.YAML":      FormatYAML,
		"/tmp/snap.yml":  FormatYAML,
		"snap.txt":       FormatTable,
		"snap.table":     FormatTable,
		"snap":           FormatJSON,
		"archive.tar.gz": FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %s, want %s", path, got, want)
		}
	}
}

func TestNewReader_Formats(t *testing.T) {
	if _, err := NewReader(FormatTable, strings.NewReader("")); err == nil {
		t.Error("expected error for table format")
	}
	if _, err := NewReader("toml", strings.NewReader("")); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := NewFileReader(FormatTable, "x.txt"); err == nil {
		t.Error("expected error for table file")
	}
}

func TestReader_DeserializeNil(t *testing.T) {
	var r *Reader
	if err := r.Deserialize(&struct{}{}); err == nil {
		t.Error("expected error for nil reader")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil reader: %v", err)
	}

	r, err := NewReader(FormatJSON, nil)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if err := r.Deserialize(&struct{}{}); err == nil {
		t.Error("expected error for nil input")
	}
}

func TestReader_InvalidDocument(t *testing.T) {
	for _, f := range []Format{FormatJSON, FormatYAML} {
		r, err := NewReader(f, strings.NewReader("{not: [valid"))
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}
		var v map[string]any
		if err := r.Deserialize(&v); err == nil {
			t.Errorf("%s: expected decode error", f)
		}
	}
}

type closeRecorder struct {
	*strings.Reader
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	if c.closed > 1 {
		return errors.New("closed twice")
	}
	return nil
}

func TestReader_CloseOnce(t *testing.T) {
	src := &closeRecorder{Reader: strings.NewReader(`{}`)}
	r, err := NewReader(FormatJSON, src)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if src.closed != 1 {
		t.Errorf("closed %d times", src.closed)
	}
}

func TestFromFile_RoundTrip(t *testing.T) {
	want := testDocument()
	want.Skipped = ""

	for _, ext := range []string{"json", "yaml"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "snap."+ext)
			w := NewFileWriterOrStdout(FormatFromPath(path), path)
			if err := w.Serialize(context.Background(), want); err != nil {
				t.Fatalf("Serialize failed: %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			got, err := FromFile[testDoc](path)
			if err != nil {
				t.Fatalf("FromFile failed: %v", err)
			}
			if got.Kind != want.Kind || !got.Taken.Equal(want.Taken) || got.Uptime != want.Uptime {
				t.Errorf("scalars differ: got %+v", got)
			}
			if len(got.Interfaces) != 2 || *got.Interfaces[0].IPv4 != *want.Interfaces[0].IPv4 {
				t.Errorf("interfaces differ: got %+v", got.Interfaces)
			}
			if got.Interfaces[1].MAC != nil {
				t.Error("absent MAC came back present")
			}
		})
	}
}

func TestFromFile_Errors(t *testing.T) {
	if _, err := FromFile[testDoc](filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("[1,2"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := FromFile[testDoc](path); err == nil {
		t.Error("expected error for truncated document")
	}
}
