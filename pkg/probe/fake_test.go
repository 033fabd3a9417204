package probe

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/hostprobe/pkg/source"
)

// fakeSource serves canned answers. Missing entries are unavailable.
type fakeSource struct {
	dialect source.Dialect

	mu       sync.Mutex
	text     map[source.ID][]string
	trees    map[source.ID]*source.Node
	keyed    map[source.ID]map[string]any
	counters [][][]uint64
	reads    int
	fail     map[source.ID]bool
}

func newFake(d source.Dialect) *fakeSource {
	return &fakeSource{
		dialect: d,
		text:    make(map[source.ID][]string),
		trees:   make(map[source.ID]*source.Node),
		keyed:   make(map[source.ID]map[string]any),
		fail:    make(map[source.ID]bool),
	}
}

func (f *fakeSource) setFail(id source.ID, fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[id] = fail
}

func (f *fakeSource) Dialect() source.Dialect { return f.dialect }

func (f *fakeSource) TextTable(_ context.Context, id source.ID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.text[id]
	if !ok || f.fail[id] {
		return nil, source.Unavailable(id, nil)
	}
	return v, nil
}

func (f *fakeSource) StructuredTree(_ context.Context, id source.ID) (*source.Node, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.trees[id]
	if !ok || f.fail[id] {
		return nil, source.Unavailable(id, nil)
	}
	return v, nil
}

func (f *fakeSource) KeyedFields(_ context.Context, id source.ID) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.keyed[id]
	if !ok || f.fail[id] {
		return nil, source.Unavailable(id, nil)
	}
	return v, nil
}

func (f *fakeSource) CounterSnapshot(context.Context) ([][]uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.counters) == 0 || f.fail[source.Counters] {
		return nil, source.Unavailable(source.Counters, nil)
	}
	i := min(f.reads, len(f.counters)-1)
	f.reads++
	return f.counters[i], nil
}

func (f *fakeSource) tree(t *testing.T, id source.ID, doc string, spec source.TreeSpec) {
	t.Helper()
	root, err := source.DecodeTree([]byte(doc), spec)
	require.NoError(t, err)
	f.trees[id] = root
}

var fixedNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestProbe(src source.Source) *Probe {
	return New(src,
		WithSamplingWindow(time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithClock(func() time.Time { return fixedNow }),
	)
}
