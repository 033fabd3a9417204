package probe

import (
	"context"
	"maps"
	"sync"

	"github.com/NVIDIA/hostprobe/pkg/source"
)

// countingSource counts the reads that reach the wrapped source.
type countingSource struct {
	source.Source

	mu     sync.Mutex
	counts map[source.ID]int
}

func newCountingSource(src source.Source) *countingSource {
	return &countingSource{Source: src, counts: make(map[source.ID]int)}
}

func (c *countingSource) record(id source.ID, err error) {
	c.mu.Lock()
	c.counts[id]++
	c.mu.Unlock()

	status := "success"
	if err != nil {
		status = "error"
	}
	sourceFetchTotal.WithLabelValues(string(id), status).Inc()
}

func (c *countingSource) snapshot() map[source.ID]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return maps.Clone(c.counts)
}

func (c *countingSource) TextTable(ctx context.Context, id source.ID) ([]string, error) {
	v, err := c.Source.TextTable(ctx, id)
	c.record(id, err)
	return v, err
}

func (c *countingSource) StructuredTree(ctx context.Context, id source.ID) (*source.Node, error) {
	v, err := c.Source.StructuredTree(ctx, id)
	c.record(id, err)
	return v, err
}

func (c *countingSource) KeyedFields(ctx context.Context, id source.ID) (map[string]any, error) {
	v, err := c.Source.KeyedFields(ctx, id)
	c.record(id, err)
	return v, err
}

func (c *countingSource) CounterSnapshot(ctx context.Context) ([][]uint64, error) {
	v, err := c.Source.CounterSnapshot(ctx)
	c.record(source.Counters, err)
	return v, err
}
