package lower

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/eafipg/eafipg/internal/ir"
)

// DefaultCacheSize bounds the number of lowered DAGs kept in memory.
const DefaultCacheSize = 128

// Cache memoizes lowered DAGs by content-addressed graph hash, so
// repeated runs of the same stored graph skip re-lowering. Cached DAGs
// are shared; the scheduler treats them as read-only.
type Cache struct {
	dags *lru.Cache[string, *ExecDag]
}

// NewCache creates a cache holding up to size lowered DAGs.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	dags, err := lru.New[string, *ExecDag](size)
	if err != nil {
		return nil, fmt.Errorf("new lowering cache: %w", err)
	}
	return &Cache{dags: dags}, nil
}

// NewDefaultCache returns a cache of DefaultCacheSize.
func NewDefaultCache() *Cache {
	c, err := NewCache(DefaultCacheSize)
	if err != nil {
		panic(err) // unreachable: DefaultCacheSize is positive
	}
	return c
}

// Lower returns the cached DAG for the graph's content hash, lowering and
// caching on miss. The graph must already have passed validation.
func (c *Cache) Lower(g *ir.Graph) (*ExecDag, error) {
	hash, err := ir.GraphHash(g)
	if err != nil {
		return nil, fmt.Errorf("hash graph for lowering cache: %w", err)
	}

	if dag, ok := c.dags.Get(hash); ok {
		slog.Debug("lowering cache hit", "graph_hash", hash)
		return dag, nil
	}

	dag, err := Lower(g)
	if err != nil {
		return nil, err
	}
	c.dags.Add(hash, dag)
	return dag, nil
}

// Len returns the number of cached DAGs. Used for testing and diagnostics.
func (c *Cache) Len() int {
	return c.dags.Len()
}
