package blocktree

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/oklog/ulid/v2"
)

// IDPrefix is prepended to every generated block id
const IDPrefix = "block-"

// IDGenerator produces identifiers for new blocks
type IDGenerator interface {
	Next() string
}

// ULIDGenerator combines a millisecond timestamp with monotonic random entropy,
// so ids never repeat within a process and do not collide with ids of
// documents authored elsewhere. Safe for concurrent use.
type ULIDGenerator struct{}

func (ULIDGenerator) Next() string {
	return IDPrefix + strings.ToLower(ulid.Make().String())
}

// DefaultIDGenerator is used when an Engine is built without a generator
var DefaultIDGenerator IDGenerator = ULIDGenerator{}

// SequenceGenerator yields prefix-1, prefix-2, ... and is meant for tests and
// reproducible tooling output.
type SequenceGenerator struct {
	prefix string
	n      atomic.Uint64
}

func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

func (g *SequenceGenerator) Next() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.n.Add(1))
}
