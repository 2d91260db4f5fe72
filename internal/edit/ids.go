package edit

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/atelier/internal/content"
)

// IDGenerator assigns content ids to targets that have none.
//
// hint is the target's content path when it has one, otherwise its text.
// On a collision the controller calls Generate again with a suffixed hint.
type IDGenerator interface {
	Generate(hint string) string
}

// CounterPrefix prefixes ids produced by CounterIDs.
const CounterPrefix = "content-"

// CounterIDs produces "content-1", "content-2", ... from a Sequencer.
//
// Thread-safety: safe for concurrent use when the Sequencer is.
type CounterIDs struct {
	seq Sequencer
}

// NewCounterIDs creates a counter generator resuming after the highest
// "content-N" id in existing. Pass the current store keys so a fresh
// process never reissues an id persisted by an earlier one.
func NewCounterIDs(existing ...string) *CounterIDs {
	var highest int64
	for _, id := range existing {
		n, ok := parseCounterID(id)
		if ok && n > highest {
			highest = n
		}
	}
	return &CounterIDs{seq: NewClockAt(highest)}
}

// NewCounterIDsFrom creates a counter generator over a caller-supplied
// Sequencer (for tests that need to reset numbering).
func NewCounterIDsFrom(seq Sequencer) *CounterIDs {
	return &CounterIDs{seq: seq}
}

// Generate implements IDGenerator. The hint is ignored.
func (g *CounterIDs) Generate(string) string {
	return fmt.Sprintf("%s%d", CounterPrefix, g.seq.Next())
}

func parseCounterID(id string) (int64, bool) {
	rest, ok := strings.CutPrefix(id, CounterPrefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// HashIDs derives ids from content paths via content.DerivedID.
// The same path always yields the same id across processes.
type HashIDs struct{}

// Generate implements IDGenerator.
func (HashIDs) Generate(hint string) string {
	return content.DerivedID(hint)
}

// UUIDv7IDs generates time-sortable UUIDv7 ids.
//
// UUIDv7 carries 74 random bits next to its timestamp, so ids minted in
// the same millisecond do not collide.
//
// Thread-safety: UUIDv7IDs is stateless and safe for concurrent use.
type UUIDv7IDs struct{}

// Generate implements IDGenerator. The hint is ignored.
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7IDs) Generate(string) string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedIDs returns predetermined ids for deterministic tests.
type FixedIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDs creates a generator that returns ids in order.
func NewFixedIDs(ids ...string) *FixedIDs {
	return &FixedIDs{ids: ids}
}

// Generate returns the next predetermined id.
//
// Panics if all ids have been consumed. This is a fail-fast approach
// to catch tests that assign more ids than they declared.
func (g *FixedIDs) Generate(string) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic(fmt.Sprintf("FixedIDs: exhausted after %d ids", len(g.ids)))
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
