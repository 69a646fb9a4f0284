package store

import "time"

// Op identifies a store operation for latency purposes.
type Op struct {
	Entity string // "task", "list" or "category"
	Kind   OpKind
}

// OpKind is the kind of store operation.
type OpKind int

const (
	OpList OpKind = iota
	OpGet
	OpCreate
	OpUpdate
	OpDelete
)

// Latency decides how long an operation is held before it runs.
type Latency interface {
	Delay(op Op) time.Duration
}

// NoLatency runs every operation immediately.
type NoLatency struct{}

// Delay implements Latency.
func (NoLatency) Delay(Op) time.Duration { return 0 }

// SimulatedLatency replays fixed per-operation delays to mimic a remote API.
type SimulatedLatency map[string][5]time.Duration

// DefaultSimulatedLatency returns the delay table of the mock API, indexed by
// OpKind: list, get, create, update, delete.
func DefaultSimulatedLatency() SimulatedLatency {
	ms := time.Millisecond
	return SimulatedLatency{
		entityTask:     {300 * ms, 200 * ms, 400 * ms, 300 * ms, 250 * ms},
		entityList:     {250 * ms, 200 * ms, 400 * ms, 300 * ms, 250 * ms},
		entityCategory: {200 * ms, 150 * ms, 300 * ms, 250 * ms, 200 * ms},
	}
}

// Delay implements Latency. Unknown entities are not delayed.
func (l SimulatedLatency) Delay(op Op) time.Duration {
	row, ok := l[op.Entity]
	if !ok || op.Kind < OpList || op.Kind > OpDelete {
		return 0
	}
	return row[op.Kind]
}

func wait(l Latency, entity string, kind OpKind) {
	if l == nil {
		return
	}
	if d := l.Delay(Op{Entity: entity, Kind: kind}); d > 0 {
		time.Sleep(d)
	}
}
