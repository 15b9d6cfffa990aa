package engine

import (
	"fmt"
	"log/slog"

	"unravel/internal/extractor"
	"unravel/internal/fragment"
)

// State tracks the lifecycle of one decomposition run.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateDrained State = "drained"
)

const (
	DefaultMaxNodes = 1000
	DefaultMaxDepth = 20
)

// Config bounds a run. Pathological input (deeply nested string-encoded
// JSON, self-similar values) would otherwise grow the queue without
// limit.
type Config struct {
	MaxNodes int
	MaxDepth int
}

// Engine drains a FIFO work queue breadth-first, offering every dequeued
// node to each extractor in fixed priority order. One Engine serves
// exactly one run; it is not safe for concurrent use and does not need
// to be.
type Engine struct {
	extractors []extractor.Extractor
	log        *slog.Logger
	maxNodes   int
	maxDepth   int

	state     State
	nodes     []*fragment.Node
	queue     []*fragment.Node
	nextID    int
	truncated bool
}

// New builds an engine with the standard extractor chain. Order matters:
// type-specific extraction runs before the generic fallback, which runs
// before JSON reinterpretation.
func New(cfg Config, log *slog.Logger) *Engine {
	return NewWithExtractors(cfg, log,
		extractor.NewURL(),
		extractor.NewFallback(),
		extractor.NewJSON(),
	)
}

// NewWithExtractors builds an engine running the given extractors, in the
// given order, against every dequeued node.
func NewWithExtractors(cfg Config, log *slog.Logger, exs ...extractor.Extractor) *Engine {
	if log == nil {
		log = slog.Default()
	}
	if cfg.MaxNodes <= 0 {
		cfg.MaxNodes = DefaultMaxNodes
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	return &Engine{
		extractors: exs,
		log:        log,
		maxNodes:   cfg.MaxNodes,
		maxDepth:   cfg.MaxDepth,
		state:      StateIdle,
	}
}

// State returns the engine's lifecycle state.
func (e *Engine) State() State { return e.state }

// Enqueue registers a child node and appends it to the processing queue,
// returning its id. Children past the node or depth budget are dropped
// and 0 is returned; the run keeps going with what it has.
func (e *Engine) Enqueue(parent *fragment.Node, d fragment.Descriptor) int {
	depth := 0
	parentID := 0
	if parent != nil {
		depth = parent.Depth + 1
		parentID = parent.ID
	}
	if len(e.nodes) >= e.maxNodes || depth > e.maxDepth {
		if !e.truncated {
			e.log.Warn("fragment budget exhausted, dropping further children",
				"max_nodes", e.maxNodes, "max_depth", e.maxDepth)
		}
		e.truncated = true
		return 0
	}

	e.nextID++
	n := &fragment.Node{
		ID:          e.nextID,
		Type:        d.Type,
		Key:         d.Key,
		Value:       d.Value,
		ParentID:    parentID,
		Depth:       depth,
		Edge:        d.Edge,
		Annotations: d.Annotations,
	}
	e.nodes = append(e.nodes, n)
	e.queue = append(e.queue, n)
	return n.ID
}

// Run seeds the root node and drains the queue to completion. The graph
// is purely additive: nodes are offered to every extractor exactly once
// and never revisited. A second Run on the same engine is an error.
func (e *Engine) Run(seedType fragment.DataType, value any) (*Graph, error) {
	if e.state != StateIdle {
		return nil, fmt.Errorf("engine already used (state %s)", e.state)
	}
	e.state = StateRunning

	e.Enqueue(nil, fragment.Descriptor{Type: seedType, Value: value})

	for len(e.queue) > 0 {
		n := e.queue[0]
		e.queue = e.queue[1:]
		for _, ex := range e.extractors {
			e.attempt(ex, n)
		}
	}

	e.state = StateDrained
	return e.Export(), nil
}

// attempt isolates extractor failures: a single bad fragment must never
// abort the run.
func (e *Engine) attempt(ex extractor.Extractor, n *fragment.Node) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("extractor failed, continuing",
				"extractor", ex.Name(), "node_id", n.ID, "panic", r)
		}
	}()
	ex.Attempt(e, n)
}

// Nodes returns all nodes created so far, in creation order.
func (e *Engine) Nodes() []*fragment.Node { return e.nodes }
