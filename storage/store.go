package storage

import (
	"errors"
	"fmt"
)

// NodeID addresses a node inside a NodeStorer. IDs are dense and assigned
// in insertion order starting at 0.
type NodeID int

// NoNode is the NodeID used for absent parent or child references.
const NoNode NodeID = -1

var ErrUnknownNode = errors.New("unknown node id")

// Valid reports whether id may address a stored node.
func (id NodeID) Valid() bool {
	return id >= 0
}

// NodeStorer is the single owning table for all nodes of a tree build.
// Nodes reference each other by NodeID only.
type NodeStorer[N any] interface {
	// Put appends a node and returns its id.
	Put(node N) NodeID
	// Get returns a copy of the node stored at id.
	Get(id NodeID) (N, bool)
	// Set replaces the node stored at id.
	Set(id NodeID, node N) error
	// Reset drops all nodes. Previously issued ids become invalid.
	Reset()
	// Count returns the number of stored nodes.
	Count() int
}

var _ NodeStorer[int] = &InMemoryNodeStore[int]{}

type InMemoryNodeStore[N any] struct {
	nodes []N
}

func NewInMemoryNodeStore[N any](capacity int) *InMemoryNodeStore[N] {
	if capacity < 0 {
		capacity = 0
	}
	return &InMemoryNodeStore[N]{
		nodes: make([]N, 0, capacity),
	}
}

func (s *InMemoryNodeStore[N]) Put(node N) NodeID {
	s.nodes = append(s.nodes, node)
	return NodeID(len(s.nodes) - 1)
}

func (s *InMemoryNodeStore[N]) Get(id NodeID) (N, bool) {
	if !s.contains(id) {
		var zero N
		return zero, false
	}
	return s.nodes[id], true
}

func (s *InMemoryNodeStore[N]) Set(id NodeID, node N) error {
	if !s.contains(id) {
		return fmt.Errorf("%w: %d (count: %d)", ErrUnknownNode, id, len(s.nodes))
	}
	s.nodes[id] = node
	return nil
}

// Reset keeps the allocated capacity for the next build.
func (s *InMemoryNodeStore[N]) Reset() {
	clear(s.nodes)
	s.nodes = s.nodes[:0]
}

func (s *InMemoryNodeStore[N]) Count() int {
	return len(s.nodes)
}

func (s *InMemoryNodeStore[N]) contains(id NodeID) bool {
	return id >= 0 && int(id) < len(s.nodes)
}
