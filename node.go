package cluster

import "gonum.org/v1/gonum/spatial/r2"

// MarkerID uniquely identifies a marker for the lifetime of the engine.
// Ids are assigned monotonically by Add and are never reused, except after
// RemoveAll resets the generator.
type MarkerID int64

// NoMarker is the distinguished value of a node's markerID when the node is
// an interior cluster rather than a single-marker leaf.
const NoMarker MarkerID = -1

// NodeID uniquely identifies a node (leaf or interior) in the cluster tree
// for as long as that node exists. Ids are reassigned by Recompute.
type NodeID int64

// NoNode is the distinguished value of a node's parent when the node is a
// root (level 0), and the zero value returned for lookups that fail.
const NoNode NodeID = -1

// GeoCoordinates is a geographic position in degrees.
type GeoCoordinates struct {
	Lat float64
	Lon float64
}

// node is a single entry in the cluster-tree arena. Nodes reference each
// other by NodeID, never by pointer, so the tree has no ownership cycles
// and callers outside the package can never hold a dangling reference.
type node struct {
	id    NodeID
	level int

	proj r2.Vec // count-weighted centroid in projected coordinates

	count         int // number of leaf markers in this subtree, >= 1
	visibleCount  int
	selectedCount int

	markerID MarkerID // valid iff count == 1, otherwise NoMarker

	parent   NodeID // NoNode iff level == 0
	children []NodeID
}

// addChild appends a child id, keeping children in insertion order.
func (n *node) addChild(id NodeID) {
	n.children = append(n.children, id)
}

// removeChild deletes a child id, preserving the order of the rest.
func (n *node) removeChild(id NodeID) {
	for i, c := range n.children {
		if c == id {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}
