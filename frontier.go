package cluster

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// RenderFrontier is the set of visual items a renderer should draw at the
// zoom level Frontier selected: lone markers as points, aggregates as
// clusters with their contained counts.
type RenderFrontier struct {
	Points   []r2.Vec            `json:"points"`
	Clusters []ClusterDescriptor `json:"clusters"`
}

// ClusterDescriptor describes one aggregated cluster node in a RenderFrontier.
type ClusterDescriptor struct {
	Position r2.Vec `json:"position"`
	Count    int    `json:"count"`
}

// Frontier computes the zoom level implied by cameraScale and returns every
// node at that level with at least one visible descendant, split into lone
// points and clusters. Nodes whose descendants are all hidden are omitted.
func (e *Engine) Frontier(cameraScale float64) RenderFrontier {
	levelIdx := e.zoomLevel(cameraScale)

	out := RenderFrontier{}
	e.levels[levelIdx].each(func(id NodeID) {
		n := e.mustNode(id)
		if n.visibleCount <= 0 {
			return
		}
		if n.count == 1 {
			out.Points = append(out.Points, n.proj)
			return
		}
		out.Clusters = append(out.Clusters, ClusterDescriptor{
			Position: n.proj,
			Count:    n.count,
		})
	})
	return out
}

// zoomLevel maps a camera scale onto a level-table index:
// round(17 - log2(1/scale)) - 1, clamped into [0, depth-1], and forced to
// the leaf level when clustering is disabled. Higher scale means more
// zoomed in, which lands on a finer level.
func (e *Engine) zoomLevel(cameraScale float64) int {
	if !e.clustering {
		return e.leafLevel()
	}
	raw := math.Round(17.0-math.Log2(1.0/cameraScale)) - 1
	zoom := int(raw)
	if zoom < 0 {
		zoom = 0
	}
	if last := e.leafLevel(); zoom > last {
		zoom = last
	}
	return zoom
}

// ClusterChildrenResult is the output of ClusterChildren: the direct
// children of a node, split into marker ids (single-marker children) and
// node ids (sub-cluster children).
type ClusterChildrenResult struct {
	ChildMarkers []MarkerID `json:"child_markers"`
	ChildNodes   []NodeID   `json:"child_clusters"`
}

// ClusterChildren returns the direct children of id, split into lone
// markers and sub-clusters. It returns a zero-value result if id is
// unknown, never an error.
func (e *Engine) ClusterChildren(id NodeID) ClusterChildrenResult {
	n := e.node(id)
	if n == nil {
		return ClusterChildrenResult{}
	}

	var res ClusterChildrenResult
	for _, childID := range n.children {
		child := e.mustNode(childID)
		if child.count == 1 {
			res.ChildMarkers = append(res.ChildMarkers, child.markerID)
		} else {
			res.ChildNodes = append(res.ChildNodes, child.id)
		}
	}
	return res
}

// AllMarkersIn returns every marker id reachable under id, recursively. If
// id itself names a single marker's node it is the sole result; if id is
// unknown the result is empty.
func (e *Engine) AllMarkersIn(id NodeID) []MarkerID {
	n := e.node(id)
	if n == nil {
		return nil
	}
	if n.count == 1 {
		return []MarkerID{n.markerID}
	}

	var markers []MarkerID
	e.collectMarkers(n, &markers)
	return markers
}

func (e *Engine) collectMarkers(n *node, out *[]MarkerID) {
	for _, childID := range n.children {
		child := e.mustNode(childID)
		if child.count == 1 {
			*out = append(*out, child.markerID)
		} else {
			e.collectMarkers(child, out)
		}
	}
}
