package cluster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-9

// checkInvariants asserts the structural invariants of the forest: level
// membership, parent/child link symmetry, aggregate counts and centroids
// derived from children, arena/index consistency, and the marker index
// mapping onto single-marker leaves.
func checkInvariants(t *testing.T, e *Engine) {
	t.Helper()

	leafLevel := e.leafLevel()
	seen := make(map[NodeID]bool)

	for level, ls := range e.levels {
		ls.each(func(id NodeID) {
			n := e.mustNode(id)
			seen[id] = true

			assert.Equal(t, level, n.level, "node %d found in level %d but reports level %d", id, level, n.level)

			if n.level == leafLevel {
				assert.Equal(t, 1, n.count, "leaf %d has count %d", id, n.count)
				assert.NotEqual(t, NoMarker, n.markerID, "leaf %d has no marker id", id)
				assert.Empty(t, n.children, "leaf %d has children", id)
			} else {
				checkInteriorNode(t, e, n)
			}

			if n.level == 0 {
				assert.Equal(t, NoNode, n.parent, "root %d has a parent", id)
			} else {
				assert.NotEqual(t, NoNode, n.parent, "non-root %d has no parent", id)
				parent := e.mustNode(n.parent)
				assert.Equal(t, n.level-1, parent.level, "node %d's parent not one level up", id)
				assert.Contains(t, parent.children, id, "node %d missing from parent %d's children", id, parent.id)
			}
		})
	}

	assert.Equal(t, len(seen), len(e.nodes), "nodes arena size mismatch with level tables")
	for id := range e.nodes {
		assert.True(t, seen[id], "node %d in arena but not in any level", id)
	}

	for markerID, nodeID := range e.markerIndex {
		n := e.mustNode(nodeID)
		assert.Equal(t, leafLevel, n.level, "marker %d's node is not at the leaf level", markerID)
		assert.Equal(t, 1, n.count, "marker %d's node is not a single-marker leaf", markerID)
		assert.Equal(t, markerID, n.markerID, "marker index/node mismatch for %d", markerID)
	}
}

// checkInteriorNode verifies an interior node's aggregates against its
// children. Interior nodes normally hold two or more markers; a singleton
// chain above an isolated marker (or left behind by a removal) carries
// exactly one child and that marker's id.
func checkInteriorNode(t *testing.T, e *Engine, n *node) {
	t.Helper()

	assert.GreaterOrEqual(t, n.count, 1, "interior node %d has count < 1", n.id)
	assert.NotEmpty(t, n.children, "interior node %d has no children", n.id)
	if n.count > 1 {
		assert.Equal(t, NoMarker, n.markerID, "cluster %d carries a marker id", n.id)
	} else {
		assert.NotEqual(t, NoMarker, n.markerID, "singleton node %d carries no marker id", n.id)
	}

	wantCount, wantVisible, wantSelected := 0, 0, 0
	var sumX, sumY float64
	for _, childID := range n.children {
		c := e.mustNode(childID)
		wantCount += c.count
		wantVisible += c.visibleCount
		wantSelected += c.selectedCount
		sumX += float64(c.count) * c.proj.X
		sumY += float64(c.count) * c.proj.Y
	}

	assert.Equal(t, wantCount, n.count, "node %d count differs from children's sum", n.id)
	assert.Equal(t, wantVisible, n.visibleCount, "node %d visible count differs from children's sum", n.id)
	assert.Equal(t, wantSelected, n.selectedCount, "node %d selected count differs from children's sum", n.id)

	if wantCount > 0 {
		wantX := sumX / float64(wantCount)
		wantY := sumY / float64(wantCount)
		assert.Less(t, math.Abs(wantX-n.proj.X), epsilon, "node %d centroid X drifted", n.id)
		assert.Less(t, math.Abs(wantY-n.proj.Y), epsilon, "node %d centroid Y drifted", n.id)
	}
}

// totalRootCount sums count over every level-0 root; it must always equal
// the number of live markers.
func totalRootCount(e *Engine) int {
	total := 0
	e.levels[0].each(func(id NodeID) {
		total += e.mustNode(id).count
	})
	return total
}

func TestInvariantsAfterInsertions(t *testing.T) {
	e := newTestEngine(WithClusterDistance(5))
	e.SetClustering(true)

	for i := 0; i < 30; i++ {
		e.Add(GeoCoordinates{Lon: float64(i % 5), Lat: float64(i % 3)})
	}

	checkInvariants(t, e)
	assert.Equal(t, 30, totalRootCount(e))
}

func TestInvariantsAfterRemovals(t *testing.T) {
	e := newTestEngine(WithClusterDistance(5))
	e.SetClustering(true)

	ids := make([]MarkerID, 0, 20)
	for i := 0; i < 20; i++ {
		ids = append(ids, e.Add(GeoCoordinates{Lon: float64(i % 4), Lat: float64(i % 4)}))
	}

	for i, id := range ids {
		if i%2 == 0 {
			ok := e.Remove(id)
			assert.True(t, ok)
		}
	}

	checkInvariants(t, e)
	assert.Equal(t, 10, totalRootCount(e))
}

func TestInvariantsAfterRemoveAll(t *testing.T) {
	e := newTestEngine()
	for i := 0; i < 10; i++ {
		e.Add(GeoCoordinates{Lon: float64(i), Lat: float64(i)})
	}
	e.RemoveAll()

	checkInvariants(t, e)
	assert.Equal(t, 0, len(e.nodes))
	assert.Equal(t, 0, len(e.markerIndex))
}

func TestInvariantsAfterRecompute(t *testing.T) {
	e := newTestEngine(WithClusterDistance(5))
	e.SetClustering(true)
	for i := 0; i < 25; i++ {
		e.Add(GeoCoordinates{Lon: float64(i % 6), Lat: float64(i % 6)})
	}

	e.Recompute()
	checkInvariants(t, e)
	assert.Equal(t, 25, totalRootCount(e))
}
