package cluster

import "gonum.org/v1/gonum/spatial/r2"

// weightedCentroid returns the count-weighted mean of two projected points.
func weightedCentroid(aCount int, aProj r2.Vec, bCount int, bProj r2.Vec) r2.Vec {
	total := float64(aCount + bCount)
	return r2.Vec{
		X: (float64(aCount)*aProj.X + float64(bCount)*bProj.X) / total,
		Y: (float64(aCount)*aProj.Y + float64(bCount)*bProj.Y) / total,
	}
}

// findClosest searches level for the node minimizing the scaled squared
// Euclidean distance to target (excluding excludeID), returning NoNode if
// nothing falls within the configured cluster-distance threshold. The scale
// factor couples the threshold to the current camera zoom, so "close" means
// close on screen.
//
// This is a linear scan over the level's insertion-ordered node list rather
// than a spatial-index query: the tie-break for equidistant candidates must
// be reproducible for a given insertion history, and a spatial index would
// reorder points internally. Level sets stay small enough (one viewport's
// worth of POIs) that the scan is not the bottleneck.
func (e *Engine) findClosest(levelIdx int, target *node, excludeID NodeID) NodeID {
	closestID := NoNode
	closestD2 := e.distancePx
	scale := e.proj.CurrentScale()

	e.levels[levelIdx].each(func(id NodeID) {
		if id == excludeID {
			return
		}
		other := e.mustNode(id)
		dx := other.proj.X - target.proj.X
		dy := other.proj.Y - target.proj.Y
		d2 := (dx*dx + dy*dy) * scale
		if d2 <= closestD2 {
			closestID = id
			closestD2 = d2
		}
	})
	return closestID
}

// mergeNodes merges b into a: both must be at the same level. a absorbs b's
// count/visible/selected aggregates and children; b is then deleted from
// its level, the arena, and its parent's children. If b's parent differs
// from a's parent, it is returned so the caller can schedule a merge of the
// two parents at the next level up.
func (e *Engine) mergeNodes(a, b *node) (parentToMerge NodeID) {
	if a.level != b.level {
		abort(e.diag, "merge operands at different levels: node %d (level %d) vs node %d (level %d)", a.id, a.level, b.id, b.level)
	}

	newCount := a.count + b.count
	a.proj = weightedCentroid(a.count, a.proj, b.count, b.proj)
	a.count = newCount
	a.visibleCount += b.visibleCount
	a.selectedCount += b.selectedCount
	a.markerID = NoMarker

	for _, childID := range b.children {
		child := e.mustNode(childID)
		child.parent = a.id
		a.addChild(childID)
	}

	// Bookkeeping only: the refinement ascent recomputes both parents'
	// aggregates authoritatively from their children on its next
	// iteration. This keeps the intermediate state consistent until then.
	if a.parent != NoNode {
		e.mustNode(a.parent).count += b.count
	}
	bParent := b.parent
	if bParent != NoNode {
		e.mustNode(bParent).count -= b.count
		e.mustNode(bParent).removeChild(b.id)
	}
	if bParent != NoNode && bParent != a.parent {
		parentToMerge = bParent
	} else {
		parentToMerge = NoNode
	}

	if !e.levels[b.level].has(b.id) {
		abort(e.diag, "node %d not found at level %d", b.id, b.level)
	}
	e.levels[b.level].remove(b.id)
	delete(e.nodes, b.id)

	return parentToMerge
}
