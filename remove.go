package cluster

// Remove deletes the marker identified by id, propagating count and
// centroid updates up the parent chain and deleting any interior node whose
// count reaches zero. It reports false if id is unknown.
//
// An ancestor left with a single remaining descendant adopts that
// descendant's marker id, so the surviving marker renders as a lone point
// at every level without a rebuild. Removal never re-clusters survivors:
// two siblings that drift into merging range stay separate until the next
// Recompute.
func (e *Engine) Remove(id MarkerID) bool {
	leafID, ok := e.markerIndex[id]
	if !ok {
		e.diag.Debugf("remove: marker %d doesn't exist", id)
		return false
	}
	leaf := e.mustNode(leafID)

	deltaVisible := 0
	if e.visible[id] {
		deltaVisible = 1
	}
	deltaSelected := 0
	if e.selected[id] {
		deltaSelected = 1
	}

	if leaf.parent != NoNode {
		e.mustNode(leaf.parent).removeChild(leaf.id)
	}

	cur := leaf
	parentID := leaf.parent
	for parentID != NoNode {
		parent := e.mustNode(parentID)

		if cur.count < 1 {
			e.diag.Debugf("deleting node %d level %d", cur.id, cur.level)
			parent.removeChild(cur.id)
			e.levels[cur.level].remove(cur.id)
			delete(e.nodes, cur.id)
		}

		if parent.count > 1 {
			denom := float64(parent.count - 1)
			parent.proj.X = (float64(parent.count)*parent.proj.X - leaf.proj.X) / denom
			parent.proj.Y = (float64(parent.count)*parent.proj.Y - leaf.proj.Y) / denom
		}

		parent.count--
		parent.visibleCount -= deltaVisible
		parent.selectedCount -= deltaSelected

		if parent.count == 1 && len(parent.children) > 0 {
			extant := e.mustNode(parent.children[0])
			parent.markerID = extant.markerID
		}

		cur = parent
		parentID = parent.parent
	}

	// The walk above stops at (but does not itself delete) the root. Free
	// it here if it was emptied out.
	if cur.parent == NoNode && cur.count == 0 {
		if !e.levels[cur.level].has(cur.id) {
			abort(e.diag, "root node %d missing from level %d during removal", cur.id, cur.level)
		}
		e.levels[cur.level].remove(cur.id)
		delete(e.nodes, cur.id)
	}

	delete(e.nodes, leaf.id)
	delete(e.markerIndex, id)
	delete(e.visible, id)
	delete(e.selected, id)
	e.levels[leaf.level].remove(leaf.id)

	e.diag.Debugf("deleted marker %d", id)

	return true
}

// RemoveAll deletes every marker and interior node and resets both id
// generators, leaving the engine indistinguishable from a freshly
// constructed one with the same configuration. The level table is rebuilt
// at the currently configured depth, so a preceding Configure call takes
// effect here as well.
func (e *Engine) RemoveAll() {
	e.levels = make([]levelSet, e.depth)
	for i := range e.levels {
		e.levels[i] = newLevelSet()
	}
	e.nodes = make(map[NodeID]*node)
	e.markerIndex = make(map[MarkerID]NodeID)
	e.visible = make(map[MarkerID]bool)
	e.selected = make(map[MarkerID]bool)
	e.nextMarkerID = 0
	e.nextNodeID = 0
}
