package cluster

// Add inserts a new marker at pos and returns its fresh MarkerID. It always
// runs the full insertion algorithm regardless of whether clustering is
// currently enabled, so that toggling SetClustering back on later is
// immediate.
func (e *Engine) Add(pos GeoCoordinates) MarkerID {
	markerID := e.nextMarkerID
	e.nextMarkerID++

	e.diag.Debugf("adding marker %d", markerID)

	p := e.proj.GeoToProj(pos)
	leafLevel := e.leafLevel()

	leaf := &node{
		id:            e.nextNodeID,
		level:         leafLevel,
		proj:          p,
		count:         1,
		visibleCount:  1,
		selectedCount: 0,
		markerID:      markerID,
		parent:        NoNode,
	}
	e.nextNodeID++

	e.nodes[leaf.id] = leaf
	e.levels[leafLevel].add(leaf.id)
	e.markerIndex[markerID] = leaf.id
	e.visible[markerID] = true
	e.selected[markerID] = false

	e.diag.Debugf("inserting node %d into level %d", leaf.id, leafLevel)

	e.insertIntoTree(leaf)

	return markerID
}

// insertIntoTree runs the two-phase ascent for a freshly created leaf (Add)
// or a re-inserted leaf whose ancestors no longer exist (Recompute).
//
// First phase: climb from the level above the leaf toward the root. At each
// level, either absorb the current node into the closest existing node
// within clustering range (and stop climbing), or plant a singleton mirror
// of it and keep going. Second phase: continue from the absorbing node's
// parent up to the root, recomputing each ancestor's aggregates from its
// children and merging in any same-level nodes that the enlarged ancestor
// has now come within range of. Merges at one level can schedule further
// merges between the operands' parents one level up, which is how a single
// Add cascades.
func (e *Engine) insertIntoTree(leaf *node) {
	cur := leaf

	// Ascent with first-clustering.
	for level := leaf.level - 1; level >= 0; level-- {
		closestID := e.findClosest(level, cur, NoNode)
		if closestID != NoNode {
			closest := e.mustNode(closestID)
			closest.proj = weightedCentroid(closest.count, closest.proj, cur.count, cur.proj)
			closest.count += cur.count
			closest.visibleCount += cur.visibleCount
			closest.selectedCount += cur.selectedCount
			closest.markerID = NoMarker
			closest.addChild(cur.id)
			cur.parent = closest.id

			e.diag.Debugf("clustering node %d into %d at level %d", cur.id, closest.id, level)

			cur = closest
			break
		}

		mirror := &node{
			id:            e.nextNodeID,
			level:         level,
			proj:          cur.proj,
			count:         cur.count,
			visibleCount:  cur.visibleCount,
			selectedCount: cur.selectedCount,
			markerID:      cur.markerID,
			parent:        NoNode,
		}
		e.nextNodeID++
		e.nodes[mirror.id] = mirror
		mirror.addChild(cur.id)
		e.levels[level].add(mirror.id)

		e.diag.Debugf("mirroring node %d as %d at level %d", cur.id, mirror.id, level)

		cur.parent = mirror.id
		cur = mirror
	}

	// Ascend once more: refinement starts at the absorbing node's parent.
	// ancestor is NoNode if we ran off the top of the tree (cur is already
	// a level-0 root with no parent).
	ancestor := cur.parent
	level := cur.level - 1

	// Refinement ascent.
	var nodesToMerge []NodeID
	var parentsToMerge []NodeID
	for level >= 0 {
		a := e.mustNode(ancestor)

		for _, mergingID := range nodesToMerge {
			if mergingID == a.id {
				abort(e.diag, "node and merging node are the same: %d", a.id)
			}
			merging := e.mustNode(mergingID)
			if p := e.mergeNodes(a, merging); p != NoNode {
				parentsToMerge = appendUnique(parentsToMerge, p)
			}
		}

		recomputeFromChildren(e, a)

		if closestID := e.findClosest(level, a, a.id); closestID != NoNode {
			closest := e.mustNode(closestID)
			if p := e.mergeNodes(a, closest); p != NoNode {
				parentsToMerge = appendUnique(parentsToMerge, p)
			}
			recomputeFromChildren(e, a)
		}

		nodesToMerge = parentsToMerge
		parentsToMerge = nil
		ancestor = a.parent
		level--
	}
}

// appendUnique adds id to ids unless already present. Two nodes merged at
// one level can share a parent; that parent must be scheduled only once.
func appendUnique(ids []NodeID, id NodeID) []NodeID {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}

// recomputeFromChildren recomputes n's count, visible/selected counts, and
// centroid from its children, replacing whatever incremental updates have
// accumulated on n since the last pass.
func recomputeFromChildren(e *Engine, n *node) {
	if len(n.children) == 0 {
		return
	}
	count := 0
	visible := 0
	selectedCount := 0
	sumX, sumY := 0.0, 0.0
	for _, childID := range n.children {
		c := e.mustNode(childID)
		count += c.count
		visible += c.visibleCount
		selectedCount += c.selectedCount
		sumX += float64(c.count) * c.proj.X
		sumY += float64(c.count) * c.proj.Y
	}
	n.count = count
	n.visibleCount = visible
	n.selectedCount = selectedCount
	n.proj.X = sumX / float64(count)
	n.proj.Y = sumY / float64(count)
	if count > 1 {
		n.markerID = NoMarker
	}
}
