package cluster

import "sort"

// Recompute discards every node and reinserts all existing markers from
// scratch in marker-id order, rebuilding the forest under the engine's
// current depth and cluster-distance settings. Marker ids and per-marker
// flags survive unchanged, but every node (leaves included) receives a
// fresh node id from a reset generator, and the level table is rebuilt at
// the currently configured depth, so a preceding Configure call takes
// effect here.
//
// Recompute never runs automatically — not after Configure, not after a
// Remove that leaves two now-mergeable siblings behind. Callers decide
// when a full rebuild is worth its cost.
func (e *Engine) Recompute() {
	e.diag.Debugf("recompute: rebuilding tree for %d markers", len(e.markerIndex))

	ids := make([]MarkerID, 0, len(e.markerIndex))
	for id := range e.markerIndex {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	leaves := make([]*node, len(ids))
	for i, id := range ids {
		leaves[i] = e.mustNode(e.markerIndex[id])
	}

	// Rebuilding the level table at e.depth is what makes a depth
	// reconfiguration take effect. The leaf structs are reused under
	// fresh ids.
	e.nodes = make(map[NodeID]*node)
	e.levels = make([]levelSet, e.depth)
	for i := range e.levels {
		e.levels[i] = newLevelSet()
	}
	e.nextNodeID = 0

	leafLevel := e.leafLevel()
	for i, leaf := range leaves {
		leaf.id = e.nextNodeID
		e.nextNodeID++
		leaf.level = leafLevel
		leaf.parent = NoNode
		leaf.children = nil

		e.nodes[leaf.id] = leaf
		e.levels[leafLevel].add(leaf.id)
		e.markerIndex[ids[i]] = leaf.id

		e.insertIntoTree(leaf)
	}

	e.diag.Debugf("recompute: done")
}
