package cluster

// SetVisibility sets whether marker id counts toward the visible totals
// along its ancestor chain. It reports false if id is unknown or the flag
// already has the requested value (in which case nothing changes).
func (e *Engine) SetVisibility(id MarkerID, visible bool) bool {
	return e.setFlag(id, visible, e.visible, func(n *node, delta int) { n.visibleCount += delta })
}

// SetSelected sets whether marker id counts toward the selected totals
// along its ancestor chain, with the same semantics as SetVisibility.
func (e *Engine) SetSelected(id MarkerID, selected bool) bool {
	return e.setFlag(id, selected, e.selected, func(n *node, delta int) { n.selectedCount += delta })
}

func (e *Engine) setFlag(id MarkerID, value bool, flags map[MarkerID]bool, apply func(n *node, delta int)) bool {
	leafID, ok := e.markerIndex[id]
	if !ok {
		e.diag.Warnf("invalid marker id %d", id)
		return false
	}

	if flags[id] == value {
		return false
	}

	delta := -1
	if value {
		delta = 1
	}

	cur := e.mustNode(leafID)
	apply(cur, delta)
	for cur.parent != NoNode {
		cur = e.mustNode(cur.parent)
		apply(cur, delta)
	}

	flags[id] = value
	return true
}
