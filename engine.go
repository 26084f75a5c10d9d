package cluster

const (
	minDepth          = 2
	maxDepth          = 20
	defaultDepth      = 14
	defaultDistancePx = 40
)

// Engine is a hierarchical point-clustering engine. It maintains a forest
// of cluster trees across a fixed number of zoom levels over a dynamic set
// of markers: adding a marker threads it into the forest incrementally,
// removing one propagates count and centroid updates up its ancestor
// chain, and Frontier extracts the render set for the current camera.
//
// Engine is single-threaded: every method runs to completion synchronously
// and must not be called concurrently with another call on the same Engine.
// Wrap it in SyncEngine to share one instance across goroutines.
type Engine struct {
	proj Projector
	diag Diagnostics

	clustering bool
	depth      int
	distancePx float64

	levels      []levelSet // indexed 0 (coarsest) .. depth-1 (finest)
	nodes       map[NodeID]*node
	markerIndex map[MarkerID]NodeID

	visible  map[MarkerID]bool
	selected map[MarkerID]bool

	nextMarkerID MarkerID
	nextNodeID   NodeID
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithDiagnostics installs a Diagnostics sink. The default is NoopDiagnostics.
func WithDiagnostics(d Diagnostics) Option {
	return func(e *Engine) { e.diag = d }
}

// WithDepth sets the initial tree depth (clamped to [2,20]).
func WithDepth(depth int) Option {
	return func(e *Engine) { e.depth = clampDepth(depth) }
}

// WithClusterDistance sets the initial pixel cluster-distance threshold.
func WithClusterDistance(distancePx float64) Option {
	return func(e *Engine) { e.distancePx = distancePx }
}

// NewEngine constructs an Engine against the given Projector, with
// clustering disabled and depth/distance defaults of 14 and 40px.
func NewEngine(proj Projector, opts ...Option) *Engine {
	e := &Engine{
		proj:        proj,
		diag:        NoopDiagnostics{},
		clustering:  false,
		depth:       defaultDepth,
		distancePx:  defaultDistancePx,
		nodes:       make(map[NodeID]*node),
		markerIndex: make(map[MarkerID]NodeID),
		visible:     make(map[MarkerID]bool),
		selected:    make(map[MarkerID]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.levels = make([]levelSet, e.depth)
	for i := range e.levels {
		e.levels[i] = newLevelSet()
	}
	return e
}

func clampDepth(depth int) int {
	if depth < minDepth {
		return minDepth
	}
	if depth > maxDepth {
		return maxDepth
	}
	return depth
}

// Configure sets the clustering tree depth (silently clamped to [2,20]) and
// pixel cluster-distance threshold (accepted as-is). Changing either value
// does not itself trigger a rebuild; call Recompute to apply the new
// parameters to the existing marker set.
//
// distancePx is compared against a squared, camera-scaled projected
// distance (see findClosest in merge.go), which mixes units. That mismatch
// is kept: changing it would change clustering behavior for any caller
// already tuned to the existing default.
func (e *Engine) Configure(depth int, distancePx float64) {
	e.depth = clampDepth(depth)
	e.distancePx = distancePx
}

// SetClustering toggles clustering. When off, Frontier always returns every
// leaf marker as a point regardless of scale, but the tree keeps being
// maintained so re-enabling clustering is immediate and free.
func (e *Engine) SetClustering(on bool) {
	e.clustering = on
}

// NumberOfMarkers reports how many markers the engine currently holds.
func (e *Engine) NumberOfMarkers() int {
	return len(e.markerIndex)
}

func (e *Engine) node(id NodeID) *node {
	return e.nodes[id]
}

func (e *Engine) mustNode(id NodeID) *node {
	n := e.nodes[id]
	if n == nil {
		abort(e.diag, "node %d missing from arena", id)
	}
	return n
}

func (e *Engine) leafLevel() int {
	return len(e.levels) - 1
}
