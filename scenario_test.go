package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newScenarioEngine builds the configuration the end-to-end scenarios run
// against: depth 3, cluster distance 10, an identity projection at scale 1,
// clustering on.
func newScenarioEngine() *Engine {
	e := NewEngine(NewFixedScaleProjector(1), WithDepth(3), WithClusterDistance(10))
	e.SetClustering(true)
	return e
}

// Camera scales that land on each level of a depth-3 tree under the zoom
// mapping round(17 - log2(1/scale)) - 1: 2^-15 selects level 1 (the first
// clustered level), 2^-16 selects level 0, and anything >= 1 clamps to the
// leaf level.
const (
	levelOneScale  = 1.0 / 32768.0
	levelZeroScale = 1.0 / 65536.0
)

func TestFrontierOnEmptyEngineIsEmpty(t *testing.T) {
	e := newScenarioEngine()
	f := e.Frontier(levelOneScale)
	assert.Empty(t, f.Points)
	assert.Empty(t, f.Clusters)
}

func TestSingleMarkerRendersAsPointOnEveryLevel(t *testing.T) {
	e := newScenarioEngine()
	e.Add(GeoCoordinates{Lon: 0, Lat: 0})

	for _, scale := range []float64{levelZeroScale, levelOneScale, 1.0} {
		f := e.Frontier(scale)
		require.Len(t, f.Points, 1, "scale %g", scale)
		assert.Empty(t, f.Clusters, "scale %g", scale)
		assert.Equal(t, 0.0, f.Points[0].X)
		assert.Equal(t, 0.0, f.Points[0].Y)
	}

	e.levels[0].each(func(id NodeID) {
		assert.Equal(t, 1, e.mustNode(id).count)
	})
}

func TestTwoCloseMarkersRenderAsOneCluster(t *testing.T) {
	e := newScenarioEngine()
	e.Add(GeoCoordinates{Lon: 0, Lat: 0})
	e.Add(GeoCoordinates{Lon: 1, Lat: 0}) // squared distance 1 <= threshold 10

	f := e.Frontier(levelOneScale)
	assert.Empty(t, f.Points)
	require.Len(t, f.Clusters, 1)
	assert.Equal(t, 0.5, f.Clusters[0].Position.X)
	assert.Equal(t, 0.0, f.Clusters[0].Position.Y)
	assert.Equal(t, 2, f.Clusters[0].Count)
}

func TestTwoFarMarkersStaySeparate(t *testing.T) {
	e := newScenarioEngine()
	e.Add(GeoCoordinates{Lon: 0, Lat: 0})
	e.Add(GeoCoordinates{Lon: 100, Lat: 0}) // squared distance 10000 > threshold 10

	f := e.Frontier(levelOneScale)
	assert.Len(t, f.Points, 2)
	assert.Empty(t, f.Clusters)
}

func TestFrontierAtFullZoomShowsEveryMarkerSeparately(t *testing.T) {
	e := newScenarioEngine()
	e.Add(GeoCoordinates{Lon: 0, Lat: 0})
	e.Add(GeoCoordinates{Lon: 1, Lat: 0})

	// Scale 1.0 maps past the finest level and clamps to it, so even two
	// clustered markers render individually.
	f := e.Frontier(1.0)
	assert.Len(t, f.Points, 2)
	assert.Empty(t, f.Clusters)
}

func TestRemovingSecondMarkerRestoresLonePoint(t *testing.T) {
	e := newScenarioEngine()
	e.Add(GeoCoordinates{Lon: 0, Lat: 0})
	secondID := e.Add(GeoCoordinates{Lon: 1, Lat: 0})

	require.True(t, e.Remove(secondID))

	f := e.Frontier(levelOneScale)
	require.Len(t, f.Points, 1)
	assert.Equal(t, 0.0, f.Points[0].X)
	assert.Equal(t, 0.0, f.Points[0].Y)
	assert.Empty(t, f.Clusters)

	for _, n := range e.nodes {
		assert.NotEqual(t, 0, n.count, "node %d left with count 0", n.id)
	}
	checkInvariants(t, e)
}

func TestCascadingMergeCollapsesLineOfMarkers(t *testing.T) {
	e := newScenarioEngine()
	for x := 0; x < 5; x++ {
		e.Add(GeoCoordinates{Lon: float64(x), Lat: 0})
		checkInvariants(t, e)
	}

	f := e.Frontier(levelOneScale)
	assert.Empty(t, f.Points)
	require.Len(t, f.Clusters, 1)
	assert.Equal(t, 2.0, f.Clusters[0].Position.X)
	assert.Equal(t, 0.0, f.Clusters[0].Position.Y)
	assert.Equal(t, 5, f.Clusters[0].Count)
}

func TestAddThenRemoveRoundTripsForestState(t *testing.T) {
	e := newScenarioEngine()
	e.Add(GeoCoordinates{Lon: 0, Lat: 0})
	before := snapshotForest(e)

	id := e.Add(GeoCoordinates{Lon: 100, Lat: 100})
	require.True(t, e.Remove(id))

	after := snapshotForest(e)
	assert.Equal(t, before, after)
}

func TestRecomputeTwiceProducesIdenticalForest(t *testing.T) {
	e := newScenarioEngine()
	for i := 0; i < 10; i++ {
		e.Add(GeoCoordinates{Lon: float64(i), Lat: float64(i % 3)})
	}

	e.Recompute()
	first := snapshotForest(e)
	e.Recompute()
	second := snapshotForest(e)
	assert.Equal(t, first, second)
}

func TestIncrementalAndRebuiltForestsBothSatisfyInvariants(t *testing.T) {
	// The greedy algorithm is order-sensitive, so an incremental build and
	// a full rebuild need not produce the same shape; both must still be
	// structurally sound and hold the same marker set.
	incremental := newScenarioEngine()
	positions := []GeoCoordinates{
		{Lon: 0, Lat: 0}, {Lon: 1, Lat: 0}, {Lon: 2, Lat: 0},
		{Lon: 20, Lat: 20}, {Lon: 21, Lat: 20},
	}
	for _, p := range positions {
		incremental.Add(p)
	}
	checkInvariants(t, incremental)

	rebuilt := newScenarioEngine()
	for _, p := range positions {
		rebuilt.Add(p)
	}
	rebuilt.Recompute()
	checkInvariants(t, rebuilt)

	assert.Equal(t, len(incremental.markerIndex), len(rebuilt.markerIndex))
}

func TestFrontierAtMinScaleDrawsFromCoarsestLevel(t *testing.T) {
	e := newScenarioEngine()
	for i := 0; i < 10; i++ {
		e.Add(GeoCoordinates{Lon: float64(i) * 50, Lat: 0})
	}

	f := e.Frontier(1e-9)
	assert.LessOrEqual(t, len(f.Points)+len(f.Clusters), e.levels[0].len())
}

func TestFrontierAtMaxScaleReturnsEveryLeaf(t *testing.T) {
	e := newScenarioEngine()
	for i := 0; i < 10; i++ {
		e.Add(GeoCoordinates{Lon: float64(i) * 50, Lat: 0})
	}

	f := e.Frontier(1e9)
	assert.Len(t, f.Points, 10)
	assert.Empty(t, f.Clusters)
}

func TestRemoveAllMatchesFreshInstance(t *testing.T) {
	e := newScenarioEngine()
	for i := 0; i < 5; i++ {
		e.Add(GeoCoordinates{Lon: float64(i), Lat: 0})
	}
	e.RemoveAll()

	fresh := newScenarioEngine()
	assert.Equal(t, fresh.Frontier(levelOneScale), e.Frontier(levelOneScale))
	assert.Equal(t, len(fresh.nodes), len(e.nodes))
}

func TestSetVisibilityToCurrentValueChangesNothing(t *testing.T) {
	e := newScenarioEngine()
	id := e.Add(GeoCoordinates{Lon: 0, Lat: 0})

	leaf := e.mustNode(e.markerIndex[id])
	before := leaf.visibleCount

	assert.False(t, e.SetVisibility(id, true))
	assert.Equal(t, before, leaf.visibleCount)
}
