// Package cluster implements a hierarchical point-clustering engine for
// interactive geographic maps.
//
// The engine maintains, across a bounded number of zoom levels, a forest of
// cluster trees over a dynamic set of geo-located markers. At any visible
// zoom level it produces the set of items to render: single markers where
// sparse, aggregated cluster nodes where dense. Markers can be added and
// removed incrementally without rebuilding the whole structure; Recompute
// performs a full rebuild, preserving marker identities, when clustering
// parameters change.
//
// The clustering strategy is deliberately greedy and order-dependent: two
// markers inserted in a different order may end up in different clusters
// even though the final marker set is identical. Callers that need a fixed,
// reproducible tree shape should fix their insertion order; see Recompute.
//
// Basic usage:
//
//	e := cluster.NewEngine(cluster.NewMercatorProjector(camera.Scale))
//	e.Configure(14, 40)
//	e.SetClustering(true)
//	id := e.Add(cluster.GeoCoordinates{Lat: 48.85, Lon: 2.35})
//	front := e.Frontier(camera.Scale())
//
// The engine is single-threaded: all methods run to completion synchronously
// and none may be called concurrently with another. SyncEngine wraps Engine
// with the reader/writer discipline needed to share one engine across
// goroutines.
package cluster
