package cluster

import "sync"

// SyncEngine wraps an Engine with the reader/writer discipline a
// multithreaded host needs: Add, Remove, RemoveAll, Recompute,
// SetVisibility, SetSelected, Configure, and SetClustering take the writer
// side of a sync.RWMutex; Frontier, ClusterChildren, and AllMarkersIn may
// run concurrently under the reader side. The wrapped Engine itself never
// takes a lock.
type SyncEngine struct {
	mu     sync.RWMutex
	engine *Engine
}

// NewSyncEngine wraps engine for concurrent use.
func NewSyncEngine(engine *Engine) *SyncEngine {
	return &SyncEngine{engine: engine}
}

func (s *SyncEngine) Configure(depth int, distancePx float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Configure(depth, distancePx)
}

func (s *SyncEngine) SetClustering(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SetClustering(on)
}

func (s *SyncEngine) Add(pos GeoCoordinates) MarkerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Add(pos)
}

func (s *SyncEngine) Remove(id MarkerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Remove(id)
}

func (s *SyncEngine) RemoveAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.RemoveAll()
}

func (s *SyncEngine) SetVisibility(id MarkerID, visible bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.SetVisibility(id, visible)
}

func (s *SyncEngine) SetSelected(id MarkerID, selected bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.SetSelected(id, selected)
}

func (s *SyncEngine) Recompute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Recompute()
}

func (s *SyncEngine) NumberOfMarkers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.NumberOfMarkers()
}

func (s *SyncEngine) Frontier(cameraScale float64) RenderFrontier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.Frontier(cameraScale)
}

func (s *SyncEngine) ClusterChildren(id NodeID) ClusterChildrenResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.ClusterChildren(id)
}

func (s *SyncEngine) AllMarkersIn(id NodeID) []MarkerID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.AllMarkersIn(id)
}
