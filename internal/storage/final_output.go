package storage

import (
	"github.com/ajitpratap0/epochflow/internal/table"
	"github.com/ajitpratap0/epochflow/internal/transform"
)

// BuildFinalOutput assembles the final per-(timeframe, asset) deliverable.
// Expensive locks are released before the outer-join concat pass, for all
// five lock regions, not just cache/handleIndex.
func (s *Storage) BuildFinalOutput() map[table.TimeFrame]map[table.AssetID]table.ColumnTable {
	s.cacheMu.RLock()
	s.baseDataMu.RLock()
	s.handleIndexMu.RLock()
	s.assetIDsMu.RLock()
	s.scalarCacheMu.RLock()

	result := make(map[table.TimeFrame]map[table.AssetID]table.ColumnTable, len(s.baseData))
	for tf, byAsset := range s.baseData {
		result[tf] = make(map[table.AssetID]table.ColumnTable, len(byAsset))
		for asset, tbl := range byAsset {
			result[tf][asset] = tbl
		}
	}

	type bucketKey struct {
		tf    table.TimeFrame
		asset table.AssetID
	}
	concatBuckets := make(map[bucketKey][]table.Column)

	for handle, producer := range s.handleIndex {
		if producer.Metadata().Category == transform.DataSource {
			continue
		}
		producerTF := producer.Timeframe()
		byAsset, ok := s.cache[producerTF]
		if !ok {
			continue
		}
		for asset, handles := range byAsset {
			col, ok := handles[handle]
			if !ok {
				continue
			}
			key := bucketKey{tf: producerTF, asset: asset}
			concatBuckets[key] = append(concatBuckets[key], col)
		}
	}

	hasScalars := len(s.scalarCache) > 0
	scalarSnapshot := make(map[string]table.Scalar, len(s.scalarCache))
	for h, v := range s.scalarCache {
		scalarSnapshot[h] = v
	}

	s.scalarCacheMu.RUnlock()
	s.assetIDsMu.RUnlock()
	s.handleIndexMu.RUnlock()
	s.baseDataMu.RUnlock()
	s.cacheMu.RUnlock()

	for key, cols := range concatBuckets {
		base, ok := result[key.tf][key.asset]
		if !ok {
			continue
		}
		addition, err := table.New(base.Index, cols...)
		if err != nil {
			// A column naming collision here indicates two producers wrote
			// the same handle, which RegisterTransform's uniqueness
			// guarantee should already have prevented; skip rather than
			// panic on an invariant violation downstream code can't recover
			// from anyway.
			continue
		}
		result[key.tf][key.asset] = base.Concat(addition)
	}

	if hasScalars {
		for tf, byAsset := range result {
			for asset, tbl := range byAsset {
				cols := make([]table.Column, 0, len(scalarSnapshot))
				for handle, scalar := range scalarSnapshot {
					cols = append(cols, scalar.Broadcast(handle, tbl.Len()))
				}
				addition, err := table.New(tbl.Index, cols...)
				if err != nil {
					continue
				}
				result[tf][asset] = tbl.Concat(addition)
			}
		}
	}

	return result
}
