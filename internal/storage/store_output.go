package storage

import (
	"github.com/ajitpratap0/epochflow/internal/table"
	"github.com/ajitpratap0/epochflow/internal/transform"
)

// StoreTransformOutput persists one node's execution result for one asset.
// Scalar-category outputs never touch the regular cache: they are extracted
// once (first-write-wins) into the scalar cache and the method returns
// early.
func (s *Storage) StoreTransformOutput(asset table.AssetID, node transform.TransformNode, result table.ColumnTable) error {
	meta := node.Metadata()
	handles := transform.OutputIDs(node)

	if meta.Category == transform.Scalar {
		s.scalarCacheMu.Lock()
		defer s.scalarCacheMu.Unlock()
		for i, h := range handles {
			if _, known := s.scalarOutputs[h]; known {
				continue
			}
			dtype := meta.Outputs[i].Type
			var scalar table.Scalar
			if col, ok := result.Column(h); ok && col.Len() > 0 {
				scalar = table.ScalarFromColumn(col)
			} else {
				scalar = table.NullScalar(dtype)
			}
			s.scalarCache[h] = scalar
			s.scalarOutputs[h] = struct{}{}
		}
		return nil
	}

	tf := node.Timeframe()

	s.baseDataMu.RLock()
	baseByAsset, ok := s.baseData[tf]
	if !ok {
		s.baseDataMu.RUnlock()
		return nil
	}
	baseTable, ok := baseByAsset[asset]
	s.baseDataMu.RUnlock()
	if !ok {
		return nil
	}
	idx := baseTable.Index

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if _, ok := s.cache[tf]; !ok {
		s.cache[tf] = make(map[table.AssetID]map[string]table.Column)
	}
	if _, ok := s.cache[tf][asset]; !ok {
		s.cache[tf][asset] = make(map[string]table.Column)
	}

	for i, h := range handles {
		if col, ok := result.Column(h); ok {
			tmp, err := table.New(result.Index, col)
			if err != nil {
				return err
			}
			reindexed := tmp.Reindex(idx)
			stored, _ := reindexed.Column(h)
			s.cache[tf][asset][h] = stored
			continue
		}
		s.cache[tf][asset][h] = table.NewNullColumn(h, meta.Outputs[i].Type, idx.Len())
	}

	return nil
}
