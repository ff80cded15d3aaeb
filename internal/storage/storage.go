// Package storage implements the Intermediate Storage: a multi-dimensional,
// concurrency-safe cache keyed by (timeframe, asset, output-id) that feeds
// inputs into transforms, stores their outputs, optimizes scalar (broadcast)
// values, and reconstructs the final per-(timeframe, asset) table at the end
// of a pipeline run.
//
// Concurrency discipline: five independent reader-writer locks guard
// disjoint regions (cache, baseData, handleIndex, assetIDs, scalarCache).
// All readers take shared locks; all mutators take exclusive locks. Lock
// acquisition order is fixed wherever more than one region is touched:
// cache -> baseData -> handleIndex -> assetIDs -> scalarCache: one dedicated
// mutex per logical map rather than a single coarse lock serializing the
// whole cache.
package storage

import (
	"fmt"
	"slices"
	"sync"

	"github.com/ajitpratap0/epochflow/internal/table"
	"github.com/ajitpratap0/epochflow/internal/transform"
)

type timeframeAssetHandle = map[table.TimeFrame]map[table.AssetID]map[string]table.Column

// Storage is the engine's Intermediate Storage.
type Storage struct {
	cacheMu sync.RWMutex
	cache   timeframeAssetHandle // tf -> asset -> handle -> column

	baseDataMu sync.RWMutex
	baseData   map[table.TimeFrame]map[table.AssetID]table.ColumnTable

	handleIndexMu sync.RWMutex
	handleIndex   map[string]transform.TransformNode // handle -> producer node

	assetIDsMu sync.RWMutex
	assetIDs   []table.AssetID

	scalarCacheMu sync.RWMutex
	scalarCache   map[string]table.Scalar
	scalarOutputs map[string]struct{}
}

// New returns an empty Storage.
func New() *Storage {
	return &Storage{
		cache:         make(timeframeAssetHandle),
		baseData:      make(map[table.TimeFrame]map[table.AssetID]table.ColumnTable),
		handleIndex:   make(map[string]transform.TransformNode),
		scalarCache:   make(map[string]table.Scalar),
		scalarOutputs: make(map[string]struct{}),
	}
}

// InitializeBaseData installs BaseData, seeds Cache with BaseData columns
// for allowed assets only, and populates the ordered asset-id set. This is
// called exactly once per ExecutePipeline run; BaseData is copied (not
// moved) because BuildFinalOutput reads it again.
func (s *Storage) InitializeBaseData(data map[table.TimeFrame]map[table.AssetID]table.ColumnTable, allowedAssets map[table.AssetID]struct{}) {
	s.cacheMu.Lock()
	s.baseDataMu.Lock()
	s.assetIDsMu.Lock()
	defer s.assetIDsMu.Unlock()
	defer s.baseDataMu.Unlock()
	defer s.cacheMu.Unlock()

	s.baseData = make(map[table.TimeFrame]map[table.AssetID]table.ColumnTable, len(data))
	for tf, byAsset := range data {
		cp := make(map[table.AssetID]table.ColumnTable, len(byAsset))
		for asset, tbl := range byAsset {
			cp[asset] = tbl
		}
		s.baseData[tf] = cp
	}
	s.cache = make(timeframeAssetHandle)

	seen := make(map[table.AssetID]struct{})
	for tf, byAsset := range data {
		for asset, tbl := range byAsset {
			if _, ok := allowedAssets[asset]; !ok {
				continue
			}
			seen[asset] = struct{}{}
			if _, ok := s.cache[tf]; !ok {
				s.cache[tf] = make(map[table.AssetID]map[string]table.Column)
			}
			cols := make(map[string]table.Column)
			for _, name := range tbl.ColumnNames() {
				cols[name] = tbl.MustColumn(name)
			}
			s.cache[tf][asset] = cols
		}
	}

	ordered := make([]table.AssetID, 0, len(seen))
	for a := range seen {
		ordered = append(ordered, a)
	}
	slices.Sort(ordered)
	s.assetIDs = ordered
}

// RegisterTransform records HandleIndex[handle] = node for every output the
// node declares. Idempotent: re-registering the same node under the same
// handles simply overwrites the mapping with itself.
func (s *Storage) RegisterTransform(node transform.TransformNode) {
	s.handleIndexMu.Lock()
	defer s.handleIndexMu.Unlock()
	for _, h := range transform.OutputIDs(node) {
		s.handleIndex[h] = node
	}
}

// AssetIDs returns the ordered set of assets established by
// InitializeBaseData.
func (s *Storage) AssetIDs() []table.AssetID {
	s.assetIDsMu.RLock()
	defer s.assetIDsMu.RUnlock()
	out := make([]table.AssetID, len(s.assetIDs))
	copy(out, s.assetIDs)
	return out
}

// GatherInputs builds the input table handed to a node's Transform for one
// asset.
func (s *Storage) GatherInputs(asset table.AssetID, node transform.TransformNode) (table.ColumnTable, error) {
	tf := node.Timeframe()
	inputs := node.InputIDs()

	if len(inputs) == 0 {
		s.baseDataMu.RLock()
		defer s.baseDataMu.RUnlock()
		byAsset, ok := s.baseData[tf]
		if !ok {
			return table.ColumnTable{}, fmt.Errorf("storage: no base data for timeframe %q", tf)
		}
		tbl, ok := byAsset[asset]
		if !ok {
			return table.ColumnTable{}, fmt.Errorf("storage: no base data for asset %q at timeframe %q", asset, tf)
		}
		return tbl, nil
	}

	s.cacheMu.RLock()
	s.baseDataMu.RLock()
	s.handleIndexMu.RLock()
	s.scalarCacheMu.RLock()
	defer s.scalarCacheMu.RUnlock()
	defer s.handleIndexMu.RUnlock()
	defer s.baseDataMu.RUnlock()
	defer s.cacheMu.RUnlock()

	baseByAsset, ok := s.baseData[tf]
	if !ok {
		return table.ColumnTable{}, fmt.Errorf("storage: no base data for timeframe %q", tf)
	}
	baseTable, ok := baseByAsset[asset]
	if !ok {
		return table.ColumnTable{}, fmt.Errorf("storage: no base data for asset %q at timeframe %q", asset, tf)
	}
	targetIndex := baseTable.Index

	collected := make([]table.Column, 0, len(inputs))
	included := make(map[string]struct{})

	for _, h := range inputs {
		if _, dup := included[h]; dup {
			continue
		}

		if scalar, ok := s.scalarCache[h]; ok {
			collected = append(collected, scalar.Broadcast(h, targetIndex.Len()))
			included[h] = struct{}{}
			continue
		}

		producer, ok := s.handleIndex[h]
		if !ok {
			return table.ColumnTable{}, fmt.Errorf("storage: handle %q was not previously hashed", h)
		}

		producerTF := producer.Timeframe()
		assetCache, ok := s.cache[producerTF][asset]
		if !ok {
			return table.ColumnTable{}, fmt.Errorf("storage: no cache entry for asset %q at timeframe %q", asset, producerTF)
		}
		series, ok := assetCache[h]
		if !ok {
			return table.ColumnTable{}, fmt.Errorf("storage: handle %q has no cached value for asset %q", h, asset)
		}

		if producerTF == tf {
			collected = append(collected, series.Rename(h))
		} else {
			// Cache entries are always stored already reindexed onto their
			// owning BaseData index (see StoreTransformOutput), so that
			// index is the series' true source index here.
			producerBaseByAsset, ok := s.baseData[producerTF]
			if !ok {
				return table.ColumnTable{}, fmt.Errorf("storage: no base data for timeframe %q needed to reindex handle %q", producerTF, h)
			}
			producerBaseTable, ok := producerBaseByAsset[asset]
			if !ok {
				return table.ColumnTable{}, fmt.Errorf("storage: no base data for asset %q at timeframe %q needed to reindex handle %q", asset, producerTF, h)
			}
			seriesTable, err := table.New(producerBaseTable.Index, series)
			if err != nil {
				return table.ColumnTable{}, err
			}
			reindexed := seriesTable.Reindex(targetIndex)
			collected = append(collected, reindexed.MustColumn(h))
		}
		included[h] = struct{}{}
	}

	meta := node.Metadata()
	for _, name := range meta.RequiredDataSources {
		if _, dup := included[name]; dup {
			continue
		}
		col, ok := baseTable.Column(name)
		if !ok {
			return table.ColumnTable{}, fmt.Errorf("storage: required data source %q missing from base data for asset %q", name, asset)
		}
		collected = append(collected, col)
		included[name] = struct{}{}
	}

	return table.New(targetIndex, collected...)
}
