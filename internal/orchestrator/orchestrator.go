// Package orchestrator wires a TransformManager's nodes into a dag.Graph,
// runs the graph to completion over one batch of base data, and assembles
// the per-(timeframe, asset) final output plus any reports/selectors the
// run produced. It is the engine's single external entry point: a struct of
// mutex-guarded registries plus a zerolog component logger.
package orchestrator

import (
	"fmt"
	"sync"
	"time"

	"github.com/ajitpratap0/epochflow/internal/artifact"
	"github.com/ajitpratap0/epochflow/internal/catalog"
	"github.com/ajitpratap0/epochflow/internal/config"
	"github.com/ajitpratap0/epochflow/internal/dag"
	"github.com/ajitpratap0/epochflow/internal/execution"
	"github.com/ajitpratap0/epochflow/internal/metrics"
	"github.com/ajitpratap0/epochflow/internal/storage"
	"github.com/ajitpratap0/epochflow/internal/table"
	"github.com/ajitpratap0/epochflow/internal/transform"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Orchestrator builds the transform dependency graph once at construction
// time and can run it repeatedly over different base data batches via
// ExecutePipeline.
type Orchestrator struct {
	log zerolog.Logger

	assetIDs []table.AssetID
	cache    *storage.Storage
	execCtx  *execution.Context

	graph        *dag.Graph
	nodesByID    map[string]*dag.Node
	handleToNode map[string]*dag.Node
	rootNodes    []*dag.Node
	transforms   []transform.TransformNode

	reportCacheMu sync.Mutex
	reportCache   map[table.AssetID]artifact.TearSheet

	selectorCacheMu sync.Mutex
	selectorCache   map[table.AssetID][]artifact.SelectorData
}

// New constructs an Orchestrator for the given assets, building one dag.Node
// per transform the manager supplies and wiring edges between producers and
// consumers. It fails fast on an incompatible catalog version, a duplicate
// transform id, or an input handle with no known producer.
func New(assetIDs []table.AssetID, manager transform.TransformManager, execCfg config.ExecutionConfig, versionConstraint string, log zerolog.Logger) (*Orchestrator, error) {
	gate, err := catalog.NewVersionGate(versionConstraint)
	if err != nil {
		return nil, err
	}
	if err := gate.Check(manager.CatalogVersion()); err != nil {
		return nil, err
	}

	nodes, err := manager.BuildTransforms()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: BuildTransforms failed: %w", err)
	}
	log.Debug().Int("count", len(nodes)).Msg("BuildTransforms returned transforms")

	cache := storage.New()
	execCtx := execution.NewContext(cache, execCfg)

	o := &Orchestrator{
		log:           log.With().Str("component", "orchestrator").Logger(),
		assetIDs:      assetIDs,
		cache:         cache,
		execCtx:       execCtx,
		graph:         dag.NewGraph(),
		nodesByID:     make(map[string]*dag.Node, len(nodes)),
		handleToNode:  make(map[string]*dag.Node, len(nodes)),
		transforms:    make([]transform.TransformNode, 0, len(nodes)),
		reportCache:   make(map[table.AssetID]artifact.TearSheet),
		selectorCache: make(map[table.AssetID][]artifact.SelectorData),
	}

	usedIDs := make(map[string]struct{}, len(nodes))
	for _, n := range nodes {
		if _, dup := usedIDs[n.ID()]; dup {
			return nil, fmt.Errorf("orchestrator: Duplicate transform id: %s", n.ID())
		}
		usedIDs[n.ID()] = struct{}{}
		if err := o.registerTransform(n); err != nil {
			return nil, err
		}
	}

	allNodes := make([]*dag.Node, 0, len(o.nodesByID))
	for _, n := range o.nodesByID {
		allNodes = append(allNodes, n)
	}
	o.graph.Build(allNodes)

	return o, nil
}

func (o *Orchestrator) registerTransform(n transform.TransformNode) error {
	o.cache.RegisterTransform(n)
	o.transforms = append(o.transforms, n)

	node := o.graph.AddNode(execution.MakeNodeBody(o.execCtx, n))
	o.nodesByID[n.ID()] = node

	for _, h := range transform.OutputIDs(n) {
		o.handleToNode[h] = node
	}

	inputs := n.InputIDs()
	if len(inputs) == 0 {
		o.rootNodes = append(o.rootNodes, node)
		return nil
	}

	seen := make(map[*dag.Node]struct{}, len(inputs))
	for _, h := range inputs {
		producer, ok := o.handleToNode[h]
		if !ok {
			return fmt.Errorf("orchestrator: handle %s was not previously hashed", h)
		}
		if _, dup := seen[producer]; dup {
			continue
		}
		seen[producer] = struct{}{}
		dag.AddEdge(producer, node)
	}
	return nil
}

// ExecutePipeline runs the whole transform graph once over baseData,
// returning the per-(timeframe, asset) final output. Per-asset transform
// failures are aggregated during the run; if any occurred, the whole run
// fails once the graph drains with a "Transform pipeline failed" error.
func (o *Orchestrator) ExecutePipeline(baseData map[table.TimeFrame]map[table.AssetID]table.ColumnTable) (map[table.TimeFrame]map[table.AssetID]table.ColumnTable, error) {
	start := time.Now()
	allowed := make(map[table.AssetID]struct{}, len(o.assetIDs))
	for _, a := range o.assetIDs {
		allowed[a] = struct{}{}
	}
	o.cache.InitializeBaseData(baseData, allowed)
	o.execCtx.Logger.Clear()

	o.log.Info().Int("transforms", len(o.transforms)).Msg("executing transform graph")
	metrics.AssetCount.Set(float64(len(o.assetIDs)))

	for _, root := range o.rootNodes {
		root.Fire()
	}
	o.graph.Wait()

	if errs := o.execCtx.Logger.Str(); errs != "" {
		o.execCtx.Logger.Clear()
		metrics.PipelineRunsTotal.WithLabelValues("error").Inc()
		o.log.Error().Str("errors", errs).Msg("transform pipeline failed")
		return nil, fmt.Errorf("orchestrator: Transform pipeline failed: %s", errs)
	}

	for _, n := range o.transforms {
		o.cacheSelectorFromTransform(n)
		if n.Metadata().Category == transform.Reporter {
			o.cacheReportFromTransform(n)
		}
	}

	o.log.Info().Msg("transform pipeline completed successfully")
	result := o.cache.BuildFinalOutput()
	o.execCtx.Logger.Clear()

	metrics.PipelineRunsTotal.WithLabelValues("success").Inc()
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	return result, nil
}

func (o *Orchestrator) cacheReportFromTransform(n transform.TransformNode) {
	reporter, ok := n.(transform.Reporter)
	if !ok {
		return
	}
	report := reporter.TearSheet()
	if report.ByteSize() == 0 {
		o.log.Warn().Str("transform", n.ID()).Msg("transform produced empty report")
		return
	}

	o.reportCacheMu.Lock()
	defer o.reportCacheMu.Unlock()
	for _, assetID := range o.assetIDs {
		existing, ok := o.reportCache[assetID]
		if !ok {
			o.reportCache[assetID] = report
			continue
		}
		artifact.MergeInPlace(&existing, report)
		o.reportCache[assetID] = existing
	}
}

func (o *Orchestrator) cacheSelectorFromTransform(n transform.TransformNode) {
	selector, ok := n.(transform.Selector)
	if !ok {
		return
	}
	data := selector.SelectorData()
	if data.IsEmpty() {
		return
	}

	o.selectorCacheMu.Lock()
	defer o.selectorCacheMu.Unlock()
	for _, assetID := range o.assetIDs {
		o.selectorCache[assetID] = append(o.selectorCache[assetID], data)
	}
}

// GetGeneratedReports returns a snapshot of the merged TearSheet per asset
// produced by reporter transforms across every successful ExecutePipeline
// run since construction or the last ResetArtifacts call.
func (o *Orchestrator) GetGeneratedReports() map[table.AssetID]artifact.TearSheet {
	o.reportCacheMu.Lock()
	defer o.reportCacheMu.Unlock()
	out := make(map[table.AssetID]artifact.TearSheet, len(o.reportCache))
	for k, v := range o.reportCache {
		out[k] = v
	}
	return out
}

// GetGeneratedSelectors returns a snapshot of the selector data list per
// asset produced by selector transforms across every successful
// ExecutePipeline run since construction or the last ResetArtifacts call.
func (o *Orchestrator) GetGeneratedSelectors() map[table.AssetID][]artifact.SelectorData {
	o.selectorCacheMu.Lock()
	defer o.selectorCacheMu.Unlock()
	out := make(map[table.AssetID][]artifact.SelectorData, len(o.selectorCache))
	for k, v := range o.selectorCache {
		cp := make([]artifact.SelectorData, len(v))
		copy(cp, v)
		out[k] = cp
	}
	return out
}

// NewRunID generates a uuid-based run identifier for log correlation.
func NewRunID() string {
	return uuid.NewString()
}

// ResetArtifacts clears the merged report and selector caches accumulated by
// prior ExecutePipeline runs. Report/selector merging is cumulative across
// runs by design (see DESIGN.md); callers that want a clean slate without
// constructing a new Orchestrator call this explicitly rather than having
// ExecutePipeline reset implicitly.
func (o *Orchestrator) ResetArtifacts() {
	o.reportCacheMu.Lock()
	o.reportCache = make(map[table.AssetID]artifact.TearSheet)
	o.reportCacheMu.Unlock()

	o.selectorCacheMu.Lock()
	o.selectorCache = make(map[table.AssetID][]artifact.SelectorData)
	o.selectorCacheMu.Unlock()
}
