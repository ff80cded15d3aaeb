package execution

import (
	"fmt"
	"time"

	"github.com/ajitpratap0/epochflow/internal/metrics"
	"github.com/ajitpratap0/epochflow/internal/table"
	"github.com/ajitpratap0/epochflow/internal/transform"
)

// isIntradayString is a best-effort intraday check, needed here since
// TransformNode exposes a table.TimeFrame string rather than a richer
// timeframe type.
func isIntradayString(tf table.TimeFrame) bool {
	return tf.IsIntraday()
}

func logAssetError(ctx *Context, assetID table.AssetID, nodeID string, err error) {
	ctx.Logger.Log(fmt.Sprintf("Asset: %s, Transform: %s, Error: %s.", assetID, nodeID, err))
	metrics.PipelineErrors.WithLabelValues(nodeID).Inc()
}

// skipIntradayOnly stores an empty result for every asset and returns true
// when node is IntradayOnly but its timeframe isn't intraday.
func skipIntradayOnly(ctx *Context, node transform.TransformNode) bool {
	meta := node.Metadata()
	if !meta.IntradayOnly || isIntradayString(node.Timeframe()) {
		return false
	}
	ctx.Warnings.Warn().
		Str("transform", node.ID()).
		Str("timeframe", string(node.Timeframe())).
		Msg("transform marked intradayOnly but timeframe is not intraday, skipping")
	for _, assetID := range ctx.Cache.AssetIDs() {
		if err := ctx.Cache.StoreTransformOutput(assetID, node, table.Empty()); err != nil {
			logAssetError(ctx, assetID, node.ID(), err)
		}
	}
	return true
}

func applySessionSlice(node transform.TransformNode, in table.ColumnTable, warn func(string)) (table.ColumnTable, error) {
	cfg := node.Configuration()
	if !cfg.RequiresSession() {
		return in, nil
	}
	if !cfg.SessionRange.Set {
		warn("requires session but no session range was resolved")
		return in, nil
	}
	return table.SliceBySessionUTC(in, cfg.SessionRange.StartHMS, cfg.SessionRange.EndHMS)
}

// ApplyDefaultTransform runs a per-asset transform, fanning out across every
// known asset concurrently. Per-asset failures are appended to ctx.Logger
// rather than aborting the run, matching the aggregated-error-then-fail-fast
// policy the Orchestrator enforces after the graph drains.
func ApplyDefaultTransform(ctx *Context, node transform.TransformNode) {
	if skipIntradayOnly(ctx, node) {
		return
	}

	meta := node.Metadata()
	assetIDs := ctx.Cache.AssetIDs()

	processAsset := func(assetID table.AssetID) {
		result, err := ctx.Cache.GatherInputs(assetID, node)
		if err != nil {
			logAssetError(ctx, assetID, node.ID(), err)
			return
		}

		if !meta.AllowNullInputs {
			result = result.DropNull()
		}

		result, err = applySessionSlice(node, result, func(msg string) {
			ctx.Warnings.Warn().Str("transform", node.ID()).Msg(msg)
		})
		if err != nil {
			logAssetError(ctx, assetID, node.ID(), err)
			return
		}

		if result.IsEmpty() {
			ctx.Warnings.Warn().
				Str("transform", node.ID()).
				Str("asset", string(assetID)).
				Msg("empty input table, skipping transform")
			if err := ctx.Cache.StoreTransformOutput(assetID, node, table.Empty()); err != nil {
				logAssetError(ctx, assetID, node.ID(), err)
			}
			return
		}

		out, err := node.Transform(result)
		if err != nil {
			logAssetError(ctx, assetID, node.ID(), err)
			return
		}

		if err := ctx.Cache.StoreTransformOutput(assetID, node, out); err != nil {
			logAssetError(ctx, assetID, node.ID(), err)
		}
	}

	runFanOut(assetIDs, ctx.MaxConcurrentAssets, processAsset)
}

// ApplyCrossSectionTransform runs a transform whose Transform call sees every
// asset's input series at once, as columns of a single table keyed by asset
// id. It assumes a cross-sectional node declares exactly one input handle
// and one output.
func ApplyCrossSectionTransform(ctx *Context, node transform.TransformNode) {
	if skipIntradayOnly(ctx, node) {
		return
	}

	assetIDs := ctx.Cache.AssetIDs()
	inputs := node.InputIDs()
	if len(inputs) == 0 {
		ctx.Logger.Log(fmt.Sprintf("Transform : %s\ncross-sectional transform declares no input handle", node.ID()))
		return
	}
	inputID := inputs[0]

	outputs := transform.OutputIDs(node)
	if len(outputs) == 0 {
		ctx.Logger.Log(fmt.Sprintf("Transform : %s\ncross-sectional transform declares no output", node.ID()))
		return
	}
	outputID := outputs[0]

	perAsset := make([]table.ColumnTable, len(assetIDs))
	gatherErrs := make([]error, len(assetIDs))

	gatherOne := func(i int) {
		assetID := assetIDs[i]
		in, err := ctx.Cache.GatherInputs(assetID, node)
		if err != nil {
			gatherErrs[i] = err
			return
		}
		in = in.DropNull()

		in, err = applySessionSlice(node, in, func(msg string) {
			ctx.Warnings.Warn().Str("transform", node.ID()).Msg(msg)
		})
		if err != nil {
			gatherErrs[i] = err
			return
		}

		if !in.Contains(inputID) {
			return
		}
		series, err := in.Select(inputID)
		if err != nil {
			gatherErrs[i] = err
			return
		}
		series, err = series.Rename(inputID, string(assetID))
		if err != nil {
			gatherErrs[i] = err
			return
		}
		perAsset[i] = series
	}

	runFanOutIndexed(len(assetIDs), ctx.MaxConcurrentAssets, gatherOne)

	for i, err := range gatherErrs {
		if err != nil {
			logAssetError(ctx, assetIDs[i], node.ID(), err)
		}
	}

	var merged table.ColumnTable
	for _, tbl := range perAsset {
		if tbl.IsEmpty() {
			continue
		}
		merged = merged.Concat(tbl)
	}
	merged = merged.DropNull()

	if merged.IsEmpty() {
		for _, assetID := range assetIDs {
			if err := ctx.Cache.StoreTransformOutput(assetID, node, table.Empty()); err != nil {
				logAssetError(ctx, assetID, node.ID(), err)
			}
		}
		return
	}

	crossResult, err := node.Transform(merged)
	if err != nil {
		ctx.Logger.Log(fmt.Sprintf("%s\nTransform : %s", err, node.ID()))
		return
	}

	names := crossResult.ColumnNames()
	if len(names) == 1 && names[0] == outputID {
		for _, assetID := range assetIDs {
			if err := ctx.Cache.StoreTransformOutput(assetID, node, crossResult); err != nil {
				logAssetError(ctx, assetID, node.ID(), err)
			}
		}
		return
	}

	for _, assetID := range assetIDs {
		assetResult := table.Empty()
		if crossResult.Contains(string(assetID)) {
			sel, err := crossResult.Select(string(assetID))
			if err != nil {
				logAssetError(ctx, assetID, node.ID(), err)
			} else if renamed, err := sel.Rename(string(assetID), outputID); err != nil {
				logAssetError(ctx, assetID, node.ID(), err)
			} else {
				assetResult = renamed
			}
		}
		if err := ctx.Cache.StoreTransformOutput(assetID, node, assetResult); err != nil {
			logAssetError(ctx, assetID, node.ID(), err)
		}
	}
}

// MakeNodeBody returns the dag.Node body for a transform, dispatching on its
// cross-sectional flag. It wraps the dispatch with the node-level metrics
// every transform run contributes: ActiveNodes tracks in-flight dispatches
// and NodeDuration observes how long each one takes, labeled by transform id.
func MakeNodeBody(ctx *Context, node transform.TransformNode) func() {
	apply := ApplyDefaultTransform
	if node.Metadata().IsCrossSectional {
		apply = ApplyCrossSectionTransform
	}
	return func() {
		metrics.ActiveNodes.Inc()
		defer metrics.ActiveNodes.Dec()
		start := time.Now()
		apply(ctx, node)
		metrics.NodeDuration.WithLabelValues(node.ID()).Observe(time.Since(start).Seconds())
	}
}
