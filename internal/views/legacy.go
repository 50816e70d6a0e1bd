package views

import (
	"sort"

	"github.com/jonathan/bpk-stats/internal/loader"
	"github.com/jonathan/bpk-stats/internal/types"
)

// The compiled dashboard predates the aggregated artifacts. Its sections are
// loosely typed, and frame, connotation and narrative data moved from
// compiled_stats.json into advanced_analysis.json. Lookups prefer the newer file.

// LegacyFundamentalStats returns the fundamentalStats bag of compiled_stats.
func LegacyFundamentalStats(snap *loader.Snapshot) types.StatBag {
	if snap == nil || snap.CompiledStats == nil {
		return nil
	}
	return snap.CompiledStats.FundamentalStats
}

// LegacyStatisticalBasics returns the statisticalBasics bag of compiled_stats.
func LegacyStatisticalBasics(snap *loader.Snapshot) types.StatBag {
	if snap == nil || snap.CompiledStats == nil {
		return nil
	}
	return snap.CompiledStats.StatisticalBasics
}

// FrequencyDistribution returns one named distribution, e.g. "topWords".
func FrequencyDistribution(snap *loader.Snapshot, name string) []types.StatItem {
	if snap == nil || snap.CompiledStats == nil {
		return []types.StatItem{}
	}
	return orEmpty(snap.CompiledStats.FrequencyDistribution[name])
}

// FrequencyDistributionNames lists the available distributions, sorted.
func FrequencyDistributionNames(snap *loader.Snapshot) []string {
	if snap == nil || snap.CompiledStats == nil {
		return []string{}
	}
	return sortedKeys(snap.CompiledStats.FrequencyDistribution)
}

// FrameAnalysis returns frame shares keyed by frame name.
func FrameAnalysis(snap *loader.Snapshot) map[string]float64 {
	if snap == nil {
		return map[string]float64{}
	}
	if snap.AdvancedAnalysis != nil && len(snap.AdvancedAnalysis.FrameAnalysis) > 0 {
		return snap.AdvancedAnalysis.FrameAnalysis
	}
	if snap.CompiledStats != nil && len(snap.CompiledStats.FrameAnalysis) > 0 {
		return snap.CompiledStats.FrameAnalysis
	}
	return map[string]float64{}
}

// ConnotationIndex returns the connotation breakdown of a topic.
func ConnotationIndex(snap *loader.Snapshot, topic string) []types.StatItem {
	if snap == nil {
		return []types.StatItem{}
	}
	if snap.AdvancedAnalysis != nil {
		if items, ok := snap.AdvancedAnalysis.ConnotationIndex[topic]; ok {
			return orEmpty(items)
		}
	}
	if snap.CompiledStats != nil {
		return orEmpty(snap.CompiledStats.ConnotationIndex[topic])
	}
	return []types.StatItem{}
}

// NarrativeIndex returns the dominant narratives of a quarter, e.g. "2024-Q1".
func NarrativeIndex(snap *loader.Snapshot, quarter string) []types.StatItem {
	if snap == nil {
		return []types.StatItem{}
	}
	if snap.AdvancedAnalysis != nil {
		if items, ok := snap.AdvancedAnalysis.NarrativeIndex[quarter]; ok {
			return orEmpty(items)
		}
	}
	if snap.CompiledStats != nil {
		return orEmpty(snap.CompiledStats.NarrativeIndex[quarter])
	}
	return []types.StatItem{}
}

// TopList returns the items of one top_* document.
func TopList(snap *loader.Snapshot, name string) []types.StatItem {
	list := snap.TopList(name)
	if list == nil {
		return []types.StatItem{}
	}
	return orEmpty(list.Items)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
