//nolint:revive // types is a standard Go package name pattern
package types

import (
	"bytes"
	"encoding/json"
)

// StatBag is a loosely typed section whose keys changed between pipeline versions.
type StatBag map[string]any

// CompiledStats is the legacy compiled_stats.json artifact.
type CompiledStats struct {
	FundamentalStats      StatBag               `json:"fundamentalStats"`
	StatisticalBasics     StatBag               `json:"statisticalBasics"`
	FrequencyDistribution map[string][]StatItem `json:"frequencyDistribution,omitempty"`
	FrameAnalysis         map[string]float64    `json:"frameAnalysis,omitempty"`
	ConnotationIndex      map[string][]StatItem `json:"connotationIndex,omitempty"`
	NarrativeIndex        map[string][]StatItem `json:"narrativeIndex,omitempty"`
}

// AdvancedAnalysis is advanced_analysis.json, holding the sections later split out of compiled_stats.
type AdvancedAnalysis struct {
	FrameAnalysis    map[string]float64    `json:"frameAnalysis,omitempty"`
	ConnotationIndex map[string][]StatItem `json:"connotationIndex,omitempty"`
	NarrativeIndex   map[string][]StatItem `json:"narrativeIndex,omitempty"`
}

// TopList is one of the top_*.json artifacts.
type TopList struct {
	Metadata StatBag    `json:"metadata,omitempty"`
	Items    []StatItem `json:"items"`
}

// UnmarshalJSON accepts both the {metadata, items} object and the bare list
// emitted by older pipeline runs.
func (t *TopList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []StatItem
		err := json.Unmarshal(trimmed, &items)
		*t = TopList{Items: items}
		return err
	}

	// Type mismatches still leave the remaining fields populated.
	type plain TopList
	var p plain
	err := json.Unmarshal(trimmed, &p)
	*t = TopList(p)
	return err
}
