//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"path"
)

// DocumentKind identifies the schema of an artifact.
type DocumentKind string

// Document kinds emitted by the aggregation pipeline.
const (
	KindContentStats     DocumentKind = "content_stats"
	KindCorpusStats      DocumentKind = "corpus_stats"
	KindSpeakerAnalysis  DocumentKind = "speaker_analysis"
	KindCompiledStats    DocumentKind = "compiled_stats"
	KindAdvancedAnalysis DocumentKind = "advanced_analysis"
	KindTopList          DocumentKind = "top_list"
)

// Document names used as snapshot slots.
const (
	DocContentStats     = "content_stats"
	DocCorpusStats      = "corpus_stats"
	DocSpeakerAnalysis  = "speaker_analysis"
	DocCompiledStats    = "compiled_stats"
	DocAdvancedAnalysis = "advanced_analysis"
	DocTopPersons       = "top_persons"
	DocTopEntities      = "top_entities"
	DocTopCountries     = "top_countries"
	DocTopThemes        = "top_themes"
	DocTopSentences     = "top_sentences"
)

// Document set names accepted by DocumentSet.
const (
	SetAggregated = "aggregated"
	SetCompiled   = "compiled"
	SetAll        = "all"
)

// Document describes one artifact to load.
type Document struct {
	Name string
	Kind DocumentKind
	// Path is the site-relative URL path.
	Path string
	// AssetPath, if set, replaces Path when reading from a bundled asset directory.
	AssetPath string
}

// FileName returns the base file name, used in error messages.
func (d Document) FileName() string {
	return path.Base(d.Path)
}

// AggregatedDocuments returns the documents of the aggregated dashboard, in load order.
func AggregatedDocuments() []Document {
	return []Document{
		{Name: DocContentStats, Kind: KindContentStats, Path: "/data/aggregated/content_stats.json"},
		{Name: DocCorpusStats, Kind: KindCorpusStats, Path: "/data/aggregated/corpus_stats.json"},
		{Name: DocSpeakerAnalysis, Kind: KindSpeakerAnalysis, Path: "/data/aggregated/speaker_analysis.json"},
	}
}

// CompiledDocuments returns the documents of the legacy compiled dashboard, in load order.
func CompiledDocuments() []Document {
	return []Document{
		{Name: DocCompiledStats, Kind: KindCompiledStats, Path: "/../data/compiled_stats.json", AssetPath: "assets/data/compiled_stats.json"},
		{Name: DocAdvancedAnalysis, Kind: KindAdvancedAnalysis, Path: "/data/advanced_analysis.json"},
		{Name: DocTopPersons, Kind: KindTopList, Path: "/data/top_persons.json"},
		{Name: DocTopEntities, Kind: KindTopList, Path: "/data/top_entities.json"},
		{Name: DocTopCountries, Kind: KindTopList, Path: "/data/top_countries.json"},
		{Name: DocTopThemes, Kind: KindTopList, Path: "/data/top_themes.json"},
		{Name: DocTopSentences, Kind: KindTopList, Path: "/data/top_sentences.json"},
	}
}

// DocumentSet resolves a named document set.
func DocumentSet(name string) ([]Document, error) {
	switch name {
	case "", SetAggregated:
		return AggregatedDocuments(), nil
	case SetCompiled:
		return CompiledDocuments(), nil
	case SetAll:
		return append(AggregatedDocuments(), CompiledDocuments()...), nil
	default:
		return nil, fmt.Errorf("unknown document set %q", name)
	}
}

// Decode parses a document body into the typed value for its kind.
// The returned value is a pointer to the kind's struct.
func Decode(kind DocumentKind, body []byte) (any, error) {
	var target any
	switch kind {
	case KindContentStats:
		target = &ContentStats{}
	case KindCorpusStats:
		target = &CorpusStats{}
	case KindSpeakerAnalysis:
		target = &SpeakerAnalysis{}
	case KindCompiledStats:
		target = &CompiledStats{}
	case KindAdvancedAnalysis:
		target = &AdvancedAnalysis{}
	case KindTopList:
		target = &TopList{}
	default:
		return nil, fmt.Errorf("unknown document kind %q", kind)
	}

	if err := json.Unmarshal(body, target); err != nil {
		// A type mismatch leaves the rest of the document decoded; hand it back
		// alongside the error so callers can decide whether to keep it.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return target, err
		}
		return nil, err
	}
	return target, nil
}
