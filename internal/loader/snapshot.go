package loader

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jonathan/bpk-stats/internal/types"
)

// Warning records a document that loaded but did not match its schema.
type Warning struct {
	Document string `json:"document"`
	Message  string `json:"message"`
}

// Snapshot is the immutable set of documents committed by one run.
// Slots for documents that were not loaded stay nil.
type Snapshot struct {
	Generation uint64
	LoadedAt   time.Time

	ContentStats     *types.ContentStats
	CorpusStats      *types.CorpusStats
	SpeakerAnalysis  *types.SpeakerAnalysis
	CompiledStats    *types.CompiledStats
	AdvancedAnalysis *types.AdvancedAnalysis
	topLists         map[string]*types.TopList

	// Loaded lists document names in configured order.
	Loaded   []string
	Warnings []Warning

	raw map[string]json.RawMessage
}

// Has reports whether the named document was loaded.
func (s *Snapshot) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.raw[name]
	return ok
}

// Raw returns the body of a loaded document as it was received.
func (s *Snapshot) Raw(name string) (json.RawMessage, bool) {
	if s == nil {
		return nil, false
	}
	body, ok := s.raw[name]
	return body, ok
}

// Documents returns the raw bodies of every loaded document keyed by name.
func (s *Snapshot) Documents() map[string]json.RawMessage {
	if s == nil {
		return map[string]json.RawMessage{}
	}
	out := make(map[string]json.RawMessage, len(s.raw))
	for name, body := range s.raw {
		out[name] = body
	}
	return out
}

// TopList returns one of the legacy top_* lists.
func (s *Snapshot) TopList(name string) *types.TopList {
	if s == nil {
		return nil
	}
	return s.topLists[name]
}

// builder collects documents for a run. It is safe for concurrent use
// so the parallel strategy can assign slots from several goroutines.
type builder struct {
	mu       sync.Mutex
	snap     *Snapshot
	warnings map[string][]string
}

func newBuilder(gen uint64) *builder {
	return &builder{
		snap: &Snapshot{
			Generation: gen,
			topLists:   make(map[string]*types.TopList),
			raw:        make(map[string]json.RawMessage),
		},
		warnings: make(map[string][]string),
	}
}

func (b *builder) set(doc types.Document, value any, body []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch v := value.(type) {
	case *types.ContentStats:
		b.snap.ContentStats = v
	case *types.CorpusStats:
		b.snap.CorpusStats = v
	case *types.SpeakerAnalysis:
		b.snap.SpeakerAnalysis = v
	case *types.CompiledStats:
		b.snap.CompiledStats = v
	case *types.AdvancedAnalysis:
		b.snap.AdvancedAnalysis = v
	case *types.TopList:
		b.snap.topLists[doc.Name] = v
	default:
		return fmt.Errorf("no slot for %s (%T)", doc.Name, value)
	}
	b.snap.raw[doc.Name] = json.RawMessage(body)
	return nil
}

func (b *builder) warn(doc types.Document, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.warnings[doc.Name] = append(b.warnings[doc.Name], message)
}

// build freezes the snapshot, ordering Loaded and Warnings by the document list.
func (b *builder) build(docs []types.Document, loadedAt time.Time) *Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := b.snap
	snap.LoadedAt = loadedAt
	for _, doc := range docs {
		if _, ok := snap.raw[doc.Name]; ok {
			snap.Loaded = append(snap.Loaded, doc.Name)
		}
		for _, msg := range b.warnings[doc.Name] {
			snap.Warnings = append(snap.Warnings, Warning{Document: doc.FileName(), Message: msg})
		}
	}
	return snap
}
