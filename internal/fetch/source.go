package fetch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/jonathan/bpk-stats/internal/types"
)

// Source reads the body of a document.
type Source interface {
	Fetch(ctx context.Context, doc types.Document) (*Result, error)
	// Describe names the source for logs.
	Describe() string
}

// HTTPSource resolves document paths against a base URL.
type HTTPSource struct {
	base    *url.URL
	options *Options
}

// NewHTTPSource creates a source rooted at baseURL (e.g. "https://example.org/").
func NewHTTPSource(baseURL string, opts *Options) (*HTTPSource, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: baseURL, Message: "invalid base URL", Cause: err}
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTTPSource{base: parsed, options: opts}, nil
}

// Resolve returns the absolute URL of a document. Dot segments are removed the
// way a browser would, so "/../data/x.json" resolves to "/data/x.json".
func (s *HTTPSource) Resolve(doc types.Document) string {
	ref := &url.URL{Path: doc.Path}
	return s.base.ResolveReference(ref).String()
}

// Fetch retrieves the document over HTTP.
func (s *HTTPSource) Fetch(ctx context.Context, doc types.Document) (*Result, error) {
	return URL(ctx, s.Resolve(doc), s.options)
}

// Describe implements Source.
func (s *HTTPSource) Describe() string {
	return s.base.String()
}

// DirSource reads documents from a local directory laid out like the site root.
type DirSource struct {
	root string
}

// NewDirSource creates a source rooted at dir.
func NewDirSource(dir string) (*DirSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("data directory %s is not a directory", dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}
	return &DirSource{root: abs}, nil
}

// Root returns the absolute directory the source reads from.
func (s *DirSource) Root() string {
	return s.root
}

// Resolve returns the file path of a document. The document path is cleaned
// as a rooted path first so it can never escape the root directory.
func (s *DirSource) Resolve(doc types.Document) string {
	rel := doc.Path
	if doc.AssetPath != "" {
		rel = doc.AssetPath
	}
	cleaned := path.Clean("/" + rel)
	return filepath.Join(s.root, filepath.FromSlash(cleaned))
}

// Fetch reads the document from disk. A missing file is reported like an HTTP 404.
func (s *DirSource) Fetch(_ context.Context, doc types.Document) (*Result, error) {
	file := s.Resolve(doc)
	body, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Result{URL: file, StatusCode: http.StatusNotFound}, &Error{
				URL:        file,
				Message:    "file not found",
				StatusCode: http.StatusNotFound,
			}
		}
		return nil, &Error{URL: file, Message: "failed to read file", Cause: err}
	}

	return &Result{
		URL:         file,
		Body:        body,
		ContentType: "application/json",
		StatusCode:  http.StatusOK,
	}, nil
}

// Describe implements Source.
func (s *DirSource) Describe() string {
	return s.root
}
