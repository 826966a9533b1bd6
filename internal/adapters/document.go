package adapters

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// DocumentAdapter is a JSON document backend addressed by gjson paths.
// With no URI it holds an empty in-process document; a "file://path" URI
// loads the document from disk at build time and Flush/Close write it back.
type DocumentAdapter struct {
	BaseAdapter
	mu   sync.RWMutex
	doc  []byte
	path string // empty for in-process documents
}

func init() {
	RegisterKind("document", NewDocumentAdapter)
}

// NewDocumentAdapter builds a document backend. A file-backed URI whose file
// does not exist yet starts from an empty document and creates the file on
// the first Flush.
func NewDocumentAdapter(name, uri string) (Adapter, error) {
	a := &DocumentAdapter{
		BaseAdapter: BaseAdapter{name: name, kind: "document"},
		doc:         []byte(`{}`),
	}

	if uri == "" {
		return a, nil
	}

	path := strings.TrimPrefix(uri, "file://")
	if path == "" {
		return nil, fmt.Errorf("document adapter %q: empty file path in uri %q", name, uri)
	}
	a.path = path

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// first run, document materializes on Flush
	case err != nil:
		return nil, fmt.Errorf("document adapter %q: read %s: %w", name, path, err)
	default:
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("document adapter %q: %s is not valid JSON", name, path)
		}
		a.doc = data
	}

	return a, nil
}

// Get resolves a gjson path against the document.
func (a *DocumentAdapter) Get(path string) gjson.Result {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return gjson.GetBytes(a.doc, path)
}

// Set writes a value at a gjson path, creating intermediate objects.
func (a *DocumentAdapter) Set(path string, value any) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	doc, err := sjson.SetBytes(a.doc, path, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", path, err)
	}
	a.doc = doc
	return nil
}

// Delete removes the value at a gjson path. Missing paths are a no-op.
func (a *DocumentAdapter) Delete(path string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	doc, err := sjson.DeleteBytes(a.doc, path)
	if err != nil {
		return fmt.Errorf("delete %q: %w", path, err)
	}
	a.doc = doc
	return nil
}

// Bytes returns a copy of the raw document.
func (a *DocumentAdapter) Bytes() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]byte, len(a.doc))
	copy(out, a.doc)
	return out
}

// Flush persists the document for file-backed adapters; in-process documents
// flush to nowhere and return nil.
func (a *DocumentAdapter) Flush() error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.path == "" {
		return nil
	}
	if err := os.WriteFile(a.path, a.doc, 0600); err != nil {
		return fmt.Errorf("flush %s: %w", a.path, err)
	}
	return nil
}

// Ping verifies the document is still valid JSON.
func (a *DocumentAdapter) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	if !gjson.ValidBytes(a.doc) {
		return fmt.Errorf("document adapter %q: corrupt document", a.name)
	}
	return nil
}

// Close flushes file-backed documents.
func (a *DocumentAdapter) Close() error {
	return a.Flush()
}
