package parser

import (
	"sort"
	"sync"

	"github.com/dgallion1/docparse/internal/doctree"
)

// Registry maps format kinds to parser implementations. Registration is
// last-writer-wins so a host application can replace a built-in parser.
// Resolution takes a read lock only; registration is expected at
// startup but is safe at any time.
type Registry struct {
	mu      sync.RWMutex
	parsers map[doctree.Format]Parser
}

func NewRegistry() *Registry {
	return &Registry{parsers: make(map[doctree.Format]Parser)}
}

// NewDefaultRegistry returns a registry with the five built-in parsers
// registered.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(doctree.PlainText, &TextParser{})
	r.Register(doctree.Tabular, &CSVParser{})
	r.Register(doctree.StructuredObject, &JSONParser{})
	r.Register(doctree.Markup, &HTMLParser{})
	r.Register(doctree.LightweightMarkup, &MarkdownParser{})
	return r
}

// Register installs p for kind, replacing any prior parser. Registering
// for Unknown is a no-op.
func (r *Registry) Register(kind doctree.Format, p Parser) {
	if kind == doctree.Unknown || p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[kind] = p
}

// Resolve returns the parser for kind, or an unsupported_format error
// when kind is Unknown or has no registration.
func (r *Registry) Resolve(kind doctree.Format) (Parser, error) {
	if kind == doctree.Unknown {
		return nil, Unsupported(kind)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[kind]
	if !ok {
		return nil, Unsupported(kind)
	}
	return p, nil
}

// Formats returns the registered format kinds in stable order.
func (r *Registry) Formats() []doctree.Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]doctree.Format, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
