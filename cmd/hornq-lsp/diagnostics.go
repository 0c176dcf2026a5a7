package main

import (
	"context"
	"sync"

	"go.lsp.dev/protocol"

	"github.com/go-air/hornq/horn"
)

type documentStore struct {
	mu   sync.RWMutex
	docs map[string]*document
}

type document struct {
	uri     string
	content string
}

func (ds *documentStore) get(uri string) *document {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.docs[uri]
}

func (ds *documentStore) put(uri, content string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.docs[uri] = &document{uri: uri, content: content}
}

func (ds *documentStore) remove(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.docs, uri)
}

func (s *Server) publishDiagnostics(ctx context.Context, uri string) {
	doc := s.docs.get(uri)
	if doc == nil {
		return
	}
	diagnostics := validateDocument(doc)
	if s.conn != nil {
		s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
			URI:         protocol.DocumentURI(uri),
			Diagnostics: diagnostics,
		})
	}
}

// validateDocument loads and normalizes the constraint document,
// surfacing load and input errors as diagnostics. Position information
// is not tracked through the decoder, so errors anchor at the top of
// the file.
func validateDocument(doc *document) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	report := func(err error) {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: 0, Character: 0},
				End:   protocol.Position{Line: 0, Character: 0},
			},
			Severity: protocol.DiagnosticSeverityError,
			Message:  err.Error(),
			Source:   "hornq",
		})
	}
	fi, err := horn.Load([]byte(doc.content))
	if err != nil {
		report(err)
		return diagnostics
	}
	if _, err := horn.Normalize(fi); err != nil {
		report(err)
	}
	return diagnostics
}
