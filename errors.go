package sieve

import "errors"

// ═══════════════════════════════════════════════════════════════════════════════
// ERROR TAXONOMY
// ═══════════════════════════════════════════════════════════════════════════════
// Errors are package-level sentinels so callers compare with errors.Is.
//
// Four classes, matching the design's error taxonomy:
//   - ErrCorpusExhausted      fatal to indexing, never retried
//   - ErrInvalidQuery         mapped to an empty result at the Retrieve boundary
//   - ErrNotImplemented       a NOT/phrase combination this engine declines
//   - ErrInternalInvariant    a broken internal invariant; fatal, never retried
// ═══════════════════════════════════════════════════════════════════════════════
var (
	ErrCorpusExhausted   = errors.New("corpus exhausted: no more document identifiers available")
	ErrInvalidQuery      = errors.New("invalid query")
	ErrNotImplemented    = errors.New("query shape not implemented")
	ErrInternalInvariant = errors.New("internal invariant violated")
)
