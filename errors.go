package coogle

import "errors"

// Error kinds returned by the Indexer, the Store, and the Retriever.
//
// Callers should compare against these with errors.Is. Only the sentinel is
// wrapped with %w; the underlying I/O or decode error is appended as text
// (%v), so its detail survives for logging but not for errors.Is/As.
var (
	// ErrBadArgs indicates a CLI invocation with the wrong shape.
	ErrBadArgs = errors.New("coogle: bad arguments")

	// ErrIO indicates a file was missing, unreadable, or unwritable.
	ErrIO = errors.New("coogle: io error")

	// ErrStoreExists indicates the Indexer refused to overwrite an existing
	// output directory.
	ErrStoreExists = errors.New("coogle: store already exists")

	// ErrStoreIncomplete indicates the Retriever could not find one of the
	// required store files.
	ErrStoreIncomplete = errors.New("coogle: store incomplete")

	// ErrCorrupt indicates a decompression, JSON-parse, or UTF-8-decode
	// failure against a stored artifact.
	ErrCorrupt = errors.New("coogle: corrupt store artifact")

	// ErrNotFound indicates a DOCNO or internal id was not present on
	// lookup.
	ErrNotFound = errors.New("coogle: not found")

	// ErrEmptyResult indicates no query term was known to the lexicon.
	ErrEmptyResult = errors.New("coogle: empty result")

	// ErrOutOfRange is returned by the store layer when an internal id is
	// at or beyond the document count. The Retriever translates this into
	// ErrNotFound at its public boundary.
	ErrOutOfRange = errors.New("coogle: id out of range")
)
