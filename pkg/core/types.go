package core

import (
	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
)

// Memory is a stored memory entry as returned by the client.
//
// It is the backend entry type itself, so results can be handed to the
// ranking functions or another backend without conversion.
type Memory = storage.Entry

// SearchMode declares how a search is ranked.
type SearchMode = storage.SearchMode

// Search modes.
const (
	// ModeKeyword ranks by occurrence count of the query text.
	ModeKeyword = storage.ModeKeyword

	// ModeVector ranks by cosine similarity to the query embedding.
	ModeVector = storage.ModeVector

	// ModeHybrid fuses keyword and vector rankings. It is the default.
	ModeHybrid = storage.ModeHybrid
)

// Backend is the storage contract every memory backend implements.
type Backend = storage.Backend
