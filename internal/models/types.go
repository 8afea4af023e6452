package models

// TypePair is a two-level expense category. The zero value means
// "unclassified" and is a valid result, never an error.
type TypePair struct {
	MainType string
	SubType  string
}

// IsZero reports whether the pair carries no classification.
func (p TypePair) IsZero() bool {
	return p.MainType == "" && p.SubType == ""
}

// TypeEntry is one persisted record of the learned classification store.
// Descriptions are stored and compared in lowercase.
type TypeEntry struct {
	Desc     string `json:"desc"`
	MainType string `json:"main_type"`
	SubType  string `json:"sub_type"`
}

// Pair returns the entry's category pair.
func (e TypeEntry) Pair() TypePair {
	return TypePair{MainType: e.MainType, SubType: e.SubType}
}

// Valid reports whether the entry carries both category levels.
// Entries failing this check never enter the in-memory cache.
func (e TypeEntry) Valid() bool {
	return e.MainType != "" && e.SubType != ""
}
