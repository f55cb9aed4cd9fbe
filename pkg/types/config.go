package types

// Config holds all configuration for an indexer handle.
type Config struct {
	// Storage configuration
	Storage StorageConfig `json:"storage"`

	// Lexing configuration
	Lexing LexConfig `json:"lexing"`

	// Query configuration
	Query QueryConfig `json:"query"`

	// Excerpt configuration
	Excerpt ExcerptConfig `json:"excerpt"`
}

// StorageConfig holds store configuration.
type StorageConfig struct {
	Dir        string `json:"dir"`         // directory holding the index store
	WriteMode  bool   `json:"write_mode"`  // open read-write; creates missing stores
	SyncWrites bool   `json:"sync_writes"` // fsync each committed operation
	CacheSize  int64  `json:"cache_size"`  // pebble cache size in bytes
}

// LexConfig holds tokenization configuration.
type LexConfig struct {
	// WordRegex matches one token. It must not contain capturing groups.
	WordRegex string `json:"word_regex"`
	// Filter normalizes each matched token; nil selects the default
	// (lowercase, Latin-1 accents folded to their ASCII base).
	Filter WordFilter `json:"-"`
	// Stopwords are surface terms to mark as stopwords at open (write mode).
	Stopwords []string `json:"stopwords,omitempty"`
	// StopwordFile names a file whose contents are tokenized with WordRegex
	// and marked as stopwords at open (write mode).
	StopwordFile string `json:"stopword_file,omitempty"`
}

// QueryConfig holds query translation configuration.
type QueryConfig struct {
	// FieldName accepted for field-qualified subqueries; subqueries
	// qualified with any other field are dropped.
	FieldName string `json:"field_name"`
	// Parser overrides the built-in query parser.
	Parser QueryParser `json:"-"`
}

// ExcerptConfig holds excerpt extraction configuration.
type ExcerptConfig struct {
	CtxtNumChars int    `json:"ctxt_num_chars"` // context chars kept around each match
	MaxExcerpts  int    `json:"max_excerpts"`   // most-matched fragments kept
	PreMatch     string `json:"pre_match"`      // inserted before each highlighted match
	PostMatch    string `json:"post_match"`     // inserted after each highlighted match
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Dir:        ".",
			WriteMode:  false,
			SyncWrites: false,
			CacheSize:  64 << 20, // 64 MB
		},
		Lexing: LexConfig{
			WordRegex: `\w+`,
		},
		Query: QueryConfig{
			FieldName: "fulltext",
		},
		Excerpt: ExcerptConfig{
			CtxtNumChars: 35,
			MaxExcerpts:  5,
			PreMatch:     "<b>",
			PostMatch:    "</b>",
		},
	}
}
