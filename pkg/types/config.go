package types

import "time"

// HTTPConfig holds shared HTTP settings used by every outbound request.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the transport default.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with page and API requests.
	// Publisher sites reject obvious bots, so the default is a desktop browser string.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds the HTTP 429 backoff loop (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// LookupConfig holds settings for turning a URL into a BibTeX record.
type LookupConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// MaxAttempts is how many rounds of DOI resolution are tried before
	// giving up (default 3).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`

	// AttemptDelay is the minimum spacing between resolution rounds.
	AttemptDelay time.Duration `json:"attempt_delay" yaml:"attempt_delay" mapstructure:"attempt_delay"`

	// MirrorBase is prefixed to the target URL for the mirror resolution path.
	MirrorBase string `json:"mirror_base" yaml:"mirror_base" mapstructure:"mirror_base"`

	// Indent is the number of spaces before each field of an arXiv record.
	Indent int `json:"indent" yaml:"indent" mapstructure:"indent"`
}

// FormatConfig holds settings for the BibTeX normalizer.
type FormatConfig struct {
	// Indent is the number of spaces before each field line (default 2).
	Indent int `json:"indent" yaml:"indent" mapstructure:"indent"`

	// MaxAuthors truncates longer author lists with "others" (default 100).
	// Zero or negative disables truncation.
	MaxAuthors int `json:"max_authors" yaml:"max_authors" mapstructure:"max_authors"`
}

// Config groups the settings of both flows.
type Config struct {
	Lookup LookupConfig `json:"lookup" yaml:"lookup" mapstructure:"lookup"`
	Format FormatConfig `json:"format" yaml:"format" mapstructure:"format"`
}

// DefaultUserAgent mimics a desktop browser.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/51.0.2704.103 Safari/537.36"

// DefaultConfig returns the settings used when no config file or flag
// overrides them.
func DefaultConfig() Config {
	return Config{
		Lookup: LookupConfig{
			HTTPConfig: HTTPConfig{
				Timeout:    30 * time.Second,
				UserAgent:  DefaultUserAgent,
				MaxRetries: 5,
			},
			MaxAttempts:  3,
			AttemptDelay: time.Second,
			MirrorBase:   "https://sci-hub.se/",
			Indent:       2,
		},
		Format: FormatConfig{
			Indent:     2,
			MaxAuthors: 100,
		},
	}
}
