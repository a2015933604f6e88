package chunker

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/poiesic/campusrag/core"
)

const (
	// DefaultChunkSize is the default maximum chunk length in characters.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is the default approximate character overlap
	// between consecutive chunks of the same section.
	DefaultChunkOverlap = 200

	// FallbackSection labels chunks produced by the size-only fallback path.
	FallbackSection = "general"

	// defaultMinStructured is the minimum number of chunks structure-aware
	// splitting must yield before the chunker trusts the section markers.
	defaultMinStructured = 5
)

var (
	lineNumberRe = regexp.MustCompile(`(?m)^\d+\|`)
	blankRunRe   = regexp.MustCompile(`\n\s*\n`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Chunker turns one long document into a set of chunks with predictable,
// bounded size while preserving section semantics. It first attempts
// structure-aware splitting along the configured section rules and falls
// back to size-only splitting for degenerate input.
type Chunker struct {
	chunkSize     int
	chunkOverlap  int
	rules         []SectionRule
	minStructured int
	logger        *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithRules replaces the default section rules.
func WithRules(rules []SectionRule) Option {
	return func(c *Chunker) {
		c.rules = rules
	}
}

// WithMinStructuredChunks sets how many chunks the structure-aware pass must
// produce before its output is preferred over the size-only fallback.
func WithMinStructuredChunks(n int) Option {
	return func(c *Chunker) {
		if n < 1 {
			n = 1
		}
		c.minStructured = n
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// New creates a chunker. chunkOverlap must be strictly less than chunkSize.
func New(chunkSize, chunkOverlap int, opts ...Option) (*Chunker, error) {
	if chunkSize <= 0 {
		return nil, ErrInvalidChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, ErrInvalidOverlap
	}

	c := &Chunker{
		chunkSize:     chunkSize,
		chunkOverlap:  chunkOverlap,
		rules:         DefaultRules(),
		minStructured: defaultMinStructured,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// CleanText normalizes raw source text: strips leading line-number artifacts
// ("12|..."), collapses blank-line runs, and squeezes all remaining
// whitespace to single spaces.
func CleanText(text string) string {
	text = lineNumberRe.ReplaceAllString(text, "")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Chunk splits the document into section-tagged chunks.
//
// Sections whose text fits within the chunk size become exactly one chunk;
// larger sections are subdivided on word boundaries with overlap carried
// forward. Missing sections produce zero chunks, not an error. If the
// structure-aware pass yields fewer than the minimum viable number of
// chunks, the whole document is re-split by size alone under the fallback
// section label.
func (c *Chunker) Chunk(text string) ([]*core.Chunk, error) {
	cleaned := CleanText(text)
	if cleaned == "" {
		return nil, ErrEmptyDocument
	}

	var chunks []*core.Chunk
	for _, rule := range c.rules {
		section := strings.TrimSpace(rule.extract(cleaned))
		if section == "" {
			continue
		}
		chunks = append(chunks, c.splitSection(section, rule.Name)...)
	}

	if len(chunks) < c.minStructured {
		c.logger.Info("structure-aware splitting produced too few chunks, using size-based fallback",
			"structured", len(chunks), "minimum", c.minStructured)
		chunks = c.splitSection(cleaned, FallbackSection)
	}

	c.logger.Info("created chunks from document", "chunks", len(chunks), "characters", len(cleaned))
	return chunks, nil
}

// splitSection subdivides one section's text into chunks of at most
// chunkSize characters, splitting on word boundaries. The overlap is
// approximated as chunkOverlap/10 trailing words carried into the next
// chunk; it is a heuristic, not a character-exact guarantee. A single word
// longer than chunkSize becomes its own oversized chunk since it cannot be
// split further.
func (c *Chunker) splitSection(text, section string) []*core.Chunk {
	if len(text) <= c.chunkSize {
		return []*core.Chunk{core.NewChunk(section, 0, text)}
	}

	var (
		chunks  []*core.Chunk
		current []string
		length  int
		seq     int
	)
	carry := c.chunkOverlap / 10

	for _, word := range strings.Fields(text) {
		wordLen := len(word) + 1 // +1 for space

		if length+wordLen > c.chunkSize && len(current) > 0 {
			chunks = append(chunks, core.NewChunk(section, seq, strings.Join(current, " ")))
			seq++

			overlap := current
			if len(current) > carry {
				overlap = current[len(current)-carry:]
			}
			current = append(append([]string{}, overlap...), word)
			length = 0
			for _, w := range current {
				length += len(w) + 1
			}
		} else {
			current = append(current, word)
			length += wordLen
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, core.NewChunk(section, seq, strings.Join(current, " ")))
	}

	return chunks
}
