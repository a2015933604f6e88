package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	t.Run("zero chunk size", func(t *testing.T) {
		_, err := New(0, 0)
		assert.ErrorIs(t, err, ErrInvalidChunkSize)
	})

	t.Run("overlap equal to size", func(t *testing.T) {
		_, err := New(100, 100)
		assert.ErrorIs(t, err, ErrInvalidOverlap)
	})

	t.Run("negative overlap", func(t *testing.T) {
		_, err := New(100, -1)
		assert.ErrorIs(t, err, ErrInvalidOverlap)
	})

	t.Run("valid", func(t *testing.T) {
		c, err := New(DefaultChunkSize, DefaultChunkOverlap)
		require.NoError(t, err)
		assert.NotNil(t, c)
	})
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips line number artifacts",
			input: "1|First line\n2|Second line",
			want:  "First line Second line",
		},
		{
			name:  "collapses whitespace",
			input: "too    many\n\n\n   spaces",
			want:  "too many spaces",
		},
		{
			name:  "trims",
			input: "   padded   ",
			want:  "padded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestChunk_EmptyDocument(t *testing.T) {
	c, err := New(DefaultChunkSize, DefaultChunkOverlap)
	require.NoError(t, err)

	_, err = c.Chunk("   \n\n  ")
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestChunk_SmallSectionIsSingleChunk(t *testing.T) {
	rules := []SectionRule{
		MustRule("principal", `Principal:`, `College Clubs`),
		MustRule("clubs", `College Clubs`, ""),
	}
	c, err := New(DefaultChunkSize, DefaultChunkOverlap,
		WithRules(rules), WithMinStructuredChunks(1))
	require.NoError(t, err)

	doc := "Principal: Sheikh Mustafizur Rahman is the Principal. Mobile: 01765696900 " +
		"College Clubs include the debate club and the science club."

	chunks, err := c.Chunk(doc)
	require.NoError(t, err)
	require.Len(t, chunks, 2)

	assert.Equal(t, "principal", chunks[0].Section)
	assert.Equal(t, "principal_0", chunks[0].ID)
	assert.Contains(t, chunks[0].Content, "Sheikh Mustafizur Rahman")
	assert.NotContains(t, chunks[0].Content, "debate club")

	assert.Equal(t, "clubs", chunks[1].Section)
	assert.Contains(t, chunks[1].Content, "debate club")
}

func TestChunk_MissingSectionProducesNoChunks(t *testing.T) {
	rules := []SectionRule{
		MustRule("principal", `Principal:`, ""),
		MustRule("clubs", `College Clubs`, ""),
	}
	c, err := New(DefaultChunkSize, DefaultChunkOverlap,
		WithRules(rules), WithMinStructuredChunks(1))
	require.NoError(t, err)

	chunks, err := c.Chunk("Principal: somebody in charge of the institute")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "principal", chunks[0].Section)
}

func TestChunk_LargeSectionIsSplitWithinBound(t *testing.T) {
	const chunkSize = 200

	var b strings.Builder
	b.WriteString("Principal: ")
	for i := 0; i < 150; i++ {
		fmt.Fprintf(&b, "word%03d ", i)
	}

	rules := []SectionRule{MustRule("principal", `Principal:`, "")}
	c, err := New(chunkSize, 40, WithRules(rules), WithMinStructuredChunks(1))
	require.NoError(t, err)

	chunks, err := c.Chunk(b.String())
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		assert.LessOrEqualf(t, len(chunk.Content), chunkSize, "chunk %d exceeds chunk size", i)
		assert.Equal(t, "principal", chunk.Section)
		assert.Equal(t, i, chunk.Seq)
	}
}

func TestChunk_OverlapCarriesTrailingWords(t *testing.T) {
	const (
		chunkSize = 200
		overlap   = 40 // 4 words carried forward
	)

	var b strings.Builder
	b.WriteString("Principal: ")
	for i := 0; i < 150; i++ {
		fmt.Fprintf(&b, "word%03d ", i)
	}

	rules := []SectionRule{MustRule("principal", `Principal:`, "")}
	c, err := New(chunkSize, overlap, WithRules(rules), WithMinStructuredChunks(1))
	require.NoError(t, err)

	chunks, err := c.Chunk(b.String())
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	carry := overlap / 10
	for i := 0; i < len(chunks)-1; i++ {
		prev := strings.Fields(chunks[i].Content)
		next := strings.Fields(chunks[i+1].Content)
		require.GreaterOrEqual(t, len(prev), carry)
		require.GreaterOrEqual(t, len(next), carry)

		tail := prev[len(prev)-carry:]
		head := next[:carry]
		assert.Equalf(t, tail, head, "chunks %d and %d do not overlap", i, i+1)
	}
}

func TestChunk_FallbackForUnstructuredInput(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 400; i++ {
		fmt.Fprintf(&b, "token%03d ", i)
	}

	c, err := New(500, 100)
	require.NoError(t, err)

	chunks, err := c.Chunk(b.String())
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for _, chunk := range chunks {
		assert.Equal(t, FallbackSection, chunk.Section)
	}
}

func TestChunk_Deterministic(t *testing.T) {
	var b strings.Builder
	b.WriteString("**Officials:** some officials here **List of Teachers ")
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&b, "teacher%03d ", i)
	}
	b.WriteString("Principal: the principal")

	c, err := New(400, 80, WithMinStructuredChunks(1))
	require.NoError(t, err)

	first, err := c.Chunk(b.String())
	require.NoError(t, err)
	second, err := c.Chunk(b.String())
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Content, second[i].Content)
	}
}
