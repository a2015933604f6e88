package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/poiesic/campusrag/core"
	badgerstore "github.com/poiesic/campusrag/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKeywordFixture(t *testing.T) *KeywordMatcher {
	t.Helper()
	repo, backend, err := badgerstore.NewMemoryRepository()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	ctx := context.Background()
	chunks := []*core.Chunk{
		core.NewChunk("teachers", 0,
			"Name: Julekha Akter Koli, Designation: Instructor (Chemistry), Phone: +880 1642-880100"),
		core.NewChunk("teachers", 1,
			"Name: Mohammad Abdul Karim, Designation: Chief Instructor (Civil), Phone: +880 1712-334455"),
		core.NewChunk("principal", 0,
			"Sheikh Mustafizur Rahman serves as the Principal of the institute."),
	}
	// Pad the corpus with unrelated chunks so a literal match has to beat
	// real noise, not an empty room.
	for i := 0; i < 50; i++ {
		chunks = append(chunks, core.NewChunk("general", i,
			fmt.Sprintf("General campus notice number %d about facilities and schedules.", i)))
	}
	require.NoError(t, repo.AddChunks(ctx, chunks...))

	matcher, err := NewKeywordMatcher(repo, DefaultKeywordThreshold, nil)
	require.NoError(t, err)
	return matcher
}

func TestKeywordSearchFindsExactName(t *testing.T) {
	matcher := newKeywordFixture(t)

	results, err := matcher.Search(context.Background(), "Julekha Akter Koli phone", 5, nil)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	top := results[0]
	assert.Contains(t, top.Chunk.Content, "Julekha Akter Koli")
	assert.Equal(t, core.SearchMethodKeyword, top.Method)
	// Three capitalized name words plus "phone" out of four query words:
	// (3*2 + 1)/4 = 1.75.
	assert.InDelta(t, 1.75, top.Score, 0.001)
}

func TestKeywordSearchCapitalizedWeighting(t *testing.T) {
	matcher := newKeywordFixture(t)
	ctx := context.Background()

	capitalized, err := matcher.Search(ctx, "Principal", 5, nil)
	require.NoError(t, err)
	require.NotEmpty(t, capitalized)
	// One capitalized word out of one: 2/1 = 2.0.
	assert.InDelta(t, 2.0, capitalized[0].Score, 0.001)

	lower, err := matcher.Search(ctx, "principal", 5, nil)
	require.NoError(t, err)
	require.NotEmpty(t, lower)
	assert.InDelta(t, 1.0, lower[0].Score, 0.001)
}

func TestKeywordSearchThresholdExcludesWeakMatches(t *testing.T) {
	matcher := newKeywordFixture(t)

	// Only "about" and "schedules" appear in the noise chunks; two plain
	// words out of nine total score 0.22, below the 0.5 threshold.
	results, err := matcher.Search(context.Background(),
		"what do you know about any schedules around here", 10, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestKeywordSearchShortWordsIgnored(t *testing.T) {
	matcher := newKeywordFixture(t)

	// "of" and "is" are too short to match, but still count in the
	// denominator.
	results, err := matcher.Search(context.Background(), "is of", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestKeywordSearchSectionFilter(t *testing.T) {
	matcher := newKeywordFixture(t)

	results, err := matcher.Search(context.Background(), "Instructor", 10,
		map[string]string{core.MetaSection: "teachers"})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, res := range results {
		assert.Equal(t, "teachers", res.Chunk.Section)
	}
}

func TestKeywordSearchEmptyQuery(t *testing.T) {
	matcher := newKeywordFixture(t)

	results, err := matcher.Search(context.Background(), "   ", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestQueryWords(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"plain", "who is the principal", []string{"who", "is", "the", "principal"}},
		{"punctuation", "Julekha's phone, please!", []string{"Julekha's", "phone", "please"}},
		{"question mark", "Who is Julekha?", []string{"Who", "is", "Julekha"}},
		{"empty", "  ", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, queryWords(tt.query))
		})
	}
}
