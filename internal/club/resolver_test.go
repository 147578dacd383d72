package club

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	members := []Member{
		{ID: "1", Name: "Ada Lovelace"},
		{ID: "2", Name: "Adam Smith"},
		{ID: "3", Name: "Grace Hopper"},
	}

	suggestions := Suggest("ada lovelace", members)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "1", suggestions[0].Member.ID)
	assert.Equal(t, 1.0, suggestions[0].Confidence)
	assert.Contains(t, suggestions[0].Reasons, "Exact name match")

	suggestions = Suggest("  Grace  HOPPER! ", members)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "3", suggestions[0].Member.ID)

	assert.Empty(t, Suggest("zzz", members))
	assert.Empty(t, Suggest("", members))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 3, levenshtein([]rune("kitten"), []rune("sitting")))
	assert.Equal(t, 1, levenshtein([]rune("jörg"), []rune("jorg")), "distance counts runes, not bytes")
	assert.Equal(t, 4, levenshtein([]rune(""), []rune("abcd")))
}

func TestResolver_OnlyActiveMembers(t *testing.T) {
	mock := NewMock()
	mock.ListMembersFunc = func(ctx context.Context, q MemberQuery) ([]Member, int, error) {
		assert.Equal(t, StatusActive, q.Status)
		return []Member{{ID: "1", Name: "Ada"}}, 1, nil
	}

	suggestions, err := NewResolver(mock).Resolve(context.Background(), "ada")
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "1", suggestions[0].Member.ID)
}
