package headline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsletter-headline-api/internal/domain/entity"
)

func TestParseHeadlinesArray(t *testing.T) {
	t.Parallel()
	out, err := ParseHeadlines("Here are your subject lines:\n" +
		`[{"title":"  7 Tools You Missed  ","keywords":["tools"," ",""],"reason":" Numbers work "},` +
		`{"title":"   ","keywords":["x"],"reason":"blank"},` +
		`{"title":"No keywords","reason":"r"}]`)
	require.NoError(t, err)
	assert.Equal(t, []entity.Headline{
		{Title: "7 Tools You Missed", Keywords: []string{"tools"}, Reason: "Numbers work"},
		{Title: "No keywords", Keywords: []string{}, Reason: "r"},
	}, out)
}

func TestParseHeadlinesObject(t *testing.T) {
	t.Parallel()
	out, err := ParseHeadlines("```json\n{\"headlines\":[{\"title\":\"A\",\"keywords\":[\"k\"],\"reason\":\"b\"}]}\n```")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "A", out[0].Title)

	out, err = ParseHeadlines(`{"other":1}`)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestParseHeadlinesInvalid(t *testing.T) {
	t.Parallel()
	for _, in := range []string{"", "I cannot help with that.", `[{"title": 1}]`, `{"headlines": "nope"}`} {
		_, err := ParseHeadlines(in)
		assert.Error(t, err, in)
	}
}
