package frontmatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := "# Title\n\nHello\n"

	block, err := Split(input)
	require.NoError(t, err)
	require.False(t, block.Had)
	require.Empty(t, block.Header)
	require.Equal(t, input, block.Body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	block, err := Split("---\ntitle: Hello\n---\n# Hi\n")
	require.NoError(t, err)
	require.True(t, block.Had)
	require.Equal(t, "title: Hello\n", block.Header)
	require.Equal(t, "# Hi\n", block.Body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, err := Split("---\ntitle: Hello\n# Hi\n")
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	block, err := Split("---\r\ntitle: Hello\r\n---\r\n# Hi\r\n")
	require.NoError(t, err)
	require.True(t, block.Had)
	require.Equal(t, "title: Hello\r\n", block.Header)
	require.Equal(t, "# Hi\r\n", block.Body)
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	block, err := Split("---\n---\n# Hi\n")
	require.NoError(t, err)
	require.True(t, block.Had)
	require.Empty(t, block.Header)
	require.Equal(t, "# Hi\n", block.Body)
}

func TestSplit_HeaderOnly(t *testing.T) {
	block, err := Split("---\ntitle: Hello\n---")
	require.NoError(t, err)
	require.True(t, block.Had)
	require.Equal(t, "title: Hello\n", block.Header)
	require.Empty(t, block.Body)
}

func TestParseYAML(t *testing.T) {
	fields, err := ParseYAML("title: \"Hello\"\ndate: 2020-01-01\ntags: [go, web]\n")
	require.NoError(t, err)
	require.Equal(t, "Hello", fields["title"])
	require.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), fields["date"])
	require.Equal(t, []any{"go", "web"}, fields["tags"])
}

func TestParseYAML_QuotedDate(t *testing.T) {
	fields, err := ParseYAML("date: \"2021-03-04\"\n")
	require.NoError(t, err)
	require.Equal(t, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), fields["date"])
}

func TestParseYAML_InvalidDate(t *testing.T) {
	_, err := ParseYAML("date: someday\n")
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestParseYAML_Empty(t *testing.T) {
	fields, err := ParseYAML("  \n")
	require.NoError(t, err)
	require.Empty(t, fields)
}

func TestParseYAML_InvalidYAML(t *testing.T) {
	_, err := ParseYAML("title: [unclosed\n")
	require.Error(t, err)
}
