package domain

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStickyQuery(t *testing.T) {
	tests := []struct {
		name  string
		input url.Values
		want  string
	}{
		{
			name:  "empty",
			input: url.Values{},
			want:  "",
		},
		{
			name:  "drops page",
			input: url.Values{"status": {"todo"}, "page": {"3"}},
			want:  "status=todo",
		},
		{
			name:  "renames lone legacy q",
			input: url.Values{"q": {"bug"}, "page": {"2"}},
			want:  "search=bug",
		},
		{
			name:  "keeps q when search present",
			input: url.Values{"q": {"old"}, "search": {"new"}},
			want:  "q=old&search=new",
		},
		{
			name:  "encodes special characters",
			input: url.Values{"search": {"a&b c"}},
			want:  "search=a%26b+c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StickyQuery(tt.input))
		})
	}
}

func TestStickyQuery_DoesNotMutateInput(t *testing.T) {
	in := url.Values{"q": {"bug"}, "page": {"2"}}
	_ = StickyQuery(in)
	assert.Equal(t, url.Values{"q": {"bug"}, "page": {"2"}}, in)
}

func TestRawSearch(t *testing.T) {
	assert.Equal(t, "login", RawSearch(url.Values{"search": {" login "}}))
	assert.Equal(t, "legacy", RawSearch(url.Values{"q": {"legacy"}}))
	assert.Equal(t, "new", RawSearch(url.Values{"q": {"old"}, "search": {"new"}}))
	assert.Equal(t, "old", RawSearch(url.Values{"q": {"old"}, "search": {"  "}}))
	assert.Empty(t, RawSearch(url.Values{}))
}

func TestRawSearch_StripsUnstorableBytes(t *testing.T) {
	assert.Equal(t, "ab", RawSearch(url.Values{"search": {"a\x00b"}}))
	assert.Equal(t, "caf", RawSearch(url.Values{"search": {"caf\xff"}}))
	assert.Equal(t, "legacy", RawSearch(url.Values{"search": {"\xff"}, "q": {"legacy"}}))
	assert.Empty(t, RawSearch(url.Values{"q": {"\x00"}}))
}

func TestIsStorableText(t *testing.T) {
	assert.True(t, IsStorableText("plain"))
	assert.True(t, IsStorableText("añadir ✓"))
	assert.False(t, IsStorableText("a\x00b"))
	assert.False(t, IsStorableText("\xff"))
}
