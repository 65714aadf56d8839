package entity

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAvatarSrc(t *testing.T) {
	assert.Equal(t, DefaultAvatar, Avatar("").Src())
	assert.Equal(t, "https://example.com/me.png", Avatar("https://example.com/me.png").Src())
}

func TestPageNumberOffset(t *testing.T) {
	for n, want := range map[PageNumber]int{0: 0, 1: 0, 2: 10, 5: 40} {
		assert.Equal(t, want, n.Offset(), "page %d", n)
	}
}

func TestTotalPages(t *testing.T) {
	l := PaginatedList[Article]{PerPage: 10, Total: 0}
	assert.Equal(t, 0, l.TotalPages())

	l.Total = 10
	assert.Equal(t, 1, l.TotalPages())

	l.Total = 11
	assert.Equal(t, 2, l.TotalPages())

	l.PerPage = 0
	assert.Equal(t, 0, l.TotalPages())
}

func TestMarkdownHTML(t *testing.T) {
	html := Markdown("# Dragons\n\nThey *fly*.").HTML()
	assert.True(t, strings.Contains(html, "<h1>Dragons</h1>"), html)
	assert.True(t, strings.Contains(html, "<em>fly</em>"), html)
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2016, time.February, 18, 3, 22, 56, 0, time.UTC)
	assert.Equal(t, "February 18, 2016", Timestamp(ts))
}

func TestRelationText(t *testing.T) {
	bs, err := Following.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "following", string(bs))
	assert.Equal(t, "viewer", IsViewer.String())
	assert.Equal(t, "notFollowing", NotFollowing.String())
}
