package editor

import (
	"testing"

	"github.com/Comcast/conduit/entity"
	"github.com/Comcast/conduit/form"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequired(t *testing.T) {
	_, problems := Default().Trim().Validate()
	require.Len(t, problems, 2)
	assert.Equal(t, "title can't be blank", problems[0].Message)
	assert.Equal(t, "body can't be blank", problems[1].Message)
}

func TestFromArticle(t *testing.T) {
	f := FromArticle(entity.Article{
		Title:   "Dragons",
		Body:    "They fly",
		TagList: []entity.Tag{"dragons", "training"},
	})
	vf, problems := f.Trim().Validate()
	require.Nil(t, problems)
	assert.Equal(t, "dragons training", vf.Get("tags"))
	assert.Equal(t, "", vf.Get("description"))
}

func TestUnknownKind(t *testing.T) {
	assert.Equal(t, "kind(9)", Kind(9).Key())
	assert.Equal(t, "kind(-1)", Kind(-1).Key())

	f := form.New(Field{Kind: 9, Val: "x"}, Field{Kind: -1, Val: "y"})
	require.Equal(t, 2, f.Len())
	x, have := f.Get("kind(9)")
	require.True(t, have)
	assert.Equal(t, "x", x.Value())
}
