package login

import (
	"testing"

	"github.com/Comcast/conduit/form"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	_, problems := Default().Trim().Validate()
	require.Len(t, problems, 2)
	assert.Equal(t, "email can't be blank", problems[0].Message)
	assert.Equal(t, "password can't be blank", problems[1].Message)

	f := Default().
		Upsert(Field{Kind: Email, Val: " a@b.c "}).
		Upsert(Field{Kind: Password, Val: "short"})
	vf, problems := f.Trim().Validate()
	require.Nil(t, problems)
	assert.Equal(t, "a@b.c", vf.Get("email"))
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
