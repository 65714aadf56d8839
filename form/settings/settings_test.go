package settings

import (
	"testing"

	"github.com/Comcast/conduit/form"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalPassword(t *testing.T) {
	f := FromValues("", "homer", "", "homer@example.com")
	vf, problems := f.Trim().Validate()
	require.Nil(t, problems)
	assert.Equal(t, "", vf.Get("password"))

	_, problems = f.Upsert(Field{Kind: Password, Val: "1234"}).Trim().Validate()
	require.Len(t, problems, 1)
	assert.Equal(t, "password", problems[0].FieldKey)
	assert.Equal(t, "password is too short (minimum is 8 characters)", problems[0].Message)

	_, problems = f.Upsert(Field{Kind: Password, Val: "12345678"}).Trim().Validate()
	assert.Nil(t, problems)
}

func TestRequired(t *testing.T) {
	_, problems := Default().Trim().Validate()
	require.Len(t, problems, 2)
	assert.Equal(t, "username can't be blank", problems[0].Message)
	assert.Equal(t, "email can't be blank", problems[1].Message)
}

func TestOrder(t *testing.T) {
	var keys []string
	for _, x := range Default().Fields() {
		keys = append(keys, x.Key())
	}
	assert.Equal(t, []string{"image", "username", "bio", "email", "password"}, keys)
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
