package register

import (
	"testing"

	"github.com/Comcast/conduit/form"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messages(ps []form.Problem) []string {
	acc := make([]string, 0, len(ps))
	for _, p := range ps {
		acc = append(acc, p.Message)
	}
	return acc
}

func TestValid(t *testing.T) {
	f := Default().
		Upsert(Field{Kind: Username, Val: "John"}).
		Upsert(Field{Kind: Email, Val: "john@example.com"}).
		Upsert(Field{Kind: Password, Val: "12345678"})

	vf, problems := f.Trim().Validate()
	require.Nil(t, problems)
	assert.Equal(t, []form.Entry{
		{Key: "username", Value: "John"},
		{Key: "email", Value: "john@example.com"},
		{Key: "password", Value: "12345678"},
	}, vf.Entries())
}

func TestInvalid(t *testing.T) {
	_, problems := Default().Trim().Validate()
	assert.Equal(t, []string{
		"username can't be blank",
		"email can't be blank",
		"password can't be blank",
	}, messages(problems))
}

func TestShortPassword(t *testing.T) {
	f := Default().Upsert(Field{Kind: Password, Val: "1234567"})
	_, problems := f.Trim().Validate()
	assert.Equal(t, []string{
		"username can't be blank",
		"email can't be blank",
		"password is too short (minimum is 8 characters)",
	}, messages(problems))
}

func TestParse(t *testing.T) {
	f, ok := Parse("email", "x")
	require.True(t, ok)
	assert.Equal(t, Field{Kind: Email, Val: "x"}, f)

	_, ok = Parse("bio", "x")
	assert.False(t, ok)
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
