package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func token(t *testing.T, exp time.Time) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "homer",
		"exp":      exp.Unix(),
	})
	s, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)
	return s
}

func TestGuest(t *testing.T) {
	s := Guest()
	assert.True(t, s.IsGuest())
	assert.Nil(t, s.Viewer())
	_, have := s.Username()
	assert.False(t, have)
	assert.False(t, s.IsViewer(""))

	assert.True(t, LoggedIn(nil).IsGuest())
}

func TestLoggedIn(t *testing.T) {
	s := LoggedIn(&Viewer{Token: "t", Username: "homer"})
	assert.False(t, s.IsGuest())
	u, have := s.Username()
	assert.True(t, have)
	assert.EqualValues(t, "homer", u)
	assert.True(t, s.IsViewer("homer"))
	assert.False(t, s.IsViewer("marge"))
}

func TestExpired(t *testing.T) {
	now := time.Now()

	v := &Viewer{Token: token(t, now.Add(-time.Minute))}
	assert.True(t, v.Expired(now))

	v = &Viewer{Token: token(t, now.Add(time.Hour))}
	assert.False(t, v.Expired(now))

	v = &Viewer{Token: "not a jwt"}
	assert.False(t, v.Expired(now))

	var nobody *Viewer
	assert.False(t, nobody.Expired(now))
}

func TestMarshalHidesToken(t *testing.T) {
	js, err := json.Marshal(LoggedIn(&Viewer{Token: "sekret", Username: "homer"}))
	require.NoError(t, err)
	assert.NotContains(t, string(js), "sekret")
	assert.Contains(t, string(js), "homer")

	js, err = json.Marshal(Guest())
	require.NoError(t, err)
	assert.Equal(t, "null", string(js))
}
