package util

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func capture(f func()) string {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)
	f()
	return buf.String()
}

func TestLogf(t *testing.T) {
	defer func(was bool) { Logging = was }(Logging)

	Logging = false
	assert.Equal(t, "", capture(func() { Logf("quiet %d", 1) }))

	Logging = true
	assert.Contains(t, capture(func() { Logf("loud %d", 2) }), "loud 2")
}

func TestLogErrors(t *testing.T) {
	out := capture(func() { LogErrors("feed", []string{"a", "b"}) })
	assert.Equal(t, 2, strings.Count(out, "ERROR feed: "))
}

func TestJS(t *testing.T) {
	assert.Equal(t, `{"a":1}`, JS(map[string]int{"a": 1}))
	assert.Equal(t, "null", JS(nil))
}
