// Package util has the logging helpers every component shares.
package util

import (
	"encoding/json"
	"fmt"
	"log"
)

// Logging is a clumsy switch that affects what Logf does.
//
// If Logging is true, then Logf calls log.Printf.
var Logging = false

// Logf calls log.Printf if Logging is true.
func Logf(format string, args ...interface{}) {
	if !Logging {
		return
	}
	log.Printf(format, args...)
}

// Errorf always logs, with an "ERROR " prefix.
func Errorf(format string, args ...interface{}) {
	log.Printf("ERROR "+format, args...)
}

// LogErrors logs each message as an error from the given source.
func LogErrors(from string, msgs []string) {
	for _, msg := range msgs {
		Errorf("%s: %s", from, msg)
	}
}

// JS renders its argument as JSON or as a string indicating an
// error.
func JS(x interface{}) string {
	bs, err := json.Marshal(&x)
	if err != nil {
		return fmt.Sprintf("%#v", x)
	}
	return string(bs)
}
