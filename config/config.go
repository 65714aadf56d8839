/* Copyright 2021 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config gathers the client's settings.
//
// Settings come from, in increasing precedence: defaults, an optional
// YAML file, a .env file, CONDUIT_* environment variables, and
// command-line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/status"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// MQTT configures the MQTT coupling.
type MQTT struct {
	Broker    string `yaml:"broker"`
	ClientID  string `yaml:"clientId"`
	InTopic   string `yaml:"inTopic"`
	OutTopic  string `yaml:"outTopic"`
	QoS       int    `yaml:"qos"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	KeepAlive int    `yaml:"keepAlive"`
	Clean     bool   `yaml:"clean"`
}

// Conf is the complete configuration.
type Conf struct {
	// API is the backend's root URL.
	API string `yaml:"api"`

	// Timeout bounds each backend request.
	Timeout time.Duration `yaml:"timeout"`

	SlowThreshold time.Duration `yaml:"slowThreshold"`

	// Storage is where the viewer is kept: a ".db" filename for
	// BoltDB, any other filename for JSON, or empty for memory
	// only.
	Storage string `yaml:"storage"`

	Verbose bool `yaml:"verbose"`

	// IO names the coupling: std, ws, mq or script.
	IO string `yaml:"io"`

	// Listen is the address of the websocket and metrics server.
	Listen string `yaml:"listen"`

	// URL is the first URL to visit.
	URL string `yaml:"url"`

	// Script is the input script for the script coupling.
	Script string `yaml:"script"`

	// HaltOnEOF stops the client when the coupling's input ends.
	HaltOnEOF bool `yaml:"haltOnEOF"`

	MQTT MQTT `yaml:"mqtt"`
}

// Default returns the configuration used when nothing else is said.
func Default() *Conf {
	return &Conf{
		API:           api.DefaultBaseURL,
		Timeout:       30 * time.Second,
		SlowThreshold: status.DefaultSlowThreshold,
		IO:            "std",
		Listen:        ":8080",
		URL:           "/",
		HaltOnEOF:     true,
		MQTT: MQTT{
			Broker:    "tcp://localhost:1883",
			ClientID:  "conduit",
			InTopic:   "conduit/in",
			OutTopic:  "conduit/out",
			KeepAlive: 30,
			Clean:     true,
		},
	}
}

// LoadFile merges the YAML file into c.
func (c *Conf) LoadFile(filename string) error {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(bs, c)
}

// envs maps environment variables to the setting they override.
var envs = map[string]func(c *Conf, s string) error{
	"CONDUIT_API":            func(c *Conf, s string) error { c.API = s; return nil },
	"CONDUIT_TIMEOUT":        func(c *Conf, s string) error { return setDuration(&c.Timeout, s) },
	"CONDUIT_SLOW_THRESHOLD": func(c *Conf, s string) error { return setDuration(&c.SlowThreshold, s) },
	"CONDUIT_STORAGE":        func(c *Conf, s string) error { c.Storage = s; return nil },
	"CONDUIT_VERBOSE":        func(c *Conf, s string) error { return setBool(&c.Verbose, s) },
	"CONDUIT_IO":             func(c *Conf, s string) error { c.IO = s; return nil },
	"CONDUIT_LISTEN":         func(c *Conf, s string) error { c.Listen = s; return nil },
	"CONDUIT_URL":            func(c *Conf, s string) error { c.URL = s; return nil },
	"CONDUIT_SCRIPT":         func(c *Conf, s string) error { c.Script = s; return nil },
	"CONDUIT_MQTT_BROKER":    func(c *Conf, s string) error { c.MQTT.Broker = s; return nil },
	"CONDUIT_MQTT_CLIENT_ID": func(c *Conf, s string) error { c.MQTT.ClientID = s; return nil },
	"CONDUIT_MQTT_IN_TOPIC":  func(c *Conf, s string) error { c.MQTT.InTopic = s; return nil },
	"CONDUIT_MQTT_OUT_TOPIC": func(c *Conf, s string) error { c.MQTT.OutTopic = s; return nil },
	"CONDUIT_MQTT_USERNAME":  func(c *Conf, s string) error { c.MQTT.Username = s; return nil },
	"CONDUIT_MQTT_PASSWORD":  func(c *Conf, s string) error { c.MQTT.Password = s; return nil },
}

func setDuration(d *time.Duration, s string) error {
	x, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = x
	return nil
}

func setBool(b *bool, s string) error {
	x, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*b = x
	return nil
}

// LoadEnv applies CONDUIT_* settings.  Values from the process
// environment (via lookup) win over values in envFile.  A missing
// envFile is fine.
func (c *Conf) LoadEnv(envFile string, lookup func(string) (string, bool)) error {
	vals := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		for k, v := range m {
			vals[k] = v
		}
	}
	if lookup != nil {
		for k := range envs {
			if v, have := lookup(k); have {
				vals[k] = v
			}
		}
	}
	for k, v := range vals {
		set, have := envs[k]
		if !have {
			continue
		}
		if err := set(c, strings.TrimSpace(v)); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	return nil
}

// Load builds the configuration for a command from its arguments
// (without the program name).  It returns the remaining positional
// arguments.
func Load(name string, args []string, lookup func(string) (string, bool)) (*Conf, []string, error) {
	var (
		c  = Default()
		fs = flag.NewFlagSet(name, flag.ContinueOnError)
		d  = Default()

		confFile = fs.String("config", "", "optional YAML configuration file")
		envFile  = fs.String("env", ".env", "optional dotenv file")

		// Flags are parsed into f and copied into c only when
		// given, so they override the file and the environment.
		f = *d
	)

	fs.StringVar(&f.API, "api", d.API, "backend API root URL")
	fs.DurationVar(&f.Timeout, "timeout", d.Timeout, "backend request timeout")
	fs.DurationVar(&f.SlowThreshold, "slow", d.SlowThreshold, "delay before a load is considered slow")
	fs.StringVar(&f.Storage, "storage", d.Storage, "viewer storage file (.db for BoltDB, else JSON; empty for memory)")
	fs.BoolVar(&f.Verbose, "v", d.Verbose, "verbose logging")
	fs.StringVar(&f.IO, "io", d.IO, "coupling: std|ws|mq|script")
	fs.StringVar(&f.Listen, "listen", d.Listen, "websocket and metrics server address")
	fs.StringVar(&f.URL, "url", d.URL, "initial URL")
	fs.StringVar(&f.Script, "script", d.Script, "input script for the script coupling")
	fs.BoolVar(&f.HaltOnEOF, "halt-on-eof", d.HaltOnEOF, "stop when input ends")
	fs.StringVar(&f.MQTT.Broker, "mqtt-broker", d.MQTT.Broker, "MQTT broker URL")
	fs.StringVar(&f.MQTT.ClientID, "mqtt-client-id", d.MQTT.ClientID, "MQTT client id")
	fs.StringVar(&f.MQTT.InTopic, "mqtt-in", d.MQTT.InTopic, "MQTT topic for input")
	fs.StringVar(&f.MQTT.OutTopic, "mqtt-out", d.MQTT.OutTopic, "MQTT topic for snapshots")
	fs.IntVar(&f.MQTT.QoS, "mqtt-qos", d.MQTT.QoS, "MQTT QoS")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	if *confFile != "" {
		if err := c.LoadFile(*confFile); err != nil {
			return nil, nil, err
		}
	}
	if err := c.LoadEnv(*envFile, lookup); err != nil {
		return nil, nil, err
	}

	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "api":
			c.API = f.API
		case "timeout":
			c.Timeout = f.Timeout
		case "slow":
			c.SlowThreshold = f.SlowThreshold
		case "storage":
			c.Storage = f.Storage
		case "v":
			c.Verbose = f.Verbose
		case "io":
			c.IO = f.IO
		case "listen":
			c.Listen = f.Listen
		case "url":
			c.URL = f.URL
		case "script":
			c.Script = f.Script
		case "halt-on-eof":
			c.HaltOnEOF = f.HaltOnEOF
		case "mqtt-broker":
			c.MQTT.Broker = f.MQTT.Broker
		case "mqtt-client-id":
			c.MQTT.ClientID = f.MQTT.ClientID
		case "mqtt-in":
			c.MQTT.InTopic = f.MQTT.InTopic
		case "mqtt-out":
			c.MQTT.OutTopic = f.MQTT.OutTopic
		case "mqtt-qos":
			c.MQTT.QoS = f.MQTT.QoS
		}
	})

	return c, fs.Args(), c.Validate()
}

// Validate checks settings that can't be used as given.
func (c *Conf) Validate() error {
	switch c.IO {
	case "std", "ws", "mq", "script":
	default:
		return fmt.Errorf("unknown io %q", c.IO)
	}
	if c.IO == "script" && c.Script == "" {
		return errors.New("script io needs a script")
	}
	if c.SlowThreshold <= 0 {
		return fmt.Errorf("bad slow threshold %s", c.SlowThreshold)
	}
	return nil
}
