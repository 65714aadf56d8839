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

// Command conduit runs the Conduit client headless.
//
// Inputs (URLs and page events) arrive over a coupling and every
// resulting snapshot of the current page goes back out over it.  See
// package sio for the couplings and the input format.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Comcast/conduit/api"
	"github.com/Comcast/conduit/app"
	"github.com/Comcast/conduit/config"
	"github.com/Comcast/conduit/sio"
	"github.com/Comcast/conduit/status"
	"github.com/Comcast/conduit/storage"
	"github.com/Comcast/conduit/storage/bolt"
	"github.com/Comcast/conduit/timers"
	"github.com/Comcast/conduit/util"
)

func main() {
	conf, _, err := config.Load("conduit", os.Args[1:], os.LookupEnv)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	util.Logging = conf.Verbose
	status.SlowThreshold = conf.SlowThreshold

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := openStorage(ctx, conf.Storage)
	if err != nil {
		log.Fatal(err)
	}
	defer closeStore()

	client, err := api.NewClient(conf.API, conf.Timeout)
	if err != nil {
		log.Fatal(err)
	}
	client.Verbose = conf.Verbose

	ts := timers.NewTimers(1024)
	ts.Debug = conf.Verbose
	go func() {
		if err := ts.Run(ctx); err != nil {
			util.Errorf("timers: %s", err)
		}
	}()
	if !ts.Wait(time.Second) {
		log.Fatal("timers didn't start")
	}

	a := app.New(client, store)
	a.Verbose = conf.Verbose
	a.Timers = ts

	c, err := coupling(conf)
	if err != nil {
		log.Fatal(err)
	}

	// The websocket coupling serves the metrics itself.
	if conf.IO != "ws" && conf.Listen != "" {
		go func() {
			if err := sio.Serve(ctx, conf.Listen, sio.Router(nil)); err != nil {
				util.Errorf("metrics server: %s", err)
			}
		}()
	}

	a.Init(ctx, conf.URL)

	if err := sio.Run(ctx, a, c, conf.HaltOnEOF); err != nil {
		log.Fatal(err)
	}
}

func coupling(conf *config.Conf) (sio.Couplings, error) {
	switch conf.IO {
	case "ws":
		return sio.NewWebSocket(conf.Listen), nil
	case "mq":
		return sio.NewMQTT(conf.MQTT), nil
	case "script":
		return sio.NewScript(conf.Script), nil
	case "std":
		return sio.NewStdio(), nil
	}
	return nil, errors.New("unknown io " + conf.IO)
}

// openStorage picks the ViewerStore for the filename.  The returned
// func releases it.
func openStorage(ctx context.Context, filename string) (storage.ViewerStore, func(), error) {
	switch {
	case filename == "":
		return storage.NewMemStore(), func() {}, nil
	case strings.HasSuffix(filename, ".db"):
		s, err := bolt.NewStorage(filename)
		if err != nil {
			return nil, nil, err
		}
		if err := s.Open(ctx); err != nil {
			return nil, nil, err
		}
		return s, func() {
			if err := s.Close(context.Background()); err != nil {
				util.Errorf("storage close: %s", err)
			}
		}, nil
	default:
		return storage.NewJSONFile(filename), func() {}, nil
	}
}
