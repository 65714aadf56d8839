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

package sio

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Comcast/conduit/app"
	"github.com/Comcast/conduit/config"
	"github.com/Comcast/conduit/metrics"
	"github.com/Comcast/conduit/util"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTT is a Couplings that takes inputs from one topic and publishes
// snapshots to another.
type MQTT struct {
	Client   mqtt.Client
	InTopic  string
	OutTopic string
	QoS      byte

	// Quiesce is how long (in milliseconds) to wait for work to
	// finish when disconnecting.
	Quiesce uint

	// InTimeout bounds the wait to queue an incoming message.
	InTimeout time.Duration

	ctx context.Context
	in  chan Input
}

// NewMQTT makes the client from the configuration.  Nothing
// connects until Start.
func NewMQTT(conf config.MQTT) *MQTT {
	c := &MQTT{
		InTopic:   conf.InTopic,
		OutTopic:  conf.OutTopic,
		QoS:       byte(conf.QoS),
		Quiesce:   100,
		InTimeout: 5 * time.Second,
		in:        make(chan Input),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(conf.Broker)
	opts.SetClientID(conf.ClientID)
	if 0 < conf.KeepAlive {
		opts.SetKeepAlive(time.Second * time.Duration(conf.KeepAlive))
	}
	opts.SetPingTimeout(10 * time.Second)
	opts.Username = conf.Username
	opts.Password = conf.Password
	opts.CleanSession = conf.Clean
	opts.OnConnect = func(mqtt.Client) {
		metrics.Connections.WithLabelValues("mq").Set(1)
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		metrics.Connections.WithLabelValues("mq").Set(0)
		util.Errorf("mqtt connection lost: %s", err)
	}
	opts.DefaultPublishHandler = func(client mqtt.Client, msg mqtt.Message) {
		c.consume(msg.Topic(), msg.Payload())
	}
	c.Client = mqtt.NewClient(opts)
	return c
}

func (c *MQTT) consume(topic string, payload []byte) {
	ctx := c.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	var x Input
	if err := json.Unmarshal(payload, &x); err != nil {
		util.Errorf("mqtt bad input on %s: %s", topic, err)
		return
	}

	to := time.NewTimer(c.InTimeout)
	defer to.Stop()

	select {
	case <-ctx.Done():
		util.Logf("mqtt not forwarding due to ctx.Done()")
	case c.in <- x:
		util.Logf("mqtt forwarded %s", payload)
	case <-to.C:
		util.Errorf("mqtt dropping input due to stall (%s, %s)", topic, payload)
	}
}

// Start connects to the broker and subscribes to InTopic.
func (c *MQTT) Start(ctx context.Context) error {
	c.ctx = ctx
	util.Logf("mqtt connecting")
	if t := c.Client.Connect(); t.Wait() && t.Error() != nil {
		return t.Error()
	}
	util.Logf("mqtt subscribing to %s (%d)", c.InTopic, c.QoS)
	if t := c.Client.Subscribe(c.InTopic, c.QoS, nil); t.Wait() && t.Error() != nil {
		return t.Error()
	}
	return nil
}

// IO starts publishing snapshots to OutTopic.  The input channel is
// never closed.
func (c *MQTT) IO(ctx context.Context) (<-chan Input, chan<- app.Snapshot, error) {
	out := make(chan app.Snapshot)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-out:
				js, err := json.Marshal(&s)
				if err != nil {
					util.Errorf("mqtt marshal: %s", err)
					continue
				}
				t := c.Client.Publish(c.OutTopic, c.QoS, false, js)
				if t.Wait() && t.Error() != nil {
					util.Errorf("mqtt publish to %s: %s", c.OutTopic, t.Error())
				}
			}
		}
	}()
	return c.in, out, nil
}

// Stop terminates the MQTT session.
func (c *MQTT) Stop(context.Context) error {
	util.Logf("mqtt disconnecting")
	c.Client.Disconnect(c.Quiesce)
	metrics.Connections.WithLabelValues("mq").Set(0)
	return nil
}
