package mqtt

import (
	"errors"
	"testing"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

var _ paho.Message = fakeMessage{}

func TestDispatch_PassesTopicAndPayload(t *testing.T) {
	c := &Client{logger: zap.NewNop(), subs: map[string]subscription{}}

	var gotTopic string
	var gotPayload []byte
	cb := c.dispatch(func(topic string, payload []byte) error {
		gotTopic, gotPayload = topic, payload
		return nil
	})
	cb(nil, fakeMessage{topic: "appneruf/chatwork-sync", payload: []byte(`[]`)})

	assert.Equal(t, "appneruf/chatwork-sync", gotTopic)
	assert.Equal(t, []byte(`[]`), gotPayload)
}

func TestDispatch_HandlerErrorIsLogged(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	c := &Client{logger: zap.New(core), subs: map[string]subscription{}}

	cb := c.dispatch(func(string, []byte) error { return errors.New("boom") })
	cb(nil, fakeMessage{topic: "t"})
	cb(nil, fakeMessage{topic: "t"})

	assert.Equal(t, 2, logs.FilterMessage("Error handling MQTT message").Len())
}
