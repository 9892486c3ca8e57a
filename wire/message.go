// Package wire defines the messages location providers exchange with a
// remote location, and the codecs used to encode them.
package wire

import "fmt"

// MessageType identifies the kind of a location message.
type MessageType string

const (
	// ChangeMessage is sent by the remote side when its location changed.
	ChangeMessage MessageType = "change"
	// SetMessage is sent to the remote side to move its location.
	SetMessage MessageType = "set"
)

// Message is the envelope of every location message.
//
//	{
//	  "type": "set",
//	  "fragment": "users/42",
//	  "replace": false
//	}
type Message struct {
	Type     MessageType `json:"type" msgpack:"type"`
	Fragment string      `json:"fragment" msgpack:"fragment"`
	Replace  bool        `json:"replace,omitempty" msgpack:"replace,omitempty"`
}

// Codec encodes and decodes location messages.
type Codec interface {
	// Name is the codec name, also used as the websocket subprotocol suffix.
	Name() string
	// Binary reports whether encoded messages are binary rather than text.
	Binary() bool
	Marshal(message *Message) ([]byte, error)
	Unmarshal(data []byte, message *Message) error
}

// CodecByName returns the codec registered under name: "json" or "msgpack".
func CodecByName(name string) (Codec, error) {
	switch name {
	case JSON.Name():
		return JSON, nil
	case MsgPack.Name():
		return MsgPack, nil
	}
	return nil, fmt.Errorf("unknown codec %q", name)
}

// Subprotocol returns the websocket subprotocol negotiated for codec.
func Subprotocol(codec Codec) string {
	return "hashroute-" + codec.Name()
}

func validate(message *Message) error {
	switch message.Type {
	case ChangeMessage, SetMessage:
		return nil
	}
	return fmt.Errorf("unknown message type %q", message.Type)
}
