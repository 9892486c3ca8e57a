package wire_test

import (
	"testing"

	"github.com/RobertWHurst/hashroute/wire"
)

func TestCodecByName(t *testing.T) {
	tests := []struct {
		name        string
		codecName   string
		binary      bool
		shouldError bool
	}{
		{name: "json", codecName: "json", binary: false},
		{name: "msgpack", codecName: "msgpack", binary: true},
		{name: "unknown", codecName: "xml", shouldError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec, err := wire.CodecByName(tt.codecName)
			if tt.shouldError {
				if err == nil {
					t.Errorf("expected error for codec %q, got nil", tt.codecName)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if codec.Binary() != tt.binary {
				t.Errorf("expected Binary() to be %v", tt.binary)
			}
			if wire.Subprotocol(codec) != "hashroute-"+tt.codecName {
				t.Errorf("unexpected subprotocol %q", wire.Subprotocol(codec))
			}
		})
	}
}

func TestJSONUnmarshal(t *testing.T) {
	var message wire.Message
	err := wire.JSON.Unmarshal([]byte(`{"type":"change","fragment":"users/1"}`), &message)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if message.Type != wire.ChangeMessage || message.Fragment != "users/1" || message.Replace {
		t.Errorf("unexpected message %+v", message)
	}

	if err := wire.JSON.Unmarshal([]byte(`{"type":"reload"}`), &message); err == nil {
		t.Error("expected error for unknown message type")
	}
	if err := wire.JSON.Unmarshal([]byte(`not json`), &message); err == nil {
		t.Error("expected error for invalid json")
	}
}

func TestMsgPackRejectsUnknownType(t *testing.T) {
	data, err := wire.MsgPack.Marshal(&wire.Message{Type: "reload"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var message wire.Message
	if err := wire.MsgPack.Unmarshal(data, &message); err == nil {
		t.Error("expected error for unknown message type")
	}
}
