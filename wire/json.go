package wire

import "encoding/json"

// JSON encodes messages as JSON text.
var JSON Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Binary() bool { return false }

func (jsonCodec) Marshal(message *Message) ([]byte, error) {
	return json.Marshal(message)
}

func (jsonCodec) Unmarshal(data []byte, message *Message) error {
	if err := json.Unmarshal(data, message); err != nil {
		return err
	}
	return validate(message)
}
