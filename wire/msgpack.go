package wire

import "github.com/vmihailenco/msgpack/v5"

// MsgPack encodes messages as binary MessagePack.
var MsgPack Codec = msgpackCodec{}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "msgpack" }

func (msgpackCodec) Binary() bool { return true }

func (msgpackCodec) Marshal(message *Message) ([]byte, error) {
	return msgpack.Marshal(message)
}

func (msgpackCodec) Unmarshal(data []byte, message *Message) error {
	if err := msgpack.Unmarshal(data, message); err != nil {
		return err
	}
	return validate(message)
}
