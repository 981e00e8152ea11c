package serializer

import (
	"encoding/json"
	"errors"

	"github.com/vmihailenco/msgpack/v5"
	"google.golang.org/protobuf/proto"
)

var (
	ErrPBPack     = errors.New("pb打包错误")
	ErrPBUnPack   = errors.New("pb解析错误")
	ErrNotPBMsg   = errors.New("不是pb消息")
	ErrJsonPack   = errors.New("json打包错误")
	ErrJsonUnPack = errors.New("json解析错误")
)

var (
	Json    ISerializer = new(jsonCodec)
	MsgPack ISerializer = new(msgPackCodec)
	PB      ISerializer = new(pbCodec)
)

// ISerializer 负载序列化器
type ISerializer interface {
	Name() string
	Unmarshal(data []byte, msg interface{}) error
	Marshal(msg interface{}) ([]byte, error)
}

type jsonCodec struct {
}

func (p *jsonCodec) Name() string { return "json" }

func (p *jsonCodec) Unmarshal(data []byte, msg interface{}) error {
	if data == nil || msg == nil {
		return ErrJsonUnPack
	}
	return json.Unmarshal(data, msg)
}

func (p *jsonCodec) Marshal(msg interface{}) ([]byte, error) {
	if msg == nil {
		return nil, ErrJsonPack
	}
	return json.Marshal(msg)
}

type msgPackCodec struct {
}

func (p *msgPackCodec) Name() string { return "msgpack" }

func (p *msgPackCodec) Unmarshal(data []byte, msg interface{}) error {
	return msgpack.Unmarshal(data, msg)
}

func (p *msgPackCodec) Marshal(msg interface{}) ([]byte, error) {
	return msgpack.Marshal(msg)
}

type pbCodec struct {
}

func (p *pbCodec) Name() string { return "protobuf" }

func (p *pbCodec) Unmarshal(data []byte, msg interface{}) error {
	if msg == nil {
		return ErrPBUnPack
	}
	v, ok := msg.(proto.Message)
	if !ok {
		return ErrNotPBMsg
	}
	return proto.Unmarshal(data, v)
}

func (p *pbCodec) Marshal(msg interface{}) ([]byte, error) {
	if msg == nil {
		return nil, ErrPBPack
	}
	v, ok := msg.(proto.Message)
	if !ok {
		return nil, ErrNotPBMsg
	}
	return proto.Marshal(v)
}

// ByName 按名字取序列化器，配置里用
func ByName(name string) (ISerializer, bool) {
	switch name {
	case "json":
		return Json, true
	case "msgpack", "":
		return MsgPack, true
	case "protobuf", "pb":
		return PB, true
	}
	return nil, false
}
