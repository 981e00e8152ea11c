package wire

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dzm2020/gipc/pkg/lib/serializer"
)

type sample struct {
	A uint8
	B uint16
	C int32
	D int64
	E float64
	F bool
	G string
	H []byte
	I Strings
}

func (s *sample) MarshalIPC(w *Writer) {
	w.WriteUint8(s.A)
	w.WriteUint16(s.B)
	w.WriteInt32(s.C)
	w.WriteInt64(s.D)
	w.WriteFloat64(s.E)
	w.WriteBool(s.F)
	w.WriteString(s.G)
	w.WriteBytes(s.H)
	s.I.MarshalIPC(w)
}

func (s *sample) UnmarshalIPC(r *Reader) (err error) {
	if s.A, err = r.ReadUint8("A"); err != nil {
		return
	}
	if s.B, err = r.ReadUint16("B"); err != nil {
		return
	}
	if s.C, err = r.ReadInt32("C"); err != nil {
		return
	}
	if s.D, err = r.ReadInt64("D"); err != nil {
		return
	}
	if s.E, err = r.ReadFloat64("E"); err != nil {
		return
	}
	if s.F, err = r.ReadBool("F"); err != nil {
		return
	}
	if s.G, err = r.ReadString("G"); err != nil {
		return
	}
	if s.H, err = r.ReadBytes("H"); err != nil {
		return
	}
	return s.I.UnmarshalIPC(r)
}

func TestRoundTrip(t *testing.T) {
	in := &sample{
		A: 0xff, B: 0xbeef, C: -7, D: math.MinInt64, E: 3.25, F: true,
		G: "你好", H: []byte{0, 1, 2}, I: Strings{"a", "", "c"},
	}
	data, err := Encode(in)
	require.NoError(t, err)

	out := new(sample)
	require.NoError(t, Decode(data, out))
	require.Equal(t, in, out)
}

func TestBigEndianLayout(t *testing.T) {
	w := NewWriter()
	w.WriteUint32(0x01020304)
	w.WriteUint16(0x0506)
	require.Equal(t, []byte{1, 2, 3, 4, 5, 6}, w.Bytes())
}

func TestTruncatedInput(t *testing.T) {
	in := &sample{G: "truncate me", I: Strings{"x"}}
	data, err := Encode(in)
	require.NoError(t, err)

	// 每一个截断位置都必须返回错误而不是 panic
	for i := 0; i < len(data); i++ {
		err := Decode(data[:i], new(sample))
		require.Error(t, err, "prefix %d", i)
		require.True(t, IsDeserializeError(err), "prefix %d: %v", i, err)
	}
}

func TestTrailingBytes(t *testing.T) {
	data, err := Encode(&sample{})
	require.NoError(t, err)
	err = Decode(append(data, 0), new(sample))
	require.ErrorIs(t, err, ErrTrailingBytes)
}

func TestOversizedLength(t *testing.T) {
	w := NewWriter()
	w.WriteUint32(MaxLength + 1)
	_, err := NewReader(w.Bytes()).ReadString("s")
	require.ErrorIs(t, err, ErrTooLarge)

	var de *DeserializeError
	require.True(t, errors.As(err, &de))
	require.Equal(t, "s", de.Field)
}

func TestInvalidBool(t *testing.T) {
	_, err := NewReader([]byte{2}).ReadBool("flag")
	require.ErrorIs(t, err, ErrInvalidBool)
}

func TestStringsCountGuard(t *testing.T) {
	w := NewWriter()
	w.WriteUint32(1 << 30)
	var s Strings
	require.ErrorIs(t, s.UnmarshalIPC(NewReader(w.Bytes())), ErrTooLarge)
}

type payload struct {
	Name  string
	Score int
}

func TestMsgpackParam(t *testing.T) {
	data, err := Encode(&Msgpack[payload]{V: payload{Name: "n", Score: 9}})
	require.NoError(t, err)
	out := new(Msgpack[payload])
	require.NoError(t, Decode(data, out))
	require.Equal(t, payload{Name: "n", Score: 9}, out.V)
}

func TestProtoParam(t *testing.T) {
	data, err := Encode(&Proto[*wrapperspb.Int64Value]{V: wrapperspb.Int64(42)})
	require.NoError(t, err)
	out := &Proto[*wrapperspb.Int64Value]{V: new(wrapperspb.Int64Value)}
	require.NoError(t, Decode(data, out))
	require.Equal(t, int64(42), out.V.GetValue())
}

func TestSerializerFailure(t *testing.T) {
	_, err := Encode(&Msgpack[chan int]{V: make(chan int)})
	require.Error(t, err)
}

func TestWriterStopsAfterError(t *testing.T) {
	w := NewWriter()
	w.WriteUint8(1)
	w.WriteValue(serializer.MsgPack, make(chan int))
	require.Error(t, w.Err())
	n := w.Len()

	w.WriteUint8(2)
	w.WriteUint32(3)
	w.WriteString("x")
	w.WriteBytes([]byte{4})
	w.WriteRaw([]byte{5})
	w.WriteBool(true)
	require.Equal(t, n, w.Len())
	require.Equal(t, []byte{1}, w.Bytes())
}
