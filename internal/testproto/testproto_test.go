package testproto

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dzm2020/gipc/pkg/ipc"
	"github.com/dzm2020/gipc/pkg/wire"
)

func TestDecodeUnion(t *testing.T) {
	cases := []struct {
		kind ipc.MsgKind
		msg  PTestMessage
	}{
		{KindEcho, &EchoRequest{Text: "hi"}},
		{KindRelay, &RelayRequest{Hops: 3, Trace: wire.Strings{"a", "b"}}},
		{KindNotify, &Note{Seq: 7, Text: "n"}},
		{KindAlert, &Alert{Level: 2, Text: "x"}},
		{KindPSubConstructor, &PSubConstructor{Peer: 12, Args: SubArgs{Name: "sub"}}},
	}
	for _, c := range cases {
		payload, err := wire.Encode(c.msg)
		require.NoError(t, err)
		got, err := DecodePTest(c.kind, payload)
		require.NoError(t, err, c.kind.String())
		require.Equal(t, c.msg, got)
	}

	msg, err := DecodePTest(ipc.MakeKind(PTestID, 99), nil)
	require.NoError(t, err)
	require.Nil(t, msg)

	_, err = DecodePTest(KindEcho, []byte{0, 0})
	require.True(t, wire.IsDeserializeError(err))

	// 构造消息里的对端编号不能是保留值
	bad, err := wire.Encode(&PSubConstructor{Peer: ipc.ControlID})
	require.NoError(t, err)
	_, err = DecodePTest(KindPSubConstructor, bad)
	require.Error(t, err)
}

func TestDecodePSub(t *testing.T) {
	payload, err := wire.Encode(&AddRequest{A: 1, B: -3})
	require.NoError(t, err)
	msg, err := DecodePSub(KindAdd, payload)
	require.NoError(t, err)
	require.Equal(t, &AddRequest{A: 1, B: -3}, msg)

	msg, err = DecodePSub(KindDelete, nil)
	require.NoError(t, err)
	require.IsType(t, &DeleteMessage{}, msg)

	_, err = DecodePSub(KindDelete, []byte{1})
	require.Error(t, err)

	payload, err = wire.Encode(&PSubConstructor{Peer: 7, Args: SubArgs{Name: "leaf"}})
	require.NoError(t, err)
	msg, err = DecodePSub(KindChildConstructor, payload)
	require.NoError(t, err)
	require.Equal(t, &PSubConstructor{Peer: 7, Args: SubArgs{Name: "leaf"}}, msg)
}

func TestProtocolDescriptors(t *testing.T) {
	spec, ok := PTest.Spec(KindPSubConstructor)
	require.True(t, ok)
	require.True(t, spec.Ctor)
	spec, ok = PSub.Spec(KindDelete)
	require.True(t, ok)
	require.True(t, spec.Dtor)
	spec, ok = PSub.Spec(KindChildConstructor)
	require.True(t, ok)
	require.True(t, spec.Ctor)
	require.False(t, PTest.Owns(KindAdd))
	require.Len(t, PTest.Kinds(), 5)
	require.Len(t, PSub.Kinds(), 4)
}
