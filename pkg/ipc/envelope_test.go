package ipc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dzm2020/gipc/pkg/wire"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	call := NewEnvelope(7, MakeKind(3, 2), PriorityHigh, []byte("payload"))
	call.flags = flagCall
	call.Seqno = 42

	got, err := UnmarshalEnvelope(call.Marshal())
	require.NoError(t, err)
	require.Equal(t, ActorID(7), got.RoutingID)
	require.Equal(t, MakeKind(3, 2), got.Kind)
	require.Equal(t, PriorityHigh, got.Priority)
	require.Equal(t, int64(42), got.Seqno)
	require.True(t, got.IsCall())
	require.False(t, got.IsReply())
	require.Equal(t, "payload", string(got.Payload))

	reply := newErrorReply(got, NoneID, ValueError, wire.ErrInvalidBool)
	back, err := UnmarshalEnvelope(reply.Marshal())
	require.NoError(t, err)
	require.True(t, back.IsReply())
	require.True(t, back.IsError())
	require.Equal(t, call.Kind.Reply(), back.Kind)
	require.Equal(t, int64(42), back.Seqno)

	f := new(callFailure)
	require.NoError(t, wire.Decode(back.Payload, f))
	require.Equal(t, ValueError, f.Outcome)
	require.Equal(t, wire.ErrInvalidBool.Error(), f.Message)
}

func TestEnvelopeTruncated(t *testing.T) {
	data := NewEnvelope(1, MakeKind(1, 1), PriorityNormal, nil).Marshal()
	require.Len(t, data, HeaderLen)
	for i := 0; i < HeaderLen; i++ {
		_, err := UnmarshalEnvelope(data[:i])
		require.Error(t, err, "prefix %d", i)
		require.True(t, wire.IsDeserializeError(err))
	}
}

func TestEnvelopeRejectsBadHeader(t *testing.T) {
	cases := map[string]func(e *Envelope){
		"priority":       func(e *Envelope) { e.Priority = 9 },
		"unknown flag":   func(e *Envelope) { e.flags = 1 << 5 },
		"call and reply": func(e *Envelope) { e.flags = flagCall | flagReply; e.Seqno = 1 },
		"error no reply": func(e *Envelope) { e.flags = flagError },
		"reply bit":      func(e *Envelope) { e.flags = flagReply; e.Seqno = 1 },
		"call no seqno":  func(e *Envelope) { e.flags = flagCall },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			e := NewEnvelope(1, MakeKind(1, 1), PriorityNormal, nil)
			mutate(e)
			_, err := UnmarshalEnvelope(e.Marshal())
			require.Error(t, err)
			require.True(t, wire.IsDeserializeError(err))
		})
	}
}

func TestKindLayout(t *testing.T) {
	k := MakeKind(5, 9)
	require.Equal(t, ProtocolID(5), k.Protocol())
	require.Equal(t, uint16(9), k.Index())
	require.False(t, k.IsReply())
	require.True(t, k.Reply().IsReply())
	require.Equal(t, k, k.Reply().Request())
	require.Equal(t, k.Protocol(), k.Reply().Protocol())
	require.Equal(t, ProtocolID(0), KindGoodbye.Protocol())
}

func TestNewProtocolPanics(t *testing.T) {
	require.Panics(t, func() { NewProtocol(0, "control") })
	require.Panics(t, func() {
		NewProtocol(1, "P", MessageSpec{Kind: MakeKind(2, 1)})
	})
	require.Panics(t, func() {
		NewProtocol(1, "P", MessageSpec{Kind: MakeKind(1, 1)}, MessageSpec{Kind: MakeKind(1, 1)})
	})
	require.Panics(t, func() {
		NewProtocol(1, "P", MessageSpec{Kind: MakeKind(1, 1), Sem: SemSend, Ctor: true})
	})

	p := NewProtocol(1, "P",
		MessageSpec{Kind: MakeKind(1, 2), Sem: SemCall},
		MessageSpec{Kind: MakeKind(1, 1), Sem: SemSend},
	)
	require.Equal(t, []MsgKind{MakeKind(1, 1), MakeKind(1, 2)}, p.Kinds())
	spec, ok := p.Spec(MakeKind(1, 2).Reply())
	require.True(t, ok)
	require.Equal(t, SemCall, spec.Sem)
	_, ok = p.Spec(MakeKind(2, 1))
	require.False(t, ok)
}
