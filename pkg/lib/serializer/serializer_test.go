package serializer

import (
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type point struct {
	X, Y int
	Tag  string
}

func TestMsgPackAndJson(t *testing.T) {
	for _, s := range []ISerializer{MsgPack, Json} {
		data, err := s.Marshal(&point{X: 1, Y: -2, Tag: "p"})
		require.NoError(t, err, s.Name())
		var out point
		require.NoError(t, s.Unmarshal(data, &out), s.Name())
		require.Equal(t, point{X: 1, Y: -2, Tag: "p"}, out)
	}
}

func TestPB(t *testing.T) {
	data, err := PB.Marshal(wrapperspb.String("hi"))
	require.NoError(t, err)
	out := new(wrapperspb.StringValue)
	require.NoError(t, PB.Unmarshal(data, out))
	require.Equal(t, "hi", out.GetValue())

	_, err = PB.Marshal(&point{})
	require.ErrorIs(t, err, ErrNotPBMsg)
}

func TestByName(t *testing.T) {
	s, ok := ByName("pb")
	require.True(t, ok)
	require.Equal(t, "protobuf", s.Name())
	_, ok = ByName("xml")
	require.False(t, ok)
}
