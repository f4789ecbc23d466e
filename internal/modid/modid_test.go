package modid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromPathDeterministic(t *testing.T) {
	a := FromPath("/proj/foo.gt")
	b := FromPath("/proj/foo.gt")
	require.Equal(t, a, b)
}

func TestFromPathDistinguishesPaths(t *testing.T) {
	a := FromPath("/proj/foo.gt")
	b := FromPath("/proj/bar.gt")
	require.NotEqual(t, a, b)
}

func TestFromBytesDeterministic(t *testing.T) {
	a := FromBytes([]byte("let x = 1"))
	b := FromBytes([]byte("let x = 1"))
	require.True(t, a.Equal(b))
}

func TestFromBytesDistinguishesContent(t *testing.T) {
	a := FromBytes([]byte("let x = 1"))
	b := FromBytes([]byte("let x = 2"))
	require.False(t, a.Equal(b))
}

func TestShortHexIsPrefixOfHex(t *testing.T) {
	h := FromBytes([]byte("module body"))
	require.True(t, len(h.ShortHex()) == 32)
	require.Equal(t, h.Hex()[:32], h.ShortHex())
}

func TestModuleIdHexLength(t *testing.T) {
	id := FromPath("/a/b.gt")
	require.Len(t, id.Hex(), 16)
}
