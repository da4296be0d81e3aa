package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressionTypeString(t *testing.T) {
	require.Equal(t, "None", CompressionNone.String())
	require.Equal(t, "Zstd", CompressionZstd.String())
	require.Equal(t, "S2", CompressionS2.String())
	require.Equal(t, "LZ4", CompressionLZ4.String())
	require.Equal(t, "Unknown", CompressionType(0xff).String())
}

func TestKindString(t *testing.T) {
	require.Equal(t, "CompoundProxy", KindCompoundProxy.String())
	require.Equal(t, "Space", KindSpace.String())
	require.Equal(t, "Unknown", Kind(0).String())
}

func TestVersionTable(t *testing.T) {
	require.Equal(t, Version(2), CurrentVersion(KindCompoundProxy))
	require.Equal(t, Version(0), CurrentVersion(KindSpace))

	require.True(t, IsSupported(KindCompoundProxy, 0))
	require.True(t, IsSupported(KindCompoundProxy, 1))
	require.True(t, IsSupported(KindCompoundProxy, 2))
	require.False(t, IsSupported(KindCompoundProxy, 3))
	require.False(t, IsSupported(KindSpace, 1))
	require.False(t, IsSupported(Kind(0), 0))
}
