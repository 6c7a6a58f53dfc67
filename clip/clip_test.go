package clip

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeWAV writes a mono 16-bit PCM file of n silent samples.
func writeWAV(t *testing.T, path string, sampleRate, n int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	dataSize := n * 2
	hdr := []any{
		[4]byte{'R', 'I', 'F', 'F'},
		uint32(36 + dataSize),
		[4]byte{'W', 'A', 'V', 'E'},
		[4]byte{'f', 'm', 't', ' '},
		uint32(16),
		uint16(1), // PCM
		uint16(1), // mono
		uint32(sampleRate),
		uint32(sampleRate * 2),
		uint16(2),
		uint16(16),
		[4]byte{'d', 'a', 't', 'a'},
		uint32(dataSize),
	}
	for _, v := range hdr {
		require.NoError(t, binary.Write(f, binary.LittleEndian, v))
	}
	require.NoError(t, binary.Write(f, binary.LittleEndian, make([]int16, n)))
}

func TestOpenWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battle.wav")
	writeWAV(t, path, 44100, 22050)

	p, err := Open(path)
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, path, p.Path())
	assert.Equal(t, 500*time.Millisecond, p.Duration())
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.mp3"))
	assert.Error(t, err)
}

func TestOpenUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battle.ogg")
	require.NoError(t, os.WriteFile(path, []byte("OggS"), 0644))

	_, err := Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported clip format")
}

func TestOpenCorruptWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battle.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file at all"), 0644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestStopBeforePlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battle.wav")
	writeWAV(t, path, 44100, 100)

	p, err := Open(path)
	require.NoError(t, err)
	assert.NotPanics(t, p.Stop)
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())

	assert.ErrorIs(t, p.Play(), ErrClosed)
	assert.Equal(t, time.Duration(0), p.Duration())
}
