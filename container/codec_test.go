package container

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codecs = []Codec{ZipCodec{}, GzipJSONCodec{}}

func samplePayloads() map[string][]byte {
	return map[string][]byte{
		"readme.txt":      []byte("hello"),
		"data/empty.bin":  {},
		"data/binary.bin": {0x00, 0x01, 0xfe, 0xff, 0x00, 0x7f},
		"deep/a/b/c.json": []byte(`{"k":"v"}`),
	}
}

func TestCodecRoundTrip(t *testing.T) {
	for _, codec := range codecs {
		t.Run(codec.Name(), func(t *testing.T) {
			entries := samplePayloads()

			var buf bytes.Buffer
			require.NoError(t, codec.Encode(entries, &buf))

			decoded, err := codec.Decode(buf.Bytes())
			require.NoError(t, err)

			require.Len(t, decoded, len(entries))
			for path, want := range entries {
				assert.Equal(t, want, decoded[path], "path %s", path)
			}
		})
	}
}

func TestDetectCodec(t *testing.T) {
	for _, codec := range codecs {
		t.Run(codec.Name(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, codec.Encode(samplePayloads(), &buf))

			detected, err := DetectCodec(buf.Bytes())
			require.NoError(t, err)
			assert.Equal(t, codec.Name(), detected.Name())
		})
	}
}

func TestDetectCodecUnknownHeader(t *testing.T) {
	_, err := DetectCodec([]byte("not an archive"))
	require.ErrorIs(t, err, ErrDecodeFailed)
}

func TestZipCodecSkipsDirectoryEntries(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	_, err := zw.Create("dir/")
	require.NoError(t, err)
	f, err := zw.Create("dir/file.txt")
	require.NoError(t, err)
	_, err = f.Write([]byte("content"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	entries, err := ZipCodec{}.Decode(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []byte("content"), entries["dir/file.txt"])
}

func BenchmarkCodecEncode(b *testing.B) {
	entries := make(map[string][]byte)
	for i := 0; i < 64; i++ {
		entries[string(rune('a'+i%26))+"/file.bin"] = bytes.Repeat([]byte{byte(i)}, 4096)
	}

	for _, codec := range codecs {
		b.Run(codec.Name(), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				var buf bytes.Buffer
				if err := codec.Encode(entries, &buf); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func TestGzipJSONCodecCorruptDocument(t *testing.T) {
	// Valid gzip stream around invalid JSON.
	var buf bytes.Buffer
	require.NoError(t, GzipJSONCodec{}.Encode(map[string][]byte{}, &buf))

	truncated := buf.Bytes()[:len(buf.Bytes())/2]
	_, err := GzipJSONCodec{}.Decode(truncated)
	require.ErrorIs(t, err, ErrDecodeFailed)
}
