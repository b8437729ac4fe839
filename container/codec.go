package container

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Codec converts between the in-memory path->bytes mapping and a single
// serialized archive blob.
type Codec interface {
	// Name returns a unique identifier for this codec ("zip", "gzip-json").
	Name() string

	// Encode writes every entry as one archive to w.
	Encode(entries map[string][]byte, w io.Writer) error

	// Decode reads an archive produced by Encode back into a mapping.
	Decode(data []byte) (map[string][]byte, error)
}

// Archive magic bytes used to pick a codec when loading.
var (
	zipMagic  = []byte{'P', 'K', 0x03, 0x04}
	gzipMagic = []byte{0x1f, 0x8b}
)

// DetectCodec inspects the leading bytes of an archive and returns the
// codec that produced it. Both formats are self-identifying, so a store
// configured to save one format can always load the other.
func DetectCodec(data []byte) (Codec, error) {
	switch {
	case bytes.HasPrefix(data, zipMagic):
		return ZipCodec{}, nil
	case bytes.HasPrefix(data, gzipMagic):
		return GzipJSONCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: unrecognized archive header", ErrDecodeFailed)
	}
}

// ZipCodec stores each path as one independently compressed zip entry.
type ZipCodec struct{}

func (ZipCodec) Name() string { return "zip" }

func (ZipCodec) Encode(entries map[string][]byte, w io.Writer) error {
	zw := zip.NewWriter(w)
	for path, data := range entries {
		f, err := zw.Create(path)
		if err != nil {
			zw.Close()
			return fmt.Errorf("create zip entry %s: %w", path, err)
		}
		if _, err := f.Write(data); err != nil {
			zw.Close()
			return fmt.Errorf("write zip entry %s: %w", path, err)
		}
	}
	return zw.Close()
}

func (ZipCodec) Decode(data []byte) (map[string][]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	entries := make(map[string][]byte, len(zr.File))
	for _, f := range zr.File {
		// Directory placeholders carry no content.
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", ErrDecodeFailed, f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrDecodeFailed, f.Name, err)
		}
		entries[f.Name] = content
	}
	return entries, nil
}

// gzipDocument is the JSON envelope written by GzipJSONCodec.
type gzipDocument struct {
	Version string            `json:"version"`
	Created string            `json:"created"`
	Files   map[string]string `json:"files"`
}

const gzipDocVersion = "1.0"

// GzipJSONCodec stores the whole mapping as one JSON document
// {version, created, files: {path: base64}} compressed as a single
// gzip stream. Simpler than zip at the cost of per-entry compression.
type GzipJSONCodec struct{}

func (GzipJSONCodec) Name() string { return "gzip-json" }

func (GzipJSONCodec) Encode(entries map[string][]byte, w io.Writer) error {
	doc := gzipDocument{
		Version: gzipDocVersion,
		Created: time.Now().UTC().Format(time.RFC3339),
		Files:   make(map[string]string, len(entries)),
	}
	for path, data := range entries {
		doc.Files[path] = base64.StdEncoding.EncodeToString(data)
	}

	gw := gzip.NewWriter(w)
	if err := json.NewEncoder(gw).Encode(doc); err != nil {
		gw.Close()
		return fmt.Errorf("encode archive document: %w", err)
	}
	return gw.Close()
}

func (GzipJSONCodec) Decode(data []byte) (map[string][]byte, error) {
	gr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}
	defer gr.Close()

	var doc gzipDocument
	if err := json.NewDecoder(gr).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeFailed, err)
	}

	entries := make(map[string][]byte, len(doc.Files))
	for path, encoded := range doc.Files {
		content, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrDecodeFailed, path, err)
		}
		entries[path] = content
	}
	return entries, nil
}
