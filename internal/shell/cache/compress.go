package cache

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/pierrec/lz4/v4"

	"github.com/iknowcss/htmlshell/pkg/types"
)

// Payload markers identify the compression algorithm of a cached entry.
// The marker is the first byte of the stored payload.
const (
	markerNone byte = 0
	markerGzip byte = 1
	markerLZ4  byte = 2
)

// encodePayload compresses content with the configured algorithm and
// prepends the algorithm marker. Content below the size threshold is
// stored uncompressed regardless of the configured algorithm.
func encodePayload(content []byte, algorithm string) ([]byte, error) {
	if len(content) < types.CompressionMinSize || algorithm == types.CompressionNone || algorithm == "" {
		return append([]byte{markerNone}, content...), nil
	}

	switch algorithm {
	case types.CompressionGzip:
		var buf bytes.Buffer
		buf.WriteByte(markerGzip)
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(content); err != nil {
			w.Close()
			return nil, fmt.Errorf("gzip compression failed: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("gzip compression close failed: %w", err)
		}
		return buf.Bytes(), nil

	case types.CompressionLZ4:
		// LZ4 stream format embeds size information
		var buf bytes.Buffer
		buf.WriteByte(markerLZ4)
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(content); err != nil {
			w.Close()
			return nil, fmt.Errorf("lz4 compression failed: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compression close failed: %w", err)
		}
		return buf.Bytes(), nil

	default:
		// Unknown algorithm is rejected at config load; store uncompressed
		return append([]byte{markerNone}, content...), nil
	}
}

// decodePayload strips the algorithm marker and decompresses the content.
func decodePayload(payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty cache payload")
	}

	marker, content := payload[0], payload[1:]

	switch marker {
	case markerNone:
		return content, nil

	case markerGzip:
		r, err := gzip.NewReader(bytes.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("gzip decompression failed: %w", err)
		}
		defer r.Close()
		decompressed, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("gzip decompression failed: %w", err)
		}
		return decompressed, nil

	case markerLZ4:
		decompressed, err := io.ReadAll(lz4.NewReader(bytes.NewReader(content)))
		if err != nil {
			return nil, fmt.Errorf("lz4 decompression failed: %w", err)
		}
		return decompressed, nil

	default:
		return nil, fmt.Errorf("unknown cache payload marker: %d", marker)
	}
}
