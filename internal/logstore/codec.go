package logstore

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// compressPayload deflates a state-machine command for storage. The on-disk
// payload column always holds compressed bytes.
func compressPayload(payload []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(payload); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("compress payload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compress payload: %w", err)
	}
	return buf.Bytes(), nil
}

// decompressPayload inflates a stored payload column back into the original
// command bytes.
func decompressPayload(compressed []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("inflate payload: %w", err)
	}
	defer func() { _ = r.Close() }()

	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("inflate payload: %w", err)
	}
	return payload, nil
}
