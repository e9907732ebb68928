//nolint:revive // exported
package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
)

type CompressType = int8

const (
	CompressTypeNone CompressType = 0
	CompressTypeGzip CompressType = 1
	CompressTypeBr   CompressType = 3
)

var CompressLockupMap map[string]CompressType = map[string]CompressType{
	"":         CompressTypeNone,
	"identity": CompressTypeNone,
	"gzip":     CompressTypeGzip,
	"br":       CompressTypeBr,
}

var (
	gzipWriterPool = sync.Pool{
		New: func() interface{} {
			return gzip.NewWriter(io.Discard)
		},
	}
	brotliWriterPool = sync.Pool{
		New: func() interface{} {
			return brotli.NewWriter(io.Discard)
		},
	}
)

func Compress(data []byte, compressType CompressType) ([]byte, error) {
	var buf bytes.Buffer
	w, release := NewWriter(&buf, compressType)
	if w == nil {
		return data, nil
	}
	defer release()

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewWriter returns a pooled encoder writing to dst and a release func that
// hands it back to the pool once it has been closed. It returns a nil writer
// for CompressTypeNone.
func NewWriter(dst io.Writer, compressType CompressType) (io.WriteCloser, func()) {
	switch compressType {
	case CompressTypeGzip:
		z := gzipWriterPool.Get().(*gzip.Writer)
		z.Reset(dst)
		return z, func() { gzipWriterPool.Put(z) }
	case CompressTypeBr:
		w := brotliWriterPool.Get().(*brotli.Writer)
		w.Reset(dst)
		return w, func() { brotliWriterPool.Put(w) }
	default:
		return nil, func() {}
	}
}

func Decompress(data []byte, compressType CompressType) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(data)

	switch compressType {
	case CompressTypeGzip:
		z, err := gzip.NewReader(&buf)
		if err != nil {
			return nil, err
		}
		defer func() { _ = z.Close() }()
		return io.ReadAll(z)
	case CompressTypeBr:
		br := brotli.NewReader(&buf)
		return io.ReadAll(br)
	default:
		return nil, fmt.Errorf("unsupported compression type: %v", compressType)
	}
}

func DecompressWithContentEncodeStr(data []byte, contentEncoding string) ([]byte, error) {
	compressType, ok := CompressLockupMap[contentEncoding]
	if !ok {
		return nil, fmt.Errorf("%s encoding not supported", contentEncoding)
	}
	if compressType == CompressTypeNone {
		return data, nil
	}

	return Decompress(data, compressType)
}
