// Package compression provides whole-buffer compressors used by the HTTP
// response compression middleware.
package compression

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}
