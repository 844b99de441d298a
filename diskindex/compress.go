package diskindex

import "github.com/klauspost/compress/zstd"

// headerEncoder/headerDecoder compress each term's segment-header array
// independently of its payload (which is already bit-packed by the
// chosen codec and would not benefit from a second compression pass).
// Mirrors the teacher's vendored ice/v2/intdecoder.go, which
// zstd-decompresses a chunk's header region on demand rather than
// keeping it resident uncompressed. Both types are documented safe for
// concurrent EncodeAll/DecodeAll use, so one package-level instance of
// each is shared across every Build/Reader call.
var (
	headerEncoder, _ = zstd.NewWriter(nil)
	headerDecoder, _ = zstd.NewReader(nil)
)

func compressHeaders(raw []byte) []byte {
	return headerEncoder.EncodeAll(raw, make([]byte, 0, len(raw)))
}

func decompressHeaders(compressed []byte, decompressedLen int) ([]byte, error) {
	return headerDecoder.DecodeAll(compressed, make([]byte, 0, decompressedLen))
}
