package badger

import (
	"encoding/binary"
	"time"
)

// Key prefixes for transcript data
const (
	turnPrefix = "turn"
	turnIDSeq  = "turnseq"
)

// makeTurnKey generates a composite key ordered by timestamp then sequence.
// Format: prefix:timestamp:seq
func makeTurnKey(timestamp time.Time, seq uint64) []byte {
	prefix := turnPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for timestamp + 8 bytes for seq
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], seq)
	return buf
}
