package clip

import (
	"encoding/binary"
	"strings"
)

// lengthPrefix names the companion format that records the exact payload
// size of a registered format. Windows rounds clipboard allocations up, so
// the allocation size alone cannot tell an empty put from a padded one.
const lengthPrefix = "scrap.length/"

func lengthFormatName(mime string) string { return lengthPrefix + mime }

func isLengthFormat(name string) bool { return strings.HasPrefix(name, lengthPrefix) }

func encodeLength(n int) []byte {
	return binary.LittleEndian.AppendUint64(nil, uint64(n))
}

// trimToLength cuts data to the size in rec. A missing or short record
// leaves data as the owner allocated it.
func trimToLength(data, rec []byte) []byte {
	if len(rec) < 8 {
		return data
	}
	n := binary.LittleEndian.Uint64(rec)
	if n > uint64(len(data)) {
		return data
	}
	return data[:n]
}
