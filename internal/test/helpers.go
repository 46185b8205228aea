package test

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// DecodeHexString is a helper function for tests that decodes hex strings. It doesn't return
// an error value, which makes it usable inline.
func DecodeHexString(hexData string) []byte {
	// Strip off any leading/trailing whitespace in hex string
	hexData = strings.TrimSpace(hexData)
	decoded, err := hex.DecodeString(hexData)
	if err != nil {
		panic(fmt.Sprintf("error decoding hex: %s", err))
	}
	return decoded
}

// SplitAt cuts data into chunks at the given offsets, which must be increasing
func SplitAt(data []byte, offsets ...int) [][]byte {
	ret := make([][]byte, 0, len(offsets)+1)
	start := 0
	for _, offset := range offsets {
		ret = append(ret, data[start:offset])
		start = offset
	}
	return append(ret, data[start:])
}
