package lvimg

import (
	"fmt"
	"hash/crc32"
)

// crcBytes returns the uppercase hex CRC-32 used to key assets in the
// catalog.
func crcBytes(b []byte) string {
	return fmt.Sprintf("%.*X", crc32.Size<<1, crc32.ChecksumIEEE(b))
}
