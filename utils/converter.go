package utils

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

// FingerprintToHex renders a BIP32 fingerprint as 8 lowercase hex characters,
// big endian, the way wallets display it.
func FingerprintToHex(fp uint32) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], fp)
	return hex.EncodeToString(b[:])
}

// ChainPath returns the relative path of the index-th key on the given chain.
func ChainPath(chain, index uint32) string {
	return fmt.Sprintf("%d/%d", chain, index)
}
