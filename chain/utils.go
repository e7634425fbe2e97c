package chain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

var (
	ErrNullDerivationPath      = errors.New("derivation path must not be null")
	ErrMalformedDerivationPath = errors.New("malformed derivation path")
)

// DerivationPath is the binary form of a BIP32 path. Hardened indices are
// offset by hdkeychain.HardenedKeyStart.
type DerivationPath []uint32

// ParseDerivationPath accepts absolute ("m/84'/0'/0'") and relative ("0/5")
// paths. Hardened segments may use either ' or h as suffix.
func ParseDerivationPath(path string) (DerivationPath, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return nil, ErrNullDerivationPath
	}
	if p == "m" || p == "M" {
		return DerivationPath{}, nil
	}
	if strings.HasPrefix(p, "m/") || strings.HasPrefix(p, "M/") {
		p = p[2:]
	}

	parts := strings.Split(p, "/")
	indices := make(DerivationPath, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, ErrMalformedDerivationPath
		}
		hardened := strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h")
		if hardened {
			part = part[:len(part)-1]
		}
		v, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid index %q", ErrMalformedDerivationPath, part)
		}
		idx := uint32(v)
		if hardened {
			if idx >= hdkeychain.HardenedKeyStart {
				return nil, fmt.Errorf("%w: hardened index %d out of range", ErrMalformedDerivationPath, idx)
			}
			idx += hdkeychain.HardenedKeyStart
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

// IsHardened reports whether any segment of the path requires private derivation.
func (path DerivationPath) IsHardened() bool {
	for _, idx := range path {
		if idx >= hdkeychain.HardenedKeyStart {
			return true
		}
	}
	return false
}

// String returns the canonical absolute form of the path.
func (path DerivationPath) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, idx := range path {
		b.WriteString("/")
		if idx >= hdkeychain.HardenedKeyStart {
			b.WriteString(strconv.FormatUint(uint64(idx-hdkeychain.HardenedKeyStart), 10))
			b.WriteString("'")
			continue
		}
		b.WriteString(strconv.FormatUint(uint64(idx), 10))
	}
	return b.String()
}
