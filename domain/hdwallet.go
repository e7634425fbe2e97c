package domain

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"

	bip39 "github.com/tyler-smith/go-bip39"

	"github.com/linlinbupt123-crypto/hdwallet_service/chain"
	"github.com/linlinbupt123-crypto/hdwallet_service/entity"
	wrapErrors "github.com/linlinbupt123-crypto/hdwallet_service/errors"
	"github.com/linlinbupt123-crypto/hdwallet_service/utils"
)

// NOTE:
// - Derivation is standardized on btcsuite's hdkeychain (BIP32) and go-bip39.
// - The seed is derived with an empty BIP39 passphrase.
// - Address generation only ever sees public extended keys: DeriveChildPublicKey
//   refuses xprv input so no private material can leak into an address response.

var (
	ErrInvalidMnemonic      = errors.New("invalid mnemonic")
	ErrWrongNetwork         = errors.New("extended key does not belong to the configured network")
	ErrPrivateKeyNotAllowed = errors.New("expected an extended public key, got a private one")
	ErrHardenedFromPublic   = errors.New("cannot derive a hardened child from a public key")
	ErrSeedTimeout          = errors.New("seed derivation timed out")
)

var validWordCounts = map[int]bool{12: true, 15: true, 18: true, 21: true, 24: true}

// ---------- Helpers ----------
func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// deriveSteps walks indices from key, one child at a time.
func deriveSteps(key *hdkeychain.ExtendedKey, indices chain.DerivationPath) (*hdkeychain.ExtendedKey, error) {
	var err error
	for _, idx := range indices {
		key, err = key.Derive(idx)
		if err != nil {
			return nil, fmt.Errorf("failed to derive child %d: %w", idx, err)
		}
	}
	return key, nil
}

// ChildKey is a public-only node reached from an extended public key.
type ChildKey struct {
	Path   string
	Key    *hdkeychain.ExtendedKey
	PubKey *btcec.PublicKey
}

// ---------- Key derivation ----------
type HDWallet struct {
	Params      *chaincfg.Params
	SeedTimeout time.Duration
}

func NewHDWallet(params *chaincfg.Params, seedTimeout time.Duration) *HDWallet {
	return &HDWallet{Params: params, SeedTimeout: seedTimeout}
}

// GenerateMnemonic returns a fresh 24 word mnemonic.
func (s *HDWallet) GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(utils.MnemonicEntropyBits)
	if err != nil {
		return "", wrapErrors.Internal("generate entropy", err)
	}
	defer clearBytes(entropy)

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", wrapErrors.Internal("generate mnemonic", err)
	}
	return mnemonic, nil
}

// NormalizeMnemonic collapses any run of whitespace to a single space.
// go-bip39 splits on single spaces only, so every phrase must pass through
// here before it is checked or stretched.
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}

// ValidateMnemonic checks BIP39 well-formedness: word count, wordlist
// membership and checksum. The returned error wraps ErrInvalidMnemonic.
func ValidateMnemonic(mnemonic string) error {
	words := strings.Fields(mnemonic)
	if !validWordCounts[len(words)] {
		return fmt.Errorf("%w: expected 12, 15, 18, 21 or 24 words, got %d", ErrInvalidMnemonic, len(words))
	}
	for i, w := range words {
		if _, ok := bip39.GetWordIndex(w); !ok {
			return fmt.Errorf("%w: word %d is not in the wordlist", ErrInvalidMnemonic, i+1)
		}
	}
	if _, err := bip39.MnemonicToByteArray(strings.Join(words, " ")); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	return nil
}

// seed runs the PBKDF2 stretching off the caller's goroutine so it can be
// abandoned once ctx or SeedTimeout expires.
func (s *HDWallet) seed(ctx context.Context, mnemonic string) ([]byte, error) {
	if s.SeedTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.SeedTimeout)
		defer cancel()
	}

	type result struct {
		seed []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		seed, err := bip39.NewSeedWithErrorChecking(mnemonic, "")
		done <- result{seed, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, wrapErrors.Derivation("derive seed", fmt.Errorf("%w: %v", ErrInvalidMnemonic, res.err))
		}
		return res.seed, nil
	case <-ctx.Done():
		return nil, wrapErrors.Internal("derive seed", fmt.Errorf("%w: %v", ErrSeedTimeout, ctx.Err()))
	}
}

/*
DeriveMasterKeys turns a mnemonic into its serialized master private key and
the account level public key at m/84'/0'/0'.

The same mnemonic always yields the same pair for a given network.
*/
func (s *HDWallet) DeriveMasterKeys(ctx context.Context, mnemonic string) (*entity.MasterKeys, error) {
	seed, err := s.seed(ctx, NormalizeMnemonic(mnemonic))
	if err != nil {
		return nil, err
	}
	master, err := hdkeychain.NewMaster(seed, s.Params)
	clearBytes(seed)
	if err != nil {
		return nil, wrapErrors.Internal("create master key", err)
	}

	indices, err := chain.ParseDerivationPath(utils.AccountDerivationPath)
	if err != nil {
		return nil, wrapErrors.Internal("parse account path", err)
	}
	account, err := deriveSteps(master, indices)
	if err != nil {
		return nil, wrapErrors.Internal("derive account key", err)
	}
	xpub, err := account.Neuter()
	if err != nil {
		return nil, wrapErrors.Internal("neuter account key", err)
	}

	return &entity.MasterKeys{
		XPrv: master.String(),
		XPub: xpub.String(),
	}, nil
}

// ParseExtendedPublicKey decodes a Base58Check extended public key and checks
// it against the configured network.
func (s *HDWallet) ParseExtendedPublicKey(xpub string) (*hdkeychain.ExtendedKey, error) {
	key, err := hdkeychain.NewKeyFromString(strings.TrimSpace(xpub))
	if err != nil {
		return nil, wrapErrors.Derivation("decode xpub", err)
	}
	if !key.IsForNet(s.Params) {
		return nil, wrapErrors.Derivation("decode xpub", ErrWrongNetwork)
	}
	if key.IsPrivate() {
		return nil, wrapErrors.Derivation("decode xpub", ErrPrivateKeyNotAllowed)
	}
	return key, nil
}

// DeriveChild walks a relative, non-hardened path from a public parent.
func (s *HDWallet) DeriveChild(parent *hdkeychain.ExtendedKey, path string) (*ChildKey, error) {
	if parent.IsPrivate() {
		return nil, wrapErrors.Derivation("derive child", ErrPrivateKeyNotAllowed)
	}
	indices, err := chain.ParseDerivationPath(path)
	if err != nil {
		return nil, wrapErrors.Derivation("derive child", err)
	}
	if indices.IsHardened() {
		return nil, wrapErrors.Derivation("derive child", ErrHardenedFromPublic)
	}

	key, err := deriveSteps(parent, indices)
	if err != nil {
		return nil, wrapErrors.Derivation("derive child", err)
	}
	pub, err := key.ECPubKey()
	if err != nil {
		return nil, wrapErrors.Derivation("derive child", err)
	}
	return &ChildKey{Path: path, Key: key, PubKey: pub}, nil
}

// DeriveChildPublicKey parses xpub and derives the child at path, e.g. "0/3".
func (s *HDWallet) DeriveChildPublicKey(xpub, path string) (*ChildKey, error) {
	parent, err := s.ParseExtendedPublicKey(xpub)
	if err != nil {
		return nil, err
	}
	return s.DeriveChild(parent, path)
}

// Fingerprint returns the BIP32 fingerprint of the node itself: the first four
// bytes of HASH160 of its compressed public key.
func Fingerprint(key *hdkeychain.ExtendedKey) (uint32, error) {
	pub, err := key.ECPubKey()
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(btcutil.Hash160(pub.SerializeCompressed())[:4]), nil
}
