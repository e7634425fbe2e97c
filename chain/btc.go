package chain

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
)

// ScriptType selects the payment script an address commits to.
type ScriptType string

const (
	P2PKH  ScriptType = "p2pkh"
	P2WPKH ScriptType = "p2wpkh"
)

// ParseScriptType returns P2WPKH only for the exact string "p2wpkh";
// everything else, including the empty string, falls back to P2PKH.
func ParseScriptType(s string) ScriptType {
	if ScriptType(s) == P2WPKH {
		return P2WPKH
	}
	return P2PKH
}

// Payment describes an encoded address together with the script it pays to.
type Payment struct {
	Name    ScriptType
	Address string
	Output  string
	PubKey  string
	Hash    string
}

type BTCChain struct {
	Params *chaincfg.Params
}

func NewBTCChain(params *chaincfg.Params) *BTCChain {
	return &BTCChain{Params: params}
}

func (b *BTCChain) netParams() *chaincfg.Params {
	if b.Params == nil {
		return &chaincfg.TestNet3Params
	}
	return b.Params
}

// Payment builds the address of the given script type for a compressed public key.
func (b *BTCChain) Payment(pubKey *btcec.PublicKey, scriptType ScriptType) (*Payment, error) {
	if pubKey == nil {
		return nil, fmt.Errorf("public key is nil")
	}
	serialized := pubKey.SerializeCompressed()
	hash := btcutil.Hash160(serialized)

	var (
		addr btcutil.Address
		err  error
	)
	switch scriptType {
	case P2WPKH:
		addr, err = btcutil.NewAddressWitnessPubKeyHash(hash, b.netParams())
	default:
		scriptType = P2PKH
		addr, err = btcutil.NewAddressPubKeyHash(hash, b.netParams())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s address: %w", scriptType, err)
	}

	script, err := txscript.PayToAddrScript(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to build output script: %w", err)
	}

	return &Payment{
		Name:    scriptType,
		Address: addr.EncodeAddress(),
		Output:  hex.EncodeToString(script),
		PubKey:  hex.EncodeToString(serialized),
		Hash:    hex.EncodeToString(hash),
	}, nil
}
