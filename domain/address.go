package domain

import (
	"github.com/linlinbupt123-crypto/hdwallet_service/chain"
	"github.com/linlinbupt123-crypto/hdwallet_service/entity"
	wrapErrors "github.com/linlinbupt123-crypto/hdwallet_service/errors"
)

// AddressGenerator turns child public keys into payment addresses for one network.
type AddressGenerator struct {
	btc *chain.BTCChain
}

func NewAddressGenerator(btc *chain.BTCChain) *AddressGenerator {
	return &AddressGenerator{btc: btc}
}

// FromChildKey builds a P2WPKH address for chain.P2WPKH and a P2PKH address
// for anything else. Path and fingerprint are left for the caller.
func (g *AddressGenerator) FromChildKey(child *ChildKey, scriptType chain.ScriptType) (*entity.Address, error) {
	payment, err := g.btc.Payment(child.PubKey, scriptType)
	if err != nil {
		return nil, wrapErrors.Internal("encode address", err)
	}
	return &entity.Address{
		Name:           string(payment.Name),
		Address:        payment.Address,
		Output:         payment.Output,
		PubKey:         payment.PubKey,
		Hash:           payment.Hash,
		DerivationPath: child.Path,
	}, nil
}
