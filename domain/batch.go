package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/linlinbupt123-crypto/hdwallet_service/chain"
	"github.com/linlinbupt123-crypto/hdwallet_service/entity"
	wrapErrors "github.com/linlinbupt123-crypto/hdwallet_service/errors"
	"github.com/linlinbupt123-crypto/hdwallet_service/utils"
)

var ErrInvalidChain = errors.New("chain must be 0 (receive) or 1 (change)")

// BatchBuilder derives fixed size windows of consecutive addresses.
type BatchBuilder struct {
	wallet    *HDWallet
	generator *AddressGenerator
	size      int
}

func NewBatchBuilder(wallet *HDWallet, generator *AddressGenerator, size int) *BatchBuilder {
	if size <= 0 {
		size = utils.DefaultBatchSize
	}
	return &BatchBuilder{wallet: wallet, generator: generator, size: size}
}

func (b *BatchBuilder) Size() int {
	return b.size
}

// Build returns the addresses at <chainIdx>/0 .. <chainIdx>/size-1 in index
// order, all tagged with rootFingerprint. Any failure discards the batch.
func (b *BatchBuilder) Build(
	ctx context.Context,
	xpub string,
	rootFingerprint uint32,
	chainIdx uint32,
	scriptType chain.ScriptType,
) ([]*entity.Address, error) {
	if chainIdx != utils.ReceiveChain && chainIdx != utils.ChangeChain {
		return nil, wrapErrors.Derivation("build batch", fmt.Errorf("%w: got %d", ErrInvalidChain, chainIdx))
	}
	parent, err := b.wallet.ParseExtendedPublicKey(xpub)
	if err != nil {
		return nil, err
	}
	fingerprint := utils.FingerprintToHex(rootFingerprint)

	batch := make([]*entity.Address, 0, b.size)
	for i := 0; i < b.size; i++ {
		if err := ctx.Err(); err != nil {
			return nil, wrapErrors.Internal("build batch", err)
		}
		child, err := b.wallet.DeriveChild(parent, utils.ChainPath(chainIdx, uint32(i)))
		if err != nil {
			return nil, err
		}
		addr, err := b.generator.FromChildKey(child, scriptType)
		if err != nil {
			return nil, err
		}
		addr.MasterFingerprint = fingerprint
		batch = append(batch, addr)
	}
	return batch, nil
}
