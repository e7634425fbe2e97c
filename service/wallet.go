package service

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/linlinbupt123-crypto/hdwallet_service/chain"
	"github.com/linlinbupt123-crypto/hdwallet_service/config"
	"github.com/linlinbupt123-crypto/hdwallet_service/domain"
	"github.com/linlinbupt123-crypto/hdwallet_service/entity"
	wrapErrors "github.com/linlinbupt123-crypto/hdwallet_service/errors"
	"github.com/linlinbupt123-crypto/hdwallet_service/utils"
)

type WalletService struct {
	HDWalletDomain *domain.HDWallet
	Batches        *domain.BatchBuilder
	Network        string
}

func NewWalletService(
	hdSvc *domain.HDWallet,
	batches *domain.BatchBuilder,
	network string,
) *WalletService {
	return &WalletService{
		HDWalletDomain: hdSvc,
		Batches:        batches,
		Network:        network,
	}
}

// NewWalletServiceFromConfig wires the derivation components for cfg.Network.
func NewWalletServiceFromConfig(cfg *config.Config) (*WalletService, error) {
	params, err := chain.NetParams(cfg.Network)
	if err != nil {
		return nil, err
	}
	hd := domain.NewHDWallet(params, cfg.SeedTimeout)
	generator := domain.NewAddressGenerator(chain.NewBTCChain(params))
	return NewWalletService(hd, domain.NewBatchBuilder(hd, generator, cfg.BatchSize), cfg.Network), nil
}

// GenerateMnemonic 生成 24 个单词的助记词
func (s *WalletService) GenerateMnemonic() (string, error) {
	return s.HDWalletDomain.GenerateMnemonic()
}

// GenerateMasterKeys derives xprv and the account xpub from a mnemonic.
func (s *WalletService) GenerateMasterKeys(ctx context.Context, mnemonic string) (*entity.MasterKeys, error) {
	start := time.Now()
	keys, err := s.HDWalletDomain.DeriveMasterKeys(ctx, mnemonic)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"network": s.Network,
		"elapsed": time.Since(start),
	}).Debug("derived master keys")
	return keys, nil
}

// GenerateAddresses returns one receive and one change batch for xpub. Both
// batches carry the fingerprint of the 0/0 child and are built concurrently;
// if either fails the whole call fails.
func (s *WalletService) GenerateAddresses(ctx context.Context, xpub, addrType string) (*entity.AddressBatches, error) {
	tag, err := s.HDWalletDomain.DeriveChildPublicKey(xpub, utils.FingerprintPath)
	if err != nil {
		return nil, err
	}
	fingerprint, err := domain.Fingerprint(tag.Key)
	if err != nil {
		return nil, wrapErrors.Derivation("fingerprint", err)
	}
	scriptType := chain.ParseScriptType(addrType)

	var receive, change []*entity.Address
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		receive, err = s.Batches.Build(gctx, xpub, fingerprint, utils.ReceiveChain, scriptType)
		return err
	})
	g.Go(func() error {
		var err error
		change, err = s.Batches.Build(gctx, xpub, fingerprint, utils.ChangeChain, scriptType)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"network":     s.Network,
		"type":        scriptType,
		"fingerprint": utils.FingerprintToHex(fingerprint),
		"count":       len(receive) + len(change),
	}).Debug("generated address batches")

	return &entity.AddressBatches{
		Address:       receive,
		ChangeAddress: change,
	}, nil
}
