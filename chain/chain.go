package chain

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// Network names accepted in configuration.
const (
	MainNet = "mainnet"
	TestNet = "testnet"
	RegTest = "regtest"
	SigNet  = "signet"
)

// NetParams maps a configured network name to its chain parameters.
func NetParams(network string) (*chaincfg.Params, error) {
	switch strings.ToLower(strings.TrimSpace(network)) {
	case MainNet:
		return &chaincfg.MainNetParams, nil
	case TestNet, "testnet3":
		return &chaincfg.TestNet3Params, nil
	case RegTest:
		return &chaincfg.RegressionNetParams, nil
	case SigNet:
		return &chaincfg.SigNetParams, nil
	default:
		return nil, fmt.Errorf("unsupported network %q", network)
	}
}
