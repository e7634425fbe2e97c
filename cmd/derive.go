package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linlinbupt123-crypto/hdwallet_service/request"
	"github.com/linlinbupt123-crypto/hdwallet_service/service"
)

var (
	mnemonicFlag string
	xpubFlag     string
	typeFlag     string
)

var mnemonicCmd = &cobra.Command{
	Use:   "mnemonic",
	Short: "Print a new 24 word mnemonic",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cmd)
		if err != nil {
			return err
		}
		mnemonic, err := svc.GenerateMnemonic()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), mnemonic)
		return err
	},
}

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Derive xprv and the m/84'/0'/0' xpub from a mnemonic",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		svc, err := service.NewWalletServiceFromConfig(cfg)
		if err != nil {
			return err
		}
		req := request.MasterKeyReq{Mnemonic: mnemonicFlag}
		if errs := req.Validate(cfg.MnemonicValidation); len(errs) > 0 {
			return fmt.Errorf("%s: %s", errs[0].Param, errs[0].Msg)
		}
		keys, err := svc.GenerateMasterKeys(cmd.Context(), req.Mnemonic)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), keys)
	},
}

var addressesCmd = &cobra.Command{
	Use:   "addresses",
	Short: "Print receive and change address batches for an xpub",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cmd)
		if err != nil {
			return err
		}
		req := request.AddressReq{XPub: xpubFlag}
		if errs := req.Validate(); len(errs) > 0 {
			return fmt.Errorf("%s: %s", errs[0].Param, errs[0].Msg)
		}
		batches, err := svc.GenerateAddresses(cmd.Context(), req.XPub, typeFlag)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), batches)
	},
}

func init() {
	keysCmd.Flags().StringVar(&mnemonicFlag, "mnemonic", "", "BIP39 mnemonic")
	addressesCmd.Flags().StringVar(&xpubFlag, "xpub", "", "Account extended public key")
	addressesCmd.Flags().StringVar(&typeFlag, "type", "p2pkh", "Address type: p2pkh or p2wpkh")
}

func newService(cmd *cobra.Command) (*service.WalletService, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return service.NewWalletServiceFromConfig(cfg)
}
