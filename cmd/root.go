package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/linlinbupt123-crypto/hdwallet_service/api"
	"github.com/linlinbupt123-crypto/hdwallet_service/config"
	"github.com/linlinbupt123-crypto/hdwallet_service/service"
)

const defaultConfigPath = "config/config.yaml"

// Version is overridden at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "hdwallet",
	Short: "BIP32/BIP39/BIP84 derivation service",
	Long: `Serves mnemonic generation, master key derivation and receive/change
address batches over HTTP. Subcommands run the same derivations locally.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", defaultConfigPath, "Path of the YAML config file")
	flags.Int(config.PortKey, 3000, "HTTP listening port")
	flags.String(config.NetworkKey, "testnet", "Network: mainnet, testnet, regtest or signet")
	flags.String(config.LogLevelKey, "info", "Log level (trace, debug, info, warn, error)")
	flags.Int(config.BatchSizeKey, 10, "Addresses per receive/change batch")
	flags.Duration(config.SeedTimeoutKey, 5*time.Second, "Upper bound for mnemonic to seed stretching")
	flags.String(config.MnemonicValidationKey, "bip39", "Mnemonic validation: bip39 or whitelist")

	rootCmd.AddCommand(mnemonicCmd, keysCmd, addressesCmd)
}

// loadConfig reads the config file when present. The default path is
// optional; an explicit --config must exist.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return nil, err
	}
	setupLogger(cfg)
	return cfg, nil
}

func setupLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.WithError(err).Warn("unknown log level, falling back to info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if cfg.GinMode == gin.ReleaseMode {
		log.SetFormatter(&log.JSONFormatter{})
	}
	gin.SetMode(cfg.GinMode)
}

func serve(cfg *config.Config) error {
	walletService, err := service.NewWalletServiceFromConfig(cfg)
	if err != nil {
		return err
	}

	router := api.NewRouter(walletService, api.RouterOpts{
		MnemonicValidation: cfg.MnemonicValidation,
		MetricsEnabled:     cfg.MetricsEnabled,
		CORSOrigins:        cfg.CORSOrigins,
	})
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":    cfg.Addr(),
			"network": cfg.Network,
		}).Info("server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case err := <-errCh:
		return fmt.Errorf("server start failed: %w", err)
	case <-sigChan:
	}

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
