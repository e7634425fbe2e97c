package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/linlinbupt123-crypto/hdwallet_service/request"
)

type RouterOpts struct {
	MnemonicValidation string
	MetricsEnabled     bool
	// CORSOrigins lists the origins allowed to call the API from a browser.
	// Empty allows any origin.
	CORSOrigins []string
}

// NewRouter registers the wallet routes, the liveness check and, optionally,
// the prometheus endpoint.
func NewRouter(ws Wallet, opts RouterOpts) *gin.Engine {
	request.RegisterValidators()

	r := gin.New()
	// logger and metrics sit outside recovery so panicked requests are
	// still logged and counted as 500.
	r.Use(requestLogger())
	var m *metrics
	if opts.MetricsEnabled {
		m = newMetrics()
		r.Use(m.middleware())
	}
	r.Use(recovery(), corsMiddleware(opts.CORSOrigins))

	if m != nil {
		r.GET("/metrics", m.handler())
	}

	walletHandler := NewWalletHandler(ws, opts.MnemonicValidation)

	// 1) 生成助记词 (path spelling kept for existing clients)
	r.GET("/mnenomic", walletHandler.GenerateMnemonic)

	// 2) 助记词 -> xprv / xpub, JSON or form body
	r.POST("/privatekey", walletHandler.GenerateMasterKeys)

	// 3) xpub -> receive + change addresses, ?type=p2pkh|p2wpkh
	r.POST("/getaddress", walletHandler.GenerateAddress)

	r.GET("/api/ping", Ping)
	r.NoRoute(NotFound)

	return r
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
