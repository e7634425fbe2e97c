package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/linlinbupt123-crypto/hdwallet_service/entity"
	wrapErrors "github.com/linlinbupt123-crypto/hdwallet_service/errors"
	"github.com/linlinbupt123-crypto/hdwallet_service/request"
)

// Wallet is the part of service.WalletService the handlers depend on.
type Wallet interface {
	GenerateMnemonic() (string, error)
	GenerateMasterKeys(ctx context.Context, mnemonic string) (*entity.MasterKeys, error)
	GenerateAddresses(ctx context.Context, xpub, addrType string) (*entity.AddressBatches, error)
}

type WalletHandler struct {
	walletService Wallet
	mnemonicMode  string
}

func NewWalletHandler(ws Wallet, mnemonicMode string) *WalletHandler {
	return &WalletHandler{walletService: ws, mnemonicMode: mnemonicMode}
}

// GenerateMnemonic, GET /mnenomic
func (h *WalletHandler) GenerateMnemonic(c *gin.Context) {
	mnemonic, err := h.walletService.GenerateMnemonic()
	if err != nil {
		respondError(c, "generate mnemonic", "", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "mnemonic generated Successfully",
		"data":    mnemonic,
	})
}

// GenerateMasterKeys, POST /privatekey
func (h *WalletHandler) GenerateMasterKeys(c *gin.Context) {
	var req request.MasterKeyReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": request.FieldErrors(err, request.LocationBody, "mnemonic")})
		return
	}
	if errs := req.Validate(h.mnemonicMode); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs})
		return
	}

	keys, err := h.walletService.GenerateMasterKeys(c.Request.Context(), req.Mnemonic)
	if err != nil {
		respondError(c, "generate master keys", "mnemonic", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully generated master keys",
		"data":    keys,
	})
}

// GenerateAddress, POST /getaddress?type=p2pkh|p2wpkh
func (h *WalletHandler) GenerateAddress(c *gin.Context) {
	var req request.AddressReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": request.FieldErrors(err, request.LocationBody, "xpub")})
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs})
		return
	}
	var query request.AddressQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": request.FieldErrors(err, request.LocationQuery, "type")})
		return
	}

	data, err := h.walletService.GenerateAddresses(c.Request.Context(), req.XPub, query.Type)
	if err != nil {
		respondError(c, "generate addresses", "xpub", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully generated address",
		"data":    data,
	})
}

// Ping, GET /api/ping
func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Pong",
	})
}

// NotFound answers every unmatched route.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"status":  "fail",
		"message": "Route: " + c.Request.URL.RequestURI() + " does not exist on this server",
	})
}

// respondError maps caller mistakes to 400 and hides everything else behind
// a generic 500.
func respondError(c *gin.Context, op, param string, err error) {
	logger := log.WithError(err).WithField("op", op)
	if wrapErrors.IsClientError(err) {
		logger.Debug("rejected request")
		c.JSON(http.StatusBadRequest, gin.H{"error": []request.FieldError{{
			Location: "body",
			Param:    param,
			Msg:      wrapErrors.Message(err),
		}}})
		return
	}
	logger.Error("request failed")
	c.JSON(http.StatusInternalServerError, internalError)
}

var internalError = gin.H{"error": "Internal Server Error"}
