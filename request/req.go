package request

import (
	"strings"

	"github.com/linlinbupt123-crypto/hdwallet_service/domain"
)

// Mnemonic validation modes. Each one is also the name of the validator tag
// registered in validator.go.
const (
	// ModeBIP39 checks word count, wordlist membership and checksum.
	ModeBIP39 = "bip39"
	// ModeWhitelist restricts the mnemonic to [A-Za-z0-9_#@.]. It rejects
	// every space separated phrase and is kept only for legacy clients.
	ModeWhitelist = "whitelist"
)

// FieldError mirrors the shape legacy clients already parse:
// {"location":"body","param":"mnemonic","msg":"...","value":"..."}.
type FieldError struct {
	Location string `json:"location"`
	Param    string `json:"param"`
	Msg      string `json:"msg"`
	Value    string `json:"value"`
}

// --- 请求结构 ---
type MasterKeyReq struct {
	Mnemonic string `json:"mnemonic" form:"mnemonic" binding:"required"`
}

type AddressReq struct {
	XPub string `json:"xpub" form:"xpub" binding:"required"`
}

type AddressQuery struct {
	Type string `form:"type"`
}

// Validate normalizes the mnemonic in place and runs the check selected by
// mode. Unknown modes fall back to bip39.
func (r *MasterKeyReq) Validate(mode string) []FieldError {
	r.Mnemonic = domain.NormalizeMnemonic(r.Mnemonic)
	if mode != ModeWhitelist {
		mode = ModeBIP39
	}
	if err := Engine().Var(r.Mnemonic, "required,"+mode); err != nil {
		return FieldErrors(err, LocationBody, "mnemonic")
	}
	return nil
}

func (r *AddressReq) Validate() []FieldError {
	r.XPub = strings.TrimSpace(r.XPub)
	if err := Engine().Var(r.XPub, "required"); err != nil {
		return FieldErrors(err, LocationBody, "xpub")
	}
	return nil
}
