package entity

// MasterKeys holds the serialized root private key and the account level
// (m/84'/0'/0') public key derived from one mnemonic.
type MasterKeys struct {
	XPrv string `json:"xprv"`
	XPub string `json:"xpub"`
}
