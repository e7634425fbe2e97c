package entity

// AddressUsage is carried for compatibility with clients that tag addresses;
// the service itself never sets it.
type AddressUsage string

const (
	AddressUsed   AddressUsage = "used"
	AddressUnused AddressUsage = "unused"
)

type Address struct {
	Name              string       `json:"name"`              // p2pkh / p2wpkh
	Address           string       `json:"address"`           // encoded address
	Output            string       `json:"output"`            // hex output script
	PubKey            string       `json:"pubkey"`            // hex compressed public key
	Hash              string       `json:"hash"`              // hex HASH160 of pubkey
	DerivationPath    string       `json:"derivationPath"`    // relative to the xpub, e.g. 0/3
	MasterFingerprint string       `json:"masterFingerprint"` // 8 hex chars
	Type              AddressUsage `json:"type,omitempty"`
}

// AddressBatches is the payload of a generate-addresses call.
type AddressBatches struct {
	Address       []*Address `json:"address"`
	ChangeAddress []*Address `json:"changeAddress"`
}
