package utils

/*
BIP-84 account layout used by this service: m / purpose' / coin_type' / account' / change / address_index

Level   Value   Name            Description
1       m       Master Key      root key derived from the mnemonic seed; everything below descends from it.
2       84'     Purpose         BIP-84 (native segwit). ' marks hardened derivation.
3       0'      Coin Type       fixed to 0' for every network; the network only changes version bytes and address prefixes.
4       0'      Account         first account. The xpub handed out to clients is serialized at this level.
5       0 / 1   Change          0 = external (receive) chain, 1 = internal (change) chain. Public derivation.
6       i       Address Index   position inside the chain, starting at 0. Public derivation.
*/
const (
	AccountDerivationPath = "m/84'/0'/0'"

	ReceiveChain uint32 = 0
	ChangeChain  uint32 = 1

	// Every address in a response is tagged with the fingerprint of this
	// child of the account xpub, matching what existing clients already store.
	FingerprintPath = "0/0"

	DefaultBatchSize = 10
	MaxBatchSize     = 1000

	// 256 bits of entropy yield a 24 word mnemonic.
	MnemonicEntropyBits = 256
)
