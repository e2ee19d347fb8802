package evm

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"

	"github.com/mark3labs/sendeth-frame"
)

// WithKeystore loads the private key from an encrypted Web3 Secret Storage file.
func WithKeystore(keystorePath, password string) BridgeOption {
	return func(b *Bridge) error {
		data, err := os.ReadFile(keystorePath)
		if err != nil {
			return fmt.Errorf("%w: %v", sendeth.ErrInvalidKeystore, err)
		}

		key, err := keystore.DecryptKey(data, password)
		if err != nil {
			return fmt.Errorf("%w: %v", sendeth.ErrInvalidKeystore, err)
		}

		b.privateKey = key.PrivateKey
		return nil
	}
}

// WithMnemonic derives the private key from a BIP39 mnemonic phrase.
// Derivation path: m/44'/60'/0'/0/{accountIndex}
func WithMnemonic(mnemonic string, accountIndex uint32) BridgeOption {
	return func(b *Bridge) error {
		mnemonic = strings.Join(strings.Fields(mnemonic), " ")
		if !bip39.IsMnemonicValid(mnemonic) {
			return sendeth.ErrInvalidMnemonic
		}

		seed := bip39.NewSeed(mnemonic, "")

		privateKey, err := deriveEthereumKey(seed, accountIndex)
		if err != nil {
			return fmt.Errorf("%w: %v", sendeth.ErrInvalidMnemonic, err)
		}

		b.privateKey = privateKey
		return nil
	}
}

// bip44Path is m/44'/60'/0'/0 without the trailing address index.
var bip44Path = []uint32{
	bip32.FirstHardenedChild + 44,
	bip32.FirstHardenedChild + 60,
	bip32.FirstHardenedChild + 0,
	0,
}

// deriveEthereumKey derives an Ethereum private key from a BIP39 seed.
func deriveEthereumKey(seed []byte, index uint32) (*ecdsa.PrivateKey, error) {
	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, err
	}

	for _, child := range append(bip44Path, index) {
		key, err = key.NewChildKey(child)
		if err != nil {
			return nil, err
		}
	}

	return crypto.ToECDSA(key.Key)
}
