// Package nip06 derives keys from mnemonic seed words over the
// m/44'/1237'/<account>'/0/0 path.
package nip06

import (
	"encoding/hex"
	"fmt"

	"github.com/ostrich-works/nostrcore"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

// GenerateSeedWords returns a fresh 24-word mnemonic.
func GenerateSeedWords() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", err
	}

	return bip39.NewMnemonic(entropy)
}

// ValidateWords checks a mnemonic against the wordlist and its checksum.
func ValidateWords(words string) bool {
	return bip39.IsMnemonicValid(words)
}

// SeedFromWords computes the binary seed for a mnemonic with an empty
// passphrase.
func SeedFromWords(words string) []byte {
	return bip39.NewSeed(words, "")
}

// PrivateKeyFromSeed derives the hex private key for account 0.
func PrivateKeyFromSeed(seed []byte) (string, error) {
	return privateKeyFromSeed(seed, 0)
}

// KeyPairFromSeedWords derives a full keypair for the given account index.
func KeyPairFromSeedWords(words string, account uint32) (nostr.KeyPair, error) {
	if !ValidateWords(words) {
		return nostr.KeyPair{}, fmt.Errorf("invalid mnemonic")
	}

	sk, err := privateKeyFromSeed(SeedFromWords(words), account)
	if err != nil {
		return nostr.KeyPair{}, err
	}
	return nostr.KeyPairFrom(sk)
}

func privateKeyFromSeed(seed []byte, account uint32) (string, error) {
	key, err := bip32.NewMasterKey(seed)
	if err != nil {
		return "", err
	}

	derivationPath := []uint32{
		bip32.FirstHardenedChild + 44,
		bip32.FirstHardenedChild + 1237,
		bip32.FirstHardenedChild + account,
		0,
		0,
	}

	next := key
	for _, idx := range derivationPath {
		var err error
		if next, err = next.NewChildKey(idx); err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(next.Key), nil
}
