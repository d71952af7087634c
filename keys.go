package nostr

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

// indirection for testing the entropy failure path
var randRead = rand.Read

// GeneratePrivateKey returns a fresh private key as 32 bytes of hex.
// It panics if the system entropy source fails: a key silently derived from
// anything weaker must never reach signing or encryption.
func GeneratePrivateKey() string {
	params := btcec.S256().Params()
	one := new(big.Int).SetInt64(1)

	b := make([]byte, params.BitSize/8+8)
	if _, err := randRead(b); err != nil {
		panic(fmt.Errorf("failed to read from entropy source: %w", err))
	}

	k := new(big.Int).SetBytes(b)
	n := new(big.Int).Sub(params.N, one)
	k.Mod(k, n)
	k.Add(k, one)

	return fmt.Sprintf("%064x", k.Bytes())
}

// GetPublicKey derives the x-only public key for a hex private key.
func GetPublicKey(sk string) (string, error) {
	b, err := hex.DecodeString(sk)
	if err != nil {
		return "", err
	}

	_, pk := btcec.PrivKeyFromBytes(b)
	return hex.EncodeToString(pk.SerializeCompressed()[1:]), nil
}

// IsValidPublicKey checks if a string is a 32-byte lowercase hex string that
// lifts to a point on the curve.
func IsValidPublicKey(pk string) bool {
	if !IsValid32ByteHex(pk) {
		return false
	}
	b, _ := hex.DecodeString("02" + pk)
	_, err := btcec.ParsePubKey(b)
	return err == nil
}

// KeyPair binds a private key to its derived public key. It is only
// constructed through NewKeyPair or KeyPairFrom, so the two halves can never
// drift apart.
type KeyPair struct {
	pub string
	sec string
}

// NewKeyPair generates a fresh keypair.
func NewKeyPair() (KeyPair, error) {
	return KeyPairFrom(GeneratePrivateKey())
}

// KeyPairFrom builds a keypair from an existing hex private key, deriving
// the public half.
func KeyPairFrom(secretKey string) (KeyPair, error) {
	pub, err := GetPublicKey(secretKey)
	if err != nil {
		return KeyPair{}, fmt.Errorf("invalid secret key: %w", err)
	}
	return KeyPair{pub: pub, sec: secretKey}, nil
}

// PublicKey returns the x-only public key as 32 bytes of hex.
func (kp KeyPair) PublicKey() string { return kp.pub }

// SecretKey returns the private key as 32 bytes of hex.
func (kp KeyPair) SecretKey() string { return kp.sec }
