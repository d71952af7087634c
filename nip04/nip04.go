// Package nip04 implements the legacy encrypted direct message scheme:
// a shared symmetric key derived via secp256k1 ECDH, AES-256-CBC over the
// plaintext, and the "<base64-ciphertext>?iv=<base64-iv>" content format.
package nip04

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
)

var (
	// ErrMalformedContent means the message content does not follow the
	// "<base64>?iv=<base64>" grammar.
	ErrMalformedContent = errors.New("malformed direct message content")

	// ErrDecryptionFailed means the padding did not check out after
	// decryption: the key pair is unrelated to the message or the
	// ciphertext was corrupted.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// ComputeSharedSecret derives the symmetric key for a conversation between
// the holder of sk and the holder of pub: the x coordinate of sk*P where P
// is the curve point behind pub. The operation is symmetric across the
// pair, which is what lets both parties derive the same key independently.
func ComputeSharedSecret(pub string, sk string) (sharedSecret []byte, err error) {
	privKeyBytes, err := hex.DecodeString(sk)
	if err != nil {
		return nil, fmt.Errorf("error decoding sender private key: %w", err)
	}
	privKey, _ := btcec.PrivKeyFromBytes(privKeyBytes)

	// adding 02 to signal that this is a compressed public key (33 bytes)
	pubKeyBytes, err := hex.DecodeString("02" + pub)
	if err != nil {
		return nil, fmt.Errorf("error decoding hex string of receiver public key '%s': %w", "02"+pub, err)
	}
	pubKey, err := btcec.ParsePubKey(pubKeyBytes)
	if err != nil {
		return nil, fmt.Errorf("error parsing receiver public key '%s': %w", "02"+pub, err)
	}

	// GenerateSharedSecret returns only the x coordinate (RFC 5903)
	return btcec.GenerateSharedSecret(privKey, pubKey), nil
}

// Encrypt encrypts message with key using aes-256-cbc and a fresh random iv.
// key should be the shared secret generated by ComputeSharedSecret.
// Returns: base64(encrypted_bytes) + "?iv=" + base64(initialization_vector).
func Encrypt(message string, key []byte) (string, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("error creating block cipher: %w", err)
	}

	// the iv must never repeat for the same key, so it is drawn fresh from
	// the crypto source on every call
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("error creating initialization vector: %w", err)
	}
	mode := cipher.NewCBCEncrypter(block, iv)

	plaintext := []byte(message)

	// pkcs#7: pad to the block size, a full extra block when already aligned
	padding := block.BlockSize() - len(plaintext)%block.BlockSize()
	padded := make([]byte, len(plaintext)+padding)
	copy(padded, plaintext)
	for i := len(plaintext); i < len(padded); i++ {
		padded[i] = byte(padding)
	}

	ciphertext := make([]byte, len(padded))
	mode.CryptBlocks(ciphertext, padded)

	return base64.StdEncoding.EncodeToString(ciphertext) + "?iv=" +
		base64.StdEncoding.EncodeToString(iv), nil
}

// Decrypt decrypts a content string in the "<base64>?iv=<base64>" format
// with key, which should be the shared secret generated by
// ComputeSharedSecret. Content that doesn't follow the grammar fails with
// ErrMalformedContent; content that decrypts to invalid padding (wrong key,
// corrupted ciphertext) fails with ErrDecryptionFailed.
func Decrypt(content string, key []byte) (string, error) {
	parts := strings.Split(content, "?iv=")
	if len(parts) < 2 {
		return "", fmt.Errorf("%w: no \"?iv=\" separator", ErrMalformedContent)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64 ciphertext: %s", ErrMalformedContent, err)
	}
	iv, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64 iv: %s", ErrMalformedContent, err)
	}
	if len(iv) != aes.BlockSize {
		return "", fmt.Errorf("%w: iv is %d bytes, want %d", ErrMalformedContent, len(iv), aes.BlockSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("error creating block cipher: %w", err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
		return "", fmt.Errorf("%w: ciphertext is not a whole number of blocks", ErrDecryptionFailed)
	}

	mode := cipher.NewCBCDecrypter(block, iv)
	padded := make([]byte, len(ciphertext))
	mode.CryptBlocks(padded, ciphertext)

	// pkcs#7 unpadding has to be validated, otherwise an unrelated key
	// would surface garbage plaintext instead of an error
	padding := int(padded[len(padded)-1])
	if padding == 0 || padding > block.BlockSize() || padding > len(padded) {
		return "", fmt.Errorf("%w: invalid padding length %d", ErrDecryptionFailed, padding)
	}
	for _, b := range padded[len(padded)-padding:] {
		if int(b) != padding {
			return "", fmt.Errorf("%w: inconsistent padding bytes", ErrDecryptionFailed)
		}
	}

	return string(padded[:len(padded)-padding]), nil
}
