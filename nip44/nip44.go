// Package nip44 implements the versioned encrypted payload scheme that
// succeeds nip04 for direct messages: hkdf-sha256 key derivation, chacha20
// over length-padded plaintext and an hmac-sha256 authentication tag.
package nip44

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ostrich-works/nostrcore/nip04"
	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"
)

const version byte = 2

const (
	MinPlaintextSize = 0x0001 // 1b msg => padded to 32b
	MaxPlaintextSize = 0xffff // 65535 (64kb-1) => padded to 64kb
)

var (
	ErrInvalidPayload = errors.New("invalid nip44 payload")
	ErrInvalidMAC     = errors.New("nip44 mac does not match")
)

type encryptOptions struct {
	nonce []byte
}

// WithCustomNonce sets a fixed 32-byte nonce instead of a random one.
// Only meant for deriving test vectors; never reuse a nonce otherwise.
func WithCustomNonce(nonce []byte) func(opts *encryptOptions) {
	return func(opts *encryptOptions) {
		opts.nonce = nonce
	}
}

// GenerateConversationKey derives the long-lived symmetric key for the pair
// (holder of sk, holder of pub). Like the nip04 shared secret it is
// symmetric across the pair, but it passes the ECDH output through an hkdf
// extraction step first.
func GenerateConversationKey(pub string, sk string) ([]byte, error) {
	if sk >= "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141" ||
		sk == "0000000000000000000000000000000000000000000000000000000000000000" {
		return nil, fmt.Errorf("invalid private key: %s is out of range", sk)
	}

	shared, err := nip04.ComputeSharedSecret(pub, sk)
	if err != nil {
		return nil, err
	}
	return hkdf.Extract(sha256.New, shared, []byte("nip44-v2")), nil
}

// Encrypt encrypts plaintext with the conversation key, producing the
// base64 of version || nonce || ciphertext || mac.
func Encrypt(plaintext string, conversationKey []byte, applyOptions ...func(opts *encryptOptions)) (string, error) {
	opts := encryptOptions{}
	for _, apply := range applyOptions {
		apply(&opts)
	}

	nonce := opts.nonce
	if nonce == nil {
		nonce = make([]byte, 32)
		if _, err := rand.Read(nonce); err != nil {
			return "", err
		}
	}
	if len(nonce) != 32 {
		return "", errors.New("nonce must be 32 bytes")
	}

	enc, cc20nonce, auth, err := messageKeys(conversationKey, nonce)
	if err != nil {
		return "", err
	}

	padded, err := pad(plaintext)
	if err != nil {
		return "", err
	}

	ciphertext, err := chacha20XOR(enc, cc20nonce, padded)
	if err != nil {
		return "", err
	}

	mac, err := sha256Hmac(auth, ciphertext, nonce)
	if err != nil {
		return "", err
	}

	concat := make([]byte, 0, 1+len(nonce)+len(ciphertext)+len(mac))
	concat = append(concat, version)
	concat = append(concat, nonce...)
	concat = append(concat, ciphertext...)
	concat = append(concat, mac...)
	return base64.StdEncoding.EncodeToString(concat), nil
}

// Decrypt reverses Encrypt. It fails with ErrInvalidPayload on structural
// problems and ErrInvalidMAC when the authentication tag does not check out
// (wrong conversation key or corrupted payload).
func Decrypt(payload string, conversationKey []byte) (string, error) {
	if len(payload) < 132 || len(payload) > 87472 {
		return "", fmt.Errorf("%w: length %d", ErrInvalidPayload, len(payload))
	}
	if payload[0:1] == "#" {
		return "", fmt.Errorf("%w: unknown version", ErrInvalidPayload)
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64", ErrInvalidPayload)
	}
	if decoded[0] != version {
		return "", fmt.Errorf("%w: unknown version %d", ErrInvalidPayload, decoded[0])
	}
	dLen := len(decoded)
	if dLen < 99 || dLen > 65603 {
		return "", fmt.Errorf("%w: data length %d", ErrInvalidPayload, dLen)
	}

	nonce, ciphertext, mac := decoded[1:33], decoded[33:dLen-32], decoded[dLen-32:]

	enc, cc20nonce, auth, err := messageKeys(conversationKey, nonce)
	if err != nil {
		return "", err
	}

	expectedMac, err := sha256Hmac(auth, ciphertext, nonce)
	if err != nil {
		return "", err
	}
	if !hmac.Equal(mac, expectedMac) {
		return "", ErrInvalidMAC
	}

	padded, err := chacha20XOR(enc, cc20nonce, ciphertext)
	if err != nil {
		return "", err
	}

	unpaddedLen := int(binary.BigEndian.Uint16(padded[0:2]))
	if unpaddedLen < MinPlaintextSize || unpaddedLen > MaxPlaintextSize ||
		len(padded) != 2+calcPadding(unpaddedLen) {
		return "", fmt.Errorf("%w: invalid padding", ErrInvalidPayload)
	}

	unpadded := padded[2 : unpaddedLen+2]
	if len(unpadded) != unpaddedLen {
		return "", fmt.Errorf("%w: invalid padding", ErrInvalidPayload)
	}
	return string(unpadded), nil
}

func messageKeys(conversationKey []byte, nonce []byte) (enc, cc20nonce, auth []byte, err error) {
	if len(conversationKey) != 32 {
		return nil, nil, nil, errors.New("conversation key must be 32 bytes")
	}
	if len(nonce) != 32 {
		return nil, nil, nil, errors.New("nonce must be 32 bytes")
	}

	r := hkdf.Expand(sha256.New, conversationKey, nonce)
	enc = make([]byte, 32)
	cc20nonce = make([]byte, 12)
	auth = make([]byte, 32)
	for _, buf := range [][]byte{enc, cc20nonce, auth} {
		if _, err = io.ReadFull(r, buf); err != nil {
			return nil, nil, nil, err
		}
	}
	return enc, cc20nonce, auth, nil
}

func chacha20XOR(key []byte, nonce []byte, message []byte) ([]byte, error) {
	cc, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		return nil, err
	}
	dst := make([]byte, len(message))
	cc.XORKeyStream(dst, message)
	return dst, nil
}

func sha256Hmac(key []byte, ciphertext []byte, aad []byte) ([]byte, error) {
	if len(aad) != 32 {
		return nil, errors.New("aad data must be 32 bytes")
	}
	h := hmac.New(sha256.New, key)
	h.Write(aad)
	h.Write(ciphertext)
	return h.Sum(nil), nil
}

func pad(plaintext string) ([]byte, error) {
	sb := []byte(plaintext)
	if len(sb) < MinPlaintextSize || len(sb) > MaxPlaintextSize {
		return nil, errors.New("plaintext should be between 1b and 64kB")
	}
	result := make([]byte, 2, 2+calcPadding(len(sb)))
	binary.BigEndian.PutUint16(result, uint16(len(sb)))
	result = append(result, sb...)
	result = append(result, make([]byte, calcPadding(len(sb))-len(sb))...)
	return result, nil
}

func calcPadding(sLen int) int {
	if sLen <= 32 {
		return 32
	}
	nextPower := 1 << int(math.Floor(math.Log2(float64(sLen-1)))+1)
	chunk := int(math.Max(32, float64(nextPower/8)))
	return chunk * int(math.Floor(float64((sLen-1)/chunk))+1)
}
