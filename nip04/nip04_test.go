package nip04

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	sk1 = "92996316beebf94171065a714cbf164d1f56d7ad9b35b329d9fc97535bf25352"
	pk1 = "5f942a30f92748e1817236ae52920737f8ea46722e79b3fbf9ec1f758df6e2ed"
	sk2 = "591c0c249adfb9346f8d37dfeed65725e2eea1d7a6e99fa503342f367138de84"
	pk2 = "8558e7b00718df21f6537d09e284ca35aa7a3d5f6c973e2f5f0410b1d17da5ac"
)

func TestSharedSecretSymmetry(t *testing.T) {
	s12, err := ComputeSharedSecret(pk2, sk1)
	require.NoError(t, err)
	s21, err := ComputeSharedSecret(pk1, sk2)
	require.NoError(t, err)
	require.Equal(t, s12, s21, "both parties must derive the same key")
	require.Len(t, s12, 32)
}

func TestEncryptionAndDecryption(t *testing.T) {
	sharedSecret := make([]byte, 32)
	message := "hello hello"

	ciphertext, err := Encrypt(message, sharedSecret)
	require.NoError(t, err)

	plaintext, err := Decrypt(ciphertext, sharedSecret)
	require.NoError(t, err)
	require.Equal(t, message, plaintext)
}

func TestEncryptionAndDecryptionWithMultipleLengths(t *testing.T) {
	sharedSecret := make([]byte, 32)

	// including the empty string
	for i := 0; i < 150; i++ {
		message := strings.Repeat("a", i)

		ciphertext, err := Encrypt(message, sharedSecret)
		require.NoError(t, err)

		plaintext, err := Decrypt(ciphertext, sharedSecret)
		require.NoError(t, err)
		require.Equal(t, message, plaintext, "original and decrypted messages differ at length %d", i)
	}
}

func TestRoundTripAcrossKeyPairs(t *testing.T) {
	content, err := EncryptMessage("direct message round trip", sk1, pk2)
	require.NoError(t, err)
	require.Contains(t, content, "?iv=")

	plaintext, err := DecryptMessage(content, sk2, pk1)
	require.NoError(t, err)
	require.Equal(t, "direct message round trip", plaintext)
}

func TestFreshIVPerCall(t *testing.T) {
	sharedSecret := make([]byte, 32)
	a, err := Encrypt("same message", sharedSecret)
	require.NoError(t, err)
	b, err := Encrypt("same message", sharedSecret)
	require.NoError(t, err)
	require.NotEqual(t, a, b, "iv must be drawn fresh for every encryption")
}

func TestNostrToolsCompatibility(t *testing.T) {
	shared, err := ComputeSharedSecret(pk2, sk1)
	require.NoError(t, err)

	ciphertext := "A+fRnU4aXS4kbTLfowqAww==?iv=QFYUrl5or/n/qamY79ze0A=="
	plaintext, err := Decrypt(ciphertext, shared)
	require.NoError(t, err)
	require.Equal(t, "hello", plaintext, "invalid decryption of nostr-tools payload")
}

func TestDecryptMalformedContent(t *testing.T) {
	shared := make([]byte, 32)

	for _, content := range []string{
		"",
		"bm8gc2VwYXJhdG9y",                         // no ?iv= at all
		"!!!not-base64!!!?iv=QFYUrl5or/n/qamY79ze0A==", // bad ciphertext segment
		"A+fRnU4aXS4kbTLfowqAww==?iv=///~~~",           // bad iv segment
		"A+fRnU4aXS4kbTLfowqAww==?iv=QFYU",             // iv too short
	} {
		_, err := Decrypt(content, shared)
		require.ErrorIs(t, err, ErrMalformedContent, "content %q", content)
	}
}

func TestDecryptWithWrongKeyFails(t *testing.T) {
	// well-formed content, but keyed to the sk1/sk2 pair
	content := "A+fRnU4aXS4kbTLfowqAww==?iv=QFYUrl5or/n/qamY79ze0A=="

	unrelated := "7f7ff03d123792d6ac594bfa67bf6d0c0ab55b6b1fdb6249303fe861f1ccba9a"
	wrong, err := ComputeSharedSecret(pk2, unrelated)
	require.NoError(t, err)

	_, err = Decrypt(content, wrong)
	require.ErrorIs(t, err, ErrDecryptionFailed, "an unrelated keypair must fail, not surface garbage")
}
