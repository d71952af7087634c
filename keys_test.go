package nostr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	sk1 = "92996316beebf94171065a714cbf164d1f56d7ad9b35b329d9fc97535bf25352"
	pk1 = "5f942a30f92748e1817236ae52920737f8ea46722e79b3fbf9ec1f758df6e2ed"
)

func TestGetPublicKey(t *testing.T) {
	pk, err := GetPublicKey(sk1)
	require.NoError(t, err)
	require.Equal(t, pk1, pk)

	_, err = GetPublicKey("nothex")
	require.Error(t, err)
}

func TestGeneratePrivateKey(t *testing.T) {
	sk := GeneratePrivateKey()
	require.Len(t, sk, 64)

	pk, err := GetPublicKey(sk)
	require.NoError(t, err)
	require.True(t, IsValidPublicKey(pk))

	require.NotEqual(t, sk, GeneratePrivateKey())
}

func TestGeneratePrivateKeyPanicsWithoutEntropy(t *testing.T) {
	defer func(orig func([]byte) (int, error)) { randRead = orig }(randRead)
	randRead = func([]byte) (int, error) {
		return 0, errors.New("entropy source exhausted")
	}

	require.Panics(t, func() { GeneratePrivateKey() },
		"an empty key must never be returned in place of a random one")
}

func TestKeyPairInvariant(t *testing.T) {
	kp, err := KeyPairFrom(sk1)
	require.NoError(t, err)
	require.Equal(t, sk1, kp.SecretKey())
	require.Equal(t, pk1, kp.PublicKey())

	derived, err := GetPublicKey(kp.SecretKey())
	require.NoError(t, err)
	require.Equal(t, kp.PublicKey(), derived)

	_, err = KeyPairFrom("xx")
	require.Error(t, err)

	fresh, err := NewKeyPair()
	require.NoError(t, err)
	derived, err = GetPublicKey(fresh.SecretKey())
	require.NoError(t, err)
	require.Equal(t, fresh.PublicKey(), derived)
}

func TestIsValidPublicKey(t *testing.T) {
	require.True(t, IsValidPublicKey(pk1))
	require.False(t, IsValidPublicKey("short"))
	require.False(t, IsValidPublicKey("ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"))
}
