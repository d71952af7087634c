// Package keyer wraps a keypair behind a small signer interface so callers
// can sign events and run direct-message encryption without juggling shared
// keys themselves.
package keyer

import (
	"context"
	"fmt"

	"github.com/ostrich-works/nostrcore"
	"github.com/ostrich-works/nostrcore/nip04"
	"github.com/ostrich-works/nostrcore/nip44"
	"github.com/puzpuzpuz/xsync/v3"
)

// Signer is anything that can sign events and encrypt/decrypt direct
// messages on behalf of a key holder.
type Signer interface {
	SignEvent(ctx context.Context, evt *nostr.Event) error
	GetPublicKey(ctx context.Context) string
	Encrypt(ctx context.Context, plaintext string, recipient string) (string, error)
	Decrypt(ctx context.Context, content string, sender string) (string, error)
}

var _ Signer = (*KeySigner)(nil)

// KeySigner is a signer that holds the private key in memory and does all
// operations locally and instantly. Shared keys are derived once per
// counterparty and cached; the cache is safe for concurrent use.
type KeySigner struct {
	keys nostr.KeyPair

	sharedKeys *xsync.MapOf[string, []byte]
}

// NewKeySigner creates a KeySigner from a hex private key.
func NewKeySigner(secretKey string) (*KeySigner, error) {
	keys, err := nostr.KeyPairFrom(secretKey)
	if err != nil {
		return nil, fmt.Errorf("invalid secret key: %w", err)
	}
	return &KeySigner{
		keys:       keys,
		sharedKeys: xsync.NewMapOf[string, []byte](),
	}, nil
}

func (ks *KeySigner) SignEvent(ctx context.Context, evt *nostr.Event) error {
	return evt.Sign(ks.keys.SecretKey())
}

func (ks *KeySigner) GetPublicKey(ctx context.Context) string { return ks.keys.PublicKey() }

// Encrypt produces nip04 content for the recipient.
func (ks *KeySigner) Encrypt(ctx context.Context, plaintext string, recipient string) (string, error) {
	shared, err := ks.sharedKey(recipient)
	if err != nil {
		return "", err
	}
	return nip04.Encrypt(plaintext, shared)
}

// Decrypt decodes nip04 content received from (or sent to) the given
// counterparty.
func (ks *KeySigner) Decrypt(ctx context.Context, content string, sender string) (string, error) {
	shared, err := ks.sharedKey(sender)
	if err != nil {
		return "", err
	}
	return nip04.Decrypt(content, shared)
}

// ConversationKey returns the cached nip44 conversation key for a
// counterparty, deriving it on first use.
func (ks *KeySigner) ConversationKey(counterparty string) ([]byte, error) {
	if ck, ok := ks.sharedKeys.Load("nip44:" + counterparty); ok {
		return ck, nil
	}
	ck, err := nip44.GenerateConversationKey(counterparty, ks.keys.SecretKey())
	if err != nil {
		return nil, err
	}
	ks.sharedKeys.Store("nip44:"+counterparty, ck)
	nostr.DebugLogger.Printf("derived conversation key for %s", counterparty)
	return ck, nil
}

func (ks *KeySigner) sharedKey(counterparty string) ([]byte, error) {
	if shared, ok := ks.sharedKeys.Load(counterparty); ok {
		return shared, nil
	}
	shared, err := nip04.ComputeSharedSecret(counterparty, ks.keys.SecretKey())
	if err != nil {
		return nil, err
	}
	ks.sharedKeys.Store(counterparty, shared)
	nostr.DebugLogger.Printf("derived shared secret for %s", counterparty)
	return shared, nil
}
