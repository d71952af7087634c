package nip04

import (
	"fmt"

	"github.com/ostrich-works/nostrcore"
)

// EncryptMessage derives the shared key between the sender and recipient
// and encrypts plaintext into the wire content format.
func EncryptMessage(plaintext string, senderSecretKey string, recipientPubKey string) (string, error) {
	shared, err := ComputeSharedSecret(recipientPubKey, senderSecretKey)
	if err != nil {
		return "", err
	}
	return Encrypt(plaintext, shared)
}

// DecryptMessage derives the shared key between the reader and the other
// party and decrypts a wire content string.
func DecryptMessage(content string, readerSecretKey string, otherPubKey string) (string, error) {
	shared, err := ComputeSharedSecret(otherPubKey, readerSecretKey)
	if err != nil {
		return "", err
	}
	return Decrypt(content, shared)
}

// BuildDirectMessage composes a signed kind-4 event carrying plaintext
// encrypted for recipientPubKey, with the recipient referenced in a "p" tag.
func BuildDirectMessage(
	plaintext string,
	senderSecretKey string,
	recipientPubKey string,
	createdAt nostr.Timestamp,
) (nostr.Event, error) {
	content, err := EncryptMessage(plaintext, senderSecretKey, recipientPubKey)
	if err != nil {
		return nostr.Event{}, err
	}

	evt := nostr.Event{
		CreatedAt: createdAt,
		Kind:      nostr.KindEncryptedDirectMessage,
		Tags:      nostr.Tags{nostr.Tag{"p", recipientPubKey}},
		Content:   content,
	}
	if err := evt.Sign(senderSecretKey); err != nil {
		return nostr.Event{}, err
	}
	return evt, nil
}

// OpenDirectMessage authenticates a received kind-4 event and decrypts its
// content for the reader, who may be either the recipient or the original
// sender reading their own message back.
func OpenDirectMessage(evt nostr.Event, readerSecretKey string) (string, error) {
	if evt.Kind != nostr.KindEncryptedDirectMessage {
		return "", fmt.Errorf("event %s is kind %d, not %d", evt.ID, evt.Kind, nostr.KindEncryptedDirectMessage)
	}
	if err := evt.Verify(); err != nil {
		return "", err
	}
	if err := evt.Kind.Shape().Check(&evt); err != nil {
		return "", err
	}

	readerPub, err := nostr.GetPublicKey(readerSecretKey)
	if err != nil {
		return "", fmt.Errorf("invalid reader secret key: %w", err)
	}

	other := evt.PubKey
	if other == readerPub {
		// reading our own outgoing message: the counterparty is the recipient
		other = evt.Tags.Find("p")[1]
	}

	return DecryptMessage(evt.Content, readerSecretKey, other)
}
