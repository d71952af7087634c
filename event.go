package nostr

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// Event is the signed, content-addressed record exchanged between clients
// and relays, as defined in NIP-01.
type Event struct {
	ID        string
	PubKey    string
	CreatedAt Timestamp
	Kind      Kind
	Tags      Tags
	Content   string
	Sig       string

	// anything here will be mashed together with the main event object when serializing
	extra map[string]any
}

var (
	// ErrInvalidID means the id recomputed from the event body does not match
	// the id the event carries: the event was tampered with or malformed.
	ErrInvalidID = errors.New("event id does not match the serialized event body")

	// ErrInvalidSignature means the signature does not verify for the
	// event's id and pubkey.
	ErrInvalidSignature = errors.New("event signature is invalid")
)

// GetID serializes the event and returns its id as a hex string.
func (evt *Event) GetID() string {
	h := sha256.Sum256(evt.Serialize())
	return hex.EncodeToString(h[:])
}

// CheckID recomputes the id from the event body and compares it against
// the id the event carries.
func (evt *Event) CheckID() bool {
	return evt.GetID() == evt.ID
}

// Serialize outputs the canonical byte form that is hashed to produce the
// event id: the JSON array [0,"<pubkey>",<created_at>,<kind>,<tags>,<content>]
// with no whitespace and forward slashes left unescaped. Any deviation from
// this exact byte sequence changes the id.
func (evt *Event) Serialize() []byte {
	dst := make([]byte, 0, 100+len(evt.Content)+len(evt.Tags)*80)

	// the header portion is easy to serialize
	// [0,"pubkey",created_at,kind,[
	dst = append(dst, []byte(
		fmt.Sprintf(
			"[0,\"%s\",%d,%d,",
			evt.PubKey,
			evt.CreatedAt,
			evt.Kind,
		))...)

	// tags
	dst = evt.Tags.marshalTo(dst)
	dst = append(dst, ',')

	// content needs to be escaped in general as it is user generated
	dst = escapeString(dst, evt.Content)
	dst = append(dst, ']')

	return dst
}

// Sign signs an event with the given secretKey, given as 32 bytes of hex.
// It computes and sets the event's PubKey, ID and Sig fields. A fresh
// auxiliary random value is fed into nonce derivation on every call, so two
// signatures over the same event will generally differ; both verify.
func (evt *Event) Sign(secretKey string) error {
	s, err := hex.DecodeString(secretKey)
	if err != nil {
		return fmt.Errorf("Sign called with invalid secret key '%s': %w", secretKey, err)
	}

	if evt.Tags == nil {
		evt.Tags = make(Tags, 0)
	}

	sk, pk := btcec.PrivKeyFromBytes(s)
	pkBytes := pk.SerializeCompressed()
	evt.PubKey = hex.EncodeToString(pkBytes[1:])

	var aux [32]byte
	if _, err := rand.Read(aux[:]); err != nil {
		return fmt.Errorf("failed to gather entropy for signing: %w", err)
	}

	h := sha256.Sum256(evt.Serialize())
	sig, err := schnorr.Sign(sk, h[:], schnorr.CustomNonce(aux))
	if err != nil {
		return err
	}

	evt.ID = hex.EncodeToString(h[:])
	evt.Sig = hex.EncodeToString(sig.Serialize())

	return nil
}

// Verify checks the authenticity of a received event. The id is always
// recomputed from the event's own fields, never taken on trust: a mismatch
// yields ErrInvalidID, and a failed signature check over (id, pubkey) yields
// ErrInvalidSignature. Malformed hex in the id, pubkey or sig fields is
// reported as the corresponding error.
func (evt *Event) Verify() error {
	id, err := hex.DecodeString(evt.ID)
	if err != nil || len(id) != 32 {
		return fmt.Errorf("%w: id '%s' is not 32 bytes of hex", ErrInvalidID, evt.ID)
	}
	if evt.GetID() != evt.ID {
		return ErrInvalidID
	}

	pk, err := hex.DecodeString(evt.PubKey)
	if err != nil {
		return fmt.Errorf("%w: pubkey '%s' is invalid hex", ErrInvalidSignature, evt.PubKey)
	}
	pubkey, err := schnorr.ParsePubKey(pk)
	if err != nil {
		return fmt.Errorf("%w: invalid pubkey '%s': %s", ErrInvalidSignature, evt.PubKey, err)
	}

	s, err := hex.DecodeString(evt.Sig)
	if err != nil {
		return fmt.Errorf("%w: sig '%s' is invalid hex", ErrInvalidSignature, evt.Sig)
	}
	sig, err := schnorr.ParseSignature(s)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, err)
	}

	h := sha256.Sum256(evt.Serialize())
	if !sig.Verify(h[:], pubkey) {
		return ErrInvalidSignature
	}
	return nil
}

// CheckSignature checks if the signature is valid for the event body.
// It won't look at the ID field, instead it will recompute the id from the
// entire event body. If the signature is invalid bool will be false and err
// will be set.
func (evt Event) CheckSignature() (bool, error) {
	pk, err := hex.DecodeString(evt.PubKey)
	if err != nil {
		return false, fmt.Errorf("event pubkey '%s' is invalid hex: %w", evt.PubKey, err)
	}

	pubkey, err := schnorr.ParsePubKey(pk)
	if err != nil {
		return false, fmt.Errorf("event has invalid pubkey '%s': %w", evt.PubKey, err)
	}

	s, err := hex.DecodeString(evt.Sig)
	if err != nil {
		return false, fmt.Errorf("signature '%s' is invalid hex: %w", evt.Sig, err)
	}
	sig, err := schnorr.ParseSignature(s)
	if err != nil {
		return false, fmt.Errorf("failed to parse signature: %w", err)
	}

	hash := sha256.Sum256(evt.Serialize())
	return sig.Verify(hash[:], pubkey), nil
}

func (evt Event) String() string {
	j, _ := evt.MarshalJSON()
	return string(j)
}
