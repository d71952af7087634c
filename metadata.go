package nostr

import (
	"encoding/json"
	"fmt"
)

// ProfileMetadata is the content shape of a kind-0 event.
type ProfileMetadata struct {
	Name    string `json:"name"`
	About   string `json:"about"`
	Picture string `json:"picture"`
	NIP05   string `json:"nip05"`
}

// ParseMetadata decodes the content of a kind-0 event.
func ParseMetadata(event Event) (*ProfileMetadata, error) {
	if event.Kind != KindSetMetadata {
		return nil, fmt.Errorf("event %s is kind %d, not %d", event.ID, event.Kind, KindSetMetadata)
	}

	var meta ProfileMetadata
	if err := json.Unmarshal([]byte(event.Content), &meta); err != nil {
		cont := event.Content
		if len(cont) > 100 {
			cont = cont[0:99]
		}
		return nil, fmt.Errorf("failed to parse metadata (%s) from event %s: %w", cont, event.ID, err)
	}

	return &meta, nil
}

// ToEvent encodes the metadata into an unsigned kind-0 event.
func (meta ProfileMetadata) ToEvent() (Event, error) {
	content, err := json.Marshal(meta)
	if err != nil {
		return Event{}, err
	}
	return Event{
		CreatedAt: Now(),
		Kind:      KindSetMetadata,
		Tags:      Tags{},
		Content:   string(content),
	}, nil
}
