package nostr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMetadata(t *testing.T) {
	evt := Event{
		Kind:    KindSetMetadata,
		Content: `{"name":"fiatjaf","about":"just a person","picture":"https://example.com/p.jpg","nip05":"_@example.com"}`,
	}
	meta, err := ParseMetadata(evt)
	require.NoError(t, err)
	require.Equal(t, "fiatjaf", meta.Name)
	require.Equal(t, "_@example.com", meta.NIP05)

	_, err = ParseMetadata(Event{Kind: KindTextNote, Content: "{}"})
	require.Error(t, err, "only kind 0 carries profile metadata")

	_, err = ParseMetadata(Event{Kind: KindSetMetadata, Content: "not json"})
	require.Error(t, err)
}

func TestMetadataToEvent(t *testing.T) {
	meta := ProfileMetadata{Name: "bob", About: "hello"}
	evt, err := meta.ToEvent()
	require.NoError(t, err)
	require.Equal(t, KindSetMetadata, evt.Kind)

	back, err := ParseMetadata(evt)
	require.NoError(t, err)
	require.Equal(t, &meta, back)
}
