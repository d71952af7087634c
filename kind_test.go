package nostr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindRoundTrip(t *testing.T) {
	codes := []int{-1, 0, 1, 3, 4, 16, 1984, 9999, 10000, 10003, 20000, 30023, 31925, 40000, 123456}
	for _, c := range codes {
		require.Equal(t, c, int(Kind(c)), "code %d did not round-trip", c)
	}
}

func TestKnownKinds(t *testing.T) {
	require.True(t, Kind(4).IsKnown())
	require.Equal(t, KindEncryptedDirectMessage, Kind(4))
	require.Equal(t, "directMessage", Kind(4).String())

	require.True(t, Kind(31924).IsKnown())
	require.Equal(t, "calendar", KindCalendar.String())

	// unknown codes are a first-class state, not an error
	require.False(t, Kind(2).IsKnown())
	require.Equal(t, "unknown(2)", Kind(2).String())
	require.Equal(t, ShapeBase, Kind(2).Shape())
	require.Equal(t, "unknown(-7)", Kind(-7).String())
}

func TestReplaceableBoundaries(t *testing.T) {
	// 0 and 3 are replaceable regardless of range membership
	assert.True(t, Kind(0).IsReplaceable())
	assert.True(t, Kind(3).IsReplaceable())
	assert.False(t, Kind(1).IsReplaceable())

	assert.False(t, Kind(9999).IsReplaceable())
	assert.True(t, Kind(10000).IsReplaceable())
	assert.True(t, Kind(19999).IsReplaceable())
	assert.False(t, Kind(20000).IsReplaceable())

	assert.False(t, Kind(29999).IsAddressable())
	assert.True(t, Kind(30000).IsAddressable())
	assert.True(t, Kind(39999).IsAddressable())
	assert.False(t, Kind(40000).IsAddressable())

	// the two ranges never overlap
	for _, c := range []int{0, 3, 9999, 10000, 19999, 20000, 29999, 30000, 39999, 40000} {
		k := Kind(c)
		assert.False(t, k.IsReplaceable() && k.IsAddressable(), "kind %d classified in both ranges", c)
	}
}

func TestKindRange(t *testing.T) {
	assert.Equal(t, Replaceable, Kind(0).Range())
	assert.Equal(t, Regular, Kind(1).Range())
	assert.Equal(t, Replaceable, Kind(10003).Range())
	assert.Equal(t, Ephemeral, Kind(22242).Range())
	assert.Equal(t, Addressable, Kind(30023).Range())
	assert.Equal(t, Regular, Kind(40000).Range())
}

func TestShapeResolution(t *testing.T) {
	require.Equal(t, ShapeSetMetadata, KindSetMetadata.Shape())
	require.Equal(t, ShapeDirectMessage, KindEncryptedDirectMessage.Shape())
	require.Equal(t, ShapeCalendarEvent, KindDateBasedCalendarEvent.Shape())
	require.Equal(t, ShapeCalendarEvent, KindTimeBasedCalendarEvent.Shape())
	require.Equal(t, ShapeBase, Kind(65535).Shape())
}

func TestShapeCheck(t *testing.T) {
	dm := &Event{Kind: KindEncryptedDirectMessage, Tags: Tags{}}
	require.Error(t, dm.Kind.Shape().Check(dm), "direct message without a recipient tag must not validate")

	dm.Tags = Tags{Tag{"p", "3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d"}}
	require.NoError(t, dm.Kind.Shape().Check(dm))

	article := &Event{Kind: KindLongformContent, Tags: Tags{}}
	require.Error(t, article.Kind.Shape().Check(article))
	article.Tags = Tags{Tag{"d", "my-article"}}
	require.NoError(t, article.Kind.Shape().Check(article))

	// unknown kinds have no structural requirements
	weird := &Event{Kind: Kind(12345), Tags: Tags{}}
	require.NoError(t, weird.Kind.Shape().Check(weird))
}
