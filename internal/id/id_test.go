package id

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for range count {
		id, err := Generate("sse")
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	for _, prefix := range []string{"sse", "token", "evt"} {
		t.Run(prefix, func(t *testing.T) {
			id, err := Generate(prefix)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(id, prefix+"-"))
			// NanoID default length is 21.
			assert.Len(t, strings.TrimPrefix(id, prefix+"-"), 21)
		})
	}
}

func TestMustGenerate(t *testing.T) {
	assert.NotPanics(t, func() {
		id := MustGenerate("sse")
		assert.True(t, strings.HasPrefix(id, "sse-"))
	})
}

var guestPattern = regexp.MustCompile(`^guest_(\d+)_([0-9a-z]{9})$`)

func TestGuestIdentifier_Format(t *testing.T) {
	now := time.UnixMilli(1705314600000)

	guest, err := GuestIdentifier(now)
	require.NoError(t, err)

	m := guestPattern.FindStringSubmatch(guest)
	require.NotNil(t, m, "unexpected guest identifier %q", guest)
	assert.Equal(t, "1705314600000", m[1])
}

func TestGuestIdentifier_Unique(t *testing.T) {
	now := time.Now()
	a, err := GuestIdentifier(now)
	require.NoError(t, err)
	b, err := GuestIdentifier(now)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestRow_IsUUID(t *testing.T) {
	_, err := uuid.Parse(Row())
	assert.NoError(t, err)
}
