package ids

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7_NextIsParseableAndVersion7(t *testing.T) {
	id := UUIDv7{}.Next()
	u, err := uuid.Parse(id)
	require.NoError(t, err)
	require.Equal(t, uuid.Version(7), u.Version())
}

func TestUUIDv7_NoDuplicatesInBurst(t *testing.T) {
	g := UUIDv7{}
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := g.Next()
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestFunc(t *testing.T) {
	n := 0
	g := Func(func() string { n++; return "fixed" })
	require.Equal(t, "fixed", g.Next())
	require.Equal(t, 1, n)
}
