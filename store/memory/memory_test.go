package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianbank/bankcore/store/memory"
)

type record struct {
	ID     string `json:"id"`
	Amount int    `json:"amount"`
}

func TestStore_RoundTrip(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	in := []record{{ID: "a", Amount: 10}, {ID: "b", Amount: -3}}
	require.NoError(t, store.Save(ctx, "records", in))

	var out []record
	require.NoError(t, store.Load(ctx, "records", &out))
	assert.Equal(t, in, out)
}

func TestStore_MissingKey_LeavesDefault(t *testing.T) {
	store := memory.New()

	out := []record{{ID: "preexisting"}}
	require.NoError(t, store.Load(context.Background(), "nope", &out))
	assert.Equal(t, []record{{ID: "preexisting"}}, out, "missing key must not touch out")
}

func TestStore_FailSaves(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "records", []record{{ID: "a"}}))

	store.FailSaves = true
	assert.Error(t, store.Save(ctx, "records", []record{{ID: "b"}}))

	// The earlier snapshot survives a failed save.
	var out []record
	require.NoError(t, store.Load(ctx, "records", &out))
	assert.Equal(t, []record{{ID: "a"}}, out)
}
