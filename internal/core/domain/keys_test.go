package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveKeyDeterministic(t *testing.T) {
	k1 := DeriveKey(VaultNamespace, "alice", "asset-1")
	k2 := DeriveKey(VaultNamespace, "alice", "asset-1")
	require.Equal(t, k1, k2)
	require.Len(t, string(k1), 64)
}

func TestDeriveKeyInjective(t *testing.T) {
	keys := map[Key]string{}
	cases := []struct {
		ns   Namespace
		a, b string
	}{
		{VaultNamespace, "alice", "asset-1"},
		{ListingNamespace, "alice", "asset-1"},
		{AttestationNamespace, "alice", "asset-1"},
		{VaultNamespace, "alice", "asset-2"},
		{VaultNamespace, "bob", "asset-1"},
		{VaultNamespace, "asset-1", "alice"},
		{VaultNamespace, "ali", "ceasset-1"},
	}
	for _, c := range cases {
		k := DeriveKey(c.ns, c.a, c.b)
		prev, ok := keys[k]
		require.False(t, ok, "collision between (%s,%s,%s) and %s", c.ns, c.a, c.b, prev)
		keys[k] = string(c.ns) + "/" + c.a + "/" + c.b
	}
}

func TestVaultAndListingKeysDiffer(t *testing.T) {
	require.NotEqual(t, VaultKey("alice", "asset-1"), ListingKey("alice", "asset-1"))
}
