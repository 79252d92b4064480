package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDocument(t *testing.T) *Document {
	t.Helper()
	doc, err := NewDocument(context.Background(), newMemStore())
	require.NoError(t, err)
	return doc
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		email   string
		want    string
		wantErr bool
	}{
		{"a@Sub.Example.COM", "sub.example.com", false},
		{"user@example.com", "example.com", false},
		{"weird@@double.example.org", "double.example.org", false},
		{"not-an-email", "", true},
		{"trailing@", "", true},
		{"no-dot@localhost", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		domain, err := ExtractDomain(tt.email)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrNoDomain, tt.email)
			continue
		}
		require.NoError(t, err, tt.email)
		assert.Equal(t, tt.want, domain, tt.email)
	}
}

func TestReputationIdempotent(t *testing.T) {
	ctx := context.Background()
	rep := NewReputation(newTestDocument(t), zap.NewNop())

	require.NoError(t, rep.Trust(ctx, "alice@example.com"))
	require.NoError(t, rep.Trust(ctx, "alice@example.com"))
	require.NoError(t, rep.Report(ctx, "mallory@evil.example"))
	require.NoError(t, rep.Report(ctx, "mallory@evil.example"))

	trusted, reported, _, err := rep.Lists(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com"}, trusted)
	assert.Equal(t, []string{"mallory@evil.example"}, reported)

	isTrusted, err := rep.IsTrusted(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, isTrusted)

	isReported, err := rep.IsReported(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.False(t, isReported)
}

func TestBlockDomain(t *testing.T) {
	ctx := context.Background()
	rep := NewReputation(newTestDocument(t), zap.NewNop())

	domain, added, err := rep.BlockDomain(ctx, "phisher@Evil.Example.COM")
	require.NoError(t, err)
	assert.Equal(t, "evil.example.com", domain)
	assert.True(t, added)

	// Second block of the same domain reports already-present
	domain, added, err = rep.BlockDomain(ctx, "other@evil.example.com")
	require.NoError(t, err)
	assert.Equal(t, "evil.example.com", domain)
	assert.False(t, added)

	blocked, err := rep.IsDomainBlocked(ctx, "anyone@EVIL.example.com")
	require.NoError(t, err)
	assert.True(t, blocked)

	_, _, blockedDomains, err := rep.Lists(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"evil.example.com"}, blockedDomains)
}

func TestBlockDomainName(t *testing.T) {
	ctx := context.Background()
	rep := NewReputation(newTestDocument(t), zap.NewNop())

	domain, added, err := rep.BlockDomainName(ctx, " Scam.Example ")
	require.NoError(t, err)
	assert.Equal(t, "scam.example", domain)
	assert.True(t, added)

	_, _, err = rep.BlockDomainName(ctx, "nodot")
	assert.ErrorIs(t, err, ErrNoDomain)
}

func TestBlockDomainMalformedAddress(t *testing.T) {
	ctx := context.Background()
	doc := newTestDocument(t)
	rep := NewReputation(doc, zap.NewNop())

	_, _, err := rep.BlockDomain(ctx, "not-an-email")
	assert.ErrorIs(t, err, ErrNoDomain)

	// The failed block must not mutate the store
	_, _, blockedDomains, err := rep.Lists(ctx)
	require.NoError(t, err)
	assert.Empty(t, blockedDomains)
}
