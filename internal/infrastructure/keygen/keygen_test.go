package keygen_test

import (
	"strings"
	"testing"

	"github.com/rezkam/taskdesk/internal/domain"
	"github.com/rezkam/taskdesk/internal/infrastructure/keygen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Short tokens back a unique column, so rapid generation must not collide.
func TestGenerate_UniqueShortTokens(t *testing.T) {
	const numKeys = 1000
	seen := make(map[string]struct{}, numKeys)

	for range numKeys {
		k, err := keygen.Generate(keygen.DefaultPrefix)
		require.NoError(t, err)
		_, dup := seen[k.ShortToken]
		require.False(t, dup, "duplicate short token %s", k.ShortToken)
		seen[k.ShortToken] = struct{}{}
	}
}

func TestGenerate_RoundTrip(t *testing.T) {
	k, err := keygen.Generate("tdk")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(k.Full, "tdk_"))
	assert.Len(t, k.ShortToken, 12)
	assert.Len(t, k.Secret, 43)

	parsed, err := keygen.Parse(k.Full)
	require.NoError(t, err)
	assert.Equal(t, k, parsed)
	assert.Equal(t, "tdk_"+k.ShortToken+"_****", parsed.Display())
}

func TestGenerate_RejectsBadPrefix(t *testing.T) {
	_, err := keygen.Generate("")
	assert.ErrorIs(t, err, domain.ErrInvalidAPIKeyFormat)

	_, err = keygen.Generate("a_b")
	assert.ErrorIs(t, err, domain.ErrInvalidAPIKeyFormat)
}

func TestParse_SecretWithUnderscores(t *testing.T) {
	k, err := keygen.Parse("tdk_0123456789ab_abc_def-ghi")
	require.NoError(t, err)
	assert.Equal(t, "0123456789ab", k.ShortToken)
	assert.Equal(t, "abc_def-ghi", k.Secret)
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{
		"",
		"tdk",
		"tdk_0123456789ab",
		"tdk_short_secret",
		"tdk_0123456789zz_secret",
		"_0123456789ab_secret",
		"tdk_0123456789ab_",
	} {
		_, err := keygen.Parse(in)
		assert.ErrorIs(t, err, domain.ErrInvalidAPIKeyFormat, "input %q", in)
	}
}

func TestHashSecret(t *testing.T) {
	h := keygen.HashSecret("secret")
	assert.Len(t, h, 64)
	assert.Equal(t, h, keygen.HashSecret("secret"))
	assert.NotEqual(t, h, keygen.HashSecret("secret2"))
}

func TestMask(t *testing.T) {
	k, err := keygen.Generate("tdk")
	require.NoError(t, err)
	assert.Equal(t, "tdk_***", keygen.Mask(k.Full))
	assert.NotContains(t, keygen.Mask(k.Full), k.Secret)
	assert.Equal(t, "***", keygen.Mask("garbage"))
}
