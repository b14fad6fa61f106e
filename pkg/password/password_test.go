package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	digest, err := Hash("s3cret-phrase")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-phrase", digest)
	assert.True(t, Verify(digest, "s3cret-phrase"))
	assert.False(t, Verify(digest, "wrong-phrase"))
}

func TestHashUsesFreshSaltPerCall(t *testing.T) {
	first, err := Hash("same-secret")
	require.NoError(t, err)
	second, err := Hash("same-secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "two hashes of one secret must differ by salt")
	assert.True(t, Verify(first, "same-secret"))
	assert.True(t, Verify(second, "same-secret"))
}

func TestVerifyRejectsMalformedDigest(t *testing.T) {
	assert.False(t, Verify("not-a-digest", "anything"))
}
