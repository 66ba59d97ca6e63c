package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgon2HashService_HashAndVerify(t *testing.T) {
	svc := NewArgon2HashService()

	hash, err := svc.Hash("operator-secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
	assert.Contains(t, hash, "m=65536,t=1,p=4")

	match, err := svc.Verify("operator-secret", hash)
	require.NoError(t, err)
	assert.True(t, match, "correct password should verify")

	match, err = svc.Verify("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, match, "wrong password should not verify")
}

func TestArgon2HashService_UniqueSalts(t *testing.T) {
	svc := NewArgon2HashService()

	hash1, err := svc.Hash("same-password")
	require.NoError(t, err)
	hash2, err := svc.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, hash1, hash2)
}

func TestArgon2HashService_VerifyMalformed(t *testing.T) {
	svc := NewArgon2HashService()
	valid, err := svc.Hash("x")
	require.NoError(t, err)
	fields := strings.Split(valid, "$")

	tests := []struct {
		name string
		hash string
	}{
		{"garbage", "not-a-valid-hash"},
		{"wrong algorithm", strings.Replace(valid, "argon2id", "argon2i", 1)},
		{"wrong version", strings.Replace(valid, "v=19", "v=16", 1)},
		{"bad params", strings.Join([]string{"", fields[1], fields[2], "m=x", fields[4], fields[5]}, "$")},
		{"bad salt", strings.Join([]string{"", fields[1], fields[2], fields[3], "!!", fields[5]}, "$")},
		{"empty key", strings.Join([]string{"", fields[1], fields[2], fields[3], fields[4], ""}, "$")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify("x", tt.hash)
			assert.ErrorIs(t, err, errMalformedHash)
		})
	}
}

func TestArgon2HashService_EmptyPassword(t *testing.T) {
	svc := NewArgon2HashService()

	hash, err := svc.Hash("")
	require.NoError(t, err)

	match, err := svc.Verify("", hash)
	require.NoError(t, err)
	assert.True(t, match)
}
