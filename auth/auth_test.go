package auth

import (
	"testing"

	apperrors "github.com/Zzzoorroo/Duo-Project/errors"
	"github.com/stretchr/testify/require"
)

func Test_HashCredential_And_Compare(t *testing.T) {
	req := require.New(t)

	hash, err := HashCredential("correct horse battery staple")
	req.NoError(err)
	req.Contains(hash, "$argon2id$")

	match, err := CompareCredential("correct horse battery staple", hash)
	req.NoError(err)
	req.True(match)

	match, err = CompareCredential("wrong", hash)
	req.NoError(err)
	req.False(match)
}

func Test_CompareCredential_Malformed_Hash(t *testing.T) {
	req := require.New(t)
	_, err := CompareCredential("anything", "not-a-hash")
	req.Error(err)
}

func Test_AllowAll_Accepts_Any_NonEmpty_Pair(t *testing.T) {
	req := require.New(t)
	policy := AllowAll{}

	req.NoError(policy.Authenticate("alice", "pw1"))
	req.NoError(policy.Authenticate("bob", "hunter2"))
}

func Test_AllowAll_Rejects_Empty_Fields(t *testing.T) {
	req := require.New(t)
	policy := AllowAll{}

	req.ErrorIs(policy.Authenticate("", "pw1"), apperrors.ErrAuthentication)
	req.ErrorIs(policy.Authenticate("alice", ""), apperrors.ErrAuthentication)
}

func Test_StaticCredentials(t *testing.T) {
	req := require.New(t)

	hash, err := HashCredential("pw1")
	req.NoError(err)
	policy := NewStaticCredentials(map[string]string{"alice": hash})

	// Given a known user with the right credential
	req.NoError(policy.Authenticate("alice", "pw1"))

	// When the credential is wrong or the user unknown
	// Then authentication fails
	req.ErrorIs(policy.Authenticate("alice", "pw2"), apperrors.ErrAuthentication)
	req.ErrorIs(policy.Authenticate("mallory", "pw1"), apperrors.ErrAuthentication)
}
