package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewPasswordHasher(t *testing.T) {
	h, err := NewPasswordHasher("bcrypt", 0)
	require.NoError(t, err)
	assert.IsType(t, &BcryptHasher{}, h)
	assert.Equal(t, bcrypt.DefaultCost, h.(*BcryptHasher).cost)

	h, err = NewPasswordHasher("argon2id", 0)
	require.NoError(t, err)
	assert.IsType(t, &Argon2idHasher{}, h)

	_, err = NewPasswordHasher("md5", 0)
	assert.ErrorIs(t, err, ErrUnknownAlgorithm)
}

func TestPasswordHashers(t *testing.T) {
	hashers := map[string]PasswordHasher{
		"bcrypt":   NewBcryptHasher(bcrypt.MinCost),
		"argon2id": NewArgon2idHasher(),
	}

	for name, h := range hashers {
		t.Run(name, func(t *testing.T) {
			hash, err := h.Encode("correct horse battery")
			require.NoError(t, err)
			assert.NotEqual(t, "correct horse battery", hash)

			ok, err := h.Verify("correct horse battery", hash)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = h.Verify("wrong password", hash)
			require.NoError(t, err)
			assert.False(t, ok)

			again, err := h.Encode("correct horse battery")
			require.NoError(t, err)
			assert.NotEqual(t, hash, again, "hashes must be salted")

			ok, err = h.Verify("correct horse battery", "not-a-hash")
			assert.False(t, ok)
			assert.ErrorIs(t, err, ErrInvalidHash)
		})
	}
}

func TestArgon2idHasher_Format(t *testing.T) {
	hash, err := NewArgon2idHasher().Encode("password123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=65536,t=1,p=4$"))
	assert.Len(t, strings.Split(hash, "$"), 6)
}

func TestArgon2idHasher_RejectsMalformedParameters(t *testing.T) {
	h := NewArgon2idHasher()
	cases := []string{
		"$bcrypt$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=0$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=0,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=0,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$",
	}
	for _, hash := range cases {
		ok, err := h.Verify("password123", hash)
		assert.False(t, ok, hash)
		assert.ErrorIs(t, err, ErrInvalidHash, hash)
	}
}

func TestBcryptHasher_Cost(t *testing.T) {
	assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(100).cost)
	assert.Equal(t, 12, NewBcryptHasher(12).cost)
}
