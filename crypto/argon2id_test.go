package crypto_test

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scerios/quiz/crypto"
)

func TestHash(t *testing.T) {
	hasher := crypto.NewArgon2idHasher(1, 15*1024, 32, 16, 1)

	hash, err := hasher.Hash("supersecretpassword")

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id"), "hash should carry the argon2id prefix")
}

func TestCompare(t *testing.T) {
	hasher := crypto.NewArgon2idHasher(1, 15*1024, 32, 16, 1)
	password := "my_password_123"

	hash, _ := hasher.Hash(password)

	match, err := hasher.Compare(hash, password)
	assert.NoError(t, err)
	assert.True(t, match)

	match, err = hasher.Compare(hash, "wrong_password")
	assert.NoError(t, err)
	assert.False(t, match)

	match, err = hasher.Compare("invalid-hash-string", password)
	assert.Error(t, err)
	assert.False(t, match)
}

func TestHasherParams(t *testing.T) {
	iter := uint32(2)
	memory := uint32(12 * 1024)
	parallelism := uint8(2)
	keyLen := uint32(32)
	saltLen := uint32(16)

	hasher := crypto.NewArgon2idHasher(iter, memory, keyLen, saltLen, parallelism)

	hash, err := hasher.Hash("test_param_check")
	assert.NoError(t, err)

	// Format: $argon2id$v=19$m=12288,t=2,p=2$salt$key
	parts := strings.Split(hash, "$")
	assert.Len(t, parts, 6)

	expectedParams := fmt.Sprintf("m=%d,t=%d,p=%d", memory, iter, parallelism)
	assert.Equal(t, expectedParams, parts[3])

	// argon2 strings encode salt and key without padding
	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	assert.NoError(t, err)
	assert.Len(t, salt, int(saltLen))

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	assert.NoError(t, err)
	assert.Len(t, key, int(keyLen))
}
