package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gateway.example/filter-gateway/pkg/util"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()

	hashed, err := util.HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, "s3cret", hashed)

	assert.NoError(t, util.VerifyPassword(hashed, "s3cret"))
	assert.Error(t, util.VerifyPassword(hashed, "wrong"))
}
