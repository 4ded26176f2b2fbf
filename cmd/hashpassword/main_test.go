package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/chart-eval/internal/auth"
)

func TestHashFromArgument(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, newApp(strings.NewReader(""), &out).Run([]string{"hashpassword", "s3cret"}))

	hash := strings.TrimSpace(out.String())
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	ok, err := auth.ComparePassword(hash, "s3cret")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashFromStdin(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, newApp(strings.NewReader("from-stdin\n"), &out).Run([]string{"hashpassword", "--stdin"}))

	ok, err := auth.ComparePassword(strings.TrimSpace(out.String()), "from-stdin")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheck(t *testing.T) {
	hash, err := auth.HashPassword("right")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, newApp(nil, &out).Run([]string{"hashpassword", "--check", hash, "right"}))
	assert.Equal(t, "ok\n", out.String())
}

func TestMissingPassword(t *testing.T) {
	var out bytes.Buffer
	err := newApp(strings.NewReader(""), &out).Run([]string{"hashpassword"})
	require.Error(t, err)

	err = newApp(strings.NewReader("\n"), &out).Run([]string{"hashpassword", "--stdin"})
	require.Error(t, err)
}
