package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	opts := Default()
	require.True(t, opts.StrictInstances)
	require.Equal(t, 64, opts.MaxAliasDepth)
	require.False(t, opts.DumpElaborated)
}

func TestLoadManifest(t *testing.T) {
	data := []byte(`
check:
  strict_instances: false
  max_alias_depth: 16
  dump_elaborated: true
`)
	opts, err := Load(data)
	require.NoError(t, err)
	require.False(t, opts.StrictInstances)
	require.Equal(t, 16, opts.MaxAliasDepth)
	require.True(t, opts.DumpElaborated)
}

func TestLoadMissingKeysKeepDefaults(t *testing.T) {
	opts, err := Load([]byte("check:\n  dump_elaborated: true\n"))
	require.NoError(t, err)
	require.True(t, opts.DumpElaborated)
	require.Equal(t, Default().MaxAliasDepth, opts.MaxAliasDepth)
}

func TestLoadRejectsGarbage(t *testing.T) {
	_, err := Load([]byte("check: [not a map"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "parsing manifest")
}

func TestLoadNormalizesAliasDepth(t *testing.T) {
	opts, err := Load([]byte("check:\n  max_alias_depth: -1\n"))
	require.NoError(t, err)
	require.Equal(t, Default().MaxAliasDepth, opts.MaxAliasDepth)
}
