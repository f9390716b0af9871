package config

import (
	"os"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestSetFlagsDefaults(t *testing.T) {
	var c Config
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.SetFlags(fs)
	require.NoError(t, fs.Parse(nil))
	require.Equal(t, ".", c.DescriptorDir)
	require.Equal(t, "stderr", c.LogFile)
	require.Equal(t, "append", c.LogMode)
	require.Equal(t, "warn", c.LogLevel)
}

func TestSetFlagsEnvFallback(t *testing.T) {
	t.Setenv(DescriptorDirEnv, "/etc/pbq/descriptors")
	t.Setenv(LogLevelEnv, "debug")

	var c Config
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.SetFlags(fs)
	require.NoError(t, fs.Parse(nil))
	require.Equal(t, "/etc/pbq/descriptors", c.DescriptorDir)
	require.Equal(t, "debug", c.LogLevel)
}

func TestSetFlagsCommandLineOverridesEnv(t *testing.T) {
	t.Setenv(LogModeEnv, "rotate")

	var c Config
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	c.SetFlags(fs)
	require.NoError(t, fs.Parse([]string{"--log-mode=truncate"}))
	require.Equal(t, "truncate", c.LogMode)
}

func TestWithEnvDefaultUnset(t *testing.T) {
	os.Unsetenv("PBQ_TEST_UNSET_VAR")
	require.Equal(t, "fallback", withEnvDefault("PBQ_TEST_UNSET_VAR", "fallback"))
}
