// Package config binds the settings shared by every pbq subcommand —
// the descriptor directory and the logging destination — to
// command-line flags, seeding each flag's default from an environment
// variable when one is set. This is the same fallback the teacher's
// LakeFlags.SetFlags uses for its lake URL (os.LookupEnv("ZED_LAKE")
// before registering the -lake flag's default), generalized to the
// four flags cmd/pbq exposes.
package config

import (
	"os"

	"github.com/spf13/pflag"
)

const (
	DescriptorDirEnv = "PBQ_DESCRIPTORS"
	LogFileEnv       = "PBQ_LOG_FILE"
	LogModeEnv       = "PBQ_LOG_MODE"
	LogLevelEnv      = "PBQ_LOG_LEVEL"
)

// Config holds the persistent flags every pbq subcommand reads.
type Config struct {
	DescriptorDir string
	LogFile       string
	LogMode       string
	LogLevel      string
}

func withEnvDefault(env, fallback string) string {
	if s, ok := os.LookupEnv(env); ok {
		return s
	}
	return fallback
}

// SetFlags registers fs against c. Each flag's default is the matching
// environment variable's value, if set, else the hardcoded fallback
// below; an explicit command-line flag still overrides both.
func (c *Config) SetFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.DescriptorDir, "descriptors", "d",
		withEnvDefault(DescriptorDirEnv, "."),
		"directory of FileDescriptorSet blobs, one descriptor set per file (env: "+DescriptorDirEnv+")")
	fs.StringVar(&c.LogFile, "log-file",
		withEnvDefault(LogFileEnv, "stderr"),
		"log destination (stdout, stderr, or a path) (env: "+LogFileEnv+")")
	fs.StringVar(&c.LogMode, "log-mode",
		withEnvDefault(LogModeEnv, "append"),
		"log file mode: append, truncate, or rotate (env: "+LogModeEnv+")")
	fs.StringVar(&c.LogLevel, "log-level",
		withEnvDefault(LogLevelEnv, "warn"),
		"log level: debug, info, warn, or error (env: "+LogLevelEnv+")")
}
