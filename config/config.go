package config

import (
	"errors"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug       = "debug"
	ConfigCPUProfile  = "cpu-profile"
	ConfigMemProfile  = "mem-profile"
	ConfigPlies       = "plies"
	ConfigWeights     = "weights"
	ConfigSeed        = "seed"
	ConfigLevel       = "level"
	ConfigThreads     = "threads"
	ConfigGames       = "games"
	ConfigMaxPieces   = "max-pieces"
	ConfigLogFile     = "log-file"
	ConfigHistoryFile = "history-file"
	ConfigConfigFile  = "config"
)

const (
	DefaultPlies   = 3
	DefaultWeights = "0.33333334,0.5833333,0.183333336"
	DefaultLevel   = 26
	DefaultGames   = 100
)

// Config wraps viper. Settings come, in increasing priority, from the
// defaults, an optional YAML file, TETRISAI_* environment variables and the
// command line.
type Config struct {
	*viper.Viper
	args []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigPlies, DefaultPlies)
	v.SetDefault(ConfigWeights, DefaultWeights)
	v.SetDefault(ConfigSeed, 0)
	v.SetDefault(ConfigLevel, DefaultLevel)
	v.SetDefault(ConfigThreads, runtime.NumCPU())
	v.SetDefault(ConfigGames, DefaultGames)
	v.SetDefault(ConfigMaxPieces, 0)
	v.SetDefault(ConfigHistoryFile, "/tmp/tetrisai_readline.tmp")
}

// DefaultConfig is the configuration with nothing loaded. Useful in tests.
func DefaultConfig() Config {
	v := viper.New()
	setDefaults(v)
	return Config{Viper: v}
}

// Load parses the command-line arguments and merges in the environment
// and the config file. Arguments that are not flags are kept; see Args.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	setDefaults(c.Viper)

	fs := pflag.NewFlagSet("tetrisai", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigCPUProfile, "", "file to write a CPU profile to")
	fs.String(ConfigMemProfile, "", "file to write a memory profile to on exit")
	fs.Int(ConfigPlies, DefaultPlies, "search depth in pieces")
	fs.String(ConfigWeights, DefaultWeights, "max-height,compactness,distortion weights")
	fs.Uint64(ConfigSeed, 0, "piece randomizer seed; 0 picks a random one")
	fs.Int(ConfigLevel, DefaultLevel, "AI playback level, 1 to 35")
	fs.Int(ConfigThreads, runtime.NumCPU(), "self-play worker count")
	fs.Int(ConfigGames, DefaultGames, "self-play game count")
	fs.Int(ConfigMaxPieces, 0, "stop a self-play game after this many pieces; 0 for no limit")
	fs.String(ConfigLogFile, "", "self-play per-piece log file")
	fs.String(ConfigHistoryFile, "/tmp/tetrisai_readline.tmp", "shell history file")
	fs.String(ConfigConfigFile, "", "YAML config file (default ./tetrisai.yaml if present)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()

	c.SetEnvPrefix("tetrisai")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	if f := c.GetString(ConfigConfigFile); f != "" {
		c.SetConfigFile(f)
	} else {
		c.SetConfigName("tetrisai")
		c.SetConfigType("yaml")
		c.AddConfigPath(".")
	}
	if err := c.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}

// Args are the non-flag arguments left after Load.
func (c *Config) Args() []string {
	return c.args
}

// Snapshot copies the current settings into an independent Config. Viper is
// not safe for concurrent use, so a background reader gets its own copy.
func (c *Config) Snapshot() *Config {
	v := viper.New()
	setDefaults(v)
	for k, val := range c.AllSettings() {
		v.Set(k, val)
	}
	return &Config{Viper: v, args: append([]string(nil), c.args...)}
}

// SanitizedSettings returns the settings for logging.
func (c *Config) SanitizedSettings() map[string]any {
	return c.AllSettings()
}
