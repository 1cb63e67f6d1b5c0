package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	is.Equal(cfg.GetInt(ConfigPlies), DefaultPlies)
	is.Equal(cfg.GetString(ConfigWeights), DefaultWeights)
	is.Equal(cfg.GetInt(ConfigLevel), DefaultLevel)
	is.True(cfg.GetInt(ConfigThreads) > 0)
	is.True(!cfg.GetBool(ConfigDebug))
}

func TestLoadFlagsAndArgs(t *testing.T) {
	is := is.New(t)
	t.Chdir(t.TempDir())
	cfg := &Config{}
	err := cfg.Load([]string{"--plies", "2", "--debug", "autoplay", "-games", "5"})
	is.True(err != nil) // -games is not a flag of ours

	cfg = &Config{}
	err = cfg.Load([]string{"--plies", "2", "--debug", "--", "autoplay", "-games", "5"})
	is.NoErr(err)
	is.Equal(cfg.GetInt(ConfigPlies), 2)
	is.True(cfg.GetBool(ConfigDebug))
	is.Equal(cfg.Args(), []string{"autoplay", "-games", "5"})
}

func TestLoadEnvironment(t *testing.T) {
	is := is.New(t)
	t.Chdir(t.TempDir())
	t.Setenv("TETRISAI_MAX_PIECES", "250")
	cfg := &Config{}
	is.NoErr(cfg.Load(nil))
	is.Equal(cfg.GetInt(ConfigMaxPieces), 250)
}

func TestLoadConfigFile(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	t.Chdir(dir)
	err := os.WriteFile(filepath.Join(dir, "tetrisai.yaml"),
		[]byte("level: 10\nweights: \"1,0,0\"\n"), 0o644)
	is.NoErr(err)
	cfg := &Config{}
	is.NoErr(cfg.Load([]string{"--level", "12"}))
	is.Equal(cfg.GetInt(ConfigLevel), 12) // flag beats file
	is.Equal(cfg.GetString(ConfigWeights), "1,0,0")
}

func TestSnapshot(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.Set(ConfigPlies, 1)
	cfg.Set(ConfigWeights, "1,0,0")
	snap := cfg.Snapshot()
	cfg.Set(ConfigPlies, 3)
	cfg.Set(ConfigSeed, 9)

	is.Equal(snap.GetInt(ConfigPlies), 1)
	is.Equal(snap.GetString(ConfigWeights), "1,0,0")
	is.Equal(snap.GetUint64(ConfigSeed), uint64(0))
	is.Equal(snap.GetInt(ConfigGames), DefaultGames)

	snap.Set(ConfigGames, 4)
	is.Equal(cfg.GetInt(ConfigGames), DefaultGames)
}
