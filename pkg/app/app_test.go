package app

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/dinoadopta/dinoflap/pkg/embedded"
)

func TestLoadMinigameConfig_Defaults(t *testing.T) {
	embedded.Init(nil)

	cfg, err := LoadMinigameConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WorldWidth != 480 || cfg.WorldHeight != 640 {
		t.Errorf("world = %vx%v, want 480x640", cfg.WorldWidth, cfg.WorldHeight)
	}
}

func TestLoadMinigameConfig_Embedded(t *testing.T) {
	embedded.Init(fstest.MapFS{
		"data/minigame.yaml": {Data: []byte("worldWidth: 360\nworldHeight: 600\n")},
	})
	t.Cleanup(func() { embedded.Init(nil) })

	cfg, err := LoadMinigameConfig("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WorldWidth != 360 || cfg.WorldHeight != 600 {
		t.Errorf("world = %vx%v, want 360x600", cfg.WorldWidth, cfg.WorldHeight)
	}
}

func TestLoadMinigameConfig_FileOverridesEmbedded(t *testing.T) {
	embedded.Init(fstest.MapFS{
		"data/minigame.yaml": {Data: []byte("worldWidth: 360\n")},
	})
	t.Cleanup(func() { embedded.Init(nil) })

	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("rewardAmount: 50\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadMinigameConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RewardAmount != 50 || cfg.WorldWidth != 480 {
		t.Errorf("cfg = reward %d, width %v", cfg.RewardAmount, cfg.WorldWidth)
	}
}

func TestLoadMinigameConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("rewardInterval: 0\n"), 0o644)

	if _, err := LoadMinigameConfig(path); err == nil {
		t.Error("invalid config accepted")
	}
}
