package game

import (
	"errors"
	"testing"
)

// TestDefaultSettings 测试 DefaultSettings() 返回正确的默认值
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings.SoundVolume != 0.8 {
		t.Errorf("SoundVolume: got %v, want 0.8", settings.SoundVolume)
	}
	if !settings.SoundEnabled {
		t.Error("SoundEnabled: got false, want true")
	}
	if settings.Fullscreen {
		t.Error("Fullscreen: got true, want false")
	}
	if settings.PlayerID != DefaultPlayerID || settings.APIURL != "" {
		t.Errorf("account defaults: got %q %q", settings.PlayerID, settings.APIURL)
	}
}

// TestNewSettingsManagerNilGdata 测试 gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm, err := NewSettingsManager(nil)
	if err != nil {
		t.Fatalf("NewSettingsManager(nil) error: %v", err)
	}
	if sm.GetSettings().SoundVolume != 0.8 {
		t.Errorf("Degraded mode SoundVolume: got %v, want 0.8", sm.GetSettings().SoundVolume)
	}
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode should return nil, got: %v", err)
	}

	sm.SetSoundVolume(0.3)
	if err := sm.Load(); err != nil {
		t.Errorf("Load() in degraded mode should return nil, got: %v", err)
	}
	if sm.GetSettings().SoundVolume != 0.8 {
		t.Errorf("After Load() in degraded mode, SoundVolume: got %v, want 0.8", sm.GetSettings().SoundVolume)
	}
}

// TestSettingsLoadSave 测试 Load() 和 Save() 功能
func TestSettingsLoadSave(t *testing.T) {
	gdataManager := newTestGdata(t, "test_settings_load_save")

	sm1, _ := NewSettingsManager(gdataManager)
	sm1.SetSoundVolume(0.6)
	sm1.SetSoundEnabled(false)
	sm1.SetFullscreen(true)
	if err := sm1.SetPlayerID("rex"); err != nil {
		t.Fatal(err)
	}
	sm1.SetAPIURL("http://localhost:8080")

	if err := sm1.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	sm2, _ := NewSettingsManager(gdataManager)
	settings := sm2.GetSettings()

	if settings.SoundVolume != 0.6 {
		t.Errorf("Loaded SoundVolume: got %v, want 0.6", settings.SoundVolume)
	}
	if settings.SoundEnabled {
		t.Error("Loaded SoundEnabled: got true, want false")
	}
	if !settings.Fullscreen {
		t.Error("Loaded Fullscreen: got false, want true")
	}
	if settings.PlayerID != "rex" || settings.APIURL != "http://localhost:8080" {
		t.Errorf("Loaded account: got %q %q", settings.PlayerID, settings.APIURL)
	}
}

// TestSettingsLoadFillsMissingFields 旧文件缺少的字段使用默认值，非法玩家ID回退
func TestSettingsLoadFillsMissingFields(t *testing.T) {
	gdataManager := newTestGdata(t, "test_settings_partial")
	if err := gdataManager.SaveObjectProp(settingsObject, settingsProperty, []byte("fullscreen: true\nplayerId: \"bad id\"\n")); err != nil {
		t.Fatal(err)
	}

	sm, _ := NewSettingsManager(gdataManager)
	settings := sm.GetSettings()
	if !settings.Fullscreen {
		t.Error("Fullscreen not loaded")
	}
	if settings.SoundVolume != 0.8 || !settings.SoundEnabled {
		t.Errorf("missing fields not defaulted: %+v", settings)
	}
	if settings.PlayerID != DefaultPlayerID {
		t.Errorf("PlayerID = %q, want %q", settings.PlayerID, DefaultPlayerID)
	}
}

// TestSettingsLoadCorrupted 文件损坏时返回错误并使用默认设置
func TestSettingsLoadCorrupted(t *testing.T) {
	gdataManager := newTestGdata(t, "test_settings_corrupted")
	if err := gdataManager.SaveObjectProp(settingsObject, settingsProperty, []byte("soundVolume: [not a number")); err != nil {
		t.Fatal(err)
	}

	sm, _ := NewSettingsManager(gdataManager)
	if err := sm.Load(); err == nil {
		t.Error("Load() should report corrupted settings")
	}
	if sm.GetSettings().SoundVolume != 0.8 {
		t.Errorf("SoundVolume after corrupted load: got %v", sm.GetSettings().SoundVolume)
	}
}

// TestSetSoundVolumeClamp 测试 SetSoundVolume 范围校验
func TestSetSoundVolumeClamp(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	tests := []struct {
		input    float64
		expected float64
	}{
		{0.5, 0.5},
		{0.0, 0.0},
		{1.0, 1.0},
		{-0.5, 0.0},
		{1.5, 1.0},
		{-100, 0.0},
		{100, 1.0},
	}

	for _, tt := range tests {
		sm.SetSoundVolume(tt.input)
		if sm.GetSettings().SoundVolume != tt.expected {
			t.Errorf("SetSoundVolume(%v): got %v, want %v",
				tt.input, sm.GetSettings().SoundVolume, tt.expected)
		}
	}
}

func TestSetPlayerID(t *testing.T) {
	sm, _ := NewSettingsManager(nil)

	if err := sm.SetPlayerID("trike_7"); err != nil {
		t.Fatal(err)
	}
	if err := sm.SetPlayerID("no spaces"); !errors.Is(err, ErrInvalidUserID) {
		t.Errorf("SetPlayerID error = %v, want ErrInvalidUserID", err)
	}
	if sm.GetSettings().PlayerID != "trike_7" {
		t.Errorf("PlayerID changed by invalid input: %q", sm.GetSettings().PlayerID)
	}
}

func TestEffectiveVolume(t *testing.T) {
	s := DefaultSettings()
	s.SoundVolume = 0.5
	if v := s.EffectiveVolume(); v != 0.5 {
		t.Errorf("EffectiveVolume = %v, want 0.5", v)
	}
	s.SoundEnabled = false
	if v := s.EffectiveVolume(); v != 0 {
		t.Errorf("EffectiveVolume muted = %v, want 0", v)
	}
}
