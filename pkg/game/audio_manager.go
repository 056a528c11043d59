package game

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/audio"

	synth "github.com/dinoadopta/dinoflap/internal/audio"
)

// AudioSampleRate 音频上下文采样率
const AudioSampleRate = 44100

// AudioManager 音频管理器
// 职责：
//   - 播放合成的小游戏提示音（扑翼、拾取、奖励、撞击）
//   - 实现音量控制（从 SettingsManager 读取设置）
//
// context 为 nil 时所有播放调用都是 no-op（无音频设备或测试环境）。
type AudioManager struct {
	context         *audio.Context
	settingsManager *SettingsManager     // 可为 nil，此时使用默认音量
	cues            map[synth.Cue][]byte // 预生成的 PCM
	playing         []*audio.Player      // 仍在播放的播放器，播完后回收
}

// NewAudioManager 创建新的音频管理器并预生成全部提示音
//
// 参数：
//   - ctx: Ebitengine 音频上下文，可为 nil
//   - sm: SettingsManager 实例（用于读取音量设置，可为 nil）
func NewAudioManager(ctx *audio.Context, sm *SettingsManager) *AudioManager {
	am := &AudioManager{
		context:         ctx,
		settingsManager: sm,
		cues:            make(map[synth.Cue][]byte, len(synth.AllCues)),
	}
	for _, cue := range synth.AllCues {
		am.cues[cue] = synth.Synthesize(cue, AudioSampleRate).PCM16Stereo()
	}
	return am
}

// PlayCue 播放提示音
//
// 返回：
//   - bool: 是否成功播放（音效关闭或没有音频上下文时返回 false）
func (am *AudioManager) PlayCue(cue synth.Cue) bool {
	if am.context == nil {
		return false
	}

	volume := am.getSoundVolume()
	if volume <= 0 {
		return false
	}

	pcm, ok := am.cues[cue]
	if !ok {
		log.Printf("[AudioManager] Warning: unknown cue %v", cue)
		return false
	}

	am.reapFinished()

	player := am.context.NewPlayerFromBytes(pcm)
	player.SetVolume(volume)
	player.Play()
	am.playing = append(am.playing, player)
	return true
}

// ActivePlayers 返回仍在播放的播放器数量
func (am *AudioManager) ActivePlayers() int {
	am.reapFinished()
	return len(am.playing)
}

// reapFinished 关闭已经播放完的播放器
func (am *AudioManager) reapFinished() {
	active := am.playing[:0]
	for _, p := range am.playing {
		if p.IsPlaying() {
			active = append(active, p)
			continue
		}
		if err := p.Close(); err != nil {
			log.Printf("[AudioManager] Warning: Failed to close player: %v", err)
		}
	}
	am.playing = active
}

// getSoundVolume 读取有效音效音量，关闭音效时为 0
func (am *AudioManager) getSoundVolume() float64 {
	if am.settingsManager == nil {
		return DefaultSettings().EffectiveVolume()
	}
	return am.settingsManager.GetSettings().EffectiveVolume()
}
