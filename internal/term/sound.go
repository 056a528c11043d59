package term

import (
	"log"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	synth "github.com/dinoadopta/dinoflap/internal/audio"
)

// SoundSampleRate 终端音效采样率
const SoundSampleRate = beep.SampleRate(44100)

// SoundBoard 终端模式的提示音播放
//
// 初始化失败（没有音频设备）时静默降级，Play 变为 no-op。
type SoundBoard struct {
	enabled bool
	volume  float64
	cues    map[synth.Cue]synth.Samples
}

// NewSoundBoard 初始化扬声器并预生成提示音
//
// 参数:
//   - volume: 0 表示静音，此时不初始化扬声器
func NewSoundBoard(volume float64) *SoundBoard {
	sb := &SoundBoard{volume: volume, cues: make(map[synth.Cue]synth.Samples)}
	if volume <= 0 {
		return sb
	}

	for _, cue := range synth.AllCues {
		sb.cues[cue] = synth.Synthesize(cue, int(SoundSampleRate))
	}

	if err := speaker.Init(SoundSampleRate, SoundSampleRate.N(time.Second/10)); err != nil {
		log.Printf("[Term] Audio initialization failed: %v", err)
		return sb
	}
	sb.enabled = true
	return sb
}

// Play 播放提示音
func (sb *SoundBoard) Play(cue synth.Cue) {
	if sb == nil || !sb.enabled {
		return
	}
	samples, ok := sb.cues[cue]
	if !ok {
		return
	}
	speaker.Play(newCueStreamer(samples, sb.volume))
}

// Close 关闭扬声器
func (sb *SoundBoard) Close() {
	if sb == nil || !sb.enabled {
		return
	}
	sb.enabled = false
	speaker.Close()
}

// cueStreamer 把单声道采样作为 beep.Streamer 输出到双声道
type cueStreamer struct {
	samples synth.Samples
	gain    float64
	pos     int
}

var _ beep.Streamer = (*cueStreamer)(nil)

func newCueStreamer(samples synth.Samples, gain float64) *cueStreamer {
	return &cueStreamer{samples: samples, gain: gain}
}

// Stream 实现 beep.Streamer
func (c *cueStreamer) Stream(out [][2]float64) (int, bool) {
	if c.pos >= len(c.samples) {
		return 0, false
	}
	n := copy2(out, c.samples[c.pos:], c.gain)
	c.pos += n
	return n, true
}

// Err 实现 beep.Streamer
func (c *cueStreamer) Err() error { return nil }

func copy2(out [][2]float64, in synth.Samples, gain float64) int {
	n := len(out)
	if len(in) < n {
		n = len(in)
	}
	for i := 0; i < n; i++ {
		v := in[i] * gain
		out[i][0] = v
		out[i][1] = v
	}
	return n
}

