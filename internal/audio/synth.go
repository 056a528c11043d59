// Package audio 合成小游戏音效
//
// 没有音频资源文件，所有提示音都由振荡器 + 包络即时生成。
// 生成结果是单声道 float64 采样（-1 ~ 1），由调用方转换为
// Ebitengine 的 16 位 PCM 或 beep 的 Streamer。
package audio

import (
	"encoding/binary"
	"math"
	"time"
)

// Cue 提示音类型
type Cue int

const (
	// CueJump 扑翼
	CueJump Cue = iota
	// CuePickup 拾取奖励物
	CuePickup
	// CueReward 获得 DinoPoints
	CueReward
	// CueCrash 撞击，本局结束
	CueCrash
)

// AllCues 全部提示音，用于预生成
var AllCues = []Cue{CueJump, CuePickup, CueReward, CueCrash}

// String 返回提示音名称
func (c Cue) String() string {
	switch c {
	case CueJump:
		return "jump"
	case CuePickup:
		return "pickup"
	case CueReward:
		return "reward"
	case CueCrash:
		return "crash"
	default:
		return "unknown"
	}
}

// 波形
const (
	waveSine = iota
	waveSquare
	waveSaw
	waveNoise
)

// Samples 单声道采样，幅度 -1 ~ 1
type Samples []float64

// Synthesize 生成提示音
//
// 参数:
//   - cue: 提示音类型
//   - sampleRate: 采样率（Hz）
//
// 返回:
//   - Samples: 单声道采样；未知类型返回 nil
func Synthesize(cue Cue, sampleRate int) Samples {
	switch cue {
	case CueJump:
		// 上扬的短促方波
		buf := sweep(waveSquare, 420, 760, samplesFor(sampleRate, 70*time.Millisecond), sampleRate)
		envelope(buf, sampleRate, 5*time.Millisecond, 40*time.Millisecond)
		scale(buf, 0.35)
		return buf
	case CuePickup:
		buf := oscillator(waveSine, 1318.51, samplesFor(sampleRate, 90*time.Millisecond), sampleRate)
		envelope(buf, sampleRate, 2*time.Millisecond, 60*time.Millisecond)
		scale(buf, 0.5)
		return buf
	case CueReward:
		// 两个音符 B5 -> E6
		n1 := oscillator(waveSquare, 987.77, samplesFor(sampleRate, 80*time.Millisecond), sampleRate)
		envelope(n1, sampleRate, 2*time.Millisecond, 20*time.Millisecond)
		n2 := oscillator(waveSquare, 1318.51, samplesFor(sampleRate, 220*time.Millisecond), sampleRate)
		envelope(n2, sampleRate, 2*time.Millisecond, 180*time.Millisecond)
		buf := append(n1, n2...)
		scale(buf, 0.3)
		return buf
	case CueCrash:
		n := samplesFor(sampleRate, 350*time.Millisecond)
		noise := oscillator(waveNoise, 0, n, sampleRate)
		low := oscillator(waveSaw, 90, n, sampleRate)
		for i := range noise {
			noise[i] = 0.6*noise[i] + 0.4*low[i]
		}
		envelope(noise, sampleRate, 3*time.Millisecond, 300*time.Millisecond)
		scale(noise, 0.5)
		return noise
	default:
		return nil
	}
}

// PCM16Stereo 转换为 16 位有符号小端立体声（Ebitengine audio 的格式）
func (s Samples) PCM16Stereo() []byte {
	out := make([]byte, len(s)*4)
	for i, v := range s {
		sample := uint16(toInt16(v))
		binary.LittleEndian.PutUint16(out[i*4:], sample)
		binary.LittleEndian.PutUint16(out[i*4+2:], sample)
	}
	return out
}

// Duration 返回在指定采样率下的时长
func (s Samples) Duration(sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	return time.Duration(len(s)) * time.Second / time.Duration(sampleRate)
}

func toInt16(v float64) int16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	return int16(v * math.MaxInt16)
}

func samplesFor(sampleRate int, d time.Duration) int {
	return int(d.Seconds() * float64(sampleRate))
}

// noiseState 线性同余噪声，保证同一提示音每次生成结果一致
type noiseState uint32

func (n *noiseState) next() float64 {
	*n = *n*1664525 + 1013904223
	return float64(*n)/float64(math.MaxUint32)*2 - 1
}

func oscillator(wave int, freq float64, n, sampleRate int) Samples {
	return sweep(wave, freq, freq, n, sampleRate)
}

// sweep 频率从 from 线性滑到 to
func sweep(wave int, from, to float64, n, sampleRate int) Samples {
	buf := make(Samples, n)
	phase := 0.0
	noise := noiseState(1)

	for i := 0; i < n; i++ {
		switch wave {
		case waveSine:
			buf[i] = math.Sin(2 * math.Pi * phase)
		case waveSquare:
			if phase < 0.5 {
				buf[i] = 1
			} else {
				buf[i] = -1
			}
		case waveSaw:
			buf[i] = 2 * (phase - 0.5)
		case waveNoise:
			buf[i] = noise.next()
		}

		freq := from
		if n > 1 {
			freq = from + (to-from)*float64(i)/float64(n-1)
		}
		phase += freq / float64(sampleRate)
		if phase >= 1 {
			phase -= math.Floor(phase)
		}
	}
	return buf
}

// envelope 线性 attack/release 包络
func envelope(buf Samples, sampleRate int, attack, release time.Duration) {
	total := len(buf)
	attackN := samplesFor(sampleRate, attack)
	releaseN := samplesFor(sampleRate, release)

	releaseStart := total - releaseN
	if releaseStart < attackN {
		releaseStart = attackN
	}

	for i := 0; i < total; i++ {
		vol := 1.0
		if i < attackN && attackN > 0 {
			vol = float64(i) / float64(attackN)
		} else if i >= releaseStart && releaseN > 0 {
			vol = float64(total-i) / float64(releaseN)
		}
		buf[i] *= vol
	}
}

func scale(buf Samples, gain float64) {
	for i := range buf {
		buf[i] *= gain
	}
}
