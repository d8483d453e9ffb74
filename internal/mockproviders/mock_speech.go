package mockproviders

import (
	"context"
	"fmt"

	"interviewengine/internal/domain"
)

// MockTranscriber returns a placeholder transcript and deterministic
// voice metrics derived from audio size, grounded on the source
// system's mock STT adapter (word count estimated from byte size).
type MockTranscriber struct{}

// NewMockTranscriber builds a MockTranscriber.
func NewMockTranscriber() *MockTranscriber { return &MockTranscriber{} }

func (m *MockTranscriber) Transcribe(ctx context.Context, audio []byte, language string) (string, domain.VoiceMetrics, float64, error) {
	size := len(audio)
	wordCount := size / 1000
	if wordCount < 10 {
		wordCount = 10
	}
	durationSeconds := float64(size) / (16000 * 2)

	metrics := domain.VoiceMetrics{
		Intonation:      0.7,
		Fluency:         0.75,
		Confidence:      0.8,
		SpeakingRateWPM: 150,
	}
	metrics.OverallScore = (metrics.Intonation + metrics.Fluency + metrics.Confidence) / 3 * 100

	text := fmt.Sprintf("mock transcription with approximately %d words", wordCount)
	return text, metrics, durationSeconds, nil
}

// MockSynthesizer returns a minimal valid silent WAV file, grounded on
// the source system's mock TTS adapter.
type MockSynthesizer struct{}

// NewMockSynthesizer builds a MockSynthesizer.
func NewMockSynthesizer() *MockSynthesizer { return &MockSynthesizer{} }

func (m *MockSynthesizer) Synthesize(ctx context.Context, text string, voice string, speed float64) ([]byte, error) {
	return silentWAV(len(text)), nil
}

// silentWAV builds a minimal valid 16kHz mono 16-bit PCM WAV of silence,
// sized roughly proportional to text length.
func silentWAV(textLen int) []byte {
	numSamples := 8000 + textLen*50
	dataSize := numSamples * 2

	buf := make([]byte, 44+dataSize)
	copy(buf[0:4], "RIFF")
	putU32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	putU32(buf[16:20], 16)
	putU16(buf[20:22], 1)
	putU16(buf[22:24], 1)
	putU32(buf[24:28], 16000)
	putU32(buf[28:32], 32000)
	putU16(buf[32:34], 2)
	putU16(buf[34:36], 16)
	copy(buf[36:40], "data")
	putU32(buf[40:44], uint32(dataSize))
	return buf
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func putU16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}
