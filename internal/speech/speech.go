// Package speech provides HTTP-backed SpeechToText and TextToSpeech
// adapters. Both follow the same timeout-bound http.Client + JSON
// request/decode idiom as internal/embedding.HTTPEmbedder; voice metric
// field names follow the source system's Azure speech adapter.
package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"interviewengine/internal/domain"
)

// HTTPTranscriber implements ports.SpeechToText over HTTP.
type HTTPTranscriber struct {
	apiURL string
	client *http.Client
}

// NewHTTPTranscriber builds a transcriber bound to a transcription endpoint.
func NewHTTPTranscriber(apiURL string) *HTTPTranscriber {
	return &HTTPTranscriber{
		apiURL: apiURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type transcribeResponse struct {
	Text            string  `json:"text"`
	DurationSeconds float64 `json:"duration_seconds"`
	VoiceMetrics    struct {
		Intonation      float64 `json:"intonation"`
		Fluency         float64 `json:"fluency"`
		Confidence      float64 `json:"confidence"`
		SpeakingRateWPM float64 `json:"speaking_rate_wpm"`
	} `json:"voice_metrics"`
}

// Transcribe sends audio bytes and language to the STT endpoint and
// returns the transcript, voice metrics, and clip duration.
func (t *HTTPTranscriber) Transcribe(ctx context.Context, audio []byte, language string) (string, domain.VoiceMetrics, float64, error) {
	reqBody := map[string]interface{}{
		"audio_base64": base64.StdEncoding.EncodeToString(audio),
		"language":     language,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", domain.VoiceMetrics{}, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", domain.VoiceMetrics{}, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", domain.VoiceMetrics{}, 0, fmt.Errorf("%w: %v", domain.ErrExternalProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", domain.VoiceMetrics{}, 0, fmt.Errorf("%w: STT returned status %d: %s", domain.ErrExternalProvider, resp.StatusCode, string(body))
	}

	var result transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", domain.VoiceMetrics{}, 0, fmt.Errorf("%w: decode response: %v", domain.ErrExternalProvider, err)
	}

	metrics := domain.VoiceMetrics{
		Intonation:      result.VoiceMetrics.Intonation,
		Fluency:         result.VoiceMetrics.Fluency,
		Confidence:      result.VoiceMetrics.Confidence,
		SpeakingRateWPM: result.VoiceMetrics.SpeakingRateWPM,
	}
	metrics.OverallScore = (metrics.Intonation + metrics.Fluency + metrics.Confidence) / 3 * 100

	return result.Text, metrics, result.DurationSeconds, nil
}

// HTTPSynthesizer implements ports.TextToSpeech over HTTP. Output is WAV,
// 16 kHz mono, 16-bit PCM by convention; bytes are treated as opaque.
type HTTPSynthesizer struct {
	apiURL string
	client *http.Client
}

// NewHTTPSynthesizer builds a synthesizer bound to a TTS endpoint.
func NewHTTPSynthesizer(apiURL string) *HTTPSynthesizer {
	return &HTTPSynthesizer{
		apiURL: apiURL,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Synthesize converts text to opaque audio bytes.
func (t *HTTPSynthesizer) Synthesize(ctx context.Context, text string, voice string, speed float64) ([]byte, error) {
	reqBody := map[string]interface{}{
		"text":  text,
		"voice": voice,
		"speed": speed,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrExternalProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: TTS returned status %d: %s", domain.ErrExternalProvider, resp.StatusCode, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio body: %w", err)
	}
	return audio, nil
}
