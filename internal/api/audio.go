package api

import (
	"encoding/base64"
	"log"
)

// decodeAudio best-effort decodes a base64 audio chunk from the wire.
// A decode failure yields no audio rather than aborting the connection:
// the chunk is still dispatched, and the orchestrator ignores it unless it
// is marked final, in which case the empty audio is transcribed as is.
func decodeAudio(b64 string) []byte {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		log.Printf("[API] invalid base64 audio chunk: %v", err)
		return nil
	}
	return raw
}
