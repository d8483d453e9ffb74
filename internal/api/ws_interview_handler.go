// Package api is the thin gin + gorilla/websocket transport adapter over
// the interview core. It carries no business logic: every message it
// receives is translated to an orchestrator.Inbound and dispatched, and
// every orchestrator.Outbound it receives is translated to wire JSON.
// Grounded on the teacher's internal/api/ws_chat_handler.go (the
// safeWSConn mutex-guarded writer and the JWT-then-upgrade sequencing).
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"interviewengine/internal/cache"
	"interviewengine/internal/orchestrator"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// safeWSConn serializes writes across the outbound-forwarding goroutine
// and any error writes from the read loop.
type safeWSConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *safeWSConn) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *safeWSConn) ReadMessage() (int, []byte, error) {
	return s.conn.ReadMessage()
}

func (s *safeWSConn) Close() error {
	return s.conn.Close()
}

// wireInbound is the JSON envelope a candidate client sends over the
// socket; it maps 1:1 onto orchestrator.Inbound.
type wireInbound struct {
	Type       orchestrator.InboundType `json:"type"`
	QuestionID string                   `json:"question_id,omitempty"`
	AnswerText string                   `json:"answer_text,omitempty"`
	AudioBase64 string                  `json:"audio_base64,omitempty"`
	Final      bool                     `json:"final,omitempty"`
}

// WSInterviewHandler upgrades an authenticated request to a WebSocket and
// pumps orchestrator traffic for one interview for the lifetime of the
// connection. It expects the interview id as the ":id" route param and
// candidateId to already be set in the gin context by auth.Middleware.
func WSInterviewHandler(orch *orchestrator.Orchestrator, c2 *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		interviewID := c.Param("id")
		if interviewID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing interview id"})
			return
		}

		rawConn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[API] websocket upgrade failed: %v", err)
			return
		}
		conn := &safeWSConn{conn: rawConn}
		defer conn.Close()

		ctx := c.Request.Context()
		outbox, err := orch.StartSession(ctx, interviewID)
		if err != nil {
			conn.WriteJSON(map[string]string{"error": err.Error()})
			return
		}
		if c2 != nil {
			_ = c2.MarkSessionLive(ctx, interviewID)
			defer c2.MarkSessionEnded(ctx, interviewID)
		}

		done := make(chan struct{})
		go pumpOutbound(conn, outbox, done)
		pumpInbound(conn, orch, interviewID)
		<-done
	}
}

func pumpOutbound(conn *safeWSConn, outbox <-chan orchestrator.Outbound, done chan<- struct{}) {
	defer close(done)
	for msg := range outbox {
		if err := conn.WriteJSON(msg); err != nil {
			log.Printf("[API] outbound write failed, closing connection: %v", err)
			conn.Close()
			return
		}
	}
}

func pumpInbound(conn *safeWSConn, orch *orchestrator.Orchestrator, interviewID string) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			orch.Cancel(interviewID)
			return
		}
		var wire wireInbound
		if err := json.Unmarshal(raw, &wire); err != nil {
			conn.WriteJSON(map[string]string{"error": "invalid JSON"})
			continue
		}
		inbound := orchestrator.Inbound{
			Type:       wire.Type,
			QuestionID: wire.QuestionID,
			AnswerText: wire.AnswerText,
			Final:      wire.Final,
		}
		if wire.AudioBase64 != "" {
			inbound.AudioBytes = decodeAudio(wire.AudioBase64)
		}
		if err := orch.Dispatch(interviewID, inbound); err != nil {
			conn.WriteJSON(map[string]string{"error": err.Error()})
		}
	}
}
