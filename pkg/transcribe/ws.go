package transcribe

import (
	"context"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

// WSRecognizer streams recognition results from a websocket speech endpoint.
// Each frame is a JSON object {"text": ..., "final": ...}; the results
// channel closes when the stream errors or ends. One recognizer serves one
// recording; the session creates a fresh one per Start.
type WSRecognizer struct {
	url     string
	results chan Result

	mu   sync.Mutex
	conn *websocket.Conn
}

func NewWSRecognizer(url string) *WSRecognizer {
	return &WSRecognizer{url: url, results: make(chan Result, 32)}
}

func (r *WSRecognizer) Start(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, r.url, nil)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.conn = conn
	r.mu.Unlock()

	go func() {
		defer close(r.results)
		for {
			var frame struct {
				Text  string `json:"text"`
				Final bool   `json:"final"`
			}
			if err := conn.ReadJSON(&frame); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("[Transcribe] stream ended: %v", err)
				}
				return
			}
			r.results <- Result{Text: frame.Text, Final: frame.Final}
		}
	}()
	return nil
}

func (r *WSRecognizer) Stop() {
	r.mu.Lock()
	conn := r.conn
	r.conn = nil
	r.mu.Unlock()
	if conn != nil {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}
}

func (r *WSRecognizer) Results() <-chan Result {
	return r.results
}

var _ Recognizer = (*WSRecognizer)(nil)
