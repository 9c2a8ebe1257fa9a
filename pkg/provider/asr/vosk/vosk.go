// Package vosk implements asr.Transcriber against a vosk-server websocket
// endpoint.
//
// The protocol is one JSON configuration message, binary PCM chunks, an
// `{"eof" : 1}` terminator, and JSON results per chunk with the final result
// arriving after the terminator.
package vosk

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/coder/websocket"

	"github.com/xhyrom/jim/pkg/audio"
	"github.com/xhyrom/jim/pkg/provider/asr"
)

// chunkBytes is how much PCM is sent per websocket message (0.5 s at
// 16 kHz int16).
const chunkBytes = 16000

// Transcriber is a vosk-server-backed asr.Transcriber. Each Transcribe call
// opens its own websocket connection, so the Transcriber itself is stateless
// and safe for concurrent use.
type Transcriber struct {
	url string
}

// New creates a Transcriber for the vosk-server at url
// (e.g. "ws://localhost:2700").
func New(url string) (*Transcriber, error) {
	if url == "" {
		return nil, fmt.Errorf("vosk: url must not be empty")
	}
	return &Transcriber{url: url}, nil
}

// result is the subset of a vosk-server response we consume. Partial results
// carry "partial"; committed results carry "text".
type result struct {
	Text    string `json:"text"`
	Partial string `json:"partial"`
}

// Transcribe implements asr.Transcriber.
func (t *Transcriber) Transcribe(ctx context.Context, pcm []int16) (string, error) {
	conn, _, err := websocket.Dial(ctx, t.url, nil)
	if err != nil {
		return "", fmt.Errorf("vosk: dial %q: %w", t.url, err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	cfg := fmt.Sprintf(`{"config": {"sample_rate": %d}}`, asr.SampleRate)
	if err := conn.Write(ctx, websocket.MessageText, []byte(cfg)); err != nil {
		return "", fmt.Errorf("vosk: send config: %w", err)
	}

	raw := audio.Int16ToBytes(pcm)
	var parts []string

	readResult := func() (string, error) {
		_, msg, err := conn.Read(ctx)
		if err != nil {
			return "", fmt.Errorf("vosk: read result: %w", err)
		}
		var res result
		if err := json.Unmarshal(msg, &res); err != nil {
			return "", fmt.Errorf("vosk: decode result: %w", err)
		}
		return res.Text, nil
	}

	for off := 0; off < len(raw); off += chunkBytes {
		end := min(off+chunkBytes, len(raw))
		if err := conn.Write(ctx, websocket.MessageBinary, raw[off:end]); err != nil {
			return "", fmt.Errorf("vosk: send audio: %w", err)
		}
		// Each chunk is answered with a partial or committed result.
		text, err := readResult()
		if err != nil {
			return "", err
		}
		if text != "" {
			parts = append(parts, text)
		}
	}

	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"eof" : 1}`)); err != nil {
		return "", fmt.Errorf("vosk: send eof: %w", err)
	}
	text, err := readResult()
	if err != nil {
		return "", err
	}
	if text != "" {
		parts = append(parts, text)
	}

	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

var _ asr.Transcriber = (*Transcriber)(nil)
