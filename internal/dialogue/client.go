package dialogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vivavoce-ai/vivavoce/internal/pcm"
)

const (
	writeWait         = 10 * time.Second
	defaultSendBuffer = 256
)

var errNotConnected = errors.New("dialogue: not connected")

// Client is a realtime audio dialogue connection. Outbound chunks are
// buffered until the remote side acknowledges setup; inbound events arrive
// on the Callbacks in receipt order. The client never reconnects: a closed
// or failed connection is terminal.
type Client struct {
	cfg Config
	cb  Callbacks
	log *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	conn *websocket.Conn

	send chan mediaChunk

	closing     atomic.Bool
	connectOnce sync.Once
	openOnce    sync.Once
	errorOnce   sync.Once
	closeOnce   sync.Once
	wg          sync.WaitGroup
}

func New(cfg Config, cb Callbacks) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("dialogue: endpoint is required")
	}
	if cfg.Model == "" {
		return nil, errors.New("dialogue: model is required")
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = defaultSendBuffer
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		cfg:    cfg,
		cb:     cb,
		log:    cfg.Log,
		ctx:    ctx,
		cancel: cancel,
		send:   make(chan mediaChunk, cfg.SendBuffer),
	}, nil
}

// Connect dials the dialogue service in the background. Success surfaces
// through OnOpen once setup completes; failure through OnError.
func (c *Client) Connect(ctx context.Context) {
	c.connectOnce.Do(func() {
		c.wg.Add(1)
		go c.connectAndRead(ctx)
	})
}

// SendAudio queues an encoded audio chunk for delivery. Safe to call before
// the connection opens; chunks accumulate until setup completes. Never
// blocks: when the buffer is full the chunk is dropped with a warning.
func (c *Client) SendAudio(data []byte, mimeType string) error {
	chunk := mediaChunk{MimeType: mimeType, Data: pcm.BytesToText(data)}
	select {
	case c.send <- chunk:
	default:
		c.log.Warn("send buffer full, dropping audio chunk", "bytes", len(data))
	}
	return nil
}

// Close tears the connection down without firing callbacks. Idempotent and
// safe if the connection never opened.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closing.Store(true)
		c.cancel()

		c.mu.Lock()
		conn := c.conn
		c.conn = nil
		c.mu.Unlock()
		if conn != nil {
			conn.Close()
		}
	})
	return nil
}

func (c *Client) connectAndRead(ctx context.Context) {
	defer c.wg.Done()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.Endpoint, nil)
	if err != nil {
		c.reportError(fmt.Sprintf("failed to connect to dialogue service: %v", err))
		return
	}

	c.mu.Lock()
	if c.closing.Load() {
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.mu.Unlock()

	if err := c.writeJSON(c.setupMessage()); err != nil {
		c.reportError(fmt.Sprintf("failed to send session setup: %v", err))
		conn.Close()
		return
	}

	c.readLoop(conn)
}

func (c *Client) setupMessage() setupMessage {
	msg := setupMessage{
		Setup: setupPayload{
			Model: c.cfg.Model,
			GenerationConfig: &generationConfig{
				ResponseModalities: []string{"AUDIO"},
			},
		},
	}
	if c.cfg.Voice != "" {
		msg.Setup.GenerationConfig.SpeechConfig = &speechConfig{
			VoiceConfig: &voiceConfig{
				PrebuiltVoiceConfig: &prebuiltVoiceConfig{VoiceName: c.cfg.Voice},
			},
		}
	}
	if c.cfg.Instructions != "" {
		msg.Setup.SystemInstruction = &content{Parts: []part{{Text: c.cfg.Instructions}}}
	}
	return msg
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.handleReadError(err)
			return
		}
		c.dispatch(data)
	}
}

func (c *Client) handleReadError(err error) {
	if c.closing.Load() {
		return
	}
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		c.log.Info("dialogue session closed by server")
		if c.cb.OnClosed != nil {
			c.cb.OnClosed()
		}
		return
	}
	c.reportError(fmt.Sprintf("dialogue connection failed: %v", err))
}

// dispatch runs on the read goroutine so audio deltas reach OnAudio in
// receipt order.
func (c *Client) dispatch(data []byte) {
	var msg serverMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.log.Warn("skipping unparseable server message", "error", err)
		return
	}

	switch {
	case msg.SetupComplete != nil:
		c.openOnce.Do(func() {
			c.log.Info("dialogue session opened", "model", c.cfg.Model)
			c.wg.Add(1)
			go c.writeLoop()
			if c.cb.OnOpen != nil {
				c.cb.OnOpen()
			}
		})
	case msg.ServerContent != nil:
		c.handleContent(msg.ServerContent)
	}
}

func (c *Client) handleContent(sc *serverContent) {
	if sc.Interrupted {
		if c.cb.OnInterrupted != nil {
			c.cb.OnInterrupted()
		}
		return
	}
	if sc.TurnComplete {
		c.log.Debug("model turn complete")
	}
	if sc.ModelTurn == nil {
		return
	}
	for _, p := range sc.ModelTurn.Parts {
		if p.InlineData == nil || p.InlineData.Data == "" {
			continue
		}
		chunk, err := pcm.TextToBytes(p.InlineData.Data)
		if err != nil {
			c.log.Warn("skipping malformed audio chunk", "error", err)
			continue
		}
		if c.cb.OnAudio != nil {
			c.cb.OnAudio(chunk, p.InlineData.MimeType)
		}
	}
}

func (c *Client) writeLoop() {
	defer c.wg.Done()
	for {
		select {
		case <-c.ctx.Done():
			return
		case chunk := <-c.send:
			msg := realtimeInputMessage{RealtimeInput: realtimeInput{MediaChunks: []mediaChunk{chunk}}}
			if err := c.writeJSON(msg); err != nil {
				if !c.closing.Load() {
					c.log.Warn("failed to send audio chunk", "error", err)
				}
				return
			}
		}
	}
}

func (c *Client) writeJSON(v any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return errNotConnected
	}

	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (c *Client) reportError(message string) {
	if c.closing.Load() {
		return
	}
	c.errorOnce.Do(func() {
		c.log.Error("dialogue session failed", "error", message)
		if c.cb.OnError != nil {
			c.cb.OnError(message)
		}
	})
}
