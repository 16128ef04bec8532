// fakedialogue is a local stand-in for the Gemini Live endpoint. It accepts
// the BidiGenerateContent setup handshake, then answers every batch of audio
// chunks with a short tone so the station's full audio loop can be exercised
// without credentials:
//
//	go run . &
//	DIALOGUE_ENDPOINT=ws://localhost:8090 vivavoce interview --profile profile.json
package main

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// replyEvery is how many audio chunks to absorb before answering with a
// tone. At the station's 256 ms frames the default answers every ~4 s.
var replyEvery = 16

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type modelTurn struct {
	Parts []part `json:"parts"`
}

type serverContent struct {
	ModelTurn    *modelTurn `json:"modelTurn,omitempty"`
	Interrupted  bool       `json:"interrupted,omitempty"`
	TurnComplete bool       `json:"turnComplete,omitempty"`
}

func main() {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8090"
	}
	if v := os.Getenv("REPLY_EVERY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			replyEvery = n
		}
	}

	http.HandleFunc("/", handle)
	log.Printf("fake dialogue service on %s", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}

func handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	var setup struct {
		Setup struct {
			Model string `json:"model"`
		} `json:"setup"`
	}
	if err := conn.ReadJSON(&setup); err != nil {
		log.Printf("no setup message: %v", err)
		return
	}
	log.Printf("session opened, model=%q", setup.Setup.Model)

	if err := conn.WriteJSON(map[string]any{"setupComplete": map[string]any{}}); err != nil {
		return
	}

	tone := base64.StdEncoding.EncodeToString(tonePCM(440, 24000, 12000))

	chunks := 0
	for {
		var msg struct {
			RealtimeInput struct {
				MediaChunks []json.RawMessage `json:"mediaChunks"`
			} `json:"realtimeInput"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			log.Printf("session closed: %v", err)
			return
		}

		chunks += len(msg.RealtimeInput.MediaChunks)
		if chunks < replyEvery {
			continue
		}
		chunks = 0

		turn := map[string]any{"serverContent": serverContent{
			ModelTurn: &modelTurn{Parts: []part{{InlineData: &inlineData{
				MimeType: "audio/pcm;rate=24000",
				Data:     tone,
			}}}},
		}}
		if err := conn.WriteJSON(turn); err != nil {
			return
		}
		if err := conn.WriteJSON(map[string]any{"serverContent": serverContent{TurnComplete: true}}); err != nil {
			return
		}
	}
}

// tonePCM renders a sine burst as little-endian pcm16, faded at the edges
// to avoid clicks.
func tonePCM(freq float64, rate, samples int) []byte {
	const fadeSamples = 240
	out := make([]byte, samples*2)
	for i := 0; i < samples; i++ {
		v := math.Sin(2 * math.Pi * freq * float64(i) / float64(rate))
		fade := 1.0
		if i < fadeSamples {
			fade = float64(i) / fadeSamples
		}
		if samples-i < fadeSamples {
			fade = float64(samples-i) / fadeSamples
		}
		s := int16(v * fade * 0.3 * 32767)
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}
