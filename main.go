package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vl4deee11/ecolab/sim"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type clientMessage struct {
	Type string  `json:"type"`
	Seed *uint64 `json:"seed,omitempty"`
}

func main() {
	configPath := flag.String("config", os.Getenv("ECOLAB_CONFIG"), "scenario YAML file, embedded defaults when empty")
	interval := flag.Duration("tick", 200*time.Millisecond, "time between simulation steps")
	debug := flag.Bool("debug", false, "log every step")
	flag.Parse()

	cfg, err := sim.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	r, err := newRunner(*cfg, logger)
	if err != nil {
		log.Fatalf("build scenario: %v", err)
	}
	h := newHub()
	go h.serve(r.StateChan)
	go r.Run(*interval, nil)

	http.Handle("/ws", wsHandler(r, h))
	http.Handle("/counts", countsHandler(r))

	basePort := 8080
	if p := os.Getenv("PORT"); p != "" {
		fmt.Sscanf(p, "%d", &basePort)
	}

	started := false
	for i := 0; i < 10; i++ {
		port := basePort + i
		addr := fmt.Sprintf(":%d", port)
		log.Printf("Trying to start server on %s", addr)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			log.Printf("failed to listen on %s: %v", addr, err)
			continue
		}
		log.Printf("Server started at http://localhost:%d", port)
		started = true
		if err := http.Serve(ln, nil); err != nil {
			log.Fatalf("http serve error: %v", err)
		}
		break
	}
	if !started {
		log.Fatal("unable to start server on any port")
	}
}

func wsHandler(r *runner, h *hub) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{conn: conn}
		if err := client.Send(r.config()); err != nil {
			conn.Close()
			return
		}
		h.add(client)
		log.Printf("client connected, %d watching", h.len())

		for {
			var msg clientMessage
			if err := conn.ReadJSON(&msg); err != nil {
				break
			}
			switch msg.Type {
			case "reset":
				seed := r.seed()
				if msg.Seed != nil {
					seed = *msg.Seed
				}
				if err := r.reset(seed); err != nil {
					log.Printf("reset: %v", err)
					_ = client.Send(map[string]string{"type": "error", "error": err.Error()})
					continue
				}
			case "pause":
				r.setPaused(true)
			case "resume":
				r.setPaused(false)
			default:
				continue
			}
			_ = client.Send(map[string]string{"ok": "received"})
		}

		h.remove(client)
		log.Printf("client left, %d watching", h.len())
	})
}

func countsHandler(r *runner) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(r.Counts()); err != nil {
			log.Printf("counts: %v", err)
		}
	})
}
