// Package web streams the simulation over a websocket. Browsers get a
// frame of particle positions per tick and send pointer and splash
// commands back; the simulator itself runs in a single goroutine and
// all interaction goes through a channel.
package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/konacodes/fluidsim/internal/config"
	"github.com/konacodes/fluidsim/internal/fluid"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Command is what a client may send: pointer moves, splashes, ripples,
// or a reset.
type Command struct {
	Type      string  `json:"type"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Down      bool    `json:"down"`
	Intensity float64 `json:"intensity"`
}

type wireParticle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Speed  float64 `json:"v"`
	Size   float64 `json:"s"`
	Alpha  float64 `json:"a"`
	Splash bool    `json:"sp,omitempty"`
}

type frame struct {
	Time      float64        `json:"t"`
	Width     float64        `json:"w"`
	Height    float64        `json:"h"`
	Particles []wireParticle `json:"particles"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type Server struct {
	cfg      *config.Config
	staticFS http.Handler
	commands chan Command

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewServer prepares a server; staticRoot may be empty to disable file
// serving.
func NewServer(cfg *config.Config, staticRoot string) *Server {
	s := &Server{
		cfg:      cfg,
		commands: make(chan Command, 64),
		clients:  make(map[*client]struct{}),
	}
	if staticRoot != "" {
		s.staticFS = http.FileServer(http.Dir(staticRoot))
	}
	return s
}

// Handler returns the routing mux: /ws for the stream, everything else
// static files when configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.wsHandler)
	if s.staticFS != nil {
		mux.Handle("/", s.staticFS)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Print(r.RemoteAddr + " " + r.Method + " " + r.URL.String())
		mux.ServeHTTP(w, r)
	})
}

// ListenAndServe runs the simulation loop and serves until ctx is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	sim, err := s.cfg.NewSimulator()
	if err != nil {
		return err
	}

	go s.simLoop(ctx, sim)

	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Printf("serving on %s", addr)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// simLoop owns the simulator. Commands arrive through the channel so
// no other goroutine ever touches the state.
func (s *Server) simLoop(ctx context.Context, sim *fluid.Simulator) {
	ticker := time.NewTicker(time.Duration(float64(time.Second) * sim.P.Dt))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

	drain:
		for {
			select {
			case cmd := <-s.commands:
				s.apply(sim, cmd)
			default:
				break drain
			}
		}

		sim.Step()
		s.broadcast(encodeFrame(sim))
	}
}

func (s *Server) apply(sim *fluid.Simulator, cmd Command) {
	switch cmd.Type {
	case "pointer":
		sim.SetPointerPosition(fluid.Vec2{X: cmd.X, Y: cmd.Y})
		sim.SetPointerDown(cmd.Down)
	case "splash":
		sim.CreateSplash(fluid.Vec2{X: cmd.X, Y: cmd.Y}, cmd.Intensity)
	case "ripple":
		sim.CreateRipple(fluid.Vec2{X: cmd.X, Y: cmd.Y}, cmd.Intensity)
	case "reset":
		if fresh, err := s.cfg.NewSimulator(); err == nil {
			*sim = *fresh
		}
	}
}

func encodeFrame(sim *fluid.Simulator) []byte {
	view := sim.Snapshot()
	w, h := sim.Bounds()
	f := frame{
		Time:      sim.Time(),
		Width:     w,
		Height:    h,
		Particles: make([]wireParticle, len(view)),
	}
	for i, v := range view {
		f.Particles[i] = wireParticle{
			X:      v.Pos.X,
			Y:      v.Pos.Y,
			Speed:  v.Speed,
			Size:   v.Size,
			Alpha:  v.Color.A,
			Splash: v.Splash,
		}
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil
	}
	return data
}

func (s *Server) broadcast(data []byte) {
	if data == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// slow client, drop the frame
		}
	}
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		if _, ok := err.(websocket.HandshakeError); !ok {
			log.Println(err)
		}
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 8)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go s.writePump(c)
	go s.readPump(c)
}

func (s *Server) readPump(c *client) {
	defer s.drop(c)

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			return
		}

		var cmd Command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			continue
		}
		select {
		case s.commands <- cmd:
		default:
			// command backlog full, drop
		}
	}
}

func (s *Server) writePump(c *client) {
	defer s.drop(c)

	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

func (s *Server) drop(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
	s.mu.Unlock()
	c.conn.Close()
}
