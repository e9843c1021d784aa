// Package web serves a scene to a browser canvas: an embedded HTML page
// plus a websocket endpoint streaming frame snapshots at the display rate.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/devfmo/physkit/internal/frameclock"
	"github.com/devfmo/physkit/internal/scene"
)

//go:embed index.html
var indexHTML []byte

const (
	sendQueueSize = 16
	pingInterval  = 30 * time.Second
	writeTimeout  = 10 * time.Second
)

// FrameSnapshot is one websocket message: the state the page needs to draw
// a frame.
type FrameSnapshot struct {
	Time    float64     `json:"t"`
	FPS     float64     `json:"fps"`
	Kinetic float64     `json:"kinetic"`
	Dropped float64     `json:"dropped"`
	Bodies  []BodyPoint `json:"bodies"`
}

// BodyPoint is one body's drawable state.
type BodyPoint struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Mass float64 `json:"mass"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server drives a world with a frame clock and broadcasts snapshots to
// every connected page.
type Server struct {
	spec  *scene.Scene
	world *scene.World

	sched  *frameclock.Scheduler
	handle *frameclock.Handle

	upgrader websocket.Upgrader
	httpSrv  *http.Server

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewServer builds the world and wires its frame clock. The clock runs on a
// ticker at the scene's fps, standing in for the browser's refresh signal.
func NewServer(s *scene.Scene) (*Server, error) {
	world, err := s.Build()
	if err != nil {
		return nil, err
	}

	srv := &Server{
		spec:    s,
		world:   world,
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	srv.sched = frameclock.New(
		frameclock.NewSystemClock(),
		frameclock.NewTickerDriver(s.FPS),
	)
	srv.handle, err = srv.sched.Register(srv.onFrame, frameclock.Config{
		FPS:       s.FPS,
		TimeScale: s.TimeScale,
	})
	if err != nil {
		return nil, err
	}
	return srv, nil
}

// onFrame advances the simulation and fans the snapshot out. It runs on the
// ticker goroutine, the only goroutine touching the integrator.
func (s *Server) onFrame(f frameclock.Frame) {
	s.world.Integrator.Step(f.Delta)

	snap := FrameSnapshot{
		Time:    s.world.Integrator.Time(),
		FPS:     f.FPS,
		Kinetic: s.world.Integrator.KineticEnergy(),
		Dropped: s.world.Integrator.DroppedTime(),
		Bodies:  make([]BodyPoint, len(s.world.Bodies)),
	}
	for i, b := range s.world.Bodies {
		snap.Bodies[i] = BodyPoint{X: b.Pos.X, Y: b.Pos.Y, Mass: b.Mass}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		log.Printf("marshal snapshot: %v", err)
		return
	}

	s.mu.Lock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			// Slow consumer: drop the frame rather than stall the tick.
		}
	}
	s.mu.Unlock()
}

// ListenAndServe starts the frame clock and blocks serving HTTP on addr.
func (s *Server) ListenAndServe(addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWS)

	s.httpSrv = &http.Server{Addr: addr, Handler: mux}
	s.sched.Start()
	defer s.sched.Stop()

	log.Printf("serving %s on http://%s", s.spec.Name, addr)
	return s.httpSrv.ListenAndServe()
}

// Shutdown stops the frame clock and the HTTP server. The frame listener is
// unregistered so a later Start of the scheduler cannot resurrect it.
func (s *Server) Shutdown(ctx context.Context) error {
	s.sched.Stop()
	s.handle.Unregister()
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendQueueSize)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()

	go s.writeLoop(c)
	s.readLoop(c)
}

// readLoop drains the connection until it closes, then unregisters.
func (s *Server) readLoop(c *client) {
	defer func() {
		s.mu.Lock()
		delete(s.clients, c)
		s.mu.Unlock()
		close(c.send)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(c *client) {
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ping.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
