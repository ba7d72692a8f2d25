package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/Zachkp/folio/internal/content"
	"github.com/Zachkp/folio/internal/lifecycle"
	"github.com/Zachkp/folio/internal/pointer"
	"github.com/Zachkp/folio/internal/reveal"
	"github.com/Zachkp/folio/internal/scroll"
	"github.com/Zachkp/folio/internal/theme"
	"github.com/Zachkp/folio/internal/typewriter"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

const (
	writeTimeout = 10 * time.Second
	outboundSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// frame is an inbound event from the page script.
type frame struct {
	Type        string             `json:"type"`
	Offset      float64            `json:"offset"`
	Tops        map[string]float64 `json:"tops"`
	ID          string             `json:"id"`
	Threshold   float64            `json:"threshold"`
	Ratio       float64            `json:"ratio"`
	X           int                `json:"x"`
	Y           int                `json:"y"`
	Interactive bool               `json:"interactive"`
}

// session owns one tab's controller state. Everything except the reader,
// writer and reveal waiters runs on the loop goroutine.
type session struct {
	conn     *websocket.Conn
	log      *slog.Logger
	tracker  *scroll.Tracker
	revealer *reveal.Revealer
	pointer  *pointer.Tracker
	typer    *typewriter.Machine
	theme    *theme.Store

	scope     lifecycle.Scope
	out       chan gin.H
	revealed  chan string
	observing map[string]struct{}
}

func (s *Server) handleSession(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Debug("websocket upgrade", "error", err)
		return
	}

	store, _ := s.themeFor(c)
	sess := &session{
		conn:      conn,
		log:       s.log.With("visitor", c.GetString(visitorKey)),
		tracker:   scroll.NewTracker(content.NavSections, s.cfg.ScrollConfig()),
		revealer:  reveal.New(s.cfg.RevealThreshold),
		pointer:   pointer.New(),
		typer:     typewriter.New(content.Phrases, s.cfg.Timing()),
		theme:     store,
		out:       make(chan gin.H, outboundSize),
		revealed:  make(chan string),
		observing: make(map[string]struct{}),
	}
	sess.scope.OnPanic = func(v any) { sess.log.Error("session teardown", "error", v) }

	s.track(sess)
	defer s.untrack(sess)

	// Hijacked connections outlive http.Server.Shutdown, so sessions hang
	// off the server context that Stop cancels.
	if err := sess.run(s.ctx); err != nil {
		sess.log.Debug("session ended", "error", err)
	}
}

func (s *session) run(ctx context.Context) error {
	defer s.scope.Close()

	g, ctx := errgroup.WithContext(ctx)

	// Unblock the reader once the session is over.
	s.scope.Mount(func() lifecycle.Teardown {
		stop := context.AfterFunc(ctx, func() { s.conn.Close() })
		return func() {
			stop()
			s.conn.Close()
		}
	})
	s.scope.Mount(func() lifecycle.Teardown {
		return s.theme.Subscribe(func(isDark bool) {
			s.emit(ctx, themeFrame(isDark))
		})
	})

	in := make(chan frame)
	g.Go(func() error { return s.readLoop(ctx, in) })
	g.Go(func() error { return s.writeLoop(ctx) })
	g.Go(func() error { return s.loop(ctx, g, in) })

	err := g.Wait()
	if errors.Is(err, errSessionClosed) {
		return nil
	}
	return err
}

var errSessionClosed = errors.New("session closed")

func (s *session) readLoop(ctx context.Context, in chan<- frame) error {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return errSessionClosed
			}
			return err
		}
		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			s.emit(ctx, errorFrame("malformed frame"))
			continue
		}
		select {
		case in <- f:
		case <-ctx.Done():
			return nil
		}
	}
}

func (s *session) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-s.out:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteJSON(f); err != nil {
				return err
			}
		}
	}
}

// emit queues a frame for the writer. It gives up if the session ends first.
func (s *session) emit(ctx context.Context, f gin.H) {
	select {
	case s.out <- f:
	case <-ctx.Done():
	}
}

func (s *session) loop(ctx context.Context, g *errgroup.Group, in <-chan frame) error {
	s.emit(ctx, themeFrame(s.theme.IsDark()))
	s.emit(ctx, scrollFrame(s.tracker.State()))

	// tick stays nil for an idle typewriter, so that case never fires.
	var tick <-chan time.Time
	var timer *time.Timer
	if !s.typer.Idle() {
		timer = time.NewTimer(s.typer.Delay())
		s.scope.Defer(func() { timer.Stop() })
		tick = timer.C
		s.emit(ctx, typewriterFrame(s.typer.Text()))
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			before := s.typer.Text()
			next := s.typer.Step()
			if text := s.typer.Text(); text != before {
				s.emit(ctx, typewriterFrame(text))
			}
			timer.Reset(next)
		case f := <-in:
			s.handle(ctx, g, f)
		case id := <-s.revealed:
			s.emit(ctx, gin.H{"type": "reveal", "id": id})
		}
	}
}

func (s *session) handle(ctx context.Context, g *errgroup.Group, f frame) {
	switch f.Type {
	case "scroll":
		st := s.tracker.Sample(f.Offset, scroll.Tops(f.Tops))
		s.emit(ctx, scrollFrame(st))

	case "observe":
		if f.ID == "" {
			s.emit(ctx, errorFrame("observe needs an id"))
			return
		}
		if _, ok := s.observing[f.ID]; ok {
			return
		}
		s.observing[f.ID] = struct{}{}
		ch, cancel := s.revealer.Observe(f.ID, f.Threshold)
		s.scope.Defer(cancel)
		id := f.ID
		g.Go(func() error {
			select {
			case v, ok := <-ch:
				if ok && v {
					select {
					case s.revealed <- id:
					case <-ctx.Done():
					}
				}
			case <-ctx.Done():
			}
			return nil
		})

	case "visibility":
		s.revealer.Report(f.ID, f.Ratio)

	case "pointer":
		s.emit(ctx, pointerFrame(s.pointer.Move(f.X, f.Y)))

	case "hover":
		st := s.pointer.Leave()
		if f.Interactive {
			st = s.pointer.Enter()
		}
		s.emit(ctx, pointerFrame(st))

	case "toggle-theme":
		// Subscribers push the theme frame.
		if _, err := s.theme.Toggle(ctx); err != nil {
			s.log.Error("toggling theme", "error", err)
		}

	default:
		s.emit(ctx, errorFrame("unknown frame type "+f.Type))
	}
}

func scrollFrame(st scroll.State) gin.H {
	return gin.H{"type": "scroll", "hidden": st.Hidden, "active": st.ActiveSectionID}
}

func pointerFrame(st pointer.State) gin.H {
	return gin.H{"type": "pointer", "x": st.X, "y": st.Y, "hover": st.HoveringInteractive}
}

func typewriterFrame(text string) gin.H {
	return gin.H{"type": "typewriter", "text": text}
}

func errorFrame(msg string) gin.H {
	return gin.H{"type": "error", "message": msg}
}
