package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"unicode/utf8"

	"github.com/gliderlabs/ssh"
	"github.com/sirupsen/logrus"

	"micro-city/internal/game"
	"micro-city/internal/render"
	"micro-city/internal/tiles"
)

// SSHServer wraps the SSH listener and game loop integration.
type SSHServer struct {
	gameLoop *game.GameLoop
	atlas    *tiles.Atlas
	addr     string
	hostKey  string
	log      logrus.FieldLogger

	mu     sync.Mutex
	server *ssh.Server
}

// NewSSHServer creates a new SSH server bound to the given address.
func NewSSHServer(addr, hostKey string, gl *game.GameLoop, atlas *tiles.Atlas, log logrus.FieldLogger) *SSHServer {
	return &SSHServer{
		gameLoop: gl,
		atlas:    atlas,
		addr:     addr,
		hostKey:  hostKey,
		log:      log.WithField("component", "ssh"),
	}
}

// Start begins listening for SSH connections. It returns nil after Shutdown.
func (s *SSHServer) Start() error {
	server := &ssh.Server{
		Addr: s.addr,
		Handler: func(sess ssh.Session) {
			s.handleSession(sess)
		},
	}

	if err := server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	s.log.WithField("addr", s.addr).Info("SSH server listening")
	err := server.ListenAndServe()
	if errors.Is(err, ssh.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting sessions and waits for open ones to end.
func (s *SSHServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()
	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		fmt.Fprintln(sess, "Error: PTY required. Use: ssh -t ...")
		return
	}

	username := sess.User()
	if username == "" {
		username = "Anonymous"
	}

	viewerID, renderCh := s.gameLoop.AddViewer(username)
	log := s.log.WithFields(logrus.Fields{"viewer": viewerID, "user": username, "remote": sess.RemoteAddr().String()})
	log.Info("Viewer connected")
	defer func() {
		s.gameLoop.RemoveViewer(viewerID)
		log.Info("Viewer disconnected")
	}()

	termW := ptyReq.Window.Width
	termH := ptyReq.Window.Height
	var termMu sync.Mutex

	world := s.gameLoop.World()
	cityName := world.Name()
	view := world.NewView(s.atlas)
	frame := render.NewFrame(render.DisplayWidth, render.DisplayHeight)
	engine := render.NewEngine(termW, termH)

	io.WriteString(sess, render.EnableAltScreen())
	io.WriteString(sess, render.HideCursor())
	io.WriteString(sess, render.ClearScreen())
	defer func() {
		io.WriteString(sess, render.ShowCursor())
		io.WriteString(sess, render.DisableAltScreen())
	}()

	inputCh := s.gameLoop.InputChan()
	quitCh := make(chan struct{})

	go func() {
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				close(quitCh)
				return
			}
			for _, action := range parseInput(buf[:n]) {
				if action == game.ActionQuit {
					close(quitCh)
					return
				}
				select {
				case inputCh <- game.InputEvent{ViewerID: viewerID, Action: action}:
				default:
					log.Warn("Input queue full, dropping key")
				}
			}
		}
	}()

	go func() {
		for win := range winCh {
			termMu.Lock()
			termW = win.Width
			termH = win.Height
			termMu.Unlock()
		}
	}()

	for {
		select {
		case <-quitCh:
			return
		case snap, ok := <-renderCh:
			if !ok {
				return
			}

			termMu.Lock()
			w, h := termW, termH
			termMu.Unlock()

			view.Draw(snap.Scene(), frame)
			output := engine.Render(frame, statusLine(cityName, snap), w, h)
			if len(output) > 0 {
				io.WriteString(sess, output)
			}
		}
	}
}

// statusLine summarises the viewer's state below the map.
func statusLine(cityName string, snap game.Snapshot) string {
	line := fmt.Sprintf(" %s  (%d,%d)  %s  %d online", cityName, snap.Cursor.X, snap.Cursor.Y,
		render.BrushName(snap.Cursor.Brush), snap.Viewers)
	if snap.Message != "" {
		line += "  " + snap.Message
	}
	return line
}

// parseInput converts raw bytes into viewer actions.
// Handles WASD, arrow key escape sequences, brush keys, Q, and Ctrl-C.
func parseInput(data []byte) []game.Action {
	var actions []game.Action
	i := 0
	for i < len(data) {
		if i+2 < len(data) && data[i] == 0x1b && data[i+1] == '[' {
			switch data[i+2] {
			case 'A':
				actions = append(actions, game.ActionUp)
			case 'B':
				actions = append(actions, game.ActionDown)
			case 'C':
				actions = append(actions, game.ActionRight)
			case 'D':
				actions = append(actions, game.ActionLeft)
			}
			i += 3
			continue
		}

		r, size := utf8.DecodeRune(data[i:])
		switch r {
		case 'w', 'W':
			actions = append(actions, game.ActionUp)
		case 's', 'S':
			actions = append(actions, game.ActionDown)
		case 'a', 'A':
			actions = append(actions, game.ActionLeft)
		case 'd', 'D':
			actions = append(actions, game.ActionRight)
		case ' ', '\r', '\n':
			actions = append(actions, game.ActionApply)
		case 't', 'T':
			actions = append(actions, game.ActionToolbar)
		case ']', 'e', 'E':
			actions = append(actions, game.ActionBrushNext)
		case '[':
			actions = append(actions, game.ActionBrushPrev)
		case 'q', 'Q':
			actions = append(actions, game.ActionQuit)
		case 3: // Ctrl-C
			actions = append(actions, game.ActionQuit)
		}
		i += size
	}
	return actions
}
