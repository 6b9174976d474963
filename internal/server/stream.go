package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"micro-city/internal/city"
	"micro-city/internal/game"
	"micro-city/internal/render"
)

const writeWait = 2 * time.Second

// StreamHello is the first message on a stream: the frame geometry and the
// viewer id assigned to the connection.
type StreamHello struct {
	Viewer string `json:"viewer"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Stride int    `json:"stride"`
}

// stream upgrades to a websocket and joins the game as a viewer. Every
// tick the packed frame is sent as a binary message, one bit per pixel
// with the most significant bit leftmost. Messages from the client are
// read as key presses.
func (s *HTTPServer) stream(c *gin.Context) {
	x, err := intQuery(c, "x", city.MapWidth/2)
	if err != nil {
		fail(c, http.StatusBadRequest, "bad x")
		return
	}
	y, err := intQuery(c, "y", city.MapHeight/2)
	if err != nil {
		fail(c, http.StatusBadRequest, "bad y")
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	name := c.DefaultQuery("name", "web")
	viewerID, renderCh := s.gameLoop.AddViewerAt(name, x, y)
	log := s.log.WithFields(logrus.Fields{"viewer": viewerID, "user": name, "remote": c.ClientIP()})
	log.Info("Stream connected")
	defer func() {
		s.gameLoop.RemoveViewer(viewerID)
		log.Info("Stream disconnected")
	}()

	frame := render.NewFrame(render.DisplayWidth, render.DisplayHeight)
	hello := StreamHello{Viewer: viewerID, Width: frame.Width, Height: frame.Height, Stride: frame.Stride}
	if err := conn.WriteJSON(hello); err != nil {
		return
	}

	quitCh := make(chan struct{})
	go s.readStream(conn, viewerID, quitCh, log)

	view := s.gameLoop.World().NewView(s.atlas)
	for {
		select {
		case <-quitCh:
			return
		case snap, ok := <-renderCh:
			if !ok {
				return
			}
			view.Draw(snap.Scene(), frame)
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, frame.Bytes); err != nil {
				log.WithError(err).Debug("Stream write failed")
				return
			}
		}
	}
}

func (s *HTTPServer) readStream(conn *websocket.Conn, viewerID string, quitCh chan struct{}, log logrus.FieldLogger) {
	defer close(quitCh)

	inputCh := s.gameLoop.InputChan()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		for _, action := range parseInput(data) {
			if action == game.ActionQuit {
				return
			}
			select {
			case inputCh <- game.InputEvent{ViewerID: viewerID, Action: action}:
			default:
				log.Warn("Input queue full, dropping key")
			}
		}
	}
}
