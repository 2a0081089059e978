package websocket

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/kochabx/ciphertrace/log"
	"github.com/kochabx/ciphertrace/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxCommandSize = 1024
	sendBuffer     = 64
)

// client is one websocket connection attached to a playback session.
// Observer callbacks enqueue into send; the write pump owns the
// connection's write side.
type client struct {
	conn *websocket.Conn
	sess *session.Session

	send chan Message
	done chan struct{}
}

func newClient(conn *websocket.Conn, sess *session.Session) *client {
	return &client{
		conn: conn,
		sess: sess,
		send: make(chan Message, sendBuffer),
		done: make(chan struct{}),
	}
}

// run services the connection until either pump stops.
func (c *client) run() {
	obsID := c.sess.Attach(session.Observer{
		OnStep: func(ev session.StepEvent) {
			c.enqueue(stepMessage(StepPayload{
				Index:    ev.Index,
				Total:    ev.Total,
				Step:     ev.Current,
				Previous: ev.Previous,
			}))
		},
		OnState: func(playing bool) {
			c.enqueue(stateMessage(playing))
		},
	})
	defer c.sess.Detach(obsID)

	c.enqueue(Message{Type: "ready", Ready: &ReadyPayload{
		SessionID:  c.sess.ID,
		Algorithm:  c.sess.Algorithm,
		Index:      c.sess.CurrentIndex(),
		Total:      c.sess.TotalSteps(),
		Playing:    c.sess.IsPlaying(),
		IntervalMS: c.sess.Interval().Milliseconds(),
	}})

	go c.writePump()
	c.readPump()
}

// enqueue drops the frame when the client cannot keep up; playback
// state stays consistent because the next frame carries the current
// cursor.
func (c *client) enqueue(msg Message) {
	select {
	case c.send <- msg:
	case <-c.done:
	default:
		log.Warn().Str("session", c.sess.ID).Str("type", msg.Type).Msg("slow websocket client, frame dropped")
	}
}

func (c *client) readPump() {
	defer close(c.done)

	c.conn.SetReadLimit(maxCommandSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd Command
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("session", c.sess.ID).Msg("websocket read failed")
			}
			return
		}
		c.dispatch(cmd)
	}
}

func (c *client) dispatch(cmd Command) {
	switch cmd.Action {
	case "play":
		c.sess.Play()
	case "pause":
		c.sess.Pause()
	case "toggle":
		c.sess.Toggle()
	case "next":
		c.sess.Next()
	case "prev":
		c.sess.Prev()
	case "goto":
		c.sess.GoTo(cmd.Index)
	case "speed":
		c.sess.SetSpeed(time.Duration(cmd.IntervalMS) * time.Millisecond)
	case "start":
		c.sess.StartOver()
	default:
		c.enqueue(errorMessage("unknown action: " + cmd.Action))
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
