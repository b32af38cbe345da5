package transport

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/FocuswithJustin/Lectern/core/store"
	"github.com/FocuswithJustin/Lectern/core/verse"
	"github.com/FocuswithJustin/Lectern/internal/logging"
)

// upgrader accepts searcher connections. The transport is meant for a
// local companion process; origin checks are the API layer's concern.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// clientCount tracks connected remote searchers for logging.
var clientCount struct {
	mu sync.Mutex
	n  int
}

// WSHandler serves the transport protocol over a WebSocket so a search
// engine in another process can attach to this store. Requests on one
// connection are resolved serially, matching the engine's one-outstanding-
// request traversal.
func WSHandler(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Error("websocket upgrade failed", "error", err)
			return
		}
		defer conn.Close()

		clientCount.mu.Lock()
		clientCount.n++
		logging.WebSocketEvent("searcher_connected", clientCount.n)
		clientCount.mu.Unlock()
		defer func() {
			clientCount.mu.Lock()
			clientCount.n--
			logging.WebSocketEvent("searcher_disconnected", clientCount.n)
			clientCount.mu.Unlock()
		}()

		for {
			var req Message
			if err := conn.ReadJSON(&req); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logging.Error("websocket unexpected close", "error", err)
				}
				return
			}
			if err := conn.WriteJSON(serve(r.Context(), st, req)); err != nil {
				logging.Error("websocket write failed", "error", err)
				return
			}
		}
	}
}

// WSClient is the engine-side endpoint of a WebSocket transport session.
// It implements the search engine's ChapterSource.
type WSClient struct {
	sessionID string
	conn      *websocket.Conn
	pending   *pendingTable
	writeMu   sync.Mutex
	closed    chan struct{}
	closeOnce sync.Once
}

// DialWS connects to a store's transport endpoint and starts the response
// dispatcher.
func DialWS(ctx context.Context, url string) (*WSClient, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial transport %s: %w", url, err)
	}
	c := &WSClient{
		sessionID: uuid.NewString(),
		conn:      conn,
		pending:   newPendingTable(),
		closed:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// readLoop dispatches responses to their pending continuations, dropping
// messages for foreign sessions or with no outstanding request.
func (c *WSClient) readLoop() {
	defer c.Close()
	for {
		var resp Message
		if err := c.conn.ReadJSON(&resp); err != nil {
			return
		}
		if resp.SessionID != c.sessionID {
			logging.Debug("dropping response for superseded session",
				"session_id", resp.SessionID)
			continue
		}
		if !c.pending.fulfill(resp) {
			logging.Debug("dropping unmatched response",
				"document", resp.Document, "chapter", resp.Chapter)
		}
	}
}

// Close tears the session down. Outstanding waiters fail with a closed
// transport error.
func (c *WSClient) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.conn.Close()
	})
	return nil
}

// SessionID identifies this transport session.
func (c *WSClient) SessionID() string {
	return c.sessionID
}

func (c *WSClient) send(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Metadata performs the session hello and returns the store's index
// metadata snapshot.
func (c *WSClient) Metadata(ctx context.Context) (verse.IndexMetadata, error) {
	key := verse.ChapterKey{} // hello correlates on the zero key
	ch, err := c.pending.register(key)
	if err != nil {
		return verse.IndexMetadata{}, err
	}
	if err := c.send(Message{Type: TypeHello, SessionID: c.sessionID}); err != nil {
		c.pending.drop(key)
		return verse.IndexMetadata{}, err
	}

	select {
	case resp := <-ch:
		if resp.Metadata == nil {
			return verse.IndexMetadata{}, fmt.Errorf("hello response carried no metadata")
		}
		return *resp.Metadata, nil
	case <-ctx.Done():
		c.pending.drop(key)
		return verse.IndexMetadata{}, ctx.Err()
	case <-c.closed:
		return verse.IndexMetadata{}, fmt.Errorf("transport closed")
	}
}

// Chapter requests one chapter and suspends until the matching response
// arrives. No timeout beyond the caller's context.
func (c *WSClient) Chapter(ctx context.Context, document string, chapter int) ([]verse.Verse, error) {
	key := verse.ChapterKey{Document: document, Chapter: chapter}
	ch, err := c.pending.register(key)
	if err != nil {
		return nil, err
	}
	if err := c.send(Message{
		Type:      TypeNeedChapter,
		SessionID: c.sessionID,
		Document:  document,
		Chapter:   chapter,
	}); err != nil {
		c.pending.drop(key)
		return nil, err
	}

	select {
	case resp := <-ch:
		if resp.Error != "" {
			return nil, fmt.Errorf("chapter %s %d: %s", document, chapter, resp.Error)
		}
		return resp.Verses, nil
	case <-ctx.Done():
		c.pending.drop(key)
		return nil, ctx.Err()
	case <-c.closed:
		return nil, fmt.Errorf("transport closed")
	}
}
