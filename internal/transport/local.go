package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/Lectern/core/store"
	"github.com/FocuswithJustin/Lectern/core/verse"
	"github.com/FocuswithJustin/Lectern/internal/logging"
)

// LocalClient is the engine-side endpoint of an in-process transport pair.
// It implements the search engine's ChapterSource: each Chapter call sends
// one need-chapter request and suspends until the matching response is
// fulfilled from the pending table.
type LocalClient struct {
	sessionID string
	requests  chan Message
	pending   *pendingTable
	closed    chan struct{}
}

// NewLocalPair connects a fresh session to the owning store through
// buffered channels, modelling the two isolated execution contexts inside
// one process. The returned stop function tears both loops down.
//
// Messages are delivered in send order per channel; the client drops
// responses carrying a foreign session ID or matching no pending request.
func NewLocalPair(ctx context.Context, st *store.Store) (*LocalClient, func()) {
	c := &LocalClient{
		sessionID: uuid.NewString(),
		requests:  make(chan Message, 1),
		pending:   newPendingTable(),
		closed:    make(chan struct{}),
	}
	responses := make(chan Message, 1)
	done := make(chan struct{})

	// Owning-context loop: resolve requests serially against the store.
	// The request channel is never closed; teardown is signalled so a
	// client racing stop cannot send on a closed channel.
	go func() {
		defer close(responses)
		for {
			select {
			case req := <-c.requests:
				responses <- serve(ctx, st, req)
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	// Engine-side dispatcher: fulfill pending continuations.
	go func() {
		for resp := range responses {
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
		close(c.closed)
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() { close(done) })
	}
	return c, stop
}

// Metadata performs the session hello and returns the store's index
// metadata snapshot.
func (c *LocalClient) Metadata(ctx context.Context) (verse.IndexMetadata, error) {
	key := verse.ChapterKey{} // hello correlates on the zero key
	ch, err := c.pending.register(key)
	if err != nil {
		return verse.IndexMetadata{}, err
	}

	select {
	case c.requests <- Message{Type: TypeHello, SessionID: c.sessionID}:
	case <-ctx.Done():
		c.pending.drop(key)
		return verse.IndexMetadata{}, ctx.Err()
	case <-c.closed:
		c.pending.drop(key)
		return verse.IndexMetadata{}, fmt.Errorf("transport closed")
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

// Chapter requests one chapter across the context boundary and suspends
// until the response arrives. The protocol itself has no timeout; the
// context is honored defensively so a stalled owning context cannot wedge
// shutdown.
func (c *LocalClient) Chapter(ctx context.Context, document string, chapter int) ([]verse.Verse, error) {
	key := verse.ChapterKey{Document: document, Chapter: chapter}
	ch, err := c.pending.register(key)
	if err != nil {
		return nil, err
	}

	req := Message{
		Type:      TypeNeedChapter,
		SessionID: c.sessionID,
		Document:  document,
		Chapter:   chapter,
	}
	select {
	case c.requests <- req:
	case <-ctx.Done():
		c.pending.drop(key)
		return nil, ctx.Err()
	case <-c.closed:
		c.pending.drop(key)
		return nil, fmt.Errorf("transport closed")
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

// SessionID identifies this transport session.
func (c *LocalClient) SessionID() string {
	return c.sessionID
}
