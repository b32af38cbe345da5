// Package transport carries the asynchronous request/response protocol
// between the isolated search engine and the owning document store. The
// engine cannot touch the store's memory or its pending network fetches;
// it sends need-chapter requests and suspends until the matching
// chapter-data response arrives.
//
// Two flavors exist: an in-process channel pair for a worker goroutine in
// the same process, and a WebSocket pair for a searcher in another process.
// Both share the message envelope and the pending-request table here.
package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/FocuswithJustin/Lectern/core/store"
	"github.com/FocuswithJustin/Lectern/core/verse"
)

// Message types exchanged on the transport.
const (
	// TypeHello opens a session; the store answers with index metadata.
	TypeHello = "hello"
	// TypeMetadata carries the index metadata snapshot.
	TypeMetadata = "index-metadata"
	// TypeNeedChapter asks the store for one chapter's verses.
	TypeNeedChapter = "need-chapter"
	// TypeChapterData answers a need-chapter request.
	TypeChapterData = "chapter-data"
)

// Message is the wire envelope for every transport exchange.
type Message struct {
	Type      string               `json:"type"`
	SessionID string               `json:"session_id,omitempty"`
	Document  string               `json:"document,omitempty"`
	Chapter   int                  `json:"chapter,omitempty"`
	Verses    []verse.Verse        `json:"verses,omitempty"`
	Metadata  *verse.IndexMetadata `json:"metadata,omitempty"`
	Error     string               `json:"error,omitempty"`
}

// pendingTable keys in-flight requests by (document, chapter) and fulfills
// the matching continuation when the response message arrives. The engine
// keeps at most one request outstanding per key by construction.
type pendingTable struct {
	mu      sync.Mutex
	pending map[verse.ChapterKey]chan Message
}

func newPendingTable() *pendingTable {
	return &pendingTable{pending: make(map[verse.ChapterKey]chan Message)}
}

// register files a continuation for a key. Registering a key that already
// has an outstanding request is a protocol violation.
func (t *pendingTable) register(key verse.ChapterKey) (chan Message, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, dup := t.pending[key]; dup {
		return nil, fmt.Errorf("request already outstanding for %s", key)
	}
	ch := make(chan Message, 1)
	t.pending[key] = ch
	return ch, nil
}

// fulfill delivers a response to its waiting continuation. Returns false
// when no request is outstanding for the key; such late or alien responses
// are dropped by the caller.
func (t *pendingTable) fulfill(msg Message) bool {
	key := verse.ChapterKey{Document: msg.Document, Chapter: msg.Chapter}
	t.mu.Lock()
	ch, ok := t.pending[key]
	if ok {
		delete(t.pending, key)
	}
	t.mu.Unlock()
	if !ok {
		return false
	}
	ch <- msg
	return true
}

// drop abandons an outstanding request, used when the waiter gives up.
func (t *pendingTable) drop(key verse.ChapterKey) {
	t.mu.Lock()
	delete(t.pending, key)
	t.mu.Unlock()
}

// serve resolves one request message against the owning store. The
// chapter-data response is sent only after the store's own GetChapter
// resolves, which may itself involve a network fetch.
func serve(ctx context.Context, st *store.Store, req Message) Message {
	switch req.Type {
	case TypeHello:
		meta := st.IndexMetadata()
		return Message{
			Type:      TypeMetadata,
			SessionID: req.SessionID,
			Metadata:  &meta,
		}
	case TypeNeedChapter:
		resp := Message{
			Type:      TypeChapterData,
			SessionID: req.SessionID,
			Document:  req.Document,
			Chapter:   req.Chapter,
		}
		verses, err := st.GetChapter(ctx, req.Document, req.Chapter)
		if err != nil {
			resp.Error = err.Error()
			return resp
		}
		resp.Verses = verses
		return resp
	default:
		return Message{
			Type:      TypeChapterData,
			SessionID: req.SessionID,
			Document:  req.Document,
			Chapter:   req.Chapter,
			Error:     fmt.Sprintf("unknown message type %q", req.Type),
		}
	}
}
