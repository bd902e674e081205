package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"kiarachat/pkg/models"
	"kiarachat/pkg/store"
)

type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (s *stubCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func newTestService(t *testing.T, c Completer) (*Service, *store.Store) {
	t.Helper()
	st := store.New(t.TempDir())
	if err := st.Open(); err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return NewService(c, st, HistoryWindow{}), st
}

func TestSendPersistsAndReplies(t *testing.T) {
	stub := &stubCompleter{reply: "[MESSAGE] Hey!\n[MESSAGE] Kaise ho?"}
	svc, st := newTestService(t, stub)

	reply, err := svc.Send(context.Background(), "c1", "Hi")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(reply.Messages) != 2 || reply.Messages[0] != "Hey!" || reply.Messages[1] != "Kaise ho?" {
		t.Fatalf("unexpected reply messages: %v", reply.Messages)
	}
	if reply.Timestamp.IsZero() {
		t.Fatal("reply should carry the turn timestamp")
	}

	turns, err := st.QueryRecent("c1", 0, 10)
	if err != nil {
		t.Fatalf("QueryRecent: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("expected 1 persisted turn, got %d", len(turns))
	}
	if turns[0].UserMessage != "Hi" || len(turns[0].AssistantMessages) != 2 {
		t.Fatalf("unexpected persisted turn: %+v", turns[0])
	}
}

func TestSendEmptyMessageNeverCallsCompleter(t *testing.T) {
	stub := &stubCompleter{reply: "unused"}
	svc, _ := newTestService(t, stub)

	if _, err := svc.Send(context.Background(), "c1", "   "); err != ErrEmptyMessage {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("completer should not be called for empty input, got %d calls", stub.calls)
	}
}

func TestSendUpstreamFailureIsFatal(t *testing.T) {
	boom := errors.New("upstream down")
	svc, st := newTestService(t, &stubCompleter{err: boom})

	if _, err := svc.Send(context.Background(), "c1", "Hi"); !errors.Is(err, boom) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	// a failed completion leaves no partial turn
	turns, _ := st.QueryRecent("c1", 0, 10)
	if len(turns) != 0 {
		t.Fatalf("no turn should persist after upstream failure, got %d", len(turns))
	}
}

func TestSendSurvivesPersistenceFailure(t *testing.T) {
	stub := &stubCompleter{reply: "[MESSAGE] Hey!\n[MESSAGE] Theek?"}
	closed := store.New(t.TempDir()) // never opened: every append fails
	svc := NewService(stub, closed, HistoryWindow{})

	reply, err := svc.Send(context.Background(), "c1", "Hi")
	if err != nil {
		t.Fatalf("send should degrade, not fail: %v", err)
	}
	if len(reply.Messages) != 2 {
		t.Fatalf("degraded send should still return messages: %v", reply.Messages)
	}
}

func TestHistoryReplaysChronologically(t *testing.T) {
	stub := &stubCompleter{reply: "[MESSAGE] one\n[MESSAGE] two"}
	svc, _ := newTestService(t, stub)

	if _, err := svc.Send(context.Background(), "c1", "Hi"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	msgs, err := svc.History(context.Background(), "c1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 1 user + 2 assistant messages, got %d", len(msgs))
	}
	if msgs[0].Role != models.RoleUser || msgs[0].Content != "Hi" {
		t.Fatalf("user message should come first: %+v", msgs[0])
	}
	for i := 1; i < len(msgs); i++ {
		if msgs[i].TS < msgs[i-1].TS {
			t.Fatalf("history not ascending at %d: %+v", i, msgs)
		}
	}
}

func TestHistoryFailsClosedWhenStoreDown(t *testing.T) {
	svc := NewService(&stubCompleter{}, store.New(t.TempDir()), HistoryWindow{})
	if _, err := svc.History(context.Background(), "c1"); !errors.Is(err, store.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestHistoryWindowExcludesOldTurns(t *testing.T) {
	stub := &stubCompleter{reply: "[MESSAGE] a\n[MESSAGE] b"}
	svc, st := newTestService(t, stub)

	// seed a turn well outside the 7-day window
	old := models.Turn{
		UserMessage:       "ancient",
		AssistantMessages: []models.AssistantMessage{{Message: "x", TS: 1000}, {Message: "y", TS: 1001}},
		UserIP:            "c1",
		TS:                time.Now().Add(-30 * 24 * time.Hour).UnixMilli(),
	}
	if err := st.AppendTurn(old); err != nil {
		t.Fatalf("AppendTurn: %v", err)
	}
	if _, err := svc.Send(context.Background(), "c1", "recent"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	msgs, err := svc.History(context.Background(), "c1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	for _, m := range msgs {
		if m.Content == "ancient" {
			t.Fatalf("turn outside the window leaked into history: %+v", msgs)
		}
	}
	if len(msgs) != 3 {
		t.Fatalf("expected only the recent turn's 3 messages, got %d", len(msgs))
	}
}
