package server

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/playperu/bakken/internal/tournament"
)

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker()
	a, c := b.Subscribe(), b.Subscribe()
	defer b.Unsubscribe(a)

	b.Publish(tournament.Event{Type: tournament.EventRoundStarted, Game: "Dart"})
	for _, ch := range []chan []byte{a, c} {
		select {
		case data := <-ch:
			var ev tournament.Event
			json.Unmarshal(data, &ev)
			if ev.Type != tournament.EventRoundStarted || ev.Game != "Dart" {
				t.Errorf("unexpected event %+v", ev)
			}
		default:
			t.Fatal("subscriber did not receive event")
		}
	}

	b.Unsubscribe(c)
	if n := b.subscribers(); n != 1 {
		t.Errorf("subscribers = %d, want 1", n)
	}
}

func TestEventStream(t *testing.T) {
	e := setupEnv(t, nil)
	srv := httptest.NewServer(e.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content-type = %q", ct)
	}

	for e.broker.subscribers() == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	if _, err := e.svc.StartRound("Dart"); err != nil {
		t.Fatalf("start round: %v", err)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		data, ok := strings.CutPrefix(scanner.Text(), "data: ")
		if !ok {
			continue
		}
		var ev tournament.Event
		if err := json.Unmarshal([]byte(data), &ev); err != nil {
			t.Fatalf("decode %q: %v", data, err)
		}
		if ev.Type != tournament.EventRoundStarted || ev.Game != "Dart" {
			t.Errorf("unexpected event %+v", ev)
		}
		return
	}
	t.Fatalf("stream ended without an event: %v", scanner.Err())
}
