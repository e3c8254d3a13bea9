package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/geocoin-carrier/game/engine"
)

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}

	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}

	if hub.register == nil {
		t.Error("Hub register channel is nil")
	}

	if hub.unregister == nil {
		t.Error("Hub unregister channel is nil")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:       hub,
		sessionID: "ab12",
		send:      make(chan []byte, engine.WebSocketBufferSize),
	}

	hub.registerClient(client)

	if hub.ClientCount("ab12") != 1 {
		t.Errorf("Expected 1 client in session, got %d", hub.ClientCount("ab12"))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:       hub,
		sessionID: "ab12",
		send:      make(chan []byte, engine.WebSocketBufferSize),
	}

	hub.registerClient(client)
	hub.unregisterClient(client)

	if hub.ClientCount("ab12") != 0 {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	sessionID := "cd34"

	client1 := &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, engine.WebSocketBufferSize),
	}
	client2 := &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, engine.WebSocketBufferSize),
	}

	hub.registerClient(client1)
	hub.registerClient(client2)

	if hub.ClientCount(sessionID) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", hub.ClientCount(sessionID))
	}

	hub.unregisterClient(client1)

	if hub.ClientCount(sessionID) != 1 {
		t.Errorf("Expected 1 client remaining in session, got %d", hub.ClientCount(sessionID))
	}
}

func TestHubBroadcastToSession(t *testing.T) {
	hub := NewHub()
	sessionID := "ef56"

	client := &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, engine.WebSocketBufferSize),
	}

	hub.registerClient(client)

	gameState := &engine.GameState{
		Cell:       engine.CellID{I: 369894, J: -1220628},
		Inventory:  []engine.Coin{{ID: 1, Origin: engine.CellID{I: 369894, J: -1220628}, Serial: 0}},
		TotalMoves: 7,
	}

	hub.BroadcastToSession(sessionID, gameState)

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}

		if message.SessionID != sessionID {
			t.Errorf("Expected sessionID %s, got %s", sessionID, message.SessionID)
		}

		if message.Event != "state_update" {
			t.Errorf("Expected event 'state_update', got %s", message.Event)
		}

		if message.GameState.Cell.Key() != "369894:-1220628" {
			t.Errorf("Cell not correctly transmitted: %s", message.GameState.Cell.Key())
		}

		if len(message.GameState.Inventory) != 1 || message.GameState.TotalMoves != 7 {
			t.Error("GameState not correctly transmitted")
		}

	case <-time.After(100 * time.Millisecond):
		t.Error("No message received within timeout")
	}
}

func TestHubBroadcastToOtherSessionOnly(t *testing.T) {
	hub := NewHub()

	watcher := &Client{
		hub:       hub,
		sessionID: "aa11",
		send:      make(chan []byte, engine.WebSocketBufferSize),
	}
	bystander := &Client{
		hub:       hub,
		sessionID: "bb22",
		send:      make(chan []byte, engine.WebSocketBufferSize),
	}

	hub.registerClient(watcher)
	hub.registerClient(bystander)

	hub.BroadcastToSession("aa11", &engine.GameState{})

	select {
	case <-watcher.send:
	case <-time.After(100 * time.Millisecond):
		t.Error("watcher did not receive broadcast")
	}

	select {
	case <-bystander.send:
		t.Error("bystander received broadcast for another session")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWebSocketUpgrade(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session")
		if sessionID == "" {
			sessionID = "default"
		}
		hub.ServeWS(w, r, sessionID)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=gh78"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)

	if hub.ClientCount("gh78") != 1 {
		t.Errorf("Expected 1 client in session, got %d", hub.ClientCount("gh78"))
	}

	conn.Close()
	time.Sleep(50 * time.Millisecond)

	if hub.ClientCount("gh78") != 0 {
		t.Error("Session should have been cleaned up after WebSocket close")
	}
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.URL.Query().Get("session")
		if sessionID == "" {
			sessionID = "default"
		}
		hub.ServeWS(w, r, sessionID)
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=ij90"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)

	gameState := &engine.GameState{
		Player:     engine.GeoPoint{Lat: 36.9895, Lng: -122.0628},
		Cell:       engine.CellID{I: 369895, J: -1220628},
		TotalMoves: 3,
		Tracking:   true,
	}

	hub.BroadcastToSession("ij90", gameState)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, messageData, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var message Message
	if err := json.Unmarshal(messageData, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}

	if message.SessionID != "ij90" {
		t.Errorf("Expected sessionID 'ij90', got %s", message.SessionID)
	}

	if message.GameState.Player.Lat != 36.9895 {
		t.Error("Player position not correctly received")
	}

	if !message.GameState.Tracking || message.GameState.TotalMoves != 3 {
		t.Error("GameState flags not correctly received")
	}
}
