package main

import (
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	cellSize     = 28
	viewRadius   = 10 // cells drawn in each direction from the player
	headerHeight = 60
	footerHeight = 40
	screenWidth  = (2*viewRadius + 1) * cellSize
	screenHeight = (2*viewRadius+1)*cellSize + headerHeight + footerHeight
	baseURL      = "http://localhost:8080"
)

// GeoPoint mirrors the server's lat/lng pair
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CellID mirrors the server's grid cell coordinates
type CellID struct {
	I int `json:"i"`
	J int `json:"j"`
}

// Coin mirrors the server's coin identity
type Coin struct {
	ID     int64  `json:"id"`
	Origin CellID `json:"origin"`
	Serial int    `json:"serial"`
}

// CellBounds mirrors the server's cache rectangle corners
type CellBounds struct {
	SouthWest GeoPoint `json:"south_west"`
	NorthEast GeoPoint `json:"north_east"`
}

// CacheView mirrors the server's render-ready cache snapshot
type CacheView struct {
	Cell   CellID     `json:"cell"`
	Bounds CellBounds `json:"bounds"`
	Coins  []Coin     `json:"coins"`
}

// GameState mirrors the server's full game state
type GameState struct {
	Player     GeoPoint   `json:"player"`
	Cell       CellID     `json:"cell"`
	Trail      []GeoPoint `json:"trail"`
	Inventory  []Coin     `json:"inventory"`
	TotalMoves int        `json:"total_moves"`
	Message    string     `json:"message"`
	ConfigName string     `json:"config_name"`
	Tracking   bool       `json:"tracking"`
}

// WSMessage represents WebSocket message wrapper
type WSMessage struct {
	SessionID string     `json:"session_id"`
	GameState *GameState `json:"game_state,omitempty"`
	Event     string     `json:"event,omitempty"`
}

// Game represents the desktop map client
type Game struct {
	sessionID  string
	state      *GameState
	caches     []CacheView
	tile       float64
	wsConn     *websocket.Conn
	lastUpdate time.Time
	statusMsg  string
	stateMutex sync.RWMutex
}

// NewGame creates a client bound to an existing or freshly created session
func NewGame(sessionID string) *Game {
	g := &Game{
		sessionID: sessionID,
		tile:      0.0001,
	}

	if g.sessionID == "" {
		if err := g.createSession(); err != nil {
			log.Fatalf("Failed to create session: %v", err)
		}
	}

	if err := g.connectWebSocket(); err != nil {
		log.Printf("WebSocket unavailable for %s: %v (falling back to polling)", g.sessionID, err)
	} else {
		go g.listenWebSocket()
	}

	g.fetchGameState()
	g.fetchCaches()
	return g
}

// createSession creates a new game session on the server
func (g *Game) createSession() error {
	resp, err := http.Post(fmt.Sprintf("%s/api/sessions", baseURL), "application/json", strings.NewReader("{}"))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse session response: %v (body: %s)", err, string(body))
	}

	g.sessionID = result.ID
	log.Printf("Created new session: %s", g.sessionID)
	return nil
}

// connectWebSocket establishes the push channel for state updates
func (g *Game) connectWebSocket() error {
	wsURL := url.URL{Scheme: "ws", Host: "localhost:8080", Path: "/ws"}
	q := wsURL.Query()
	q.Set("session", g.sessionID)
	wsURL.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		return err
	}

	g.wsConn = conn
	log.Printf("WebSocket connected for session %s", g.sessionID)
	return nil
}

// listenWebSocket applies pushed state and refreshes the cache layer
func (g *Game) listenWebSocket() {
	defer func() {
		if g.wsConn != nil {
			g.wsConn.Close()
		}
	}()

	for {
		_, message, err := g.wsConn.ReadMessage()
		if err != nil {
			log.Printf("WebSocket read error: %v", err)
			return
		}

		var wsMsg WSMessage
		if err := json.Unmarshal(message, &wsMsg); err != nil {
			log.Printf("WebSocket JSON parse error: %v", err)
			continue
		}
		if wsMsg.GameState == nil {
			continue
		}

		g.stateMutex.Lock()
		g.state = wsMsg.GameState
		g.lastUpdate = time.Now()
		g.stateMutex.Unlock()

		// Cache contents may have changed along with the state
		g.fetchCaches()
	}
}

// fetchGameState pulls the full state over REST
func (g *Game) fetchGameState() error {
	resp, err := http.Get(fmt.Sprintf("%s/api/sessions/%s/state", baseURL, g.sessionID))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var state GameState
	if err := json.Unmarshal(body, &state); err != nil {
		return fmt.Errorf("failed to parse JSON: %v (body: %s)", err, string(body))
	}

	g.stateMutex.Lock()
	g.state = &state
	g.lastUpdate = time.Now()
	g.stateMutex.Unlock()
	return nil
}

// fetchCaches pulls the visible cache layer over REST
func (g *Game) fetchCaches() error {
	resp, err := http.Get(fmt.Sprintf("%s/api/sessions/%s/caches", baseURL, g.sessionID))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var result struct {
		Count  int         `json:"count"`
		Caches []CacheView `json:"caches"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse caches: %v", err)
	}

	g.stateMutex.Lock()
	g.caches = result.Caches
	// Derive the tile size from any cache rectangle so the trail maps onto
	// the grid without fetching the config.
	if len(result.Caches) > 0 {
		b := result.Caches[0].Bounds
		if d := b.NorthEast.Lat - b.SouthWest.Lat; d > 0 {
			g.tile = d
		}
	}
	g.stateMutex.Unlock()
	return nil
}

// post sends an action request and refreshes state and caches
func (g *Game) post(path string, payload string) {
	resp, err := http.Post(fmt.Sprintf("%s/api/sessions/%s/%s", baseURL, g.sessionID, path),
		"application/json", strings.NewReader(payload))
	if err != nil {
		g.setStatus(fmt.Sprintf("request failed: %v", err))
		return
	}
	resp.Body.Close()

	g.fetchGameState()
	g.fetchCaches()
}

func (g *Game) setStatus(msg string) {
	g.stateMutex.Lock()
	g.statusMsg = msg
	g.stateMutex.Unlock()
}

// move steps the player one cell
func (g *Game) move(direction string) {
	g.post("move", fmt.Sprintf(`{"direction":%q}`, direction))
}

// collect takes a coin from the first stocked cache in view
func (g *Game) collect() {
	g.stateMutex.RLock()
	var target *CacheView
	for i := range g.caches {
		if len(g.caches[i].Coins) > 0 {
			target = &g.caches[i]
			break
		}
	}
	g.stateMutex.RUnlock()

	if target == nil {
		g.setStatus("no stocked cache in view")
		return
	}
	g.post("collect", fmt.Sprintf(`{"cell":{"i":%d,"j":%d},"coin_id":0}`, target.Cell.I, target.Cell.J))
}

// deposit drops the first carried coin into the nearest cache in view
func (g *Game) deposit() {
	g.stateMutex.RLock()
	carrying := g.state != nil && len(g.state.Inventory) > 0
	var target *CacheView
	if len(g.caches) > 0 {
		target = &g.caches[0]
	}
	g.stateMutex.RUnlock()

	if !carrying {
		g.setStatus("not carrying any coins")
		return
	}
	if target == nil {
		g.setStatus("no cache in view")
		return
	}
	g.post("deposit", fmt.Sprintf(`{"cell":{"i":%d,"j":%d},"coin_id":0}`, target.Cell.I, target.Cell.J))
}

// toggleTracking flips the server-side location watcher
func (g *Game) toggleTracking() {
	g.stateMutex.RLock()
	enabled := g.state != nil && g.state.Tracking
	g.stateMutex.RUnlock()

	g.post("track", fmt.Sprintf(`{"enabled":%t}`, !enabled))
}

// Update handles input and keeps the state fresh when polling
func (g *Game) Update() error {
	// Poll if WebSocket is not connected
	if g.wsConn == nil {
		g.stateMutex.RLock()
		stale := g.state == nil || time.Since(g.lastUpdate) > 500*time.Millisecond
		g.stateMutex.RUnlock()
		if stale {
			g.fetchGameState()
			g.fetchCaches()
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) || inpututil.IsKeyJustPressed(ebiten.KeyW) {
		g.move("north")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) || inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.move("south")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
		g.move("west")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
		g.move("east")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.collect()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		g.deposit()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.post("reset", "{}")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		g.toggleTracking()
	}

	return nil
}

// cellToScreen maps a grid cell to the viewport, player-centered, north up
func cellToScreen(cell, player CellID) (float64, float64, bool) {
	dx := cell.J - player.J
	dy := player.I - cell.I
	if dx < -viewRadius || dx > viewRadius || dy < -viewRadius || dy > viewRadius {
		return 0, 0, false
	}
	x := float64((dx + viewRadius) * cellSize)
	y := float64((dy+viewRadius)*cellSize + headerHeight)
	return x, y, true
}

// Draw renders the map: grid, caches, trail, player, and the HUD
func (g *Game) Draw(screen *ebiten.Image) {
	g.stateMutex.RLock()
	defer g.stateMutex.RUnlock()

	screen.Fill(color.RGBA{24, 30, 24, 255})

	if g.state == nil {
		ebitenutil.DebugPrint(screen, "Loading...")
		return
	}

	player := g.state.Cell

	// Grid lines
	gridColor := color.RGBA{40, 50, 40, 255}
	for i := 0; i <= 2*viewRadius+1; i++ {
		ebitenutil.DrawLine(screen, float64(i*cellSize), headerHeight,
			float64(i*cellSize), headerHeight+float64((2*viewRadius+1)*cellSize), gridColor)
		ebitenutil.DrawLine(screen, 0, headerHeight+float64(i*cellSize),
			screenWidth, headerHeight+float64(i*cellSize), gridColor)
	}

	// Cache rectangles: gold when stocked, gray when emptied
	for _, cache := range g.caches {
		x, y, ok := cellToScreen(cache.Cell, player)
		if !ok {
			continue
		}
		cacheColor := color.RGBA{212, 175, 55, 255}
		if len(cache.Coins) == 0 {
			cacheColor = color.RGBA{90, 90, 90, 255}
		}
		ebitenutil.DrawRect(screen, x+2, y+2, cellSize-4, cellSize-4, cacheColor)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d", len(cache.Coins)), int(x)+10, int(y)+8)
	}

	// Trail dots, most recent brighter
	total := len(g.state.Trail)
	for i, p := range g.state.Trail {
		cell := CellID{
			I: floorDiv(p.Lat, g.tile),
			J: floorDiv(p.Lng, g.tile),
		}
		x, y, ok := cellToScreen(cell, player)
		if !ok {
			continue
		}
		alpha := uint8(60 + 180*i/max(total, 1))
		ebitenutil.DrawRect(screen, x+float64(cellSize)/2-3, y+float64(cellSize)/2-3, 6, 6,
			color.RGBA{80, 160, 255, alpha})
	}

	// Player marker
	px, py, _ := cellToScreen(player, player)
	ebitenutil.DrawRect(screen, px+6, py+6, cellSize-12, cellSize-12, color.RGBA{255, 80, 80, 255})

	// Header HUD
	tracking := ""
	if g.state.Tracking {
		tracking = " [TRACKING]"
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Session %s | %s%s", g.sessionID, g.state.ConfigName, tracking), 10, 5)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Cell %d:%d | Moves: %d | Carrying: %d coins",
		player.I, player.J, g.state.TotalMoves, len(g.state.Inventory)), 10, 20)

	msg := g.state.Message
	if g.statusMsg != "" {
		msg = g.statusMsg
	}
	ebitenutil.DebugPrintAt(screen, msg, 10, 35)

	// Footer controls
	ebitenutil.DebugPrintAt(screen,
		"Arrows/WASD: Move | C: Collect | E: Deposit | G: Tracking | R: Reset",
		10, screenHeight-25)
}

// floorDiv quantizes a coordinate the same way the server does
func floorDiv(value, tile float64) int {
	q := value / tile
	f := int(q)
	if q < 0 && float64(f) != q {
		f--
	}
	return f
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Layout returns the game screen size
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	sessionID := ""
	if len(os.Args) > 1 {
		sessionID = os.Args[1]
	}

	game := NewGame(sessionID)

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Geocoin Carrier - Desktop Map Client")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
