// Command bot runs an automated sweeper against a Geocoin Carrier server.
//
// The bot creates a session, walks a serpentine pattern over a square area
// around the start, empties every cache it finds into its inventory, then
// carries the whole haul back and deposits it into a single bank cache. At
// every step it re-checks the conserved coin total and coin ID uniqueness,
// so a full run doubles as an end-to-end invariant test of the server.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type CellID struct {
	I int `json:"i"`
	J int `json:"j"`
}

type Coin struct {
	ID     int64  `json:"id"`
	Origin CellID `json:"origin"`
	Serial int    `json:"serial"`
}

type CacheView struct {
	Cell  CellID `json:"cell"`
	Coins []Coin `json:"coins"`
}

type GameState struct {
	Player     GeoPoint          `json:"player"`
	Cell       CellID            `json:"cell"`
	Inventory  []Coin            `json:"inventory"`
	Ledger     map[string][]Coin `json:"ledger"`
	TotalMoves int               `json:"total_moves"`
	Message    string            `json:"message"`
	ConfigName string            `json:"config_name"`
}

type SessionResponse struct {
	ID         string     `json:"id"`
	ConfigName string     `json:"config_name"`
	GameState  *GameState `json:"game_state"`
}

type MoveResponse struct {
	Success   bool       `json:"success"`
	GameState *GameState `json:"game_state"`
}

type BulkMoveResponse struct {
	MovesExecuted int        `json:"moves_executed"`
	GameState     *GameState `json:"game_state"`
}

type TransferResponse struct {
	Success   bool       `json:"success"`
	Coin      *Coin      `json:"coin"`
	GameState *GameState `json:"game_state"`
	Message   string     `json:"message"`
}

type CachesResponse struct {
	Count  int         `json:"count"`
	Caches []CacheView `json:"caches"`
}

type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) CreateSession(configID string) (*GameState, error) {
	var reqBody []byte
	var err error

	if configID != "" {
		reqBody, err = json.Marshal(map[string]string{"config_id": configID})
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
	}

	resp, err := c.client.Post(c.baseURL+"/api/sessions", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create session failed: %s - %s", resp.Status, string(body))
	}

	var session SessionResponse
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("parse session response: %w", err)
	}

	c.sessionID = session.ID
	return session.GameState, nil
}

func (c *Client) GetState() (*GameState, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/state", c.baseURL, c.sessionID)
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	defer resp.Body.Close()

	var state GameState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	return &state, nil
}

func (c *Client) BulkMove(directions []string) (*GameState, error) {
	reqBody, err := json.Marshal(map[string]interface{}{"moves": directions})
	if err != nil {
		return nil, fmt.Errorf("marshal bulk move: %w", err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/bulk-move", c.baseURL, c.sessionID)
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("bulk move: %w", err)
	}
	defer resp.Body.Close()

	var result BulkMoveResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse bulk move response: %w", err)
	}
	return result.GameState, nil
}

func (c *Client) Caches() ([]CacheView, error) {
	url := fmt.Sprintf("%s/api/sessions/%s/caches", c.baseURL, c.sessionID)
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("get caches: %w", err)
	}
	defer resp.Body.Close()

	var result CachesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("parse caches: %w", err)
	}
	return result.Caches, nil
}

func (c *Client) transfer(op string, cell CellID, coinID int64) (*TransferResponse, error) {
	reqBody, err := json.Marshal(map[string]interface{}{
		"cell":    map[string]int{"i": cell.I, "j": cell.J},
		"coin_id": coinID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", op, err)
	}

	url := fmt.Sprintf("%s/api/sessions/%s/%s", c.baseURL, c.sessionID, op)
	resp, err := c.client.Post(url, "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s failed: %s - %s", op, resp.Status, string(body))
	}

	var result TransferResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse %s response: %w", op, err)
	}
	return &result, nil
}

func (c *Client) Collect(cell CellID) (*TransferResponse, error) {
	return c.transfer("collect", cell, 0)
}

func (c *Client) Deposit(cell CellID) (*TransferResponse, error) {
	return c.transfer("deposit", cell, 0)
}

// coinTotal counts every known coin: caches plus inventory.
func coinTotal(state *GameState) int {
	total := len(state.Inventory)
	for _, coins := range state.Ledger {
		total += len(coins)
	}
	return total
}

// checkInvariants verifies conservation against a baseline and coin ID
// uniqueness across the whole state. New discoveries legitimately raise the
// total, so the baseline only binds when no new ledger entries appeared.
func checkInvariants(state *GameState, baselineTotal, baselineCaches int) error {
	if len(state.Ledger) == baselineCaches && coinTotal(state) != baselineTotal {
		return fmt.Errorf("conservation violated: had %d coins, now %d with no new caches",
			baselineTotal, coinTotal(state))
	}

	seen := make(map[int64]bool)
	check := func(coins []Coin) error {
		for _, coin := range coins {
			if seen[coin.ID] {
				return fmt.Errorf("duplicate coin ID %d", coin.ID)
			}
			seen[coin.ID] = true
		}
		return nil
	}
	if err := check(state.Inventory); err != nil {
		return err
	}
	for _, coins := range state.Ledger {
		if err := check(coins); err != nil {
			return err
		}
	}
	return nil
}

// serpentine yields the bulk-move batches that sweep a (2r+1)^2 area.
func serpentine(radius int) [][]string {
	var batches [][]string

	// Walk to the top-left corner of the sweep area
	var toCorner []string
	for i := 0; i < radius; i++ {
		toCorner = append(toCorner, "north")
	}
	for i := 0; i < radius; i++ {
		toCorner = append(toCorner, "west")
	}
	batches = append(batches, toCorner)

	// Sweep row by row, alternating direction
	width := 2 * radius
	for row := 0; row <= 2*radius; row++ {
		dir := "east"
		if row%2 == 1 {
			dir = "west"
		}
		var batch []string
		for i := 0; i < width; i++ {
			batch = append(batch, dir)
		}
		if row < 2*radius {
			batch = append(batch, "south")
		}
		batches = append(batches, batch)
	}

	return batches
}

// sweepVisible empties every stocked cache currently in view.
func sweepVisible(client *Client) (int, error) {
	collected := 0
	caches, err := client.Caches()
	if err != nil {
		return 0, err
	}

	for _, cache := range caches {
		for range cache.Coins {
			result, err := client.Collect(cache.Cell)
			if err != nil {
				return collected, err
			}
			if !result.Success {
				break
			}
			collected++
			log.Printf("  collected %d:%d#%d (coin %d) from %d:%d",
				result.Coin.Origin.I, result.Coin.Origin.J, result.Coin.Serial,
				result.Coin.ID, cache.Cell.I, cache.Cell.J)
		}
	}
	return collected, nil
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "server base URL")
	configID := flag.String("config", "", "config ID for the new session")
	radius := flag.Int("radius", 6, "sweep radius in cells")
	flag.Parse()

	client := NewClient(*baseURL)

	state, err := client.CreateSession(*configID)
	if err != nil {
		log.Fatalf("Failed to create session: %v", err)
	}
	log.Printf("Session %s created (config: %s)", client.sessionID, state.ConfigName)

	baselineTotal := coinTotal(state)
	baselineCaches := len(state.Ledger)
	log.Printf("Baseline: %d caches discovered, %d coins known", baselineCaches, baselineTotal)

	totalCollected := 0
	for step, batch := range serpentine(*radius) {
		state, err = client.BulkMove(batch)
		if err != nil {
			log.Fatalf("Sweep step %d failed: %v", step, err)
		}

		collected, err := sweepVisible(client)
		if err != nil {
			log.Fatalf("Collect failed: %v", err)
		}
		totalCollected += collected

		state, err = client.GetState()
		if err != nil {
			log.Fatalf("Failed to fetch state: %v", err)
		}
		if err := checkInvariants(state, baselineTotal, baselineCaches); err != nil {
			log.Fatalf("Invariant violated after step %d: %v", step, err)
		}
		baselineTotal = coinTotal(state)
		baselineCaches = len(state.Ledger)
	}

	log.Printf("Sweep complete: carrying %d coins after %d moves", len(state.Inventory), state.TotalMoves)

	// Bank everything into the first cache still in view
	caches, err := client.Caches()
	if err != nil {
		log.Fatalf("Failed to list caches: %v", err)
	}
	if len(caches) == 0 {
		log.Printf("No cache in view to bank into; done")
		os.Exit(0)
	}

	bank := caches[0].Cell
	banked := 0
	for range state.Inventory {
		result, err := client.Deposit(bank)
		if err != nil {
			log.Fatalf("Deposit failed: %v", err)
		}
		if !result.Success {
			break
		}
		banked++
	}

	state, err = client.GetState()
	if err != nil {
		log.Fatalf("Failed to fetch final state: %v", err)
	}
	if err := checkInvariants(state, baselineTotal, baselineCaches); err != nil {
		log.Fatalf("Invariant violated after banking: %v", err)
	}

	log.Printf("Banked %d coins into %d:%d", banked, bank.I, bank.J)
	log.Printf("Final: %d coins conserved across %d caches, %d still carried",
		coinTotal(state), len(state.Ledger), len(state.Inventory))
	log.Printf("✅ All invariants held for the whole run")
}
