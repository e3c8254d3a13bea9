package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/geocoin-carrier/game/engine"
	"github.com/wricardo/geocoin-carrier/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Geocoin Carrier",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Geocoin Carrier - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Walk a real-world lat/lng grid, discover hidden coin caches, and carry
coins between them. Every coin is unique and nothing is ever created or
destroyed after a cache is first discovered.

AVAILABLE TOOLS:
- game_state: Get current game state
- move: Single step (north/south/east/west) - requires intent explanation
- bulk_move: Multiple steps at once - requires intent explanation
- set_position: Jump to an arbitrary lat/lng
- collect_coin: Take a coin from a nearby cache
- deposit_coin: Leave a carried coin in a nearby cache
- visible_caches: List caches in the visible neighborhood
- trail: View the movement trail
- reset_game: Reset to initial state
- set_tracking: Toggle continuous location tracking
- create_session: Create new game session
- get_session: Get session details
- list_sessions: List all active sessions
- list_configs: List available configurations
- game_instructions: Get comprehensive game instructions and rules
- describe_cell: Get deterministic spawn info for a specific grid cell

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the config to use (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to retrieve",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Step the player one grid cell in a cardinal direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"north", "south", "east", "west"},
					"description": "Direction to step",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: "Execute multiple steps in sequence",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"north", "south", "east", "west"},
					},
					"description": "Array of steps",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_position",
		Description: "Jump the player to an arbitrary lat/lng point",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"lat": map[string]interface{}{
					"type":        "number",
					"description": "Latitude in degrees",
				},
				"lng": map[string]interface{}{
					"type":        "number",
					"description": "Longitude in degrees",
				},
			},
			Required: []string{"session_id", "lat", "lng"},
		},
	}, c.handleSetPosition)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "collect_coin",
		Description: "Take a coin from a cache in the visible neighborhood. Omit coin_id to take the first coin.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"i": map[string]interface{}{
					"type":        "integer",
					"description": "Cache cell row index (latitude)",
				},
				"j": map[string]interface{}{
					"type":        "integer",
					"description": "Cache cell column index (longitude)",
				},
				"coin_id": map[string]interface{}{
					"type":        "integer",
					"description": "Specific coin ID to take (optional)",
				},
			},
			Required: []string{"session_id", "i", "j"},
		},
	}, c.handleCollectCoin)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "deposit_coin",
		Description: "Leave a carried coin in a cache in the visible neighborhood. Omit coin_id to leave the first carried coin.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"i": map[string]interface{}{
					"type":        "integer",
					"description": "Cache cell row index (latitude)",
				},
				"j": map[string]interface{}{
					"type":        "integer",
					"description": "Cache cell column index (longitude)",
				},
				"coin_id": map[string]interface{}{
					"type":        "integer",
					"description": "Specific carried coin ID to leave (optional)",
				},
			},
			Required: []string{"session_id", "i", "j"},
		},
	}, c.handleDepositCoin)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "visible_caches",
		Description: "List the caches in the visible neighborhood with their coins",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleVisibleCaches)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "trail",
		Description: "Get the movement trail for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleTrail)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to initial state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "set_tracking",
		Description: "Enable or disable continuous location tracking for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"enabled": map[string]interface{}{
					"type":        "boolean",
					"description": "True to start tracking, false to stop",
				},
			},
			Required: []string{"session_id", "enabled"},
		},
	}, c.handleSetTracking)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available game configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get comprehensive game instructions and rules",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get deterministic information about a specific grid cell: whether a cache spawns there, its initial coin count, and whether it is currently visible.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"i": map[string]interface{}{
					"type":        "integer",
					"description": "Cell row index (latitude)",
				},
				"j": map[string]interface{}{
					"type":        "integer",
					"description": "Cell column index (longitude)",
				},
			},
			Required: []string{"session_id", "i", "j"},
		},
	}, c.handleDescribeCell)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	err := c.apiCall("POST", "/api/sessions", body, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nConfig: %s\n", session.ID, session.ConfigName)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	err := c.apiCall("GET", "/api/sessions", nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		result += fmt.Sprintf("- %s (Config: %s, Created: %s)\n",
			s.ID, s.ConfigName, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatSessionInfo(&session)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var state engine.GameState
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/state", sessionID), nil, &state)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatGameState(&state)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	direction, _ := args["direction"].(string)
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	body := map[string]interface{}{
		"direction": direction,
		"reset":     reset,
	}

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/move", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatMoveResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	movesRaw, _ := args["moves"].([]interface{})
	intent, _ := args["intent"].(string)
	reset, _ := args["reset"].(bool)

	// Intent parameter serves as rubber duck debugging - we don't need to process it further
	_ = intent

	moves := make([]string, 0, len(movesRaw))
	for _, m := range movesRaw {
		if move, ok := m.(string); ok {
			moves = append(moves, move)
		}
	}

	body := map[string]interface{}{
		"moves": moves,
		"reset": reset,
	}

	var result service.BulkMoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/bulk-move", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatBulkMoveResult(sessionID, &result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleSetPosition(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	lat, _ := args["lat"].(float64)
	lng, _ := args["lng"].(float64)

	body := map[string]float64{"lat": lat, "lng": lng}

	var result service.MoveResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/position", sessionID), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatMoveResult(&result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleCollectCoin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.handleTransfer(request, "collect")
}

func (c *Client) handleDepositCoin(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return c.handleTransfer(request, "deposit")
}

func (c *Client) handleTransfer(request mcp.CallToolRequest, op string) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	i := intArg(args, "i")
	j := intArg(args, "j")
	coinID := int64(intArg(args, "coin_id"))

	body := map[string]interface{}{
		"cell":    map[string]int{"i": i, "j": j},
		"coin_id": coinID,
	}

	var result service.TransferResult
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/%s", sessionID, op), body, &result)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	response := formatTransferResult(op, &result)
	return mcp.NewToolResultText(response), nil
}

func (c *Client) handleVisibleCaches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Count  int                `json:"count"`
		Caches []engine.CacheView `json:"caches"`
	}

	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/caches", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Visible Caches (%d):\n\n", response.Count)
	for _, cache := range response.Caches {
		result += formatCacheView(&cache)
	}
	if response.Count == 0 {
		result += "(no caches in the visible neighborhood)\n"
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleTrail(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var trail service.TrailResponse
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s/trail%s", sessionID, params), nil, &trail)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := formatTrail(&trail)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)

	var response struct {
		Message string            `json:"message"`
		State   *engine.GameState `json:"state"`
	}

	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/reset", sessionID), nil, &response)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatGameState(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleSetTracking(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	enabled, _ := args["enabled"].(bool)

	body := map[string]bool{"enabled": enabled}

	var status service.TrackingStatus
	err := c.apiCall("POST", fmt.Sprintf("/api/sessions/%s/track", sessionID), body, &status)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state := "disabled"
	if status.Enabled {
		state = "enabled"
	}
	result := fmt.Sprintf("Tracking %s for session %s\n%s\n", state, status.SessionID, status.Message)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	err := c.apiCall("GET", "/api/configs", nil, &configs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := "Available Configurations:\n\n"
	for _, config := range configs {
		result += fmt.Sprintf("• %s (%s)\n  %s\n  Neighborhood: %d cells, Spawn probability: %.0f%%\n\n",
			config.Name, config.ConfigID, config.Description,
			config.NeighborhoodSize, config.SpawnProbability*100)
	}

	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := `🪙 Geocoin Carrier - Complete Instructions

GAME OBJECTIVE:
Walk a lat/lng grid anchored to the real world, discover hidden coin
caches, and carry unique coins between them. There is no win condition;
the game is about collecting, carrying, and redistributing coins.

GAME MECHANICS:
• The world is divided into square grid cells (about 0.0001 degrees wide)
• Each cell deterministically either holds a cache or does not: the same
  cell always gives the same answer, in every session using the same config
• A cache's initial coin count is also deterministic for its cell
• Caches only materialize when they first become visible near the player;
  after that, their contents change only through your collects and deposits
• Every coin has a globally unique ID plus a home label "i:j#serial" naming
  the cache it was minted in

MOVEMENT:
• north/south/east/west - Single steps of one grid cell
• bulk_move - Execute several steps in sequence for efficiency
• set_position - Jump straight to a lat/lng (the geolocation path)
• set_tracking - Let a location watcher drive the player continuously
• Each position change appends a point to your trail

VISIBILITY AND RANGE:
• Only caches within the visible neighborhood around your current cell can
  be seen or interacted with
• Walk away and return: a discovered cache keeps its exact contents

COIN RULES:
• collect_coin moves one coin from a nearby cache into your inventory
• deposit_coin moves one carried coin into a nearby cache - any cache, not
  just the one the coin came from
• Collecting from an empty cache or depositing with empty hands is a safe
  no-op with a message, never an error
• Total coins in the world never change once caches are discovered

RESET:
• reset_game returns the player to the start, clears the trail and
  inventory, and regenerates caches; deterministic placement means the
  world comes back exactly the same

SESSION MANAGEMENT:
• Multiple game sessions can run simultaneously
• Each session has a unique 4-character ID
• Sessions maintain independent state and configuration
• Sessions persist across server restarts

STRATEGY SUGGESTIONS FOR AGENTS:
• Use visible_caches after every move to see what is in range
• Use describe_cell to check distant cells before walking there - spawn
  decisions are deterministic, so the answer is reliable
• Bulk moves with a planned route beat one step at a time
• Track coin identity: a coin's label tells you how far it has traveled
  from its home cache

Good luck, carrier! 🪙🗺️`

	return mcp.NewToolResultText(instructions), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	sessionID, _ := args["session_id"].(string)
	i := intArg(args, "i")
	j := intArg(args, "j")

	// Fetch the session to learn which config drives the deterministic
	// placement, then compute spawn info locally.
	var session service.SessionInfo
	err := c.apiCall("GET", fmt.Sprintf("/api/sessions/%s", sessionID), nil, &session)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if session.GameConfig == nil || session.GameState == nil {
		return mcp.NewToolResultError("session has no config or state"), nil
	}

	cell := engine.CellID{I: i, J: j}
	info := engine.DescribeCell(session.GameState, cell, session.GameConfig)

	spawns := "no cache"
	if info.Spawns {
		spawns = fmt.Sprintf("cache with %d initial coins",
			engine.InitialCoinCount(cell, session.GameConfig.MaxInitialCoins))
	}
	visible := "out of visible range"
	if info.Visible {
		visible = "within visible range"
	}
	populated := "not yet discovered"
	if info.Populated {
		populated = fmt.Sprintf("discovered, currently holds %d coins", info.CoinCount)
	}

	result := fmt.Sprintf(`Cell %s:
━━━━━━━━━━━━━━━━━━━━━━━━
Deterministic spawn: %s
Luck value: %.4f
Status: %s
Range: %s

Spawn decisions never change for a given cell and config, so this answer
holds whether or not you have visited the cell.`,
		info.Cell.Key(), spawns, info.Luck, populated, visible)

	return mcp.NewToolResultText(result), nil
}

// intArg reads an integer tool argument, tolerating JSON float decoding
func intArg(args map[string]interface{}, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\n\n%s",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatGameState(session.GameState))
}

func formatGameState(state *engine.GameState) string {
	if state == nil {
		return "No game state available"
	}

	var result strings.Builder

	result.WriteString(fmt.Sprintf("Position: (%.6f, %.6f) | Cell: %s | Moves: %d\n",
		state.Player.Lat, state.Player.Lng, state.Cell.Key(), state.TotalMoves))

	tracking := "off"
	if state.Tracking {
		tracking = "on"
	}
	result.WriteString(fmt.Sprintf("Tracking: %s | Trail points: %d\n\n", tracking, len(state.Trail)))

	result.WriteString(fmt.Sprintf("Inventory (%d coins):\n", len(state.Inventory)))
	if len(state.Inventory) == 0 {
		result.WriteString("  (empty)\n")
	}
	for _, coin := range state.Inventory {
		result.WriteString(fmt.Sprintf("  - #%d from %s\n", coin.ID, coin.Label()))
	}

	result.WriteString(fmt.Sprintf("\nDiscovered caches: %d\n", len(state.Ledger)))

	if state.Message != "" {
		result.WriteString(fmt.Sprintf("\nMessage: %s", state.Message))
	}

	return result.String()
}

func formatMoveResult(result *service.MoveResult) string {
	response := ""
	if result.Success {
		response = "✓ Move successful\n"
	} else {
		response = "✗ Move failed\n"
	}

	if result.Discovered > 0 {
		response += fmt.Sprintf("Discovered %d new caches\n", result.Discovered)
	}
	response += fmt.Sprintf("Caches in range: %d\n", result.NearbyCaches)

	if len(result.Events) > 0 {
		response += "Events:\n"
		for _, event := range result.Events {
			response += fmt.Sprintf("- %s: %s\n", event.Type, event.Message)
		}
	}

	response += "\n" + formatGameState(result.GameState)
	return response
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	configName := ""
	if result.GameState != nil {
		configName = result.GameState.ConfigName
	}
	b.WriteString(fmt.Sprintf("Session: %s • Config: %s\n", sessionID, configName))
	b.WriteString(fmt.Sprintf("Executed %d/%d steps: %s → %s\n",
		result.MovesExecuted, result.RequestedMoves,
		result.StartCell.Key(), result.EndCell.Key()))

	if result.StoppedReason != "" {
		b.WriteString(fmt.Sprintf("Stopped: %s\n", result.StoppedReason))
	}
	if result.Truncated {
		b.WriteString(fmt.Sprintf("Truncated to the %d-step limit\n", result.Limit))
	}

	if len(result.Steps) > 0 {
		b.WriteString("\nSteps:\n")
		for _, s := range result.Steps {
			marker := ""
			if s.Discovered > 0 {
				marker = fmt.Sprintf(" (+%d caches)", s.Discovered)
			}
			b.WriteString(fmt.Sprintf("%d. %s %s → %s%s\n", s.Idx, s.Dir, s.From.Key(), s.To.Key(), marker))
		}
	}

	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range result.Events {
			b.WriteString(fmt.Sprintf("- %s: %s\n", event.Type, event.Message))
		}
	}

	b.WriteString("\n")
	b.WriteString(formatGameState(result.GameState))
	return b.String()
}

func formatTransferResult(op string, result *service.TransferResult) string {
	var b strings.Builder

	if result.Success && result.Coin != nil {
		b.WriteString(fmt.Sprintf("✓ %s: coin #%d (%s)\n", op, result.Coin.ID, result.Coin.Label()))
	} else {
		b.WriteString(fmt.Sprintf("• %s: nothing to move\n", op))
	}

	if result.Message != "" {
		b.WriteString(fmt.Sprintf("Message: %s\n", result.Message))
	}

	if result.GameState != nil {
		b.WriteString(fmt.Sprintf("Carrying %d coins\n", len(result.GameState.Inventory)))
	}

	return b.String()
}

func formatCacheView(cache *engine.CacheView) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("• Cache %s (%d coins)\n", cache.Cell.Key(), len(cache.Coins)))
	b.WriteString(fmt.Sprintf("  Bounds: SW(%.6f, %.6f) NE(%.6f, %.6f)\n",
		cache.Bounds.SouthWest.Lat, cache.Bounds.SouthWest.Lng,
		cache.Bounds.NorthEast.Lat, cache.Bounds.NorthEast.Lng))
	for _, coin := range cache.Coins {
		b.WriteString(fmt.Sprintf("  - #%d from %s\n", coin.ID, coin.Label()))
	}
	b.WriteString("\n")
	return b.String()
}

func formatTrail(trail *service.TrailResponse) string {
	result := fmt.Sprintf("Trail (Page %d/%d) - Total points: %d\n\n",
		trail.Page, trail.TotalPages, trail.TotalPoints)

	for i, p := range trail.Points {
		num := (trail.Page-1)*trail.PageSize + i + 1
		result += fmt.Sprintf("%d. (%.6f, %.6f)\n", num, p.Lat, p.Lng)
	}

	if len(trail.Points) == 0 {
		result += "(no points on this page)\n"
	}

	return result
}
