// Package api provides HTTP REST API handlers for the Geocoin Carrier game.
//
// The api package implements:
//   - RESTful endpoints for game operations
//   - Session management endpoints
//   - Configuration listing and creation
//   - WebSocket upgrade handling
//   - Static file serving
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create new session
//   - GET /api/sessions - List all sessions
//   - GET /api/sessions/{id} - Get specific session
//   - DELETE /api/sessions/{id} - Delete session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Get current game state
//   - POST /api/sessions/{id}/move - Step in a cardinal direction
//   - POST /api/sessions/{id}/bulk-move - Execute a sequence of steps
//   - POST /api/sessions/{id}/position - Jump to an arbitrary lat/lng
//   - POST /api/sessions/{id}/collect - Take a coin from a cache
//   - POST /api/sessions/{id}/deposit - Leave a coin in a cache
//   - POST /api/sessions/{id}/reset - Reset the game
//   - GET /api/sessions/{id}/caches - Visible caches with bounds and coins
//   - GET /api/sessions/{id}/trail - Movement trail with pagination
//   - POST /api/sessions/{id}/track - Toggle continuous location tracking
//
// Configuration:
//   - GET /api/configs - List available configurations
//   - POST /api/configs - Save a new configuration
//   - GET /api/configs/{name} - Get a configuration
//
// Request/Response Format:
//
// All endpoints accept and return JSON. Coin transfers identify the cache
// by grid cell and optionally a specific coin:
//
//	{
//	  "cell": {"i": 369894, "j": -1220627},
//	  "coin_id": 42   // omit or 0 to take/leave the first coin
//	}
//
// Error Handling:
//
// Errors are returned as JSON with appropriate HTTP status codes:
//
//	{
//	  "error": "error message"
//	}
package api
