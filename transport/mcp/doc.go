// Package mcp exposes the game as a set of MCP (Model Context Protocol)
// tools for AI agents.
//
// The package is a thin client: every tool handler proxies to the REST API
// over HTTP and formats the JSON response as readable text. It holds no game
// state of its own, so any number of MCP clients can point at the same
// server and observe consistent sessions.
//
// Tools cover the full game surface: session management (create_session,
// get_session, list_sessions), movement (move, bulk_move, set_position,
// set_tracking), coin transfer (collect_coin, deposit_coin), inspection
// (game_state, visible_caches, trail, describe_cell), reset_game,
// list_configs, and game_instructions.
//
// The one exception to pure proxying is describe_cell: cache placement is a
// pure function of cell and config, so the handler fetches the session's
// config once and computes the spawn answer locally instead of adding a
// server endpoint.
//
// The move and bulk_move tools accept an "intent" parameter that is not
// forwarded to the server. It exists so agents articulate their plan before
// acting, which measurably improves multi-step play.
//
// Serve the client over stdio with server.ServeStdio(client.GetMCPServer()).
package mcp
