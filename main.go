// Command geocoin-carrier starts the Geocoin Carrier game server.
//
// It supports two modes:
//  1. "server" (default) – runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" – runs an MCP stdio server and spins up an internal HTTP API if none is available
//
// Flags control host/port, config directory, session store backend, debug
// logging, version output, and optional ngrok tunneling for easy external
// access during development. Every flag default can be overridden through the
// environment (and a .env file), which keeps container deployments flag-free.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/geocoin-carrier/api"
	"github.com/wricardo/geocoin-carrier/game/config"
	"github.com/wricardo/geocoin-carrier/game/engine"
	"github.com/wricardo/geocoin-carrier/game/service"
	"github.com/wricardo/geocoin-carrier/game/session"
	"github.com/wricardo/geocoin-carrier/geo"
	"github.com/wricardo/geocoin-carrier/transport/mcp"
	"github.com/wricardo/geocoin-carrier/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Geocoin Carrier Server"
)

// envConfig holds every environment-driven setting. Values here become the
// defaults for the command-line flags, so flags always win when both are set.
type envConfig struct {
	Host         string `env:"HOST" envDefault:"localhost"`
	Port         int    `env:"PORT" envDefault:"8080"`
	ConfigDir    string `env:"CONFIG_DIR" envDefault:"configs"`
	SessionsDir  string `env:"SESSIONS_DIR" envDefault:"sessions"`
	SessionStore string `env:"SESSION_STORE" envDefault:"file"`
	SQLitePath   string `env:"SQLITE_PATH" envDefault:"sessions/saves.db"`
	NgrokEnabled bool   `env:"NGROK_ENABLED"`
	NgrokAuth    string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain  string `env:"NGROK_DOMAIN"`
}

// Configuration flags control how the server starts and which services are enabled.
var (
	port         *int
	host         *string
	configDir    *string
	sessionsDir  *string
	sessionStore *string
	sqlitePath   *string
	debug        *bool
	version      *bool
	ngrokEnabled *bool
	ngrokAuth    *string
	ngrokDomain  *string
)

// setupFlags parses the environment into envConfig and registers flags with
// those values as defaults.
func setupFlags() error {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}

	port = flag.Int("port", cfg.Port, "HTTP server port")
	host = flag.String("host", cfg.Host, "HTTP server host")
	configDir = flag.String("config-dir", cfg.ConfigDir, "Directory containing game configurations")
	sessionsDir = flag.String("sessions-dir", cfg.SessionsDir, "Directory for file-based session saves")
	sessionStore = flag.String("store", cfg.SessionStore, "Session store backend: file or sqlite")
	sqlitePath = flag.String("sqlite-path", cfg.SQLitePath, "Path to the SQLite database (store=sqlite)")
	debug = flag.Bool("debug", false, "Enable debug logging")
	version = flag.Bool("version", false, "Show version information")
	ngrokEnabled = flag.Bool("ngrok", cfg.NgrokEnabled, "Enable ngrok tunnel")
	ngrokAuth = flag.String("ngrok-auth", cfg.NgrokAuth, "Ngrok auth token (or use NGROK_AUTHTOKEN env var)")
	ngrokDomain = flag.String("ngrok-domain", cfg.NgrokDomain, "Custom ngrok domain (optional)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [MODE]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "%s v%s\n\n", AppName, Version)
		fmt.Fprintf(os.Stderr, "Available modes:\n")
		fmt.Fprintf(os.Stderr, "  server, http     Run HTTP server with API, WebSocket, and MCP endpoint (default)\n")
		fmt.Fprintf(os.Stderr, "  stdio-mcp        Run MCP stdio server with internal HTTP server\n")
		fmt.Fprintf(os.Stderr, "  mcp-stdio        Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "  mcp              Alias for stdio-mcp\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                      # Run HTTP server on default port 8080\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -port 9090           # Run HTTP server on port 9090\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -store sqlite        # Persist sessions to SQLite instead of JSON files\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s stdio-mcp            # Run MCP stdio server\n", os.Args[0])
	}

	return nil
}

// main parses flags, initializes services, and starts the selected mode.
func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	if err := setupFlags(); err != nil {
		log.Fatalf("Failed to set up flags: %v", err)
	}
	flag.Parse()

	// Show version if requested
	if *version {
		fmt.Printf("%s v%s\n", AppName, Version)
		os.Exit(0)
	}

	// Setup logging
	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	// Determine mode from command
	args := flag.Args()
	mode := "server" // default
	if len(args) > 0 {
		mode = args[0]
	}

	log.Printf("Starting %s v%s (mode: %s, store: %s)", AppName, Version, mode, *sessionStore)

	// Initialize services
	gameService, sessionManager, persistence, err := initializeServices()
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	switch mode {
	case "stdio-mcp", "mcp-stdio", "mcp":
		// Run MCP stdio server with internal HTTP server
		runStdioMCPWithInternalServer(gameService)
		return

	case "server", "http":
		// Run HTTP server with API, WebSocket, and MCP endpoint
		runHTTPServer(gameService, sessionManager, persistence)

	default:
		log.Fatalf("Unknown mode: %s. Use 'server' (default) or 'stdio-mcp'", mode)
	}
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp proxy endpoint.
// If ngrok is enabled (via flag or environment), it also provisions a public tunnel.
func runHTTPServer(gameService service.GameService, sessionManager *session.Manager, persistence session.SessionPersistence) {
	// Create WebSocket hub
	hub := websocket.NewHub()
	go hub.Run()

	// Push state changes from the tracking goroutines to connected clients.
	// Manual actions are broadcast by the API handlers themselves.
	service.SetStateListener(gameService, hub.BroadcastToSession)

	// Create API server
	apiServer := api.NewServer(gameService, hub)

	// Setup HTTP server address
	addr := fmt.Sprintf("%s:%d", *host, *port)

	// Create MCP client for /mcp endpoint
	baseURL := fmt.Sprintf("http://%s", addr)
	mcpClient := mcp.NewClient(baseURL)

	// Create main router that combines API and MCP
	mainRouter := http.NewServeMux()

	// Mount API server at root
	mainRouter.Handle("/", apiServer)

	// Always add MCP endpoint for HTTP server
	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Setup graceful shutdown context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var wg sync.WaitGroup

	// Start regular HTTP server
	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Start ngrok tunnel if enabled
	if *ngrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()

			authToken := *ngrokAuth
			if authToken == "" {
				log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN env var)")
				return
			}

			log.Println("Starting ngrok tunnel...")

			// Configure ngrok endpoint
			var tunnel ngrokConfig.Tunnel
			if *ngrokDomain != "" {
				tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(*ngrokDomain))
				log.Printf("Using custom ngrok domain: %s", *ngrokDomain)
			} else {
				tunnel = ngrokConfig.HTTPEndpoint()
			}

			// Start ngrok tunnel
			tun, err := ngrok.Listen(ctx,
				tunnel,
				ngrok.WithAuthtoken(authToken),
			)
			if err != nil {
				log.Printf("Failed to start ngrok tunnel: %v", err)
				return
			}
			defer func() {
				if err := tun.Close(); err != nil {
					log.Printf("Failed to close ngrok tunnel: %v", err)
				}
			}()

			ngrokURL := tun.URL()
			log.Printf("🚀 Ngrok tunnel established: %s", ngrokURL)
			log.Printf("  REST API (ngrok): %s/api", ngrokURL)
			log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
			log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)
			log.Printf("  Game UI (ngrok): %s/", ngrokURL)

			// Serve HTTP through ngrok tunnel
			if err := http.Serve(tun, mainRouter); err != nil && err != http.ErrServerClosed {
				log.Printf("Ngrok server error: %v", err)
			}
			log.Println("Ngrok tunnel closed")
		}()
	}

	// Wait for shutdown signal
	sig := <-stop
	log.Printf("Received signal: %v. Shutting down...", sig)
	cancel()

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Flush every session to the store before exiting
	if err := sessionManager.SaveAllSessions(); err != nil {
		log.Printf("Failed to save sessions on shutdown: %v", err)
	}
	if persistence != nil {
		if err := persistence.Close(); err != nil {
			log.Printf("Failed to close session store: %v", err)
		}
	}

	// Wait for all goroutines to finish
	wg.Wait()
	log.Println("Server stopped")
}

// initializeServices wires session/config managers, the location watcher
// factory, and the game service. It also starts background routines that
// prune stale sessions and periodically flush state to the store.
func initializeServices() (service.GameService, *session.Manager, session.SessionPersistence, error) {
	// Create config manager first (needed for persistence)
	configManager, err := config.NewManager(*configDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	// Create session persistence
	persistence, err := newPersistence(configManager)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	// Create session manager with persistence
	sessionManager := session.NewManagerWithPersistence(persistence)

	// Load persisted sessions on startup
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Printf("Warning: Failed to load persisted sessions: %v", err)
	}

	// Create game service with a simulated location watcher. Each tracked
	// session walks a square loop around its configured start point.
	gameService := service.NewGameService(sessionManager, configManager, simulatedWatcherFactory)

	// Start session cleanup routine
	go sessionCleanupRoutine(sessionManager)

	// Start periodic save routine
	go periodicSaveRoutine(sessionManager)

	// Start store sync routine
	go storeSyncRoutine(sessionManager, persistence)

	return gameService, sessionManager, persistence, nil
}

// newPersistence builds the session store selected by the -store flag.
func newPersistence(configManager service.ConfigManager) (session.SessionPersistence, error) {
	switch *sessionStore {
	case "sqlite":
		return session.NewSQLitePersistence(*sqlitePath, configManager)
	case "file":
		return session.NewFilePersistence(*sessionsDir, configManager)
	default:
		return nil, fmt.Errorf("unknown session store %q (use file or sqlite)", *sessionStore)
	}
}

// simulatedWatcherFactory builds the location watcher used when a session
// enables tracking. It emits points along a square loop two cells out from
// the configured start, one point per second, forever.
func simulatedWatcherFactory(cfg *engine.GameConfig) geo.Watcher {
	route := geo.SquareRoute(cfg.Start, cfg.TileDegrees, 2)
	return geo.NewRouteWatcher(route, time.Second, true)
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within the provided retention window.
func sessionCleanupRoutine(manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		removed := manager.CleanupExpiredSessions(24 * time.Hour)
		if removed > 0 {
			log.Printf("Cleaned up %d expired sessions", removed)
		}
	}
}

// periodicSaveRoutine flushes all in-memory sessions to the store on an
// interval. Every mutating operation saves on its own, so this only covers
// sessions touched by goroutines between crashes.
func periodicSaveRoutine(manager *session.Manager) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		if err := manager.SaveAllSessions(); err != nil {
			log.Printf("Periodic save failed: %v", err)
		}
	}
}

// storeSyncRoutine periodically syncs in-memory sessions with the store.
// It removes sessions from memory when their saves are deleted out of band,
// e.g. a JSON file removed from the sessions directory.
func storeSyncRoutine(manager *session.Manager, persistence session.SessionPersistence) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if persistence == nil {
			continue
		}

		memorySessions := manager.List()

		pruned := 0
		for _, s := range memorySessions {
			if !persistence.Exists(s.ID) {
				if err := manager.DeleteFromMemory(s.ID); err == nil {
					pruned++
					log.Printf("Pruned session %s from memory (save deleted)", s.ID)
				}
			}
		}

		if pruned > 0 {
			log.Printf("Store sync: pruned %d orphaned sessions from memory", pruned)
		}
	}
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It tries to reuse an external API at http://localhost:8080; if unavailable, it
// starts a minimal internal HTTP API bound to a random loopback port and targets that.
func runStdioMCPWithInternalServer(gameService service.GameService) {
	var baseURL string
	var httpServer *http.Server
	var listener net.Listener

	// First, try to connect to external API server at localhost:8080
	externalURL := "http://localhost:8080"
	log.Printf("Checking for external API server at %s...", externalURL)

	// Test if external server is running
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/health")
	if err == nil && resp.StatusCode < 500 {
		resp.Body.Close()
		log.Printf("External API server found at %s, using it for MCP", externalURL)
		baseURL = externalURL
	} else {
		// No external server found, start internal one
		log.Printf("No external API server found, starting internal HTTP server")

		// Start internal HTTP server on a random available port
		listener, err = net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			log.Fatalf("Failed to get available port: %v", err)
		}

		// Get the actual port that was assigned
		internalPort := listener.Addr().(*net.TCPAddr).Port
		internalAddr := fmt.Sprintf("127.0.0.1:%d", internalPort)

		log.Printf("Starting internal HTTP server on %s for MCP stdio", internalAddr)

		// Create WebSocket hub
		hub := websocket.NewHub()
		go hub.Run()
		service.SetStateListener(gameService, hub.BroadcastToSession)

		// Create API server
		apiServer := api.NewServer(gameService, hub)

		// Start internal HTTP server in background
		httpServer = &http.Server{
			Handler: apiServer,
		}

		go func() {
			if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()

		// Wait a moment for the server to be ready
		time.Sleep(100 * time.Millisecond)

		baseURL = fmt.Sprintf("http://%s", internalAddr)
	}

	// Create MCP client pointing to the selected server
	mcpClient := mcp.NewClient(baseURL)

	// Run MCP stdio server (blocking)
	if baseURL == externalURL {
		log.Println("MCP stdio server ready (using external HTTP server)")
	} else {
		log.Println("MCP stdio server ready (using internal HTTP server)")
	}

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		log.Fatalf("MCP stdio server error: %v", err)
	}
}
