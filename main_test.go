package main

import (
	"os"
	"testing"

	"github.com/wricardo/geocoin-carrier/game/engine"
)

func TestMain(m *testing.M) {
	// Flags are registered lazily from the environment; register them once
	// before any test touches the pointers.
	if err := setupFlags(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}

	expectedAppName := "Geocoin Carrier Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}

	if *host == "" {
		t.Error("Host should have a default value")
	}

	if *configDir == "" {
		t.Error("Config directory should have a default value")
	}

	if *sessionStore != "file" && *sessionStore != "sqlite" {
		t.Errorf("Unexpected default session store: %s", *sessionStore)
	}
}

func TestInitializeServices(t *testing.T) {
	originalConfigDir := *configDir
	originalSessionsDir := *sessionsDir
	*configDir = "configs"
	*sessionsDir = t.TempDir()
	defer func() {
		*configDir = originalConfigDir
		*sessionsDir = originalSessionsDir
	}()

	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	gameService, sessionManager, persistence, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if gameService == nil {
		t.Fatal("Expected game service to be initialized")
	}
	if sessionManager == nil {
		t.Fatal("Expected session manager to be initialized")
	}
	if persistence == nil {
		t.Fatal("Expected session persistence to be initialized")
	}
	persistence.Close()
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	originalConfigDir := *configDir
	*configDir = "/non/existent/path"
	defer func() { *configDir = originalConfigDir }()

	_, _, _, err := initializeServices()
	if err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestNewPersistence_UnknownStore(t *testing.T) {
	originalStore := *sessionStore
	*sessionStore = "redis"
	defer func() { *sessionStore = originalStore }()

	_, _, _, err := initializeServices()
	if err == nil {
		t.Error("Expected error for unknown session store")
	}
}

func TestSimulatedWatcherFactory(t *testing.T) {
	cfg := engine.DefaultGameConfig()
	watcher := simulatedWatcherFactory(cfg)
	if watcher == nil {
		t.Fatal("Expected a watcher to be built")
	}
}

// Note: We can't easily test main(), runHTTPServer(), and runStdioMCPWithInternalServer()
// without significant mocking or refactoring, as they start servers and block.
// These functions would be better tested in integration tests that start actual servers
// and test their endpoints.
