package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/wricardo/mcp-training/game2048/api"
	"github.com/wricardo/mcp-training/game2048/game/config"
	"github.com/wricardo/mcp-training/game2048/game/session"
	"github.com/wricardo/mcp-training/game2048/transport/mcp"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}

	if Version != "1.0.0" {
		t.Errorf("Expected version 1.0.0, got %s", Version)
	}
	if AppName != "2048 Game Server" {
		t.Errorf("Expected app name %q, got %q", "2048 Game Server", AppName)
	}
}

func TestInitializeServices(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gameService, err := initializeServices(ctx, "configs", t.TempDir())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if gameService == nil {
		t.Fatal("Expected game service to be initialized")
	}

	info, err := gameService.CreateSession(ctx, "small")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.GameState == nil || len(info.GameState.Grid) != 3 {
		t.Errorf("Expected a 3x3 grid from the small config, got %+v", info.GameState)
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := initializeServices(ctx, "/non/existent/path", t.TempDir()); err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestInitializeServices_ReloadsPersistedSessions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dir := t.TempDir()
	first, err := initializeServices(ctx, "configs", dir)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	info, err := first.CreateSession(ctx, "classic")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	second, err := initializeServices(ctx, "configs", dir)
	if err != nil {
		t.Fatalf("Failed to initialize services again: %v", err)
	}
	if _, err := second.GetSession(ctx, info.ID); err != nil {
		t.Errorf("Expected session %s to be reloaded from disk: %v", info.ID, err)
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
	if *sessionsDir == "" {
		t.Error("Sessions directory should have a default value")
	}
	if *otelEnabled {
		t.Error("Tracing should be off by default")
	}
}

func TestEnvDefault(t *testing.T) {
	t.Setenv("GAME2048_TEST_DIR", "")
	if got := envDefault("GAME2048_TEST_DIR", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %q", got)
	}

	t.Setenv("GAME2048_TEST_DIR", "/tmp/boards")
	if got := envDefault("GAME2048_TEST_DIR", "fallback"); got != "/tmp/boards" {
		t.Errorf("Expected env value, got %q", got)
	}
}

func TestPruneOrphanedSessions(t *testing.T) {
	configManager, err := config.NewManager("configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	persistence, err := session.NewFilePersistence(t.TempDir(), configManager)
	if err != nil {
		t.Fatalf("Failed to create persistence: %v", err)
	}
	manager := session.NewManagerWithPersistence(persistence)

	kept, err := manager.Create("", "classic", configManager.GetDefault())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	orphan, err := manager.Create("", "classic", configManager.GetDefault())
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := persistence.Delete(orphan.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if pruned := pruneOrphanedSessions(manager, persistence); pruned != 1 {
		t.Errorf("Expected 1 pruned session, got %d", pruned)
	}
	if manager.Count() != 1 {
		t.Errorf("Expected 1 session left in memory, got %d", manager.Count())
	}
	if _, err := manager.Get(kept.ID); err != nil {
		t.Errorf("Expected kept session to survive: %v", err)
	}
}

func TestMCPEndpoint(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gameService, err := initializeServices(ctx, "configs", t.TempDir())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	router := newRouter(api.NewServer(gameService, nil), mcp.NewClient("http://127.0.0.1:0"))

	t.Run("rejects GET", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/mcp", nil))
		if w.Code != http.StatusMethodNotAllowed {
			t.Errorf("Expected 405, got %d", w.Code)
		}
	})

	t.Run("answers ping", func(t *testing.T) {
		body := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"ping"}`)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mcp", body))
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got %q", ct)
		}
		if !strings.Contains(w.Body.String(), `"jsonrpc":"2.0"`) {
			t.Errorf("Expected a JSON-RPC response, got %s", w.Body.String())
		}
	})

	t.Run("serves the API", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 from /health, got %d", w.Code)
		}
	})
}
