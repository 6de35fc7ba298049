// Command mergegame starts the Merge Board Game server.
//
// It supports three modes:
//  1. "server" (default) runs the HTTP server exposing REST API, WebSocket, and an /mcp HTTP endpoint
//  2. "stdio-mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "play" runs a console game on stdin/stdout
//
// Flags control host/port, config directory and debug logging. Operational
// settings such as ngrok tunneling and session expiry come from the
// environment (optionally loaded from a .env file).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/mcp-training/mergegame/api"
	"github.com/wricardo/mcp-training/mergegame/game/config"
	"github.com/wricardo/mcp-training/mergegame/game/engine"
	"github.com/wricardo/mcp-training/mergegame/game/service"
	"github.com/wricardo/mcp-training/mergegame/game/session"
	"github.com/wricardo/mcp-training/mergegame/transport/console"
	"github.com/wricardo/mcp-training/mergegame/transport/mcp"
	"github.com/wricardo/mcp-training/mergegame/transport/websocket"
	"go.uber.org/zap"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Merge Board Game Server"
)

const externalAPIURL = "http://localhost:8080"

// Settings holds operational knobs read from the environment.
type Settings struct {
	NgrokEnabled    bool          `env:"NGROK_ENABLED"`
	NgrokAuthToken  string        `env:"NGROK_AUTHTOKEN"`
	NgrokDomain     string        `env:"NGROK_DOMAIN"`
	SessionTTL      time.Duration `env:"SESSION_TTL"              envDefault:"24h"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1h"`
}

// loadSettings parses Settings from the environment.
func loadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if s.CleanupInterval <= 0 {
		return Settings{}, fmt.Errorf("SESSION_CLEANUP_INTERVAL must be positive, got %s", s.CleanupInterval)
	}
	return s, nil
}

func main() {
	// .env is optional
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(envErr).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

// newCommand builds the CLI. envErr is the result of loading .env, reported
// once a logger exists.
func newCommand(envErr error) *cli.Command {
	return &cli.Command{
		Name:    "mergegame",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host"},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port"},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing game configurations",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runServer(ctx, cmd, envErr)
		},
		Commands: []*cli.Command{
			{
				Name:    "server",
				Aliases: []string{"http"},
				Usage:   "Run HTTP server with API, WebSocket, and MCP endpoint",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runServer(ctx, cmd, envErr)
				},
			},
			{
				Name:    "stdio-mcp",
				Aliases: []string{"mcp-stdio", "mcp"},
				Usage:   "Run MCP stdio server with internal HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					logger, err := newLogger(cmd.Bool("debug"))
					if err != nil {
						return err
					}
					defer func() { _ = logger.Sync() }()
					logEnvLoad(logger, envErr)

					settings, err := loadSettings()
					if err != nil {
						return err
					}
					gameService, sessions, err := initializeServices(cmd.String("config-dir"), logger)
					if err != nil {
						return fmt.Errorf("failed to initialize services: %w", err)
					}
					go sessionCleanupRoutine(ctx, sessions, settings, logger)
					return runStdioMCPWithInternalServer(ctx, gameService, logger)
				},
			},
			{
				Name:  "play",
				Usage: "Play a game in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Usage: "Configuration name (defaults to the directory default)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					cfg, err := loadPlayConfig(cmd.String("config-dir"), cmd.String("config"))
					if err != nil {
						return err
					}
					e, err := engine.NewEngine(cfg)
					if err != nil {
						return err
					}
					return console.NewGame(e, os.Stdin, os.Stdout).Run(ctx)
				},
			},
		},
	}
}

// newLogger builds a development logger in debug mode and a production
// logger otherwise.
func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func logEnvLoad(logger *zap.Logger, err error) {
	switch {
	case err == nil:
		logger.Info("loaded environment variables from .env file")
	case !errors.Is(err, os.ErrNotExist):
		logger.Warn("error loading .env file", zap.Error(err))
	}
}

// loadPlayConfig resolves the console game's configuration from the config
// directory, falling back to the built-in default when the directory is
// missing and no name was requested.
func loadPlayConfig(configDir, name string) (*engine.GameConfig, error) {
	manager, err := config.NewManager(configDir)
	if err != nil {
		if name != "" {
			return nil, fmt.Errorf("failed to open config directory: %w", err)
		}
		return engine.DefaultConfig(), nil
	}
	if name == "" {
		return manager.GetDefault(), nil
	}
	return manager.LoadConfig(name)
}

// runServer starts the HTTP server with REST API, WebSocket hub, and an /mcp
// endpoint. When ngrok is enabled it also provisions a public tunnel.
func runServer(ctx context.Context, cmd *cli.Command, envErr error) error {
	logger, err := newLogger(cmd.Bool("debug"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logEnvLoad(logger, envErr)

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	logger.Info("starting", zap.String("app", AppName), zap.String("version", Version))

	gameService, sessions, err := initializeServices(cmd.String("config-dir"), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go sessionCleanupRoutine(ctx, sessions, settings, logger)

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	handler := newRouter(gameService, hub, "http://"+addr, logger)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		logger.Info("HTTP server listening",
			zap.String("addr", addr),
			zap.String("api", "http://"+addr+"/api"),
			zap.String("websocket", "ws://"+addr+"/ws?session=<session_id>"),
			zap.String("mcp", "http://"+addr+"/mcp"))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	if settings.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, settings, handler, logger)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		runErr = fmt.Errorf("HTTP server failed: %w", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	wg.Wait()
	logger.Info("server stopped")
	return runErr
}

// newRouter combines the REST API with the /mcp endpoint. The MCP tools call
// back into the API at baseURL.
func newRouter(gameService service.GameService, hub *websocket.Hub, baseURL string, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", api.NewServer(gameService, hub, logger))
	mux.Handle("/mcp", mcpHandler(mcp.NewClient(baseURL)))
	return mux
}

// mcpHandler serves single JSON-RPC messages posted to /mcp.
func mcpHandler(client *mcp.Client) http.HandlerFunc {
	mcpServer := client.GetMCPServer()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpServer.HandleMessage(r.Context(), body)
		if response == nil {
			// notifications have no response
			w.WriteHeader(http.StatusAccepted)
			return
		}

		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(responseData)
	}
}

// runNgrok serves handler through an ngrok tunnel until ctx is cancelled.
func runNgrok(ctx context.Context, settings Settings, handler http.Handler, logger *zap.Logger) {
	if settings.NgrokAuthToken == "" {
		logger.Warn("ngrok enabled but NGROK_AUTHTOKEN is not set")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if settings.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(settings.NgrokDomain))
		logger.Info("using custom ngrok domain", zap.String("domain", settings.NgrokDomain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(settings.NgrokAuthToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", zap.Error(err))
		return
	}

	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			logger.Warn("failed to close ngrok tunnel", zap.Error(err))
		}
	}()

	url := tun.URL()
	logger.Info("ngrok tunnel established",
		zap.String("url", url),
		zap.String("api", url+"/api"),
		zap.String("mcp", url+"/mcp"))

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		logger.Error("ngrok server error", zap.Error(err))
	}
	logger.Info("ngrok tunnel closed")
}

// initializeServices wires the session and config managers into the game
// service.
func initializeServices(configDir string, logger *zap.Logger) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManager(logger)
	gameService := service.NewGameService(sessionManager, configManager, logger)

	logger.Info("services initialized",
		zap.String("config_dir", configDir),
		zap.Int("configs", configManager.Count()))

	return gameService, sessionManager, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within the configured TTL.
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, settings Settings, logger *zap.Logger) {
	ticker := time.NewTicker(settings.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(settings.SessionTTL); removed > 0 {
				logger.Info("cleaned up expired sessions", zap.Int("removed", removed))
			}
		}
	}
}

// externalAPIAvailable reports whether an API server answers at baseURL.
func externalAPIAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// startInternalServer serves the REST API on a random loopback port and
// returns its base URL.
func startInternalServer(ctx context.Context, gameService service.GameService, logger *zap.Logger) (string, *http.Server, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("failed to get available port: %w", err)
	}

	hub := websocket.NewHub(logger)
	go hub.Run(ctx)

	httpServer := &http.Server{Handler: api.NewServer(gameService, hub, logger)}
	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("internal HTTP server error", zap.Error(err))
		}
	}()

	return "http://" + listener.Addr().String(), httpServer, nil
}

// runStdioMCPWithInternalServer runs an MCP stdio server. It reuses an API
// at localhost:8080 when one answers, otherwise it starts an internal one.
func runStdioMCPWithInternalServer(ctx context.Context, gameService service.GameService, logger *zap.Logger) error {
	baseURL := externalAPIURL
	if externalAPIAvailable(ctx, externalAPIURL) {
		logger.Info("using external API server for MCP", zap.String("url", externalAPIURL))
	} else {
		url, httpServer, err := startInternalServer(ctx, gameService, logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = httpServer.Shutdown(shutdownCtx)
		}()
		baseURL = url
		logger.Info("started internal HTTP server for MCP stdio", zap.String("url", baseURL))
	}

	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
