// Command blockfall runs the falling-block game.
//
// It supports three modes:
//  1. "play" (default) – plays in the terminal, drawn with tcell
//  2. "server" – runs the HTTP server exposing the REST API, WebSocket frame
//     stream and an /mcp HTTP endpoint, optionally tunneled through ngrok
//  3. "mcp" – runs an MCP stdio server against an existing API, starting an
//     internal one when none answers
//
// Board settings come from .env and the environment (WIDTH, HEIGHT,
// ACCELERATE_MODE, FEATURE_BRICK, TEXTURE_*), a preset, or flags, with
// flags taking precedence.
package main

import (
	"context"
	"encoding/json"
	"errors"
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

	"github.com/gdamore/tcell/v2"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/blockfall/api"
	"github.com/wricardo/blockfall/audio"
	"github.com/wricardo/blockfall/game/config"
	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/loop"
	"github.com/wricardo/blockfall/game/service"
	"github.com/wricardo/blockfall/game/session"
	"github.com/wricardo/blockfall/terminal"
	"github.com/wricardo/blockfall/transport/mcp"
	"github.com/wricardo/blockfall/transport/websocket"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Blockfall"
)

// Session retention for the cleanup routine
const (
	sessionCleanupInterval = 1 * time.Hour
	sessionMaxAge          = 24 * time.Hour
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

// newApp builds the root command with its subcommands
func newApp() *cli.Command {
	return &cli.Command{
		Name:    "blockfall",
		Usage:   "falling-block puzzle for the terminal, HTTP and MCP agents",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
			&cli.StringFlag{Name: "log-file", Usage: "Write logs to this file"},
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file with board settings"},
			&cli.StringFlag{
				Name:    "config-dir",
				Value:   "configs",
				Usage:   "Directory containing board presets",
				Sources: cli.EnvVars("CONFIG_DIR"),
			},
		},
		Commands: []*cli.Command{
			playCommand(),
			serverCommand(),
			mcpCommand(),
		},
		Action: runPlay,
	}
}

func boardFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "preset", Usage: "Start from a preset in --config-dir instead of the environment"},
		&cli.IntFlag{Name: "width", Usage: "Board width (overrides WIDTH)"},
		&cli.IntFlag{Name: "height", Usage: "Board height (overrides HEIGHT)"},
		&cli.BoolFlag{Name: "feature-bricks", Usage: "Include the non-classic shapes (overrides FEATURE_BRICK)"},
		&cli.BoolFlag{Name: "accelerate", Usage: "Speed up gravity as the score grows (overrides ACCELERATE_MODE)"},
		&cli.IntFlag{Name: "seed", Usage: "Fix the piece sequence"},
	}
}

func playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Play in the terminal",
		Flags: append(boardFlags(),
			&cli.BoolFlag{Name: "sound", Usage: "Play tones for locks, clears and game over"},
		),
		Action: runPlay,
	}
}

func serverCommand() *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"http"},
		Usage:   "Run the HTTP server with REST API, WebSocket and MCP endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Value: "localhost", Usage: "HTTP server host"},
			&cli.IntFlag{Name: "port", Value: 8080, Usage: "HTTP server port", Sources: cli.EnvVars("PORT")},
			&cli.DurationFlag{Name: "frame-interval", Value: loop.FrameInterval, Usage: "Frame length of realtime sessions"},
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Sources: cli.EnvVars("NGROK_ENABLED")},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN")},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (optional)", Sources: cli.EnvVars("NGROK_DOMAIN")},
		},
		Action: runServer,
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:    "mcp",
		Aliases: []string{"stdio-mcp", "mcp-stdio"},
		Usage:   "Run an MCP stdio server",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Value: "http://localhost:8080", Usage: "REST API to proxy to"},
		},
		Action: runMCP,
	}
}

// setupLogging configures the standard logger. Terminal play never logs to
// stderr, so without --log-file its output is discarded.
func setupLogging(cmd *cli.Command, terminalMode bool) (io.Closer, error) {
	if cmd.Bool("debug") {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	} else {
		log.SetFlags(log.LstdFlags)
	}

	if path := cmd.String("log-file"); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		log.SetOutput(f)
		return f, nil
	}
	if terminalMode {
		log.SetOutput(io.Discard)
	}
	return io.NopCloser(nil), nil
}

// loadSettings resolves the board settings: environment or preset first,
// then explicitly set flags
func loadSettings(cmd *cli.Command) (*config.Env, error) {
	env, err := config.Load(cmd.String("env-file"))
	if err != nil {
		return nil, err
	}

	if name := cmd.String("preset"); name != "" {
		manager, err := config.NewManager(cmd.String("config-dir"))
		if err != nil {
			return nil, err
		}
		preset, err := manager.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("preset %s: %w", name, err)
		}
		env.Settings = *preset
	}

	if cmd.IsSet("width") {
		env.Settings.Width = int(cmd.Int("width"))
	}
	if cmd.IsSet("height") {
		env.Settings.Height = int(cmd.Int("height"))
	}
	if cmd.IsSet("feature-bricks") {
		env.Settings.FeatureBricks = cmd.Bool("feature-bricks")
	}
	if cmd.IsSet("accelerate") {
		env.Settings.Accelerate = cmd.Bool("accelerate")
	}
	if cmd.IsSet("seed") {
		env.Settings.Seed = uint64(cmd.Int("seed"))
	}

	if err := engine.ValidateSettings(env.Settings); err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	return env, nil
}

// runPlay plays one game in the terminal and prints the record on exit
func runPlay(ctx context.Context, cmd *cli.Command) error {
	closer, err := setupLogging(cmd, true)
	if err != nil {
		return err
	}
	defer closer.Close()

	env, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log.Printf("Starting %s v%s (mode: play, board %dx%d)", AppName, Version, env.Settings.Width, env.Settings.Height)

	eng, err := engine.New(env.Settings)
	if err != nil {
		return err
	}

	var hooks []loop.FrameHook
	if cmd.Bool("sound") {
		sound := audio.NewSoundManager()
		if err := sound.Initialize(); err != nil {
			// Non-fatal, the game runs without sound
			log.Printf("Audio initialization failed: %v", err)
		} else {
			defer sound.Cleanup()
			hooks = append(hooks, sound.OnFrame)
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}

	ledger, err := terminal.Play(ctx, screen, eng, env.Texture, hooks...)
	screen.Fini()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Println(ledger)
	return nil
}

// initializeServices wires the session and config managers into the game
// service and starts the cleanup routine, which stops with ctx
func initializeServices(ctx context.Context, configDir string, frameInterval time.Duration, opts ...service.Option) (service.GameService, *session.Manager, error) {
	configManager, err := config.NewManager(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	sessionManager := session.NewManagerWithInterval(frameInterval)
	gameService := service.NewGameService(sessionManager, configManager, opts...)

	go sessionCleanupRoutine(ctx, sessionManager)

	return gameService, sessionManager, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within the retention window
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(sessionMaxAge); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// mcpHTTPHandler serves MCP JSON-RPC messages over plain HTTP POST
func mcpHTTPHandler(client *mcp.Client) http.HandlerFunc {
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

		response := client.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// newRouter mounts the API at the root and MCP at /mcp
func newRouter(apiServer *api.Server, mcpClient *mcp.Client) *http.ServeMux {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)
	mainRouter.HandleFunc("/mcp", mcpHTTPHandler(mcpClient))
	return mainRouter
}

// runServer starts the HTTP server with REST API, WebSocket hub, and an /mcp
// endpoint. With --ngrok it also provisions a public tunnel.
func runServer(ctx context.Context, cmd *cli.Command) error {
	closer, err := setupLogging(cmd, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	log.Printf("Starting %s v%s (mode: server)", AppName, Version)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	gameService, sessionManager, err := initializeServices(ctx, cmd.String("config-dir"),
		cmd.Duration("frame-interval"), service.WithFrameListener(hub.BroadcastFrame))
	if err != nil {
		return err
	}
	defer sessionManager.Shutdown()

	apiServer := api.NewServer(gameService, hub)

	addr := fmt.Sprintf("%s:%d", cmd.String("host"), cmd.Int("port"))
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	mainRouter := newRouter(apiServer, mcpClient)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mainRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), mainRouter)
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case runErr = <-serveErr:
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")
	return runErr
}

// runNgrok serves handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN, or NGROK_AUTH_TOKEN env var)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
		log.Printf("Using custom ngrok domain: %s", domain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	go func() {
		<-ctx.Done()
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	}()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// apiAvailable reports whether a REST API answers at baseURL
func apiAvailable(baseURL string) bool {
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 500
}

// runMCP runs an MCP stdio server. It proxies to --api-url when that API
// answers, otherwise it starts an internal API on a random loopback port.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	closer, err := setupLogging(cmd, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	// stdout carries the protocol
	if cmd.String("log-file") == "" {
		log.SetOutput(os.Stderr)
	}

	baseURL := cmd.String("api-url")
	log.Printf("Checking for external API server at %s...", baseURL)

	if apiAvailable(baseURL) {
		log.Printf("External API server found at %s, using it for MCP", baseURL)
	} else {
		log.Printf("No external API server found, starting internal HTTP server")

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		gameService, sessionManager, err := initializeServices(ctx, cmd.String("config-dir"), loop.FrameInterval)
		if err != nil {
			return err
		}
		defer sessionManager.Shutdown()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		httpServer := &http.Server{Handler: api.NewServer(gameService, nil)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())
		log.Printf("Internal HTTP server for MCP stdio on %s", baseURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Println("MCP stdio server ready")

	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
