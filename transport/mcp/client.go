package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/wricardo/blockfall/api"
	"github.com/wricardo/blockfall/game/engine"
	"github.com/wricardo/blockfall/game/service"
)

// Board glyphs used by the text formatters
const (
	glyphFull   = '#'
	glyphShadow = '.'
	glyphEmpty  = ' '
	glyphWall   = '|'
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
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Blockfall",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Blockfall - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Stack falling pieces on the board. Every completed row is removed and scores
points; consecutive clearing locks build a combo worth extra points. The game
ends when a new piece cannot spawn.

AVAILABLE TOOLS:
- create_session: Create a new game session (manual sessions only move when you send commands)
- list_sessions: List all active sessions
- get_session: Get session details
- delete_session: Delete a session
- game_state: Get the board, active piece, ghost, upcoming pieces and score
- command: Apply one command (rotate, left, right, soft_drop, hard_drop, tick, pause, quit)
- bulk_command: Apply several commands in order
- list_configs: List available board presets
- describe_catalog: Show every piece shape
- game_instructions: Get the full rules

TIP: use hard_drop once the ghost (.) sits where you want the piece.`),
	)

	c.registerTools()
}

func commandEnum() []string {
	names := make([]string, len(engine.Commands))
	for i, cmd := range engine.Commands {
		names[i] = string(cmd)
	}
	return names
}

func sessionIDSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional preset selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Preset to use (optional, see list_configs)",
				},
				"realtime": map[string]interface{}{
					"type":        "boolean",
					"description": "Run gravity on a server-side frame loop instead of waiting for tick commands",
				},
				"cadence": map[string]interface{}{
					"type":        "string",
					"description": "Gravity cadence for realtime sessions",
					"enum":        []string{"score", "fixed", "manual"},
				},
				"seed": map[string]interface{}{
					"type":        "integer",
					"description": "Fix the piece sequence for reproducible games",
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
				"session_id": sessionIDSchema(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "delete_session",
		Description: "Delete a session and stop its frame loop",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleDeleteSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current board, active piece, ghost and score",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "command",
		Description: "Apply a single command to the session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"command": map[string]interface{}{
					"type":        "string",
					"description": "Command to apply",
					"enum":        commandEnum(),
				},
			},
			Required: []string{"session_id", "command"},
		},
	}, c.handleCommand)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_command",
		Description: fmt.Sprintf("Apply up to %d commands in order. Stops at game over.", service.MaxBulkCommands),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDSchema(),
				"commands": map[string]interface{}{
					"type":        "array",
					"description": "Commands to apply in order",
					"items": map[string]interface{}{
						"type": "string",
						"enum": commandEnum(),
					},
				},
			},
			Required: []string{"session_id", "commands"},
		},
	}, c.handleBulkCommand)

	// Discovery
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_catalog",
		Description: "Show every piece shape with its color and whether it is a feature brick",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleDescribeCatalog)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the game rules, scoring and command reference",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall performs a REST request and decodes the JSON response into result
func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
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
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"].(string); ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		args = map[string]interface{}{}
	}
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)

	var opts service.CreateOptions
	opts.ConfigName, _ = args["config_id"].(string)
	opts.Realtime, _ = args["realtime"].(bool)
	opts.Cadence, _ = args["cadence"].(string)
	if seed, ok := args["seed"].(float64); ok && seed > 0 {
		opts.Seed = uint64(seed)
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodPost, "/api/sessions", opts, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	mode := "manual (send tick to apply gravity)"
	if session.Realtime {
		mode = "realtime"
	}
	result := fmt.Sprintf("Created session: %s\nConfig: %s\nMode: %s\n\n%s",
		session.ID, session.ConfigName, mode, formatSnapshot(session.Snapshot))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, http.MethodGet, "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		score, status := 0, engine.Status("")
		if s.Snapshot != nil {
			score, status = s.Snapshot.Ledger.Score, s.Snapshot.Status
		}
		fmt.Fprintf(&result, "- %s (Config: %s, Status: %s, Score: %d, Created: %s)\n",
			s.ID, s.ConfigName, status, score, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleDeleteSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var response map[string]string
	if err := c.apiCall(ctx, http.MethodDelete, sessionPath(sessionID, ""), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(response["message"]), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, _ := arguments(request)["session_id"].(string)

	var snap engine.Snapshot
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, "/snapshot"), nil, &snap); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&snap)), nil
}

func (c *Client) handleCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	command, _ := args["command"].(string)
	if command == "" {
		return mcp.NewToolResultError("command is required"), nil
	}

	body := map[string]string{"command": command}

	var out service.CommandOutcome
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/command"), body, &out); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCommandOutcome(&out)), nil
}

func (c *Client) handleBulkCommand(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	raw, _ := args["commands"].([]interface{})

	commands := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			commands = append(commands, s)
		}
	}
	if len(commands) == 0 {
		return mcp.NewToolResultError("commands must be a non-empty array of strings"), nil
	}

	body := map[string]interface{}{"commands": commands}

	var result service.BulkCommandResult
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/commands"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkResult(sessionID, &result)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, http.MethodGet, "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Available Presets:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&result, "- %s: %s (%dx%d", cfg.ConfigID, cfg.Name, cfg.Width, cfg.Height)
		if cfg.FeatureBricks {
			result.WriteString(", feature bricks")
		}
		if cfg.Accelerate {
			result.WriteString(", accelerating")
		}
		result.WriteString(")\n")
		if cfg.Description != "" {
			fmt.Fprintf(&result, "  %s\n", cfg.Description)
		}
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleDescribeCatalog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var entries []api.CatalogEntry
	if err := c.apiCall(ctx, http.MethodGet, "/api/catalog", nil, &entries); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatCatalog(entries)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := fmt.Sprintf(`BLOCKFALL - GAME RULES

BOARD
- The board is a grid of cells. Row 0 is the top; the floor is below the last row.
- New pieces spawn centered horizontally, just above or at the top of the board.
- The game ends when a freshly spawned piece overlaps a locked cell.

PIECES
- Classic shapes: I, O, T, S, Z, L, J.
- Feature bricks (when the preset enables them): Dot, Desk, Angle, W, Bean.
- %d upcoming pieces are always visible.

COMMANDS
- rotate: turn the piece 90 degrees clockwise (refused when blocked)
- left / right: shift one column (refused at a wall or another piece)
- soft_drop: switch to accelerated falling
- hard_drop: drop straight down and lock immediately
- tick: apply one gravity step (manual sessions only move when you tick)
- pause: toggle pause
- quit: end the session

SCORING
- Each cleared row scores %d points plus %d for every combo step already reached.
- Consecutive locks that clear rows build the combo; a lock that clears nothing resets it.
- hard_drop awards %d point per row fallen.

READING THE BOARD
- %c locked or active cell
- %c ghost: where the active piece would land
- %c walls

STRATEGY
- Keep the surface flat and avoid covered holes.
- Use bulk_command to position and drop a piece in one call, e.g.
  ["rotate", "left", "left", "hard_drop"].`,
		engine.QueueLength, engine.ClearBase, engine.ClearStep, engine.HardDropStep,
		glyphFull, glyphShadow, glyphWall)

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s (%dx%d)\nRealtime: %v\nCreated: %s\n\n%s",
		session.ID, session.ConfigName, session.Settings.Width, session.Settings.Height,
		session.Realtime, session.CreatedAt.Format("2006-01-02 15:04:05"),
		formatSnapshot(session.Snapshot))
}

// formatSnapshot draws the walled board with a side panel
func formatSnapshot(snap *engine.Snapshot) string {
	if snap == nil {
		return "No game state available"
	}

	rows := snap.Rows(glyphFull, glyphShadow, glyphEmpty)
	panel := []string{
		fmt.Sprintf("Status: %s", snap.Status),
		fmt.Sprintf("Score: %d", snap.Ledger.Score),
		fmt.Sprintf("Combo: %d (best %d)", snap.Ledger.CurrentCombo, snap.Ledger.BestCombo),
		fmt.Sprintf("Rows: %d", snap.Ledger.RowsCleared),
		fmt.Sprintf("Pieces: %d", snap.Pieces),
	}
	if snap.ActiveKind != "" {
		panel = append(panel, fmt.Sprintf("Active: %s at (%d,%d)", snap.ActiveKind, snap.Position.X, snap.Position.Y))
	}
	if len(snap.Upcoming) > 0 {
		kinds := make([]string, len(snap.Upcoming))
		for i, p := range snap.Upcoming {
			kinds[i] = string(p.Kind)
		}
		panel = append(panel, "Next: "+strings.Join(kinds, ", "))
	}

	var result strings.Builder
	for y, row := range rows {
		result.WriteRune(glyphWall)
		result.WriteString(row)
		result.WriteRune(glyphWall)
		if y < len(panel) {
			result.WriteString("  ")
			result.WriteString(panel[y])
		}
		result.WriteString("\n")
	}
	result.WriteString(strings.Repeat(string(glyphWall), snap.Width+2))
	result.WriteString("\n")
	// Boards shorter than the panel still show every line
	for _, line := range panel[min(len(rows), len(panel)):] {
		result.WriteString(line)
		result.WriteString("\n")
	}

	if snap.GameOver() {
		fmt.Fprintf(&result, "\nGAME OVER - %s\n", snap.Ledger)
	}

	return result.String()
}

func formatCommandOutcome(out *service.CommandOutcome) string {
	var result strings.Builder
	status := "applied"
	if out.Queued {
		status = "queued"
	} else if !out.Result.Applied {
		status = "refused"
	}
	fmt.Fprintf(&result, "%s: %s\n", out.Result.Command, status)
	if out.Message != "" {
		fmt.Fprintf(&result, "%s\n", out.Message)
	}
	result.WriteString("\n")
	result.WriteString(formatSnapshot(out.Snapshot))
	return result.String()
}

func formatBulkResult(sessionID string, result *service.BulkCommandResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s: executed %d/%d commands", sessionID, result.Executed, result.Requested)
	if result.Queued {
		b.WriteString(" (queued)")
	}
	b.WriteString("\n")
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to the first %d commands\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped at command %d: %s\n", result.StoppedOnIndex, result.StoppedReason)
	}
	fmt.Fprintf(&b, "Score delta: %+d | Rows cleared: %d\n", result.ScoreDelta, result.RowsCleared)

	refused := 0
	for _, r := range result.Results {
		if !r.Applied {
			refused++
		}
	}
	if refused > 0 {
		fmt.Fprintf(&b, "Refused: %d\n", refused)
	}

	b.WriteString("\n")
	b.WriteString(formatSnapshot(result.Snapshot))
	return b.String()
}

func formatCatalog(entries []api.CatalogEntry) string {
	var b strings.Builder
	for _, e := range entries {
		label := "classic"
		if e.Feature {
			label = "feature"
		}
		fmt.Fprintf(&b, "%s (%s, %s)\n", e.Kind, e.Color, label)
		for _, line := range e.Preview {
			fmt.Fprintf(&b, "  %s\n", line)
		}
		b.WriteString("\n")
	}
	return b.String()
}
