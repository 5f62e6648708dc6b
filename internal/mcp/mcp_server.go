// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/leanlens/leanlens/internal/contract"
)

// NewMCPServer initializes and configures the LeanLens MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, store contract.ReportStore) *server.MCPServer {
	s := server.NewMCPServer(
		"LeanLens Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		store:   store,
	}

	// --- 1. Tool: analyze_waste ---
	s.AddTool(mcp.NewTool("analyze_waste",
		mcp.WithDescription("Run the waste analysis pipeline over a directory of production, quality and incident CSV files. Returns detected losses, TIMWOODS classifications, root causes, costed recommendations and KPIs."),
		mcp.WithString("data_dir", mcp.Description("Directory containing production_logs.csv, quality_records.csv and incident_reports.csv."), mcp.Required()),
		mcp.WithNumber("micro_stop_count", mcp.Description("Micro-stops per machine before a loss fires. Defaults to the configured threshold.")),
		mcp.WithNumber("downtime_hours", mcp.Description("Cumulative stoppage hours per machine before a loss fires.")),
		mcp.WithNumber("defect_count", mcp.Description("Defective pieces per machine before a loss fires.")),
	), h.handleAnalyzeWaste)

	// --- 2. Tool: list_waste_categories ---
	s.AddTool(mcp.NewTool("list_waste_categories",
		mcp.WithDescription("List the eight TIMWOODS waste categories with a short description of each."),
	), h.handleListWasteCategories)

	// --- 3. Tool: get_run_history ---
	s.AddTool(mcp.NewTool("get_run_history",
		mcp.WithDescription("Return the recorded history of analysis runs with their KPI summaries."),
	), h.handleGetRunHistory)

	return s
}

// StartMCPServer starts the LeanLens MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, store contract.ReportStore) error {
	s := NewMCPServer(baseCfg, store)
	return server.ServeStdio(s)
}
