package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/leanlens/leanlens/core"
	"github.com/leanlens/leanlens/internal/contract"
	"github.com/leanlens/leanlens/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	store   contract.ReportStore
}

// categoryDescriptions gives agents enough context to pick a category
// without seeing the classifier.
var categoryDescriptions = map[schema.WasteCategory]string{
	schema.Transport:      "Unnecessary movement of materials or products between process steps.",
	schema.Inventory:      "Excess raw material, work in progress or finished goods beyond demand.",
	schema.Motion:         "Unnecessary movement of people within a workstation.",
	schema.Waiting:        "Idle time where machines or operators wait on upstream work.",
	schema.OverProcessing: "Doing more work or inspection than the customer requires.",
	schema.OverProduction: "Producing more, earlier or faster than the next process needs.",
	schema.Defects:        "Scrap, rework and the effort spent containing bad parts.",
	schema.Skills:         "Underused people: talent, ideas and knowledge left on the table.",
}

func (h *toolHandler) handleAnalyzeWaste(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.DataDir = request.GetString("data_dir", "")
	if cfg.DataDir == "" {
		return mcp.NewToolResultError("data_dir is required"), nil
	}
	if c := request.GetInt("micro_stop_count", 0); c > 0 {
		cfg.MicroStopCount = c
	}
	if hrs := request.GetFloat("downtime_hours", 0); hrs > 0 {
		cfg.DowntimeHours = hrs
	}
	if c := request.GetInt("defect_count", 0); c > 0 {
		cfg.DefectCount = c
	}

	report, err := core.RunAnalysis(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(report, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListWasteCategories(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	type categoryInfo struct {
		Category    schema.WasteCategory `json:"category"`
		Description string               `json:"description"`
	}

	categories := make([]categoryInfo, 0, len(schema.AllWasteCategories))
	for _, cat := range schema.AllWasteCategories {
		categories = append(categories, categoryInfo{
			Category:    cat,
			Description: categoryDescriptions[cat],
		})
	}

	jsonData, _ := json.MarshalIndent(categories, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetRunHistory(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.store == nil {
		return mcp.NewToolResultError("no report store configured"), nil
	}

	runs, err := h.store.GetAllRuns()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read run history: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(runs, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
