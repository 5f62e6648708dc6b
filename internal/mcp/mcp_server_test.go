package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leanlens/leanlens/internal/contract"
	mcp_internal "github.com/leanlens/leanlens/internal/mcp"
	"github.com/leanlens/leanlens/internal/synth"
	"github.com/leanlens/leanlens/schema"
)

func baseConfig(t *testing.T) *contract.Config {
	t.Helper()
	cfg := &contract.Config{}
	require.NoError(t, contract.ProcessAndValidate(cfg, &contract.ConfigRawInput{
		DataDirStr:         ".",
		MicroStopThreshold: contract.DefaultMicroStopThresholdMin,
		MicroStopCount:     contract.DefaultMicroStopCount,
		DowntimeHours:      contract.DefaultDowntimeHours,
		DefectCount:        contract.DefaultDefectCount,
		OverControlCount:   contract.DefaultOverControlCount,
		NightShiftHours:    contract.DefaultNightShiftHours,
		MachineRate:        contract.DefaultMachineHourlyRate,
		LaborRate:          contract.DefaultLaborHourlyRate,
		GainPercent:        contract.DefaultGainPercent,
		QuickWinGain:       contract.DefaultQuickWinGainEUR,
	}))
	return cfg
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(t), nil)
	ctx := context.Background()

	t.Run("analyze_waste missing data_dir", func(t *testing.T) {
		tool := s.GetTool("analyze_waste")
		require.NotNil(t, tool, "Tool analyze_waste should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "analyze_waste",
				Arguments: map[string]any{"data_dir": ""},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "data_dir is required")
	})

	t.Run("analyze_waste unreadable data_dir", func(t *testing.T) {
		tool := s.GetTool("analyze_waste")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "analyze_waste",
				Arguments: map[string]any{"data_dir": "/definitely/not/here"},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "analysis failed")
	})

	t.Run("get_run_history without store", func(t *testing.T) {
		tool := s.GetTool("get_run_history")
		require.NotNil(t, tool, "Tool get_run_history should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{Name: "get_run_history"},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "no report store configured")
	})
}

func TestMCPServerHandlers_ListWasteCategories(t *testing.T) {
	s := mcp_internal.NewMCPServer(baseConfig(t), nil)

	tool := s.GetTool("list_waste_categories")
	require.NotNil(t, tool, "Tool list_waste_categories should exist")

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "list_waste_categories"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var categories []struct {
		Category    schema.WasteCategory `json:"category"`
		Description string               `json:"description"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &categories))
	require.Len(t, categories, 8)
	assert.Equal(t, schema.Transport, categories[0].Category)
	for _, c := range categories {
		assert.NotEmpty(t, c.Description, "category %s has no description", c.Category)
	}
}

func TestMCPServerHandlers_AnalyzeWaste(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	_, err := synth.NewGenerator(dir, 42, start, 30).GenerateAll(300, 60, 10)
	require.NoError(t, err)

	s := mcp_internal.NewMCPServer(baseConfig(t), nil)
	tool := s.GetTool("analyze_waste")
	require.NotNil(t, tool)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      "analyze_waste",
			Arguments: map[string]any{"data_dir": dir},
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var report schema.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(mcp.TextContent).Text), &report))
	assert.NotEmpty(t, report.Losses)
	assert.Equal(t, len(report.Losses), len(report.Analyses))
	assert.Greater(t, report.Summary.TotalCostEUR, 0.0)
}
