package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// newMCPServer builds the MCP server exposing the compliance engine over
// stdio for `layerlint serve`.
func newMCPServer() *server.MCPServer {
	mcpServer := server.NewMCPServer(
		"layerlint",
		version,
		server.WithToolCapabilities(false),
	)

	// Define the check_compliance tool
	checkComplianceTool := mcp.NewTool("check_compliance",
		mcp.WithDescription("Run four-layer architecture compliance checks over a directory and return the full report"),
		mcp.WithString("dir",
			mcp.Required(),
			mcp.Description("Directory to scan for source artifacts"),
		),
		mcp.WithString("rules",
			mcp.Description("Path to a rule catalog YAML file (default: built-in catalog)"),
		),
	)
	mcpServer.AddTool(checkComplianceTool, checkComplianceHandler)

	// Define the classify_artifact tool
	classifyArtifactTool := mcp.NewTool("classify_artifact",
		mcp.WithDescription("Classify an artifact identifier (and optional content) into an architectural layer"),
		mcp.WithString("identifier",
			mcp.Required(),
			mcp.Description("Artifact path or logical name"),
		),
		mcp.WithString("content",
			mcp.Description("Artifact content, used as a classification fallback"),
		),
	)
	mcpServer.AddTool(classifyArtifactTool, classifyArtifactHandler)

	// Define the list_rules tool
	listRulesTool := mcp.NewTool("list_rules",
		mcp.WithDescription("List the rules in the effective catalog"),
		mcp.WithString("rules",
			mcp.Description("Path to a rule catalog YAML file (default: built-in catalog)"),
		),
	)
	mcpServer.AddTool(listRulesTool, listRulesHandler)

	return mcpServer
}

func loadCatalogArg(request mcp.CallToolRequest) (*Catalog, error) {
	if path := request.GetString("rules", ""); path != "" {
		return LoadCatalogFile(path)
	}
	return DefaultCatalog()
}

func checkComplianceHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := request.RequireString("dir")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	catalog, err := loadCatalogArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	artifacts, err := CollectArtifacts(dir, zap.NewNop())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to collect artifacts: %v", err)), nil
	}

	report, err := NewEngine(catalog).Run(ctx, artifacts)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	jsonData, err := json.Marshal(report)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal report: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

func classifyArtifactHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identifier, err := request.RequireString("identifier")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	artifact := Artifact{
		Identifier: identifier,
		Content:    request.GetString("content", ""),
	}

	result := struct {
		Identifier string   `json:"identifier"`
		Layer      LayerTag `json:"layer"`
	}{identifier, Classify(artifact)}

	jsonData, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

func listRulesHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog, err := loadCatalogArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	jsonData, err := json.Marshal(catalog)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal catalog: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}
