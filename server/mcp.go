package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pkg/errors"

	"github.com/podseek/podseek/ai"
	"github.com/podseek/podseek/search"
)

// Searcher runs transcript searches for the MCP tools.
type Searcher interface {
	Search(ctx context.Context, req *search.Request) (*search.Response, error)
	Status(ctx context.Context) (*search.Status, error)
}

// registerTools registers the podseek tools with the MCP server.
func (s *Server) registerTools() {
	searchTool := mcp.NewTool("search_transcripts",
		mcp.WithDescription("Search podcast transcript segments with a natural-language question"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("The question to search transcripts for"),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum number of results, between 1 and %d (default: %d)", search.MaxLimit, search.DefaultLimit)),
		),
		mcp.WithNumber("min_score",
			mcp.Description(fmt.Sprintf("Minimum similarity score, between 0.0 and 1.0 (default: %g)", search.DefaultMinScore)),
		),
	)
	s.mcpServer.AddTool(searchTool, s.handleSearchTranscripts)

	statusTool := mcp.NewTool("corpus_status",
		mcp.WithDescription("Report corpus size and which vector search capability serves requests"),
	)
	s.mcpServer.AddTool(statusTool, s.handleCorpusStatus)
}

// handleSearchTranscripts handles the search_transcripts tool invocation.
func (s *Server) handleSearchTranscripts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		s.metrics.RecordSearchError("validation")
		return mcp.NewToolResultError("invalid params: question is required"), nil
	}

	req := &search.Request{Question: question}
	args := request.GetArguments()
	if raw, ok := args["limit"]; ok {
		num, ok := raw.(float64)
		if !ok {
			s.metrics.RecordSearchError("validation")
			return mcp.NewToolResultError("invalid params: limit must be a number"), nil
		}
		limit := int(num)
		req.Limit = &limit
	}
	if raw, ok := args["min_score"]; ok {
		num, ok := raw.(float64)
		if !ok {
			s.metrics.RecordSearchError("validation")
			return mcp.NewToolResultError("invalid params: min_score must be a number"), nil
		}
		minScore := num
		req.MinScore = &minScore
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.Profile.SearchTimeout)*time.Second)
	defer cancel()

	start := time.Now()
	resp, err := s.searcher.Search(ctx, req)
	if err != nil {
		return s.searchErrorResult(err, time.Since(start)), nil
	}

	s.metrics.RecordSearch(string(resp.Capability), time.Since(start), true)
	if resp.Encoding != "" {
		s.metrics.RecordEncoding(string(resp.Encoding))
	}
	if resp.Degraded {
		s.metrics.RecordDegraded()
		s.logger.Warn("corpus has no embeddings, serving placeholder similarities",
			"results", len(resp.Results),
		)
	}

	if len(resp.Results) == 0 {
		return mcp.NewToolResultText("no results"), nil
	}

	jsonBytes, err := json.Marshal(resp.Results)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("internal error: failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// searchErrorResult maps a pipeline error to a tool error result. Invalid
// requests are reported as such; everything else is internal.
func (s *Server) searchErrorResult(err error, latency time.Duration) *mcp.CallToolResult {
	var vErr *search.ValidationError
	if errors.As(err, &vErr) {
		s.metrics.RecordSearchError("validation")
		return mcp.NewToolResultError("invalid params: " + vErr.Reason)
	}

	s.metrics.RecordSearch("unknown", latency, false)

	var pErr *ai.ProviderError
	var rErr *search.ResolverError
	switch {
	case errors.As(err, &pErr):
		s.metrics.RecordSearchError("provider")
	case errors.As(err, &rErr):
		s.metrics.RecordSearchError("resolver")
	default:
		s.metrics.RecordSearchError("internal")
	}

	s.logger.Error("search failed", "error", err)
	return mcp.NewToolResultError("internal error: " + err.Error())
}

// handleCorpusStatus handles the corpus_status tool invocation.
func (s *Server) handleCorpusStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.Profile.SearchTimeout)*time.Second)
	defer cancel()

	status, err := s.searcher.Status(ctx)
	if err != nil {
		s.logger.Error("corpus status failed", "error", err)
		return mcp.NewToolResultError("internal error: " + err.Error()), nil
	}

	jsonBytes, err := json.Marshal(status)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("internal error: failed to marshal status: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
