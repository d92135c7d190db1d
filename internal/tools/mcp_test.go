package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"anchain-mcp/internal/anchain"
)

type rpcResponse struct {
	Result struct {
		Tools []struct {
			Name        string `json:"name"`
			Description string `json:"description"`
			InputSchema struct {
				Properties map[string]map[string]any `json:"properties"`
				Required   []string                  `json:"required"`
			} `json:"inputSchema"`
		} `json:"tools"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
		IsError bool `json:"isError"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func roundTrip(t *testing.T, s *server.MCPServer, msg string) rpcResponse {
	t.Helper()
	out := s.HandleMessage(context.Background(), json.RawMessage(msg))
	buf, err := json.Marshal(out)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	var resp rpcResponse
	if err := json.Unmarshal(buf, &resp); err != nil {
		t.Fatalf("decode response %s: %v", buf, err)
	}
	return resp
}

func newTestServer(t *testing.T, d Doer) *server.MCPServer {
	t.Helper()
	s := server.NewMCPServer("test", "0.0.0", server.WithToolCapabilities(false))
	newTestRegistry(t, d).RegisterTools(s)
	return s
}

func TestToolsListAdvertisesCatalog(t *testing.T) {
	s := newTestServer(t, &fakeDoer{})
	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	if len(resp.Result.Tools) != len(Catalog()) {
		t.Fatalf("expected %d tools, got %d", len(Catalog()), len(resp.Result.Tools))
	}
	for _, tool := range resp.Result.Tools {
		if tool.Name != "bulk_address_risk_score" {
			continue
		}
		if !strings.Contains(tool.Description, "Cost: 100 credits") {
			t.Fatalf("cost missing from description: %q", tool.Description)
		}
		addrs := tool.InputSchema.Properties["addresses"]
		if addrs["type"] != "array" {
			t.Fatalf("addresses should be an array: %v", addrs)
		}
		if len(tool.InputSchema.Required) != 2 {
			t.Fatalf("expected 2 required params, got %v", tool.InputSchema.Required)
		}
		return
	}
	t.Fatal("bulk_address_risk_score not advertised")
}

func TestToolsCallRelaysBody(t *testing.T) {
	d := &fakeDoer{resp: json.RawMessage(`{"risk_score": 73, "labels": ["mixer"]}`)}
	s := newTestServer(t, d)
	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"get_address_risk_score","arguments":{"address":"0x1234","proto":"eth"}}}`)
	if resp.Error != nil || resp.Result.IsError {
		t.Fatalf("unexpected failure: %+v", resp)
	}
	if len(resp.Result.Content) != 1 || resp.Result.Content[0].Text != `{"risk_score": 73, "labels": ["mixer"]}` {
		t.Fatalf("unexpected content %+v", resp.Result.Content)
	}
	if len(d.calls) != 1 {
		t.Fatalf("expected 1 request, got %d", len(d.calls))
	}
}

func TestToolsCallValidationError(t *testing.T) {
	d := &fakeDoer{resp: json.RawMessage(`{}`)}
	s := newTestServer(t, d)
	resp := roundTrip(t, s, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"get_address_label","arguments":{"proto":"eth"}}}`)
	if !resp.Result.IsError {
		t.Fatalf("expected tool error, got %+v", resp)
	}
	if !strings.Contains(resp.Result.Content[0].Text, "address is required") {
		t.Fatalf("unexpected message %q", resp.Result.Content[0].Text)
	}
	if len(d.calls) != 0 {
		t.Fatalf("expected no requests, got %d", len(d.calls))
	}
}

func TestToolsCallRemoteErrorThenRecovers(t *testing.T) {
	d := &fakeDoer{err: &anchain.APIError{StatusCode: 503, Body: "maintenance"}}
	s := newTestServer(t, d)
	call := `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"screen_ofac_address","arguments":{"address":"1ECe"}}}`

	resp := roundTrip(t, s, call)
	if !resp.Result.IsError || !strings.Contains(resp.Result.Content[0].Text, "status 503") {
		t.Fatalf("expected status in tool error, got %+v", resp)
	}

	d.mu.Lock()
	d.err = nil
	d.resp = json.RawMessage(`{"sanctioned":false}`)
	d.mu.Unlock()

	resp = roundTrip(t, s, call)
	if resp.Result.IsError || resp.Result.Content[0].Text != `{"sanctioned":false}` {
		t.Fatalf("expected recovery, got %+v", resp)
	}
}

func TestHandlerCancelledIsProtocolError(t *testing.T) {
	r := newTestRegistry(t, &fakeDoer{err: context.Canceled})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = "fuzzy_search_ofac"
	req.Params.Arguments = map[string]any{"q": "bank"}
	res, err := r.handler("fuzzy_search_ofac")(ctx, req)
	if err == nil {
		t.Fatalf("expected error, got result %+v", res)
	}
}
