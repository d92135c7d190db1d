// Package tools declares the AnChain.AI API operations exposed as MCP tools and
// turns validated tool arguments into API requests.
package tools

import (
	"net/url"
	"time"

	"anchain-mcp/internal/anchain"
)

// Family groups tools by the API section they call.
type Family string

const (
	Intelligence Family = "intelligence"
	Analytics    Family = "analytics"
	Sanctions    Family = "sanctions"
	Insights     Family = "insights"
)

// Kind is the argument type a Param accepts.
type Kind int

const (
	String Kind = iota
	Integer
	StringList
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case StringList:
		return "array of strings"
	default:
		return "string"
	}
}

// BodyShape says where validated arguments go on the outbound request.
type BodyShape int

const (
	// Query sends every argument as a URL query parameter.
	Query BodyShape = iota
	// FlatJSON sends every argument as a top level field of a JSON body.
	FlatJSON
	// FilterJSON sends Filter params under a "filters" object and the rest at the top level.
	FilterJSON
)

// Param describes one tool argument.
type Param struct {
	Name        string
	Wire        string // remote field name, Name if empty
	Kind        Kind
	Required    bool
	Default     string
	Enum        []string
	MinItems    int
	MaxItems    int
	Filter      bool
	Description string
}

func (p Param) wireName() string {
	if p.Wire != "" {
		return p.Wire
	}
	return p.Name
}

// Spec is the static descriptor of one tool: its schema and the endpoint it calls.
type Spec struct {
	Name        string
	Title       string
	Description string
	Family      Family
	Method      string
	Path        string
	Body        BodyShape
	Params      []Param
	Cost        int
	Timeout     time.Duration
}

// Request maps validated arguments to the API request for this tool.
func (s *Spec) Request(args Args) anchain.Request {
	req := anchain.Request{Method: s.Method, Path: s.Path}
	switch s.Body {
	case Query:
		q := url.Values{}
		for _, p := range s.Params {
			v, ok := args[p.Name]
			if !ok {
				continue
			}
			switch t := v.(type) {
			case []string:
				for _, item := range t {
					q.Add(p.wireName(), item)
				}
			default:
				q.Set(p.wireName(), formatScalar(t))
			}
		}
		req.Query = q
	case FlatJSON, FilterJSON:
		body := map[string]any{}
		var filters map[string]any
		if s.Body == FilterJSON {
			filters = map[string]any{}
			body["filters"] = filters
		}
		for _, p := range s.Params {
			v, ok := args[p.Name]
			if !ok {
				continue
			}
			if p.Filter && filters != nil {
				filters[p.wireName()] = v
				continue
			}
			body[p.wireName()] = v
		}
		req.Body = body
	}
	return req
}
