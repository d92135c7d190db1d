package tools

import (
	"net/http"
	"time"
)

const (
	allProtos       = "btc, eth, xlm, xmr, bnb, matic, avax, sol, trx, ada, dot, ltc, bch, algo, xrp"
	analyticsProtos = "btc, eth, xlm"
	contractProtos  = "eth, bnb"

	// autoTraceTimeout covers multi-hop traces, which the API documents as taking up to 5 minutes.
	autoTraceTimeout = 6 * time.Minute
)

var (
	sanctionDatasets = []string{"global", "au", "ca", "ch", "eu", "gb", "il", "jp", "un", "za", "zm"}
	entityTypes      = []string{"individual", "entity", "vessel", "aircraft"}
	newsCategories   = []string{"general", "bitcoin", "ethereum", "defi", "nft", "regulation", "exchange", "mining"}
)

func proto(supported string) Param {
	return Param{Name: "proto", Required: true, Description: "Blockchain protocol (" + supported + ")"}
}

func address(what, example string) Param {
	return Param{Name: "address", Required: true, Description: what + " (e.g. " + example + ")"}
}

func txHash(name string) Param {
	return Param{
		Name:        name,
		Required:    true,
		Description: "Transaction hash (e.g. 0xfd04466bb91ec4270172acffe187eea57145a906de9b488a0f410ade1569760e)",
	}
}

func dataset() Param {
	return Param{
		Name:        "dataset",
		Default:     "global",
		Enum:        sanctionDatasets,
		Description: "Global sanctions dataset to search in. Default: global",
	}
}

func filter(name, desc string) Param {
	return Param{Name: name, Filter: true, Description: desc}
}

func bulkAddresses() Param {
	return Param{
		Name:        "addresses",
		Wire:        "address",
		Kind:        StringList,
		Required:    true,
		MinItems:    1,
		MaxItems:    10,
		Description: "List of blockchain addresses to query (1-10 addresses)",
	}
}

// Catalog returns every tool the server exposes, in registration order.
func Catalog() []Spec {
	var out []Spec
	out = append(out, inFamily(Intelligence, intelligenceTools())...)
	out = append(out, inFamily(Analytics, analyticsTools())...)
	out = append(out, inFamily(Sanctions, sanctionsTools())...)
	out = append(out, inFamily(Insights, insightsTools())...)
	return out
}

func inFamily(f Family, specs []Spec) []Spec {
	for i := range specs {
		specs[i].Family = f
	}
	return specs
}

func intelligenceTools() []Spec {
	return []Spec{
		{
			Name:        "screen_ip_address",
			Title:       "Screen IP address",
			Description: "Analyze IP geolocation data and sanctions status to support regional compliance checks.",
			Method:      http.MethodGet,
			Path:        "/api/intel/ip/geo",
			Cost:        5,
			Params: []Param{
				{Name: "ip_address", Required: true, Description: "IP address to screen (IPv4 format, e.g. 1.2.3.4)"},
			},
		},
		{
			Name:        "get_address_label",
			Title:       "Address label",
			Description: "Retrieve the category label for a blockchain address, including the associated entity when available.",
			Method:      http.MethodGet,
			Path:        "/api/intel/address/label",
			Cost:        5,
			Params: []Param{
				proto(allProtos),
				address("Blockchain address to query", "0x2f389ce8bd8ff92de3402ffce4691d17fc4f6535"),
			},
		},
		{
			Name:        "get_address_risk_score",
			Title:       "Address risk score",
			Description: "Retrieve an address risk score (0-100), risk level (1-4), category, and associated entity.",
			Method:      http.MethodGet,
			Path:        "/api/intel/address/score",
			Cost:        10,
			Params: []Param{
				proto(allProtos),
				address("Blockchain address to query", "1ECeZBxCVJ8Wm2JSN3Cyc6rge2gnvD3W5K"),
			},
		},
		{
			Name:        "bulk_address_label",
			Title:       "Bulk address labels",
			Description: "Retrieve address category labels and related entity information for multiple blockchain addresses (up to 10) in a single request.",
			Method:      http.MethodPost,
			Path:        "/api/intel/address/label/bulk",
			Body:        FlatJSON,
			Cost:        50,
			Params:      []Param{proto(allProtos), bulkAddresses()},
		},
		{
			Name:        "bulk_address_risk_score",
			Title:       "Bulk address risk scores",
			Description: "Retrieve address risk scores, risk levels, and categories for multiple blockchain addresses (up to 10) in one request.",
			Method:      http.MethodPost,
			Path:        "/api/intel/address/score/bulk",
			Body:        FlatJSON,
			Cost:        100,
			Params:      []Param{proto(allProtos), bulkAddresses()},
		},
		{
			Name:        "get_address_suspicious_activities",
			Title:       "Address suspicious activities",
			Description: "Retrieve suspicious activity associated with a blockchain address, along with related risk scores, levels, and categories.",
			Method:      http.MethodGet,
			Path:        "/api/intel/address/suspicious-activities",
			Cost:        50,
			Params: []Param{
				proto(allProtos),
				address("Blockchain address to query", "1ECeZBxCVJ8Wm2JSN3Cyc6rge2gnvD3W5K"),
			},
		},
		{
			Name:        "get_transaction_detail",
			Title:       "Transaction detail",
			Description: "Retrieve detailed on-chain information for a specific blockchain transaction.",
			Method:      http.MethodGet,
			Path:        "/api/intel/transaction",
			Cost:        50,
			Params:      []Param{proto("btc, eth, xrp"), txHash("hash")},
		},
	}
}

func analyticsTools() []Spec {
	return []Spec{
		{
			Name:        "get_address_stats",
			Title:       "Address statistics",
			Description: "Retrieve statistical insights for a blockchain address, including transaction volume, frequency, and behavioral patterns.",
			Method:      http.MethodGet,
			Path:        "/api/analytics/address/stats",
			Cost:        100,
			Params: []Param{
				proto(analyticsProtos),
				address("Blockchain address to analyze", "bc1qm34lsc65zpw79lxes69zkqmk6ee3ewf0j77s3h"),
			},
		},
		{
			Name:        "get_address_attribution",
			Title:       "Address fund attribution",
			Description: "Analyze inflow and outflow activity of blockchain wallet addresses with entity-based attribution and percentage breakdowns.",
			Method:      http.MethodGet,
			Path:        "/api/analytics/address/attribution",
			Cost:        200,
			Params: []Param{
				proto(analyticsProtos),
				address("Blockchain address to query", "bc1qm34lsc65zpw79lxes69zkqmk6ee3ewf0j77s3h"),
			},
		},
		{
			Name:        "auto_trace_address",
			Title:       "Auto trace address",
			Description: "Automatically trace the flow of transactions from a wallet address across multiple hops. May take up to 5 minutes.",
			Method:      http.MethodPost,
			Path:        "/api/analytics/auto_trace",
			Body:        FlatJSON,
			Cost:        200,
			Timeout:     autoTraceTimeout,
			Params: []Param{
				proto("btc, eth, trx, xrp"),
				address("Blockchain address to trace", "1ECeZBxCVJ8Wm2JSN3Cyc6rge2gnvD3W5K"),
				{Name: "direct", Required: true, Enum: []string{"in", "out"}, Description: "Transaction direction filter"},
				{Name: "time_from", Kind: Integer, Required: true, Description: "Start timestamp for analysis (Unix timestamp, e.g. 1577836800)"},
				{Name: "time_to", Kind: Integer, Required: true, Description: "End timestamp for analysis (Unix timestamp, e.g. 1609459200)"},
			},
		},
		{
			Name:        "get_transaction_graph",
			Title:       "Transaction graph",
			Description: "Retrieve detailed transaction data with graph structures suitable for visualization and relationship analysis.",
			Method:      http.MethodGet,
			Path:        "/api/analytics/transaction/graph",
			Cost:        100,
			Params:      []Param{proto("currently only eth supported"), txHash("hash")},
		},
		{
			Name:        "get_smart_contract_code",
			Title:       "Smart contract code",
			Description: "Analyze smart contract source code and related execution behavior to understand contract logic and activity.",
			Method:      http.MethodGet,
			Path:        "/api/analytics/contract/code",
			Cost:        300,
			Params: []Param{
				proto(contractProtos),
				{Name: "contract_address", Required: true, Description: "Smart contract address to analyze (e.g. 0xe924a9989d5bf8e8dea744deb390e6f4015b470c)"},
			},
		},
		{
			Name:        "get_contract_transaction",
			Title:       "Contract transaction",
			Description: "Retrieve detailed information for smart contract transactions, including input data, state changes, and execution results.",
			Method:      http.MethodGet,
			Path:        "/api/analytics/contract/transaction",
			Cost:        300,
			Params:      []Param{proto(contractProtos), txHash("transaction_hash")},
		},
	}
}

func sanctionsTools() []Spec {
	return []Spec{
		{
			Name:        "screen_ofac_address",
			Title:       "Screen address against OFAC",
			Description: "Check whether a blockchain address is associated with entities listed on the OFAC sanctions list.",
			Method:      http.MethodGet,
			Path:        "/api/sanctions/ofac/address",
			Cost:        5,
			Params: []Param{
				address("Blockchain address to screen", "1ECeZBxCVJ8Wm2JSN3Cyc6rge2gnvD3W5K"),
			},
		},
		{
			Name:        "search_ofac",
			Title:       "Search OFAC",
			Description: "Search the OFAC sanctions database using exact field matching across names, identifiers, and related attributes.",
			Method:      http.MethodPost,
			Path:        "/api/sanctions/ofac/search",
			Body:        FilterJSON,
			Cost:        10,
			Params: []Param{
				{Name: "type", Filter: true, Enum: entityTypes, Description: "Entity type"},
				filter("name", "Full name"),
				filter("first_name", "First name (for individuals)"),
				filter("last_name", "Last name (for individuals)"),
				filter("id", "Crypto wallet addresses or identification numbers"),
				filter("address", "Street address"),
				filter("city", "City name"),
				filter("state", "State or province"),
				filter("country", "Country or nationality"),
			},
		},
		{
			Name:        "fuzzy_search_ofac",
			Title:       "Fuzzy search OFAC",
			Description: "Perform fuzzy text matching across the OFAC sanctions database for names, addresses, and related fields.",
			Method:      http.MethodGet,
			Path:        "/api/sanctions/ofac/search/fuzzy",
			Cost:        100,
			Params: []Param{
				{Name: "q", Required: true, Description: "Fuzzy search query for broad text matching (e.g. bank corporation)"},
			},
		},
		{
			Name:        "screen_global_sanctions_address",
			Title:       "Screen address against global sanctions",
			Description: "Check whether a blockchain address appears on international sanctions lists from multiple countries and organizations.",
			Method:      http.MethodGet,
			Path:        "/api/sanctions/global/address",
			Cost:        10,
			Params: []Param{
				address("Blockchain address to screen", "0x7FF9cFad3877F21d41Da833E2F775dB0569eE3D9"),
				dataset(),
			},
		},
		{
			Name:        "search_global_sanctions",
			Title:       "Search global sanctions",
			Description: "Search international sanctions databases using exact field matching across multiple jurisdictions.",
			Method:      http.MethodPost,
			Path:        "/api/sanctions/global/search",
			Body:        FilterJSON,
			Cost:        20,
			Params: []Param{
				dataset(),
				{Name: "type", Filter: true, Enum: entityTypes, Description: "Entity type"},
				filter("name", "Entity name"),
				filter("address", "Physical address"),
				filter("country", "Country or nationality"),
				filter("birth_date", "Date of birth"),
				filter("legal_form", "Legal entity type"),
				filter("registration_number", "Registration number"),
				filter("incorporation_date", "Incorporation date"),
				filter("jurisdiction", "Incorporation jurisdiction"),
				filter("wallet", "Cryptocurrency wallet addresses"),
			},
		},
		{
			Name:        "fuzzy_search_global_sanctions",
			Title:       "Fuzzy search global sanctions",
			Description: "Perform fuzzy text matching across international sanctions databases for broader and more comprehensive coverage.",
			Method:      http.MethodGet,
			Path:        "/api/sanctions/global/search/fuzzy",
			Cost:        200,
			Params: []Param{
				{Name: "q", Required: true, Description: "Fuzzy search query (e.g. Kesklinna)"},
				dataset(),
			},
		},
	}
}

func insightsTools() []Spec {
	return []Spec{
		{
			Name:        "get_crypto_news",
			Title:       "Crypto news",
			Description: "Retrieve cryptocurrency and blockchain-related news and market information from multiple sources.",
			Method:      http.MethodGet,
			Path:        "/api/insights/feeds/news",
			Cost:        20,
			Params: []Param{
				{Name: "query", Description: "Search query for cryptocurrency news (e.g. bitcoin price)"},
				{Name: "category", Enum: newsCategories, Description: "News category filter"},
			},
		},
	}
}
