package api

// ChatRequest is the body of POST /chat/.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the reply to POST /chat/.
type ChatResponse struct {
	Response string `json:"response"`
}

// RecommendRequest is the body of POST /recommend/.
type RecommendRequest struct {
	Problem  string `json:"problem"`
	Location string `json:"location"`
}

// RecommendResponse groups the supplies and products suggested for a problem.
type RecommendResponse struct {
	Groups []RecoGroup `json:"groups"`
}

// RecoGroup is one named set of recommended items. Required groups hold
// items the fix cannot be done without.
type RecoGroup struct {
	Group    string     `json:"group"`
	Required bool       `json:"required"`
	Items    []RecoItem `json:"items"`
}

// RecoItem is a single recommended product. Price, ImageURL and Rating are
// nil when the backend omits them or sends null.
type RecoItem struct {
	Title    string   `json:"title"`
	Price    *float64 `json:"price,omitempty"`
	Link     string   `json:"link"`
	ImageURL *string  `json:"imageUrl,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Ad       bool     `json:"ad,omitempty"`
}

// AnalyzeRequest is the body of POST /analyze/.
type AnalyzeRequest struct {
	ImageBase64 string `json:"image_base64"`
}

// AnalyzeWithTextRequest is the body of POST /analyze-with-text/.
type AnalyzeWithTextRequest struct {
	ImageBase64 string `json:"image_base64"`
	Message     string `json:"message"`
}

// AnalyzeResponse is the diagnosis returned for a photo. UserMessage is only
// populated by /analyze-with-text/.
type AnalyzeResponse struct {
	Problem     string `json:"problem"`
	Location    string `json:"location"`
	UserMessage string `json:"user_message,omitempty"`
	Solution    string `json:"solution"`
}

// ServerInfo is the reply to GET /server-info/.
type ServerInfo struct {
	BaseURL string `json:"base_url"`
}

// errorBody matches the {"detail": ...} shape FastAPI uses for HTTP errors.
type errorBody struct {
	Detail any `json:"detail"`
}
