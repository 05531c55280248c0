package admin

// ScreenInfo is one entry of the admin navigation.
type ScreenInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	ReadOnly bool   `json:"readOnly,omitempty"`
}

// ScreenCount is one tile of the dashboard summary.
type ScreenCount struct {
	Name  string `json:"name"`
	Title string `json:"title"`
	Total int    `json:"total"`
	Stale bool   `json:"stale,omitempty"`
	Error string `json:"error,omitempty"`
}

type QueryRequest struct {
	Search  *string           `json:"search"`
	Filters map[string]string `json:"filters"`
	Sort    *string           `json:"sort"`
	Dir     string            `json:"dir"`
	Page    *int              `json:"page"`
}

type TabRequest struct {
	Tab string `json:"tab"`
}
