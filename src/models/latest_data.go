package models

// -----------------------------------------------------------------------------
// Server State Structure (pushed over the WebSocket hub)
// -----------------------------------------------------------------------------

type MLatestData struct {
	Type              string                `json:"type"` // "INITIAL" or "UPDATE"
	Prices            map[string]MGoldPrice `json:"prices"` // latest quote per gold type
	Trends            map[string]MTrendView `json:"trends"` // trend view per gold type
	Timestamp         int64                 `json:"timestamp"`
	ProcessingMetrics MProcessingMetrics    `json:"processing_metrics"`
}

// -----------------------------------------------------------------------------
// SubscribeCommand for client messages
// -----------------------------------------------------------------------------

type MSubscribeCommand struct {
	Command    string   `json:"command"`
	ClientType string   `json:"clientType"`
	GoldTypes  []string `json:"goldTypes"`
	PresetDays int      `json:"presetDays"`
}
