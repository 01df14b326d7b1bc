package vnappmob

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"gold-observer/src/interfaces"
	"gold-observer/src/logger"
	"gold-observer/src/models"
	"gold-observer/src/utils"
)

const baseURL = "https://vapi.vnappmob.com"

// The API publishes one flat record per quote board update. Each configured
// gold type maps to a buy/sell field pair inside that record.
type fieldPair struct {
	buy  string
	sell string
}

var goldFields = map[string]map[string]fieldPair{
	"SJC": {
		"SJC 1L":          {buy: "buy_1l", sell: "sell_1l"},
		"SJC Ring 1C":     {buy: "buy_nhan1c", sell: "sell_nhan1c"},
		"SJC Jewelry 24K": {buy: "buy_nutrang_9999", sell: "sell_nutrang_9999"},
		"SJC Jewelry 99%": {buy: "buy_nutrang_99", sell: "sell_nutrang_99"},
		"SJC Jewelry 18K": {buy: "buy_nutrang_75", sell: "sell_nutrang_75"},
	},
	"DOJI": {
		"Gold Bar HCM":     {buy: "buy_hcm", sell: "sell_hcm"},
		"Gold Bar Hanoi":   {buy: "buy_hn", sell: "sell_hn"},
		"Gold Bar Can Tho": {buy: "buy_ct", sell: "sell_ct"},
		"Gold Bar Da Nang": {buy: "buy_dn", sell: "sell_dn"},
	},
	"PNJ": {
		"PNJ 24K Ring":    {buy: "buy_nhan_24k", sell: "sell_nhan_24k"},
		"PNJ 24K Jewelry": {buy: "buy_nt_24k", sell: "sell_nt_24k"},
		"PNJ 18K Jewelry": {buy: "buy_nt_18k", sell: "sell_nt_18k"},
		"PNJ 14K Jewelry": {buy: "buy_nt_14k", sell: "sell_nt_14k"},
		"PNJ 10K Jewelry": {buy: "buy_nt_10k", sell: "sell_nt_10k"},
	},
}

// Quotes stamped before this year are feed glitches, the API occasionally
// replays ancient records.
const minQuoteYear = 2024

// Historical range requests are split into windows this long and fetched
// concurrently.
const rangeWindowDays = 30

// -----------------------------------------------------------------------------

type VnappmobGoldSource struct {
	Config           *models.MConfig
	SourceConfig     models.MSourceConfig
	goldTypes        atomic.Value // Stores []string safely
	Network          interfaces.INetworkManager
	Logger           *logger.Logger
	Calendar         *utils.TradingCalendar
	LastTimestamps   map[string]int64
	lastTimestampsMu sync.RWMutex
	cancelFunc       context.CancelFunc
	ctx              context.Context
	outputChan       chan<- map[string][]models.MGoldPrice
	isRunning        atomic.Bool
	mu               sync.Mutex
}

// -----------------------------------------------------------------------------

func (s *VnappmobGoldSource) Name() string {
	return s.SourceConfig.Name
}

// -----------------------------------------------------------------------------

// IsRealTime returns false, the quote board is polled on an interval.
func (s *VnappmobGoldSource) IsRealTime() bool {
	return false
}

// -----------------------------------------------------------------------------

func NewVnappmobGoldSource(cfg *models.MConfig, sourceCfg models.MSourceConfig, netMgr interfaces.INetworkManager) *VnappmobGoldSource {
	s := &VnappmobGoldSource{
		Config:         cfg,
		SourceConfig:   sourceCfg,
		Network:        netMgr,
		Logger:         logger.NewLogger(nil, "VnappmobGoldSource-"+sourceCfg.Name),
		LastTimestamps: make(map[string]int64),
		Calendar:       utils.GetVietnamCalendar(),
	}
	s.goldTypes.Store(sourceCfg.GoldTypes)
	return s
}

// -----------------------------------------------------------------------------

// FetchInitialData fetches historical quotes covering the retention window.
func (s *VnappmobGoldSource) FetchInitialData() (map[string][]models.MGoldPrice, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -s.Config.DataSource.DataRetentionDays)
	// Pad the upper bound by a day so today's records are always included
	to := now.AddDate(0, 0, 1)

	data, err := s.FetchRange(from.Unix(), to.Unix())
	if err != nil {
		return nil, err
	}

	// Update last timestamps
	for goldType, prices := range data {
		if len(prices) > 0 {
			lastPt := prices[len(prices)-1]
			s.lastTimestampsMu.Lock()
			s.LastTimestamps[goldType] = lastPt.Timestamp
			s.lastTimestampsMu.Unlock()
		}
	}

	return data, nil
}

// -----------------------------------------------------------------------------

// FetchUpdateData fetches the current quote board. The API returns the latest
// records when called without date parameters.
func (s *VnappmobGoldSource) FetchUpdateData() (map[string][]models.MGoldPrice, error) {
	url := fmt.Sprintf("%s/api/v2/gold/%s", baseURL, companySlug(s.SourceConfig.Company))

	respBytes, err := s.Network.GetWithHeaders(url, nil, s.requestHeaders())
	if err != nil {
		return nil, fmt.Errorf("network error for %s: %w", s.SourceConfig.Company, err)
	}

	return s.parseResults(respBytes)
}

// -----------------------------------------------------------------------------

// FetchRange fetches quotes between two unix timestamps. Long ranges are
// split into windows and fetched concurrently, the API caps records per call.
func (s *VnappmobGoldSource) FetchRange(fromTS, toTS int64) (map[string][]models.MGoldPrice, error) {
	if toTS <= fromTS {
		return nil, fmt.Errorf("invalid range: %d >= %d", fromTS, toTS)
	}

	windowSec := int64(rangeWindowDays * 24 * 3600)

	type window struct{ from, to int64 }
	var windows []window
	for start := fromTS; start < toTS; start += windowSec {
		end := start + windowSec
		if end > toTS {
			end = toTS
		}
		windows = append(windows, window{from: start, to: end})
	}

	results := make([]map[string][]models.MGoldPrice, len(windows))

	g := new(errgroup.Group)
	g.SetLimit(s.Config.Network.ConcurrentRequests)

	for i, w := range windows {
		i, w := i, w
		g.Go(func() error {
			// Small delay to avoid hammering the API
			time.Sleep(10 * time.Millisecond)

			url := fmt.Sprintf("%s/api/v2/gold/%s", baseURL, companySlug(s.SourceConfig.Company))
			params := map[string]string{
				"date_from": strconv.FormatInt(w.from, 10),
				"date_to":   strconv.FormatInt(w.to, 10),
			}

			respBytes, err := s.Network.GetWithHeaders(url, params, s.requestHeaders())
			if err != nil {
				return fmt.Errorf("network error for window [%d, %d): %w", w.from, w.to, err)
			}

			parsed, err := s.parseResults(respBytes)
			if err != nil {
				return err
			}
			results[i] = parsed
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge windows and restore chronological order
	merged := make(map[string][]models.MGoldPrice)
	for _, r := range results {
		for goldType, prices := range r {
			merged[goldType] = append(merged[goldType], prices...)
		}
	}
	for goldType := range merged {
		sort.Slice(merged[goldType], func(i, j int) bool {
			return merged[goldType][i].Timestamp < merged[goldType][j].Timestamp
		})
	}

	s.Logger.Info("Fetched range [%d, %d): %d gold types across %d windows",
		fromTS, toTS, len(merged), len(windows))
	return merged, nil
}

// -----------------------------------------------------------------------------

func (s *VnappmobGoldSource) requestHeaders() map[string]string {
	headers := map[string]string{
		"Accept": "application/json",
	}
	if s.SourceConfig.APIKey != "" {
		headers["Authorization"] = "Bearer " + s.SourceConfig.APIKey
	}
	return headers
}

// -----------------------------------------------------------------------------

type goldAPIResponse struct {
	Results []map[string]interface{} `json:"results"`
}

// -----------------------------------------------------------------------------

// parseResults flattens the API records into per-type quote slices. Records
// with missing or non-positive prices for a type are skipped for that type
// only, the remaining types of the same record still count.
func (s *VnappmobGoldSource) parseResults(data []byte) (map[string][]models.MGoldPrice, error) {
	var resp goldAPIResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("json unmarshal failed: %w", err)
	}

	fields, ok := goldFields[s.SourceConfig.Company]
	if !ok {
		return nil, fmt.Errorf("unknown company: %s", s.SourceConfig.Company)
	}

	wanted := make(map[string]bool)
	for _, gt := range s.getGoldTypes() {
		wanted[gt] = true
	}

	now := time.Now().UTC()
	out := make(map[string][]models.MGoldPrice)
	validPoints := 0

	for _, record := range resp.Results {
		ts := asInt64(record["datetime"])
		if ts == 0 {
			ts = now.Unix()
		}

		// Drop replayed ancient records
		if time.Unix(ts, 0).UTC().Year() < minQuoteYear {
			continue
		}

		for goldType, pair := range fields {
			if len(wanted) > 0 && !wanted[goldType] {
				continue
			}

			buy := asFloat(record[pair.buy])
			sell := asFloat(record[pair.sell])
			if buy <= 0 || sell <= 0 {
				continue
			}

			out[goldType] = append(out[goldType], models.MGoldPrice{
				Company:   s.SourceConfig.Company,
				GoldType:  goldType,
				Buy:       buy,
				Sell:      sell,
				Timestamp: ts,
				FetchedAt: now.Unix(),
				CreatedAt: now,
			})
			validPoints++
		}
	}

	for goldType := range out {
		sort.Slice(out[goldType], func(i, j int) bool {
			return out[goldType][i].Timestamp < out[goldType][j].Timestamp
		})
	}

	s.Logger.Debug("Parsed %d records into %d valid quotes", len(resp.Results), validPoints)
	return out, nil
}

// -----------------------------------------------------------------------------

// Start begins the data fetching loop
func (s *VnappmobGoldSource) Start(parentCtx context.Context, outputChan chan<- map[string][]models.MGoldPrice, wg *sync.WaitGroup) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning.Load() {
		return fmt.Errorf("source %s is already running", s.Name())
	}

	// Derive a context so we can stop just this source via Stop()
	ctx, cancel := context.WithCancel(parentCtx)
	s.cancelFunc = cancel
	s.ctx = ctx
	s.outputChan = outputChan
	s.isRunning.Store(true)

	wg.Add(1)
	go s.runLoop(ctx, outputChan, wg)
	s.Logger.Info("Started VnappmobGoldSource: %s", s.Name())
	return nil
}

// -----------------------------------------------------------------------------

// Stop signals the run loop to exit
func (s *VnappmobGoldSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning.Load() {
		return fmt.Errorf("source %s is not running", s.Name())
	}

	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning.Store(false)
	s.Logger.Info("Stopped VnappmobGoldSource: %s", s.Name())
	return nil
}

// -----------------------------------------------------------------------------

// PushToDataSourceManager sends data to the manager's channel safely
func (s *VnappmobGoldSource) PushToDataSourceManager(data map[string][]models.MGoldPrice) error {
	if s.outputChan == nil {
		return fmt.Errorf("output channel is nil")
	}

	select {
	case s.outputChan <- data:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	}
}

// -----------------------------------------------------------------------------

// runLoop polls the quote board periodically while dealers are open.
func (s *VnappmobGoldSource) runLoop(ctx context.Context, outputChan chan<- map[string][]models.MGoldPrice, wg *sync.WaitGroup) {
	defer wg.Done()

	ticker := time.NewTicker(time.Duration(s.Config.DataSource.UpdateIntervalSeconds) * time.Second)
	defer ticker.Stop()

	// Local copy of the dedup state, this goroutine is the only writer while
	// running and Start() synchronized the handoff.
	localTimestamps := make(map[string]int64)

	s.lastTimestampsMu.RLock()
	for k, v := range s.LastTimestamps {
		localTimestamps[k] = v
	}
	s.lastTimestampsMu.RUnlock()

	defer func() {
		s.lastTimestampsMu.Lock()
		for k, v := range localTimestamps {
			if v > s.LastTimestamps[k] {
				s.LastTimestamps[k] = v
			}
		}
		s.lastTimestampsMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !s.Calendar.IsOpenOnMinute(time.Now()) {
				s.Logger.Info("Dealers are closed. Pausing for 30 minutes...")
				select {
				case <-time.After(30 * time.Minute):
				case <-ctx.Done():
					return
				}
				continue
			}

			data, err := s.FetchUpdateData()
			if err != nil {
				s.Logger.Info("Error fetching updates: %v", err)
				continue
			}

			// Only forward quotes newer than what we already pushed
			validData := make(map[string][]models.MGoldPrice)
			for goldType, prices := range data {
				var newPrices []models.MGoldPrice

				lastTs := localTimestamps[goldType]

				for _, p := range prices {
					if lastTs == 0 || p.Timestamp > lastTs {
						newPrices = append(newPrices, p)
					}
				}

				if len(newPrices) > 0 {
					validData[goldType] = newPrices

					lastP := newPrices[len(newPrices)-1]
					if lastP.Timestamp > localTimestamps[goldType] {
						localTimestamps[goldType] = lastP.Timestamp
					}
				}
			}

			if len(validData) > 0 {
				if err := s.PushToDataSourceManager(validData); err != nil {
					return
				}
			}
		}
	}
}

// -----------------------------------------------------------------------------

func (s *VnappmobGoldSource) UpdateGoldTypes(goldTypes []string) error {
	// Atomic swap
	s.goldTypes.Store(goldTypes)
	s.Logger.Info("Updated gold type list. New count: %d", len(goldTypes))
	return nil
}

// -----------------------------------------------------------------------------

func (s *VnappmobGoldSource) getGoldTypes() []string {
	return s.goldTypes.Load().([]string)
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func companySlug(company string) string {
	switch company {
	case "SJC":
		return "sjc"
	case "DOJI":
		return "doji"
	case "PNJ":
		return "pnj"
	default:
		return ""
	}
}

// The API is loose with types, prices arrive as numbers or numeric strings.
func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		return f
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case float64:
		return int64(n)
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0
		}
		return i
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}
