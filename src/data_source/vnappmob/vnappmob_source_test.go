package vnappmob

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gold-observer/src/models"
)

func newTestSource(goldTypes []string) *VnappmobGoldSource {
	cfg := &models.MConfig{
		Network:    models.MNetworkConfig{RequestTimeout: 10, ConcurrentRequests: 2},
		DataSource: models.MDataSourceConfig{DataRetentionDays: 7, UpdateIntervalSeconds: 60},
	}
	sourceCfg := models.MSourceConfig{
		Name:      "vnappmob-sjc",
		Company:   "SJC",
		GoldTypes: goldTypes,
	}
	return NewVnappmobGoldSource(cfg, sourceCfg, nil)
}

// -----------------------------------------------------------------------------

func TestParseResults_SplitsRecordIntoGoldTypes(t *testing.T) {
	s := newTestSource([]string{"SJC 1L", "SJC Ring 1C"})

	body := []byte(`{"results": [
		{"datetime": 1735732800, "buy_1l": 84500000, "sell_1l": 86500000,
		 "buy_nhan1c": 83000000, "sell_nhan1c": 84800000,
		 "buy_nutrang_9999": 82500000, "sell_nutrang_9999": 84000000}
	]}`)

	out, err := s.parseResults(body)
	require.NoError(t, err)

	// Only the configured types survive, jewelry is dropped.
	require.Len(t, out, 2)

	bars := out["SJC 1L"]
	require.Len(t, bars, 1)
	assert.Equal(t, "SJC", bars[0].Company)
	assert.Equal(t, 84500000.0, bars[0].Buy)
	assert.Equal(t, 86500000.0, bars[0].Sell)
	assert.Equal(t, int64(1735732800), bars[0].Timestamp)

	rings := out["SJC Ring 1C"]
	require.Len(t, rings, 1)
	assert.Equal(t, 83000000.0, rings[0].Buy)
}

func TestParseResults_StringPrices(t *testing.T) {
	s := newTestSource([]string{"SJC 1L"})

	body := []byte(`{"results": [
		{"datetime": "1735732800", "buy_1l": "84500000", "sell_1l": "86500000"}
	]}`)

	out, err := s.parseResults(body)
	require.NoError(t, err)

	bars := out["SJC 1L"]
	require.Len(t, bars, 1)
	assert.Equal(t, 84500000.0, bars[0].Buy)
	assert.Equal(t, int64(1735732800), bars[0].Timestamp)
}

func TestParseResults_SkipsMissingAndAncientQuotes(t *testing.T) {
	s := newTestSource([]string{"SJC 1L", "SJC Ring 1C"})

	body := []byte(`{"results": [
		{"datetime": 1735732800, "buy_1l": 84500000, "sell_1l": 86500000},
		{"datetime": 946684800, "buy_1l": 5000000, "sell_1l": 5100000},
		{"datetime": 1735736400, "buy_1l": 0, "sell_1l": 86600000}
	]}`)

	out, err := s.parseResults(body)
	require.NoError(t, err)

	// Record 2 predates the feed's valid era, record 3 has no buy price, and
	// no record carries ring prices.
	bars := out["SJC 1L"]
	require.Len(t, bars, 1)
	assert.Equal(t, int64(1735732800), bars[0].Timestamp)
	assert.Empty(t, out["SJC Ring 1C"])
}

func TestParseResults_SortsByTimestamp(t *testing.T) {
	s := newTestSource([]string{"SJC 1L"})

	body := []byte(`{"results": [
		{"datetime": 1735736400, "buy_1l": 84600000, "sell_1l": 86600000},
		{"datetime": 1735732800, "buy_1l": 84500000, "sell_1l": 86500000}
	]}`)

	out, err := s.parseResults(body)
	require.NoError(t, err)

	bars := out["SJC 1L"]
	require.Len(t, bars, 2)
	assert.True(t, bars[0].Timestamp < bars[1].Timestamp)
}

func TestParseResults_MalformedBody(t *testing.T) {
	s := newTestSource([]string{"SJC 1L"})

	_, err := s.parseResults([]byte(`not json`))
	assert.Error(t, err)
}

func TestParseResults_UnknownCompany(t *testing.T) {
	s := newTestSource([]string{"SJC 1L"})
	s.SourceConfig.Company = "ACME"

	_, err := s.parseResults([]byte(`{"results": []}`))
	assert.Error(t, err)
}
