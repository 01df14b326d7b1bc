package models

// RingBuffer indices and constants
const (
	RB_IDX_TIMESTAMP = 0
	RB_IDX_BUY       = 1
	RB_IDX_SELL      = 2
	RB_NUM_FEATURES  = 3
)
