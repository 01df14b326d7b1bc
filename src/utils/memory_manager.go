package utils

import (
	"runtime"
	"runtime/debug"
	"sync"

	"gold-observer/src/logger"
	"gold-observer/src/models"
)

// -----------------------------------------------------------------------------
// MemoryManager manages in-memory quote buffers, one per gold type.
// -----------------------------------------------------------------------------

type MemoryManager struct {
	DataStreams   map[string]*RingBuffer
	MaxMemoryMB   int
	MaxDataPoints int
	Logger        *logger.Logger
	mu            sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewMemoryManager(maxMemoryMB, maxDataPoints int) *MemoryManager {
	return &MemoryManager{
		DataStreams:   make(map[string]*RingBuffer),
		MaxMemoryMB:   maxMemoryMB,
		MaxDataPoints: maxDataPoints,
		Logger:        logger.NewLogger(nil, "MemoryManager"),
	}
}

// -----------------------------------------------------------------------------

// AddDataPoint adds a quote to the buffer of its gold type.
func (mm *MemoryManager) AddDataPoint(goldType string, data models.MGoldPrice) {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	if _, ok := mm.DataStreams[goldType]; !ok {
		mm.DataStreams[goldType] = NewRingBuffer(mm.MaxDataPoints)
	}

	mm.DataStreams[goldType].Append(data)

	// Periodic memory check
	if mm.DataStreams[goldType].Size()%100 == 0 {
		mm.CheckMemoryLimits()
	}
}

// -----------------------------------------------------------------------------

// GetLatestData returns either the full history or just the latest quote.
// An empty goldType returns data for every buffered type.
func (mm *MemoryManager) GetLatestData(goldType string, allData bool) interface{} {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	if goldType == "" {
		return mm.getAllTypesData(allData)
	}

	return mm.getTypeData(goldType, allData)
}

// -----------------------------------------------------------------------------

// getAllTypesData returns data for all gold types
func (mm *MemoryManager) getAllTypesData(allData bool) interface{} {
	if allData {
		result := make(map[string][]models.MGoldPrice)
		for goldType, buffer := range mm.DataStreams {
			if buffer.Size() == 0 {
				continue
			}

			history := buffer.GetAll()
			for i := range history {
				history[i].GoldType = goldType
			}
			result[goldType] = history
		}
		return result
	}

	// Snapshot only: latest quote per type
	result := make(map[string]models.MGoldPrice)
	for goldType, buffer := range mm.DataStreams {
		if buffer.Size() == 0 {
			continue
		}

		latest := buffer.GetLatest(1)
		if len(latest) > 0 {
			latest[0].GoldType = goldType
			result[goldType] = latest[0]
		}
	}
	return result
}

// -----------------------------------------------------------------------------

// getTypeData returns data for a specific gold type
func (mm *MemoryManager) getTypeData(goldType string, allData bool) interface{} {
	buffer, ok := mm.DataStreams[goldType]
	if !ok || buffer.Size() == 0 {
		return nil
	}

	if allData {
		history := buffer.GetAll()
		for i := range history {
			history[i].GoldType = goldType
		}
		return history
	}

	latest := buffer.GetLatest(1)
	if len(latest) > 0 {
		latest[0].GoldType = goldType
		return latest[0]
	}
	return nil
}

// -----------------------------------------------------------------------------

// GetHistory returns the buffered quotes for one gold type, oldest first.
func (mm *MemoryManager) GetHistory(goldType string) []models.MGoldPrice {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	buffer, ok := mm.DataStreams[goldType]
	if !ok {
		return []models.MGoldPrice{}
	}

	history := buffer.GetAll()
	for i := range history {
		history[i].GoldType = goldType
	}
	return history
}

// -----------------------------------------------------------------------------

// GetLatestArrays returns the raw feature rows for one gold type.
func (mm *MemoryManager) GetLatestArrays(goldType string) [][models.RB_NUM_FEATURES]float64 {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	buffer, ok := mm.DataStreams[goldType]
	if !ok || buffer.Size() == 0 {
		return [][models.RB_NUM_FEATURES]float64{}
	}

	return buffer.GetSnapshot()
}

// -----------------------------------------------------------------------------

// CheckMemoryLimits checks and enforces memory limits
func (mm *MemoryManager) CheckMemoryLimits() {
	currentMemory := mm.GetProcessMemoryMB()

	if currentMemory > float64(mm.MaxMemoryMB) {
		mm.Logger.Info("Memory usage %.1fMB exceeds limit %dMB. Cleaning up.",
			currentMemory, mm.MaxMemoryMB)

		// Reduce data retention by half to free memory
		for goldType := range mm.DataStreams {
			buffer := mm.DataStreams[goldType]
			if buffer.Capacity() > 100 {
				newCapacity := buffer.Capacity() / 2
				if newCapacity < 50 {
					newCapacity = 50
				}
				buffer.Resize(newCapacity)
			}
		}

		// Force garbage collection
		runtime.GC()
		debug.FreeOSMemory()
	}
}

// -----------------------------------------------------------------------------

// GetProcessMemoryMB gets current process memory usage in MB
func (mm *MemoryManager) GetProcessMemoryMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return float64(m.HeapAlloc) / 1024 / 1024
}

// -----------------------------------------------------------------------------

// Cleanup clears all data
func (mm *MemoryManager) Cleanup() {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	mm.DataStreams = make(map[string]*RingBuffer)
	runtime.GC()
	debug.FreeOSMemory()
}

// -----------------------------------------------------------------------------

// GetBuffer returns the ring buffer for a gold type (convenience method)
func (mm *MemoryManager) GetBuffer(goldType string) *RingBuffer {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	return mm.DataStreams[goldType]
}

// -----------------------------------------------------------------------------

// HasGoldType checks if a gold type has buffered quotes
func (mm *MemoryManager) HasGoldType(goldType string) bool {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	_, ok := mm.DataStreams[goldType]
	return ok
}

// -----------------------------------------------------------------------------

// GoldTypeCount returns number of gold types with data
func (mm *MemoryManager) GoldTypeCount() int {
	mm.mu.RLock()
	defer mm.mu.RUnlock()

	return len(mm.DataStreams)
}
