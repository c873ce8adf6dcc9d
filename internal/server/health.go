package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

type healthHandlers struct {
	log zerolog.Logger
}

type healthResponse struct {
	Status        string  `json:"status"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
}

// handleHealthz reports liveness plus a lightweight CPU/memory snapshot,
// grounded on the same gopsutil sampling the teacher's status endpoint
// uses -- a short 100ms CPU sample to avoid blocking the handler.
func (h *healthHandlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to sample cpu")
		cpuPercent = []float64{0}
	}
	memStat, err := mem.VirtualMemory()
	memPercent := 0.0
	if err != nil {
		h.log.Warn().Err(err).Msg("failed to sample memory")
	} else {
		memPercent = memStat.UsedPercent
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		CPUPercent:    cpuAvg,
		MemoryPercent: memPercent,
	})
}
