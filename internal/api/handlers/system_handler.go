package handlers

import (
	"net/http"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemHandler reports host resource usage. The route is gated by the
// static service token; this is operational data, not user data.
type SystemHandler struct{}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{}
}

// SystemStatus is the host snapshot returned by Status.
type SystemStatus struct {
	Hostname      string  `json:"hostname"`
	UptimeSeconds uint64  `json:"uptimeSeconds"`
	CPUPercent    float64 `json:"cpuPercent"`
	MemUsedMB     uint64  `json:"memUsedMb"`
	MemTotalMB    uint64  `json:"memTotalMb"`
	DiskUsedPct   float64 `json:"diskUsedPct"`
}

// Status handles the request for a host resource snapshot.
func (h *SystemHandler) Status(w http.ResponseWriter, r *http.Request) {
	status := SystemStatus{}

	if info, err := host.Info(); err == nil {
		status.Hostname = info.Hostname
		status.UptimeSeconds = info.Uptime
	}
	if percents, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(percents) > 0 {
		status.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status.MemUsedMB = vm.Used / 1024 / 1024
		status.MemTotalMB = vm.Total / 1024 / 1024
	}
	if usage, err := disk.Usage("/"); err == nil {
		status.DiskUsedPct = usage.UsedPercent
	}

	writeJSON(w, http.StatusOK, status)
}
