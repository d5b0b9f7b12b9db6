package health

import (
	"context"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
)

// MaxDiskUsedPercent marks the work volume unhealthy once it is this full
const MaxDiskUsedPercent = 95.0

type HealthChecker struct {
	workRoot string
}

type HealthStatus struct {
	Status    string        `json:"status"`
	Workspace WorkspaceInfo `json:"workspace"`
}

type WorkspaceInfo struct {
	Status       string  `json:"status"`
	Path         string  `json:"path"`
	Writable     bool    `json:"writable"`
	UsedPercent  float64 `json:"disk_used_percent"`
	FreeBytes    uint64  `json:"disk_free_bytes"`
	ResponseTime int64   `json:"response_time_ms"`
	Error        string  `json:"error,omitempty"`
}

func NewHealthChecker(workRoot string) *HealthChecker {
	return &HealthChecker{workRoot: workRoot}
}

func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	ws := h.checkWorkspace(ctx)

	status := "healthy"
	if ws.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:    status,
		Workspace: ws,
	}
}

func (h *HealthChecker) checkWorkspace(ctx context.Context) WorkspaceInfo {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	info := WorkspaceInfo{Status: "healthy", Path: h.workRoot}

	f, err := os.CreateTemp(h.workRoot, ".health-*")
	if err != nil {
		info.Status = "unhealthy"
		info.Error = err.Error()
	} else {
		info.Writable = true
		name := f.Name()
		f.Close()
		os.Remove(name)
	}

	if usage, err := disk.UsageWithContext(ctx, h.workRoot); err == nil {
		info.UsedPercent = usage.UsedPercent
		info.FreeBytes = usage.Free
		if usage.UsedPercent >= MaxDiskUsedPercent {
			info.Status = "unhealthy"
		}
	} else if info.Error == "" {
		info.Error = err.Error()
	}

	info.ResponseTime = time.Since(start).Milliseconds()
	return info
}
