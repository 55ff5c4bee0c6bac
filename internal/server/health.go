package server

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// healthHandler reports relay status plus host metrics. It never calls the
// upstream and does not require the API key.
func (s *Server) healthHandler(c echo.Context) error {
	ctx := c.Request().Context()
	logger := loggerFromContext(c)

	resp := map[string]interface{}{
		"ok":                 true,
		"service":            s.cfg.ServiceName,
		"model":              s.cfg.Model,
		"api_key_configured": s.cfg.HasAPIKey(),
		"structured_output":  s.cfg.StructuredOutput,
	}

	runtimeInfo := map[string]interface{}{
		"uptime":     time.Since(s.startTime).Round(time.Second).String(),
		"start_time": s.startTime.Format(time.RFC3339),
		"goroutines": runtime.NumGoroutine(),
		"go_version": runtime.Version(),
	}
	if hInfo, err := host.InfoWithContext(ctx); err == nil {
		runtimeInfo["os"] = hInfo.OS
		runtimeInfo["platform"] = hInfo.Platform
		runtimeInfo["arch"] = hInfo.KernelArch
		runtimeInfo["hostname"] = hInfo.Hostname
	} else {
		logger.Debug().Err(err).Msg("host info unavailable")
	}
	resp["runtime"] = runtimeInfo

	// Interval 0 compares against the previous call, so this never blocks.
	if cpuPercent, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(cpuPercent) > 0 {
		resp["cpu"] = map[string]interface{}{
			"usage_percent": fmt.Sprintf("%.2f%%", cpuPercent[0]),
			"cores":         runtime.NumCPU(),
		}
	}

	if v, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		resp["memory"] = map[string]interface{}{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(v.Total)/1024/1024/1024),
			"used_gb":      fmt.Sprintf("%.2f GB", float64(v.Used)/1024/1024/1024),
			"used_percent": fmt.Sprintf("%.2f%%", v.UsedPercent),
		}
	} else {
		logger.Debug().Err(err).Msg("memory stats unavailable")
	}

	return c.JSON(http.StatusOK, resp)
}
