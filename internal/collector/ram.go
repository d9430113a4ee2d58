package collector

import (
	"github.com/shirou/gopsutil/v3/mem"

	"atlas/internal/models"
)

// RAM reads virtual memory and swap usage.
func RAM() (*models.RAMStats, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}
	stats := &models.RAMStats{
		Percent:  round1(vm.UsedPercent),
		TotalGB:  bytesToGB(vm.Total),
		UsedGB:   bytesToGB(vm.Used),
		FreeGB:   bytesToGB(vm.Available),
		CachedGB: bytesToGB(vm.Cached),
	}
	if swap, err := mem.SwapMemory(); err == nil {
		stats.SwapTotalGB = bytesToGB(swap.Total)
		stats.SwapUsedGB = bytesToGB(swap.Used)
		stats.SwapPercent = round1(swap.UsedPercent)
	}
	return stats, nil
}
