package collector

import (
	"time"

	"github.com/shirou/gopsutil/v3/host"

	"atlas/internal/models"
)

// Users lists logged-in sessions.
func Users() (*models.UserStats, error) {
	sessions, err := host.Users()
	if err != nil {
		return nil, err
	}
	stats := &models.UserStats{LoggedIn: []models.UserSession{}}
	for _, u := range sessions {
		stats.LoggedIn = append(stats.LoggedIn, models.UserSession{
			Name:     u.User,
			Terminal: u.Terminal,
			Host:     u.Host,
			Started:  time.Unix(int64(u.Started), 0).UTC().Format(time.RFC3339),
		})
	}
	stats.Count = len(stats.LoggedIn)
	return stats, nil
}
