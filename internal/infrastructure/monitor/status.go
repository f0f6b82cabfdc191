package monitor

import "time"

type Status struct {
	Store        bool      `json:"store"`
	Redis        bool      `json:"redis"`
	RedisEnabled bool      `json:"redis_enabled"`
	LastCheck    time.Time `json:"last_check"`
}

// Healthy reports whether every configured dependency answered its last probe.
func (s Status) Healthy() bool {
	return s.Store && (!s.RedisEnabled || s.Redis)
}
