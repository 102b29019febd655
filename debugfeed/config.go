package debugfeed

import "time"

// Config holds debug feed configuration
type Config struct {
	// Address to bind, empty when mounted on an existing server
	Address string

	// Path the websocket endpoint is served on
	Path string

	// Interval between frames
	Interval time.Duration

	// Timing
	WriteTimeout time.Duration
	PongTimeout  time.Duration
	PingInterval time.Duration

	// Limits
	MaxClients    int
	SendQueueSize int
	ReadLimit     int64
}

// DefaultConfig returns local-debugging defaults
func DefaultConfig() *Config {
	return &Config{
		Address:       "127.0.0.1:7778",
		Path:          "/feed",
		Interval:      100 * time.Millisecond,
		WriteTimeout:  5 * time.Second,
		PongTimeout:   30 * time.Second,
		PingInterval:  27 * time.Second, // 90% of PongTimeout
		MaxClients:    8,
		SendQueueSize: 16,
		ReadLimit:     512,
	}
}
