package instance

import (
	"os"

	"github.com/umtlostfound/lostfound-backend/pkg/env"
)

// GetID identifies this process for lock ownership and logs. It prefers
// LOSTFOUND_INSTANCE_ID, then the hostname.
func GetID() string {
	if id := env.Get("LOSTFOUND_INSTANCE_ID", ""); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "instance-0"
}
