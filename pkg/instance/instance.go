package instance

import "github.com/angelmondragon/florale-backend/pkg/env"

// GetID returns the process instance identifier: the dyno name on the host platform, else "local".
func GetID() string {
	return env.First("local", "FLORALE_INSTANCE_ID", "DYNO")
}
