package instance

import "github.com/angelmondragon/bitefinderz-backend/pkg/env"

// GetID identifies this process in logs when several replicas share a
// subscription or serve the same menu.
func GetID() string {
	return env.Get("BITEFINDERZ_INSTANCE_ID", "instance-0")
}
