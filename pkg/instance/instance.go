package instance

import (
	"os"
	"strings"
)

var idEnvKeys = []string{"SCRAPPICKUP_INSTANCE_ID", "DYNO", "HOSTNAME"}

// GetID returns the first configured process identifier, or "local".
func GetID() string {
	for _, key := range idEnvKeys {
		if id := strings.TrimSpace(os.Getenv(key)); id != "" {
			return id
		}
	}
	return "local"
}
