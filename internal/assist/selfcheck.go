package assist

import (
	"fmt"
	"strings"
)

// SelfCheck verifies the startup wiring: every intent the offline rule set
// can produce must have a registered handler. A gap here is the one
// misconfiguration that justifies refusing to start.
func SelfCheck(reg *Registry) error {
	var missing []string
	for _, intent := range PatternIntents() {
		if _, ok := reg.Lookup(intent); !ok {
			missing = append(missing, intent)
		}
	}
	if _, ok := reg.Lookup(IntentGeneralQuery); !ok {
		missing = append(missing, IntentGeneralQuery)
	}
	if len(missing) > 0 {
		return fmt.Errorf("no handler registered for: %s", strings.Join(missing, ", "))
	}
	return nil
}
