package shell

import (
	"fmt"

	"github.com/circulib/lending-go/ledger"
)

// Logger interface for basic logging in command handlers.
type Logger = ledger.Logger

// MetricsCollector interface for collecting command handler performance metrics.
type MetricsCollector = ledger.MetricsCollector

// Standard metric names for command handler instrumentation.
const (
	CommandHandlerRetriesMetric           = "commandhandler_retries_total"
	CommandHandlerRetryDelayMetric        = "commandhandler_retry_delay_duration"
	CommandHandlerMaxRetriesReachedMetric = "commandhandler_max_retries_reached_total"
)

// Standard label keys for command handler metrics and log attributes.
const (
	LogAttrCommandType = "command_type"
	LogAttrStatus      = "status"
	LogAttrErrorCode   = "error_code"
)

// BuildCommandLabels creates standard metric labels for command handler operations.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

// BuildRetryLabels creates standard metric labels for retry tracking.
func BuildRetryLabels(commandType string, attempt int, errorType string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		"attempt_number":   fmt.Sprintf("%d", attempt),
		"error_type":       errorType,
	}
}
