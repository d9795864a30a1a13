// Package metrics records draw and state store activity.
package metrics

// Recorder receives domain metrics. Implementations must be safe for
// concurrent use.
type Recorder interface {
	// RecordDrawCompleted records a successful completion that filled the
	// given number of givers after the given number of search steps.
	RecordDrawCompleted(filled, attempts int, seconds float64)
	// RecordDrawInfeasible records a completion that found no valid mapping.
	RecordDrawInfeasible()
	// RecordManualEntry records a manual entry outcome. result is "accepted"
	// or the rejection code.
	RecordManualEntry(result string)
	// RecordValidation records a validation outcome. result is "valid" or the
	// violation code.
	RecordValidation(result string)
	// RecordStoreError records a failed state store operation ("load" or "save").
	RecordStoreError(op string)
	// RecordStaleRead records a read served from the last known snapshot.
	RecordStaleRead()
}
