package report

import "sync"

// Reporter is responsible for collecting and displaying the diagnostics
// produced during resolution.  The reporter respects the set log level and is
// synchronized: its methods can be safely called from multiple goroutines.
// Diagnostics are never dropped: the log level only controls what is
// displayed.
type Reporter struct {
	// The mutex used to synchronize the different reporting methods.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// The ordered list of all diagnostics reported so far.
	diagnostics []*Diagnostic

	errorCount   int
	warningCount int

	phase phaseDisplay
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages to the user.
)

// LogLevelFromName converts a log level name into its enumerated value.
// Unknown names default to silent since the resolver is usually embedded in a
// driver which does its own output.
func LogLevelFromName(name string) int {
	switch name {
	case "error":
		return LogLevelError
	case "warn", "warning":
		return LogLevelWarn
	case "verbose":
		return LogLevelVerbose
	default:
		return LogLevelSilent
	}
}

// NewReporter creates a new reporter with the given log level name.
func NewReporter(logLevelName string) *Reporter {
	return &Reporter{
		m:        &sync.Mutex{},
		logLevel: LogLevelFromName(logLevelName),
	}
}

// Report appends diagnostics to the reporter.  Errors are displayed
// immediately; warnings are held until Finish.
func (r *Reporter) Report(diags ...*Diagnostic) {
	r.m.Lock()
	defer r.m.Unlock()

	for _, d := range diags {
		r.diagnostics = append(r.diagnostics, d)

		if d.IsError() {
			r.errorCount++

			if r.logLevel > LogLevelSilent {
				r.phase.end(false)
				displayDiagnostic(d)
			}
		} else {
			r.warningCount++
		}
	}
}

// AnyErrors returns whether or not any errors were reported.
func (r *Reporter) AnyErrors() bool {
	r.m.Lock()
	defer r.m.Unlock()

	return r.errorCount > 0
}

// ErrorCount returns the number of errors reported.
func (r *Reporter) ErrorCount() int {
	r.m.Lock()
	defer r.m.Unlock()

	return r.errorCount
}

// Diagnostics returns a copy of the ordered list of diagnostics.
func (r *Reporter) Diagnostics() []*Diagnostic {
	r.m.Lock()
	defer r.m.Unlock()

	diags := make([]*Diagnostic, len(r.diagnostics))
	copy(diags, r.diagnostics)
	return diags
}

// -----------------------------------------------------------------------------

// BeginPhase reports the start of a resolution phase.
func (r *Reporter) BeginPhase(name string) {
	r.m.Lock()
	defer r.m.Unlock()

	if r.logLevel == LogLevelVerbose {
		r.phase.begin(name)
	}
}

// EndPhase reports the end of the current resolution phase.
func (r *Reporter) EndPhase(success bool) {
	r.m.Lock()
	defer r.m.Unlock()

	if r.logLevel == LogLevelVerbose {
		r.phase.end(success)
	}
}

// Finish displays all the held warnings and the closing summary.  A phase
// still in progress is displayed as failed.
func (r *Reporter) Finish() {
	r.m.Lock()
	defer r.m.Unlock()

	r.phase.end(false)

	if r.logLevel >= LogLevelWarn {
		for _, d := range r.diagnostics {
			if !d.IsError() {
				displayDiagnostic(d)
			}
		}
	}

	if r.logLevel == LogLevelVerbose {
		displaySummary(r.errorCount, r.warningCount)
	}
}
