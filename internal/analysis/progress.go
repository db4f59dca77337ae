package analysis

import "time"

// ScanStats summarizes a directory scan.
type ScanStats struct {
	Files           int
	FailedFiles     int
	ApplicableLines int
	Duration        time.Duration
}

// ProgressReporter provides callbacks for reporting scan progress.
// Implementations can display progress bars, log messages, or remain silent.
// OnFileScanned may be called from several goroutines at once.
type ProgressReporter interface {
	// OnDiscoveryStart is called when file discovery begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called when file discovery finishes.
	OnDiscoveryComplete(files int)

	// OnFileScanned is called after each file is scanned.
	OnFileScanned(path string)

	// OnComplete is called when the scan completes successfully.
	OnComplete(stats *ScanStats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()            {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(files int) {}
func (n *NoOpProgressReporter) OnFileScanned(path string)     {}
func (n *NoOpProgressReporter) OnComplete(stats *ScanStats)   {}
