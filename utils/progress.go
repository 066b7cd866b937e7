package utils

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"

	"beatfetch/internal"
)

// ProgressTracker renders transfer progress for archive and cover downloads
type ProgressTracker struct {
	bar       *pb.ProgressBar
	quiet     bool
	label     string
	out       io.Writer
	startTime time.Time
	total     int64
	current   int64
	mutex     sync.Mutex

	lastUpdate time.Time
	lastBytes  int64
	peakSpeed  float64
}

// TransferSummary contains final transfer statistics
type TransferSummary struct {
	Label        string
	TotalBytes   int64
	TotalTime    time.Duration
	AverageSpeed float64 // bytes per second
	PeakSpeed    float64 // bytes per second
	Destination  string
}

// NewProgressTracker creates a tracker. The bar is started lazily on the
// first update so that the total announced by the server can be used.
func NewProgressTracker(label string, quiet bool) *ProgressTracker {
	return &ProgressTracker{
		quiet:      quiet,
		label:      label,
		out:        os.Stderr,
		startTime:  time.Now(),
		total:      -1,
		lastUpdate: time.Now(),
	}
}

// Callback adapts the tracker to the client's progress callback. It is safe
// to call from the transport goroutine.
func (p *ProgressTracker) Callback() internal.ProgressFunc {
	return func(downloaded, total int64) {
		p.SetTotal(total)
		p.Update(downloaded)
	}
}

// SetTotal records the expected size. Negative values mean unknown.
func (p *ProgressTracker) SetTotal(total int64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if total == p.total {
		return
	}
	p.total = total
	if p.bar != nil && total > 0 {
		p.bar.SetTotal(total)
	}
}

// Update moves the tracker to current bytes
func (p *ProgressTracker) Update(current int64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	now := time.Now()
	p.current = current

	if elapsed := now.Sub(p.lastUpdate).Seconds(); elapsed > 0.1 {
		speed := float64(current-p.lastBytes) / elapsed
		if speed > p.peakSpeed {
			p.peakSpeed = speed
		}
		p.lastUpdate = now
		p.lastBytes = current
	}

	if p.quiet {
		return
	}
	if p.bar == nil {
		p.startBar()
	}
	p.bar.SetCurrent(current)
}

func (p *ProgressTracker) startBar() {
	tmpl := `{{string . "prefix"}}{{counters . }} {{bar . }} {{percent . }} {{speed . }}`
	total := p.total
	if total < 0 {
		total = 0
	}
	bar := pb.ProgressBarTemplate(tmpl).New(0)
	bar.SetTotal(total)
	bar.SetWriter(p.out)
	bar.Set(pb.Bytes, true)
	bar.Set(pb.SIBytesPrefix, true)
	bar.Set("prefix", p.label+": ")
	p.bar = bar.Start()
}

// Finish stops the bar and returns the transfer summary
func (p *ProgressTracker) Finish(destination string) *TransferSummary {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.bar != nil {
		p.bar.Finish()
	}

	totalTime := time.Since(p.startTime)
	var average float64
	if secs := totalTime.Seconds(); secs > 0 {
		average = float64(p.current) / secs
	}

	summary := &TransferSummary{
		Label:        p.label,
		TotalBytes:   p.current,
		TotalTime:    totalTime,
		AverageSpeed: average,
		PeakSpeed:    p.peakSpeed,
		Destination:  destination,
	}

	if !p.quiet {
		p.displaySummary(summary)
	}

	return summary
}

func (p *ProgressTracker) displaySummary(summary *TransferSummary) {
	fmt.Fprintf(p.out, "%s: %s in %v (%s/s)\n",
		summary.Label,
		FormatBytes(summary.TotalBytes),
		summary.TotalTime.Round(time.Millisecond),
		FormatBytes(int64(summary.AverageSpeed)))
	if summary.Destination != "" {
		fmt.Fprintf(p.out, "Saved to: %s\n", summary.Destination)
	}
}

// Percentage returns completion in percent, or -1 when the total is unknown
func (p *ProgressTracker) Percentage() float64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.total <= 0 {
		return -1
	}
	return float64(p.current) / float64(p.total) * 100
}

// FormatBytes formats byte count as human-readable string
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
