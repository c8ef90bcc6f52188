package main

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// progressBar renders an in-place terminal progress bar for a prefetch run.
// It refreshes at a fixed interval; Set is called from the download's
// progress callback.
type progressBar struct {
	total     int64
	completed atomic.Int64
	barWidth  int
	start     time.Time
	done      chan struct{}
}

func newProgressBar(total int) *progressBar {
	pb := &progressBar{
		total:    int64(total),
		barWidth: 30,
		start:    time.Now(),
		done:     make(chan struct{}),
	}
	go pb.run()
	return pb
}

func (pb *progressBar) Set(completed int) {
	pb.completed.Store(int64(completed))
}

// Finish stops the refresh loop and prints the final bar state with a newline.
func (pb *progressBar) Finish() {
	close(pb.done)
	pb.draw()
	fmt.Fprint(os.Stderr, "\n")
}

func (pb *progressBar) run() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-pb.done:
			return
		case <-ticker.C:
			pb.draw()
		}
	}
}

func (pb *progressBar) draw() {
	completed := pb.completed.Load()

	var frac float64
	if pb.total > 0 {
		frac = float64(completed) / float64(pb.total)
	}
	if frac > 1 {
		frac = 1
	}

	filled := int(float64(pb.barWidth) * frac)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", pb.barWidth-filled)

	elapsed := time.Since(pb.start)
	rate := float64(0)
	if secs := elapsed.Seconds(); secs > 0 {
		rate = float64(completed) / secs
	}

	fmt.Fprintf(os.Stderr, "\r[%s] %3.0f%%  %d/%d tiles  %.0f/s  %s\033[K",
		bar, frac*100, completed, pb.total, rate, formatDuration(elapsed))
}

func formatDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) - m*60
	return fmt.Sprintf("%dm%02ds", m, s)
}
