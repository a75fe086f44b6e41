package cmd

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/muntasir-islam/seo-audit-tool/internal/audit"
)

// batchProgress renders one live status line while a batch runs: targets
// finished, failures so far, and the running average score.
type batchProgress struct {
	label string

	mu       sync.Mutex
	total    int
	audited  int
	failed   int
	scoreSum int

	updates  chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newBatchProgress(total int, label string) *batchProgress {
	if total <= 0 {
		total = 1
	}
	return &batchProgress{
		label:   label,
		total:   total,
		updates: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

func (p *batchProgress) Start() {
	go p.loop()
}

// Observe records one finished target. Safe to call from runner workers.
func (p *batchProgress) Observe(tr audit.TargetResult) {
	p.mu.Lock()
	if tr.Result != nil {
		p.audited++
		p.scoreSum += tr.Result.OverallScore
	} else {
		p.failed++
	}
	p.mu.Unlock()

	select {
	case p.updates <- struct{}{}:
	default:
	}
}

// Stop ends the redraw loop, draws the final state, and terminates the line.
func (p *batchProgress) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
	})
	fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", 80))
	p.draw()
	fmt.Fprintln(os.Stdout)
}

func (p *batchProgress) loop() {
	ticker := time.NewTicker(300 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-p.updates:
			p.draw()
		case <-ticker.C:
			p.draw()
		case <-p.done:
			return
		}
	}
}

func (p *batchProgress) draw() {
	p.mu.Lock()
	audited := p.audited
	failed := p.failed
	scoreSum := p.scoreSum
	finished := audited + failed
	if finished > p.total {
		p.total = finished
	}
	total := p.total
	p.mu.Unlock()

	percent := float64(finished) / float64(total) * 100
	line := fmt.Sprintf("\r[%s] %d/%d (%.1f%%) audited:%d failed:%d",
		p.label, finished, total, percent, audited, failed)
	if audited > 0 {
		line += fmt.Sprintf(" avg score:%.1f", float64(scoreSum)/float64(audited))
	}
	fmt.Fprint(os.Stdout, line)
}
