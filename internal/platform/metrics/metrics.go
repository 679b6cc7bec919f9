package metrics

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   uint64
	errorRequests   uint64
	rateLimited     uint64
	totalDurationMs uint64
	submissions     uint64
	rejected        uint64
	uploads         uint64
	pdfRendered     uint64
	pdfFailed       uint64
	pdfDurationMs   uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	atomic.AddUint64(&c.totalRequests, 1)
	if status >= 500 {
		atomic.AddUint64(&c.errorRequests, 1)
	}
	if status == http.StatusTooManyRequests {
		atomic.AddUint64(&c.rateLimited, 1)
	}
	atomic.AddUint64(&c.totalDurationMs, uint64(duration.Milliseconds()))
}

// RecordSubmission counts an onboarding submission; accepted=false means it
// failed validation and nothing was stored.
func (c *Collector) RecordSubmission(accepted bool) {
	if accepted {
		atomic.AddUint64(&c.submissions, 1)
		return
	}
	atomic.AddUint64(&c.rejected, 1)
}

func (c *Collector) RecordUploads(n int) {
	if n > 0 {
		atomic.AddUint64(&c.uploads, uint64(n))
	}
}

func (c *Collector) RecordRender(duration time.Duration, err error) {
	if err != nil {
		atomic.AddUint64(&c.pdfFailed, 1)
		return
	}
	atomic.AddUint64(&c.pdfRendered, 1)
	atomic.AddUint64(&c.pdfDurationMs, uint64(duration.Milliseconds()))
}

func (c *Collector) Snapshot() map[string]any {
	total := atomic.LoadUint64(&c.totalRequests)
	totalMs := atomic.LoadUint64(&c.totalDurationMs)
	rendered := atomic.LoadUint64(&c.pdfRendered)
	pdfMs := atomic.LoadUint64(&c.pdfDurationMs)
	return map[string]any{
		"requestsTotal":    total,
		"errorsTotal":      atomic.LoadUint64(&c.errorRequests),
		"rateLimitedTotal": atomic.LoadUint64(&c.rateLimited),
		"avgDurationMs":    average(totalMs, total),
		"totalDurationMs":  totalMs,
		"submissionsTotal": atomic.LoadUint64(&c.submissions),
		"rejectedTotal":    atomic.LoadUint64(&c.rejected),
		"uploadsTotal":     atomic.LoadUint64(&c.uploads),
		"pdfRenderedTotal": rendered,
		"pdfFailedTotal":   atomic.LoadUint64(&c.pdfFailed),
		"pdfAvgDurationMs": average(pdfMs, rendered),
	}
}

func (c *Collector) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.Snapshot())
	})
}

func average(sum, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}
