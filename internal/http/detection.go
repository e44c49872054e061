package http

import (
	"net/http"
	"strings"
	"sync/atomic"
)

// detector flags requests that look like scans or injection probes. Flagged
// requests are only logged, never blocked; a finance tracker behind a home
// proxy sees plenty of background scanner noise and false positives would
// lock out the owner.
type detector struct {
	suspiciousRequests int64
}

var suspiciousPathPatterns = []string{
	"../", "..\\", ".env", "wp-admin", "phpmyadmin",
	"admin.php", "config.php", ".git", ".ssh",
	"eval(", "javascript:", "<script", "union select",
	"etc/passwd", "cmd.exe",
}

var suspiciousAgents = []string{
	"sqlmap", "nmap", "nikto", "gobuster", "dirb",
	"scanner", "crawler", "spider", "scraper",
}

func (d *detector) isSuspicious(r *http.Request) bool {
	path := strings.ToLower(r.URL.Path)
	query := strings.ToLower(r.URL.RawQuery)
	for _, pattern := range suspiciousPathPatterns {
		if strings.Contains(path, pattern) || strings.Contains(query, pattern) {
			d.record()
			return true
		}
	}

	userAgent := strings.ToLower(r.Header.Get("User-Agent"))
	for _, agent := range suspiciousAgents {
		if strings.Contains(userAgent, agent) {
			d.record()
			return true
		}
	}

	switch r.Method {
	case "TRACE", "TRACK", "DEBUG", "CONNECT":
		d.record()
		return true
	}

	// Possible overflow attempt.
	if len(r.URL.String()) > 2048 {
		d.record()
		return true
	}

	return false
}

func (d *detector) record() {
	atomic.AddInt64(&d.suspiciousRequests, 1)
}

// suspiciousCount reports how many flagged requests the server has seen.
func (d *detector) suspiciousCount() int64 {
	return atomic.LoadInt64(&d.suspiciousRequests)
}
