// Package server implements the HTTP server for the Function Point Analysis
// estimation API. Every endpoint is stateless compute: components and
// configuration in, metrics out. The server holds no estimate state between
// requests.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/fpakit/fpcost/internal/policy"
	"github.com/fpakit/fpcost/pkg/estimate"
	"github.com/fpakit/fpcost/pkg/fpa"
	"github.com/fpakit/fpcost/pkg/report"
)

const (
	// DefaultRateLimit is the default requests per second limit.
	DefaultRateLimit = 100
	// DefaultRateBurst is the default burst size for rate limiting.
	DefaultRateBurst = 100
	// errorKey is the logging key for error messages.
	errorKey = "error"
	// maxRequestSize caps request bodies to prevent memory exhaustion.
	maxRequestSize = 1 << 20 // 1MB
	// maxComponents caps the component list per estimate request.
	maxComponents = 10000
	// maxHistory caps the version history per trend request.
	maxHistory = 10000
)

// Server handles HTTP requests for the estimation API.
type Server struct {
	logger *slog.Logger
	policy *policy.Policy

	csrfProtection *http.CrossOriginProtection

	// Per-IP rate limiting.
	ipLimiters   map[string]*rate.Limiter
	ipLimitersMu sync.RWMutex
	rateLimit    int
	rateBurst    int

	allowedOrigins []string
	allowAllCors   bool

	serverCommit string
}

// EstimateRequest carries the inputs for a full estimate calculation.
type EstimateRequest struct {
	Components []fpa.Component  `json:"components"`
	GSC        []int            `json:"gsc,omitempty"`
	Config     *estimate.Config `json:"config,omitempty"`
	// Detailed includes the per-component classifications in the response.
	Detailed bool `json:"detailed,omitempty"`
}

// EstimateResponse is the assembled report for an estimate request.
type EstimateResponse struct {
	Report    report.Detailed `json:"report"`
	Timestamp time.Time       `json:"timestamp"`
	Commit    string          `json:"commit"`
}

// TrendRequest carries an ordered history of metrics snapshots, oldest first.
type TrendRequest struct {
	History []estimate.Metrics `json:"history"`
	// Metric selects the value under analysis; empty means adjusted points.
	Metric string `json:"metric,omitempty"`
	// ThresholdPct overrides the policy stability threshold when positive.
	ThresholdPct float64 `json:"threshold_pct,omitempty"`
}

// TrendResponse is the comparison result for a trend request.
type TrendResponse struct {
	Comparison report.Comparison `json:"comparison"`
	Timestamp  time.Time         `json:"timestamp"`
	Commit     string            `json:"commit"`
}

// New creates a new Server instance using the given estimation policy.
// A nil policy falls back to the defaults.
func New(pol *policy.Policy) *Server {
	ctx := context.Background()
	logger := slog.Default().With("component", "fpcost-server")

	if pol == nil {
		pol = policy.Default()
	}

	// CSRF protection via Sec-Fetch-Site and Origin headers. GET, HEAD, and
	// OPTIONS are safe methods and automatically allowed.
	csrfProtection := http.NewCrossOriginProtection()

	logger.InfoContext(ctx, "Server initialized with CSRF protection enabled")

	return &Server{
		logger:         logger,
		policy:         pol,
		csrfProtection: csrfProtection,
		ipLimiters:     make(map[string]*rate.Limiter),
		rateLimit:      DefaultRateLimit,
		rateBurst:      DefaultRateBurst,
	}
}

// SetCommit sets the server commit hash.
func (s *Server) SetCommit(commit string) {
	s.serverCommit = commit
}

// SetCORSConfig sets the CORS configuration.
func (s *Server) SetCORSConfig(origins string, allowAll bool) {
	ctx := context.Background()
	if allowAll {
		s.allowAllCors = true
		s.logger.WarnContext(ctx, "CORS configured to allow all origins - DEVELOPMENT MODE ONLY")
		return
	}

	s.allowAllCors = false
	if origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			origin = strings.TrimSpace(origin)

			// Validate wildcard patterns: must be *.domain.com or https://*.domain.com
			if strings.Contains(origin, "*") {
				valid := strings.HasPrefix(origin, "*.") ||
					strings.HasPrefix(origin, "https://*.") ||
					strings.HasPrefix(origin, "http://*.")
				if !valid || strings.Count(origin, "*") > 1 {
					s.logger.ErrorContext(ctx, "Invalid wildcard CORS origin", "origin", origin)
					continue
				}
			}

			s.allowedOrigins = append(s.allowedOrigins, origin)
		}
		s.logger.InfoContext(ctx, "CORS origins configured", "origins", s.allowedOrigins)
	}
}

// SetRateLimit sets the rate limiting configuration.
func (s *Server) SetRateLimit(rps int, burst int) {
	ctx := context.Background()
	s.rateLimit = rps
	s.rateBurst = burst
	s.logger.InfoContext(ctx, "Rate limit configured (per-IP)", "requests_per_sec", rps, "burst", burst)
}

// limiter returns a rate limiter for the given IP address.
func (s *Server) limiter(ctx context.Context, ip string) *rate.Limiter {
	s.ipLimitersMu.RLock()
	limiter, exists := s.ipLimiters[ip]
	s.ipLimitersMu.RUnlock()

	if exists {
		return limiter
	}

	s.ipLimitersMu.Lock()
	defer s.ipLimitersMu.Unlock()

	// Double-check after acquiring write lock.
	if existingLimiter, exists := s.ipLimiters[ip]; exists {
		return existingLimiter
	}

	limiter = rate.NewLimiter(rate.Limit(s.rateLimit), s.rateBurst)
	s.ipLimiters[ip] = limiter

	// Cleanup old limiters if map grows too large (prevent memory leak).
	const maxLimiters = 10000
	if len(s.ipLimiters) > maxLimiters {
		count := 0
		target := len(s.ipLimiters) / 2
		for ip := range s.ipLimiters {
			delete(s.ipLimiters, ip)
			count++
			if count >= target {
				break
			}
		}
		s.logger.InfoContext(ctx, "Cleaned up old IP rate limiters", "removed", count, "remaining", len(s.ipLimiters))
	}

	return limiter
}

// Shutdown gracefully shuts down the server.
func (*Server) Shutdown() {
	// Nothing to do - in-memory structures will be garbage collected.
}

// ServeHTTP implements http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Apply CSRF protection FIRST - blocks cross-origin POST requests.
	if s.csrfProtection != nil {
		if err := s.csrfProtection.Check(r); err != nil {
			s.logger.WarnContext(r.Context(), "CSRF check failed - cross-origin request denied",
				"origin", r.Header.Get("Origin"),
				"sec_fetch_site", r.Header.Get("Sec-Fetch-Site"),
				"path", r.URL.Path,
				"method", r.Method,
				"remote_addr", r.RemoteAddr,
				"error", err)
			http.Error(w, "Cross-origin request denied", http.StatusForbidden)
			return
		}
	}

	// Security headers - defense in depth.
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("X-XSS-Protection", "1; mode=block")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Header().Set("Cross-Origin-Resource-Policy", "cross-origin")

	// Handle CORS.
	origin := r.Header.Get("Origin")
	if s.allowAllCors {
		// SECURITY: Never use wildcard with credentials - validate origin even in dev mode.
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			s.logger.DebugContext(r.Context(), "CORS allowed (dev mode)", "origin", origin)
		}
	} else if origin != "" && s.isOriginAllowed(origin) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Vary", "Origin")
	}
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	// Handle preflight OPTIONS request.
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	// Route requests.
	switch r.URL.Path {
	case "/v1/estimate":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleEstimate(w, r)
	case "/v1/trend":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.handleTrend(w, r)
	case "/health":
		s.handleHealth(w, r)
	default:
		http.NotFound(w, r)
	}
}

// clientIP extracts the client address for rate limiting and logging.
// SECURITY: X-Forwarded-For is trusted because the fronting proxy sanitizes
// it; for direct deployments RemoteAddr is used.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// handleEstimate processes estimate calculation requests.
func (s *Server) handleEstimate(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	ip := clientIP(request)

	s.logger.InfoContext(ctx, "[handleEstimate] Incoming request", "client_ip", ip, "method", request.Method, "path", request.URL.Path)

	// Per-IP rate limiting.
	limiter := s.limiter(ctx, ip)
	if !limiter.Allow() {
		s.logger.WarnContext(ctx, "[handleEstimate] Rate limit exceeded", "client_ip", ip)
		http.Error(writer, "Rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	req, err := s.parseEstimateRequest(ctx, request)
	if err != nil {
		s.logger.ErrorContext(ctx, "[handleEstimate] Failed to parse request", "remote_addr", request.RemoteAddr, errorKey, err)
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	response, err := s.processEstimate(req)
	if err != nil {
		if IsValidationError(err) {
			s.logger.WarnContext(ctx, "[handleEstimate] Rejected invalid input", "remote_addr", request.RemoteAddr, errorKey, err)
			http.Error(writer, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.ErrorContext(ctx, "[handleEstimate] Error processing request", "remote_addr", request.RemoteAddr, errorKey, err)
		http.Error(writer, "Internal server error", http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(writer).Encode(response); err != nil {
		s.logger.ErrorContext(ctx, "[handleEstimate] Error encoding response", errorKey, err)
		return
	}

	s.logger.InfoContext(ctx, "[handleEstimate] Request completed",
		"components", len(req.Components),
		"adjusted_points", response.Report.Metrics.AdjustedPoints,
		"total_cost", response.Report.Metrics.TotalCost)
}

// handleTrend processes trend analysis requests.
func (s *Server) handleTrend(writer http.ResponseWriter, request *http.Request) {
	ctx := request.Context()
	ip := clientIP(request)

	s.logger.InfoContext(ctx, "[handleTrend] Incoming request", "client_ip", ip, "method", request.Method, "path", request.URL.Path)

	// Per-IP rate limiting.
	limiter := s.limiter(ctx, ip)
	if !limiter.Allow() {
		s.logger.WarnContext(ctx, "[handleTrend] Rate limit exceeded", "client_ip", ip)
		http.Error(writer, "Rate limit exceeded", http.StatusTooManyRequests)
		return
	}

	req, err := s.parseTrendRequest(ctx, request)
	if err != nil {
		s.logger.ErrorContext(ctx, "[handleTrend] Failed to parse request", "remote_addr", request.RemoteAddr, errorKey, err)
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	threshold := req.ThresholdPct
	if threshold <= 0 {
		threshold = s.policy.Trend.StabilityThresholdPct
	}

	comparison, err := report.BuildComparison(req.History, req.Metric, threshold)
	if err != nil {
		if IsValidationError(err) {
			s.logger.WarnContext(ctx, "[handleTrend] Rejected invalid input", "remote_addr", request.RemoteAddr, errorKey, err)
			http.Error(writer, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.ErrorContext(ctx, "[handleTrend] Error processing request", "remote_addr", request.RemoteAddr, errorKey, err)
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	response := TrendResponse{
		Comparison: comparison,
		Timestamp:  time.Now(),
		Commit:     s.serverCommit,
	}

	writer.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(writer).Encode(response); err != nil {
		s.logger.ErrorContext(ctx, "[handleTrend] Error encoding response", errorKey, err)
		return
	}

	s.logger.InfoContext(ctx, "[handleTrend] Request completed",
		"versions", comparison.Versions,
		"direction", comparison.Trend.Direction,
		"percentage_change", comparison.Trend.PercentageChange)
}

// parseEstimateRequest parses and validates the incoming estimate request.
func (s *Server) parseEstimateRequest(ctx context.Context, r *http.Request) (*EstimateRequest, error) {
	var req EstimateRequest

	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestSize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.ErrorContext(ctx, "[parseEstimateRequest] Failed to decode JSON", errorKey, err)
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if len(req.Components) > maxComponents {
		return nil, fmt.Errorf("%w: at most %d components per request", ErrInvalidRequest, maxComponents)
	}

	return &req, nil
}

// parseTrendRequest parses and validates the incoming trend request.
func (s *Server) parseTrendRequest(ctx context.Context, r *http.Request) (*TrendRequest, error) {
	var req TrendRequest

	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestSize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.ErrorContext(ctx, "[parseTrendRequest] Failed to decode JSON", errorKey, err)
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if len(req.History) > maxHistory {
		return nil, fmt.Errorf("%w: at most %d history entries per request", ErrInvalidRequest, maxHistory)
	}

	return &req, nil
}

// processEstimate runs the calculation pipeline for an estimate request.
func (s *Server) processEstimate(req *EstimateRequest) (*EstimateResponse, error) {
	cfg := s.mergeConfig(req.Config)

	detailed, err := report.BuildDetailed(req.Components, fpa.GSCVector(req.GSC), cfg, s.policy.TeamSize)
	if err != nil {
		return nil, err
	}

	if !req.Detailed {
		detailed.Classified = nil
	}

	return &EstimateResponse{
		Report:    detailed,
		Timestamp: time.Now(),
		Commit:    s.serverCommit,
	}, nil
}

// mergeConfig overlays the request configuration on the policy defaults.
// Zero-valued fields keep the defaults.
func (s *Server) mergeConfig(req *estimate.Config) estimate.Config {
	cfg := s.policy.Defaults
	if req == nil {
		return cfg
	}
	if req.TeamSize != 0 {
		cfg.TeamSize = req.TeamSize
	}
	if req.HourlyRate != 0 {
		cfg.HourlyRate = req.HourlyRate
	}
	if req.DailyWorkingHours != 0 {
		cfg.DailyWorkingHours = req.DailyWorkingHours
	}
	if req.ProductivityFactor != 0 {
		cfg.ProductivityFactor = req.ProductivityFactor
	}
	return cfg
}

// isOriginAllowed checks if an origin is in the allowed list.
// Supports exact matches and wildcard subdomain patterns (*.example.com or https://*.example.com).
func (s *Server) isOriginAllowed(origin string) bool {
	if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
		return false
	}

	protocolEnd := strings.Index(origin, "://")
	if protocolEnd == -1 {
		return false
	}
	protocol := origin[:protocolEnd]

	host := origin[protocolEnd+3:]
	// Remove port if present
	if colonIndex := strings.Index(host, ":"); colonIndex != -1 {
		host = host[:colonIndex]
	}
	// Remove path if present
	if slashIndex := strings.Index(host, "/"); slashIndex != -1 {
		host = host[:slashIndex]
	}

	for _, allowed := range s.allowedOrigins {
		// Exact match
		if allowed == origin {
			return true
		}

		// Wildcard subdomain match, both "*.example.com" and
		// "https://*.example.com" formats.
		if strings.Contains(allowed, "*") {
			var wildcardDomain string
			var requiredProtocol string

			switch {
			case strings.HasPrefix(allowed, "http://"), strings.HasPrefix(allowed, "https://"):
				allowedProtocolEnd := strings.Index(allowed, "://")
				if allowedProtocolEnd == -1 {
					continue
				}
				requiredProtocol = allowed[:allowedProtocolEnd]
				wildcardPart := allowed[allowedProtocolEnd+3:]

				if !strings.HasPrefix(wildcardPart, "*.") {
					continue
				}
				wildcardDomain = wildcardPart[2:]

				if protocol != requiredProtocol {
					continue
				}
			case strings.HasPrefix(allowed, "*."):
				wildcardDomain = allowed[2:]
			default:
				continue
			}

			// Matches example.com, sub.example.com, deep.sub.example.com;
			// not notexample.com.
			if host == wildcardDomain || strings.HasSuffix(host, "."+wildcardDomain) {
				return true
			}
		}
	}
	return false
}

// handleHealth provides a simple health check endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "healthy"}); err != nil {
		s.logger.ErrorContext(ctx, "[handleHealth] Error encoding response", errorKey, err)
	}
}
