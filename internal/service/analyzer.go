package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"vintelli-api/internal/cache"
	"vintelli-api/internal/estimator"
	"vintelli-api/internal/matcher"
	"vintelli-api/internal/model"
	"vintelli-api/internal/reference"
	"vintelli-api/internal/scraper"
	"vintelli-api/pkg/apierror"
)

// DefaultHostPattern accepts the marketplace's regional www hosts
// (www.vinted.fr, www.vinted.co.uk, www.vinted.com.br ...).
const DefaultHostPattern = `^www\.vinted\.(?:[a-z]{2,3}|co\.uk|com\.[a-z]{2})$`

// AnalyzerConfig holds the dependencies of AnalyzerService. Remote and
// Cache are optional.
type AnalyzerConfig struct {
	Fetcher      scraper.Fetcher
	Dataset      *reference.Dataset
	Local        *estimator.LocalEstimator
	Remote       estimator.Estimator
	Cache        *cache.ResultCache
	HostPattern  string
	FetchTimeout time.Duration
	// Debug logs every extraction candidate.
	Debug bool
}

// AnalyzerStats counts analysis outcomes since start-up.
type AnalyzerStats struct {
	Requests        int64 `json:"requests"`
	CacheHits       int64 `json:"cache_hits"`
	Extracted       int64 `json:"extracted"`
	Synthesized     int64 `json:"synthesized"`
	Failed          int64 `json:"failed"`
	RemoteEstimates int64 `json:"remote_estimates"`
	LocalEstimates  int64 `json:"local_estimates"`
	RemoteFailures  int64 `json:"remote_failures"`
}

type analyzerCounters struct {
	requests, cacheHits, extracted, synthesized, failed atomic.Int64
	remote, local, remoteFailures                       atomic.Int64
}

// AnalyzerService runs one analysis per call: fetch, extract or synthesize,
// match and estimate. It holds no per-request state.
type AnalyzerService struct {
	fetcher      scraper.Fetcher
	extractor    *scraper.Extractor
	dataset      *reference.Dataset
	local        *estimator.LocalEstimator
	remote       estimator.Estimator
	cache        *cache.ResultCache
	hostPattern  *regexp.Regexp
	fetchTimeout time.Duration

	counters analyzerCounters
}

// NewAnalyzerService validates cfg and creates the service.
func NewAnalyzerService(cfg AnalyzerConfig) (*AnalyzerService, error) {
	if cfg.Fetcher == nil {
		return nil, errors.New("analyzer: fetcher is required")
	}
	if cfg.Dataset == nil {
		cfg.Dataset = reference.NewDataset(nil)
	}
	if cfg.Local == nil {
		cfg.Local = estimator.NewLocalEstimator()
	}
	if cfg.HostPattern == "" {
		cfg.HostPattern = DefaultHostPattern
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 20 * time.Second
	}

	hostPattern, err := regexp.Compile(cfg.HostPattern)
	if err != nil {
		return nil, fmt.Errorf("analyzer: invalid host pattern: %w", err)
	}

	return &AnalyzerService{
		fetcher:      cfg.Fetcher,
		extractor:    &scraper.Extractor{Debug: cfg.Debug},
		dataset:      cfg.Dataset,
		local:        cfg.Local,
		remote:       cfg.Remote,
		cache:        cfg.Cache,
		hostPattern:  hostPattern,
		fetchTimeout: cfg.FetchTimeout,
	}, nil
}

// Analyze produces the item record, estimate and comparable sales for a
// listing address. Validation and extraction failures are returned as
// *apierror.Error.
func (s *AnalyzerService) Analyze(ctx context.Context, rawURL string) (*model.AnalyzeResult, error) {
	s.counters.requests.Add(1)

	address, err := s.ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}

	result, hit, err := s.cache.Resolve(ctx, address, func() (*model.AnalyzeResult, error) {
		return s.analyze(ctx, address)
	})
	if hit {
		s.counters.cacheHits.Add(1)
	}
	return result, err
}

func (s *AnalyzerService) analyze(ctx context.Context, address string) (*model.AnalyzeResult, error) {
	record := s.itemRecord(ctx, address)
	if record == nil {
		s.counters.failed.Add(1)
		return nil, apierror.ExtractionFailed("")
	}

	matches := matcher.Match(*record, s.dataset.Entries())
	analysis := s.estimate(ctx, *record, matches)

	return &model.AnalyzeResult{
		ItemData:     *record,
		Analysis:     analysis,
		SimilarItems: matches,
	}, nil
}

// ValidateURL trims rawURL and checks its scheme and host.
func (s *AnalyzerService) ValidateURL(rawURL string) (string, error) {
	address := strings.TrimSpace(rawURL)
	if address == "" {
		return "", apierror.BadRequest("No URL provided")
	}

	u, err := url.Parse(address)
	if err != nil {
		return "", invalidURL("URL could not be parsed")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", invalidURL("URL must use http or https")
	}
	if !s.hostPattern.MatchString(strings.ToLower(u.Hostname())) {
		return "", invalidURL("URL must point to a Vinted listing")
	}
	return address, nil
}

func invalidURL(reason string) *apierror.Error {
	return apierror.ValidationError("Invalid Vinted URL",
		apierror.FieldError{Field: "url", Message: reason})
}

// itemRecord extracts a record from the fetched page, falling back to a
// record synthesized from the address. It returns nil when both fail.
func (s *AnalyzerService) itemRecord(ctx context.Context, address string) *model.ItemRecord {
	if rec := s.extract(ctx, address); rec != nil {
		s.counters.extracted.Add(1)
		return rec
	}

	rec := scraper.Synthesize(address)
	if rec != nil {
		s.counters.synthesized.Add(1)
		log.Printf("[Analyzer] Using synthesized record for %s", address)
	}
	return rec
}

func (s *AnalyzerService) extract(ctx context.Context, address string) *model.ItemRecord {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	body, err := s.fetcher.Fetch(fetchCtx, address)
	if err != nil {
		log.Printf("[Analyzer] Fetch failed for %s: %v", address, err)
		return nil
	}

	doc, err := scraper.ParseDocument(body)
	if err != nil {
		log.Printf("[Analyzer] Parse failed for %s: %v", address, err)
		return nil
	}
	return s.extractor.Extract(doc, address)
}

// estimate prefers the remote estimator when it is configured and the item
// has a price, and uses the local estimator otherwise or on remote failure.
func (s *AnalyzerService) estimate(ctx context.Context, item model.ItemRecord, matches []model.ReferenceEntry) model.AnalysisResult {
	if s.remote != nil && item.HasPrice() {
		res, err := s.remote.Estimate(ctx, item, matches)
		if err == nil {
			s.counters.remote.Add(1)
			return res
		}
		s.counters.remoteFailures.Add(1)
		log.Printf("[Analyzer] Remote estimate failed, using local estimate: %v", err)
	}

	s.counters.local.Add(1)
	return s.local.Compute(item)
}

// ReferenceEntries returns the dataset the matcher compares against.
func (s *AnalyzerService) ReferenceEntries() []model.ReferenceEntry {
	return s.dataset.Entries()
}

// RemoteEnabled reports whether a remote estimator is configured.
func (s *AnalyzerService) RemoteEnabled() bool {
	return s.remote != nil
}

// CacheEnabled reports whether results are cached.
func (s *AnalyzerService) CacheEnabled() bool {
	return s.cache != nil
}

// ClearCache drops every cached result.
func (s *AnalyzerService) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

// Stats returns a snapshot of the outcome counters.
func (s *AnalyzerService) Stats() AnalyzerStats {
	c := &s.counters
	return AnalyzerStats{
		Requests:        c.requests.Load(),
		CacheHits:       c.cacheHits.Load(),
		Extracted:       c.extracted.Load(),
		Synthesized:     c.synthesized.Load(),
		Failed:          c.failed.Load(),
		RemoteEstimates: c.remote.Load(),
		LocalEstimates:  c.local.Load(),
		RemoteFailures:  c.remoteFailures.Load(),
	}
}
