package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"phishguard/internal/config"
	"phishguard/internal/domain/models"
	"phishguard/internal/infrastructure/cache"
	"phishguard/internal/infrastructure/database/repository"
	"phishguard/pkg/logger"
)

// ScanService orchestrates the engines per scan type and owns scan
// history. The engines themselves stay pure; IDs, timestamps, caching,
// and persistence all live here.
type ScanService struct {
	urlAnalyzer   *URLAnalyzer
	domainChecker *DomainChecker
	textEngine    *TextEngine
	scorer        *RiskScorer

	repo  *repository.ScanRepository
	cache *cache.RedisCache
	cfg   config.ScanConfig

	// In-memory fallback history when Postgres is not configured
	mu      sync.Mutex
	history []models.ScanRecord

	logger *logger.Logger
}

// NewScanService wires the engines together. repo and redisCache may be
// nil; the service then keeps a bounded in-memory history and skips
// verdict caching.
func NewScanService(
	cfg config.ScanConfig,
	scoring config.ScoringConfig,
	repo *repository.ScanRepository,
	redisCache *cache.RedisCache,
	log *logger.Logger,
) *ScanService {
	if cfg.BulkWorkers <= 0 {
		cfg.BulkWorkers = 8
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = 1000
	}
	return &ScanService{
		urlAnalyzer:   NewURLAnalyzer(log),
		domainChecker: NewDomainChecker(log),
		textEngine:    NewTextEngine(log),
		scorer:        NewRiskScorer(scoring, log),
		repo:          repo,
		cache:         redisCache,
		cfg:           cfg,
		logger:        log.WithComponent("scan-service"),
	}
}

// Engines returns the underlying extractors for callers that want to
// invoke them directly and combine results themselves
func (s *ScanService) Engines() (*URLAnalyzer, *DomainChecker, *TextEngine, *RiskScorer) {
	return s.urlAnalyzer, s.domainChecker, s.textEngine, s.scorer
}

// BulkMaxItems returns the per-request cap for bulk scans
func (s *ScanService) BulkMaxItems() int {
	if s.cfg.BulkMaxItems <= 0 {
		return 100
	}
	return s.cfg.BulkMaxItems
}

// ScanURL runs the URL analyzer and domain checker over one URL
func (s *ScanService) ScanURL(ctx context.Context, rawURL string) (*models.ScanResponse, error) {
	if cached := s.cachedResponse(ctx, models.ScanTypeURL, rawURL); cached != nil {
		return cached, nil
	}

	urlAnalysis := s.urlAnalyzer.Analyze(rawURL)
	domainVerdict := s.domainChecker.Analyze(rawURL)

	engines := []models.EngineResult{urlAnalysis.EngineResult, domainVerdict.EngineResult}
	verdict := s.scorer.Combine(engines)

	return s.record(ctx, models.ScanTypeURL, rawURL, verdict, engines), nil
}

// ScanEmail runs the text engine over an email plus the URL analyzer
// over its embedded links
func (s *ScanService) ScanEmail(ctx context.Context, req models.EmailScanRequest) (*models.ScanResponse, error) {
	signal := s.textEngine.Analyze(TextInput{
		Body:        req.Body,
		Subject:     req.Subject,
		Sender:      req.Sender,
		ContentType: models.ContentTypeEmail,
	})

	engines := []models.EngineResult{signal.EngineResult}
	if worst := s.worstEmbeddedURL(req.Subject+" "+req.Body, s.cfg.EmailURLLimit); worst != nil {
		engines = append(engines, *worst)
	}

	verdict := s.scorer.Combine(engines)
	return s.record(ctx, models.ScanTypeEmail, req.Subject, verdict, engines), nil
}

// ScanSMS runs the text engine in SMS mode plus the URL analyzer over
// embedded links
func (s *ScanService) ScanSMS(ctx context.Context, req models.TextScanRequest) (*models.ScanResponse, error) {
	signal := s.textEngine.Analyze(TextInput{
		Body:        req.Body,
		Sender:      req.Sender,
		ContentType: models.ContentTypeSMS,
	})

	engines := []models.EngineResult{signal.EngineResult}
	if worst := s.worstEmbeddedURL(req.Body, s.cfg.SMSURLLimit); worst != nil {
		engines = append(engines, *worst)
	}

	verdict := s.scorer.Combine(engines)
	return s.record(ctx, models.ScanTypeSMS, req.Body, verdict, engines), nil
}

// ScanVoice runs the text engine over a voice-call transcript
func (s *ScanService) ScanVoice(ctx context.Context, req models.TextScanRequest) (*models.ScanResponse, error) {
	signal := s.textEngine.Analyze(TextInput{
		Body:        req.Body,
		Sender:      req.Sender,
		ContentType: models.ContentTypeVoice,
	})

	engines := []models.EngineResult{signal.EngineResult}
	verdict := s.scorer.Combine(engines)
	return s.record(ctx, models.ScanTypeVoice, req.Body, verdict, engines), nil
}

// ScanBulk fans URL scans across a bounded worker pool. Results keep
// their input association by index; there is no ordering requirement
// between independent scans.
func (s *ScanService) ScanBulk(ctx context.Context, urls []string) (*models.BulkScanResult, error) {
	result := &models.BulkScanResult{
		Results:    make([]models.BulkScanItem, len(urls)),
		TotalCount: len(urls),
		ScannedAt:  time.Now().UTC(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BulkWorkers)

	for i, rawURL := range urls {
		g.Go(func() error {
			resp, err := s.ScanURL(gctx, rawURL)
			if err != nil {
				return err
			}
			result.Results[i] = models.BulkScanItem{
				Index:   i,
				URL:     rawURL,
				Verdict: resp.Verdict,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, item := range result.Results {
		if item.Verdict.IsPhishing {
			result.PhishingCount++
		}
	}

	return result, nil
}

// RecentThreats returns the newest scans first
func (s *ScanService) RecentThreats(ctx context.Context, limit int) ([]models.ScanRecord, error) {
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}

	if s.repo != nil {
		return s.repo.ListRecent(ctx, limit)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.history)
	if limit > n {
		limit = n
	}
	records := make([]models.ScanRecord, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		records = append(records, s.history[i])
	}
	return records, nil
}

// Stats summarizes scan history
func (s *ScanService) Stats(ctx context.Context) (*models.ScanStats, error) {
	if s.repo != nil {
		return s.repo.Stats(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &models.ScanStats{
		ByType:  make(map[models.ScanType]int64),
		ByLevel: make(map[models.RiskLevel]int64),
	}
	for _, record := range s.history {
		stats.TotalScans++
		stats.ByType[record.Type]++
		stats.ByLevel[record.Verdict.Level]++
		if record.Verdict.IsPhishing {
			stats.PhishingCount++
		}
	}
	if stats.TotalScans > 0 {
		stats.DetectionRate = float64(stats.PhishingCount) / float64(stats.TotalScans)
	}
	return stats, nil
}

// worstEmbeddedURL analyzes up to limit embedded URLs and returns the
// highest-scoring analysis as the URL engine's contribution
func (s *ScanService) worstEmbeddedURL(text string, limit int) *models.EngineResult {
	if limit <= 0 {
		limit = 5
	}
	found := embeddedURLPattern.FindAllString(text, limit)
	if len(found) == 0 {
		return nil
	}

	var worst *models.URLAnalysis
	for _, rawURL := range found {
		analysis := s.urlAnalyzer.Analyze(rawURL)
		if worst == nil || analysis.Score > worst.Score {
			worst = analysis
		}
	}
	return &worst.EngineResult
}

// record attaches identity and time to a verdict, persists it, and bumps
// cache counters
func (s *ScanService) record(ctx context.Context, scanType models.ScanType, target string, verdict *models.RiskVerdict, engines []models.EngineResult) *models.ScanResponse {
	now := time.Now().UTC()
	record := models.ScanRecord{
		ID:        uuid.New(),
		Type:      scanType,
		Target:    truncate(target, 500),
		Verdict:   *verdict,
		CreatedAt: now,
	}

	if s.repo != nil {
		if err := s.repo.Insert(ctx, &record); err != nil {
			s.logger.Warn().Err(err).Str("scan_id", record.ID.String()).Msg("failed to persist scan record")
		}
	} else {
		s.mu.Lock()
		s.history = append(s.history, record)
		if len(s.history) > s.cfg.HistoryLimit {
			s.history = s.history[len(s.history)-s.cfg.HistoryLimit:]
		}
		s.mu.Unlock()
	}

	if s.cache != nil {
		s.cache.RecordScan(ctx, string(scanType), verdict.IsPhishing)
		if scanType == models.ScanTypeURL {
			if err := s.cache.CacheVerdict(ctx, contentHash(scanType, target), verdict, s.cfg.VerdictTTL); err != nil {
				s.logger.Warn().Err(err).Msg("failed to cache verdict")
			}
		}
	}

	return &models.ScanResponse{
		ID:        record.ID,
		Type:      scanType,
		Verdict:   *verdict,
		Engines:   engines,
		ScannedAt: now,
	}
}

// cachedResponse returns a response built from a cached verdict, or nil
func (s *ScanService) cachedResponse(ctx context.Context, scanType models.ScanType, target string) *models.ScanResponse {
	if s.cache == nil {
		return nil
	}
	var verdict models.RiskVerdict
	if err := s.cache.GetCachedVerdict(ctx, contentHash(scanType, target), &verdict); err != nil {
		return nil
	}
	return &models.ScanResponse{
		ID:        uuid.New(),
		Type:      scanType,
		Verdict:   verdict,
		ScannedAt: time.Now().UTC(),
	}
}

func contentHash(scanType models.ScanType, target string) string {
	sum := sha256.Sum256([]byte(string(scanType) + ":" + target))
	return hex.EncodeToString(sum[:])
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
