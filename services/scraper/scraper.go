package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/direitofacil/legalrag/config"
	"github.com/direitofacil/legalrag/services"
)

// trustedDomains lists the official publishers of Brazilian legal
// texts. Scraping is not restricted to them, but callers can check
// provenance before ingesting.
var trustedDomains = []string{
	"planalto.gov.br",
	"in.gov.br",
	"senado.leg.br",
	"camara.leg.br",
	"stf.jus.br",
	"stj.jus.br",
	"tst.jus.br",
}

// junkSelector matches elements carrying navigation and boilerplate
// instead of document text.
const junkSelector = "script, style, nav, footer, header, aside, iframe"

// Scraper extracts readable text from legal document pages.
type Scraper struct {
	client        *http.Client
	minContentLen int
	logger        *zap.Logger
}

func NewScraper(cfg config.ScraperConfig, logger *zap.Logger) *Scraper {
	return &Scraper{
		client:        &http.Client{Timeout: cfg.Timeout},
		minContentLen: cfg.MinContentLen,
		logger:        logger,
	}
}

// Extract fetches a page and returns its cleaned text content, one
// line per non-empty text line.
func (s *Scraper) Extract(ctx context.Context, rawURL string) (string, error) {
	if !ValidateURL(rawURL) {
		return "", services.NewDomainError(services.ErrorTypeValidation,
			fmt.Sprintf("invalid URL: %s", rawURL), nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", services.NewDomainError(services.ErrorTypeValidation,
			fmt.Sprintf("invalid URL: %s", rawURL), err)
	}
	setBrowserHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", services.WrapRetrieval(fmt.Sprintf("fetch %s", rawURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", services.WrapRetrieval(
			fmt.Sprintf("fetch %s: HTTP %d", rawURL, resp.StatusCode), nil)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", services.WrapRetrieval(fmt.Sprintf("parse %s", rawURL), err)
	}

	doc.Find(junkSelector).Remove()
	content := cleanText(doc.Text())

	if len(content) < s.minContentLen {
		return "", services.NewDomainError(services.ErrorTypeValidation,
			fmt.Sprintf("insufficient content extracted from %s (%d chars)", rawURL, len(content)), nil)
	}

	s.logger.Info("content extracted",
		zap.String("url", rawURL),
		zap.Int("chars", len(content)))

	return content, nil
}

// cleanText strips empty lines and per-line surrounding whitespace.
func cleanText(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if cleaned := strings.TrimSpace(line); cleaned != "" {
			lines = append(lines, cleaned)
		}
	}
	return strings.Join(lines, "\n")
}

// ValidateURL accepts only absolute http or https URLs.
func ValidateURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsTrustedDomain reports whether the URL belongs to an official
// legal-text publisher.
func IsTrustedDomain(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := u.Hostname()
	for _, domain := range trustedDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func setBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en-US;q=0.8,en;q=0.7")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}
