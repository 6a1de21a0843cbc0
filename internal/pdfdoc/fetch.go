package pdfdoc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

const trustedDocsHost = "docs.aws.amazon.com"

// ValidateURL checks that raw is an HTTPS link to a PDF on the trusted
// documentation domain. A fragment suffix is ignored.
func ValidateURL(raw string) (string, error) {
	clean := strings.SplitN(raw, "#", 2)[0]
	u, err := url.Parse(clean)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "https" {
		return "", fmt.Errorf("url must use https, got %q", u.Scheme)
	}
	if !strings.Contains(u.Host, trustedDocsHost) {
		return "", fmt.Errorf("url must be on the %s domain, got %q", trustedDocsHost, u.Host)
	}
	if !strings.HasSuffix(u.Path, ".pdf") {
		return "", fmt.Errorf("url must point to a .pdf file, got %q", u.Path)
	}
	return clean, nil
}

// Fetch streams a documentation PDF into a temp file and returns its
// path. The caller removes the file when done.
func Fetch(ctx context.Context, rawURL string) (string, error) {
	clean, err := ValidateURL(rawURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, clean, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download pdf: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download PDF, status code %d", resp.StatusCode)
	}
	if ct := strings.ToLower(resp.Header.Get("Content-Type")); !strings.Contains(ct, "application/pdf") {
		return "", fmt.Errorf("URL does not point to a PDF file, content type %q", ct)
	}

	tmp, err := os.CreateTemp("", "lumen-*.pdf")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	log.Debug().Str("url", clean).Str("path", tmp.Name()).Msg("Downloaded PDF")
	return tmp.Name(), nil
}
