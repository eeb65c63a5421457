package discovery

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// validateBaseURL checks that rawURL is an http(s) address with a host and no
// embedded credentials.
func validateBaseURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("empty URL")
	}
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	scheme := strings.ToLower(parsedURL.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("invalid URL scheme %q: only http:// and https:// are allowed", parsedURL.Scheme)
	}
	if parsedURL.User != nil {
		return fmt.Errorf("URLs with user credentials are not allowed")
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("URL must have a valid hostname")
	}
	return nil
}

// normalize trims whitespace and trailing slashes so equal addresses compare equal.
func normalize(rawURL string) string {
	return strings.TrimRight(strings.TrimSpace(rawURL), "/")
}

// candidateURL turns a configured candidate into a base URL. Candidates may
// be a bare host ("192.168.0.100"), a host with port ("192.168.0.100:9000"),
// or a full URL.
func candidateURL(candidate string, port int) string {
	candidate = strings.TrimSpace(candidate)
	if strings.Contains(candidate, "://") {
		return normalize(candidate)
	}
	if _, _, err := net.SplitHostPort(candidate); err == nil {
		return "http://" + candidate
	}
	return "http://" + net.JoinHostPort(candidate, strconv.Itoa(port))
}
