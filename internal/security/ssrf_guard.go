// Package security provides the application's security primitives.
package security

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

// SSRFGuardService guards outbound requests against SSRF.
// Used by the importer for feed, article-page and image fetches.
type SSRFGuardService interface {
	// NewSafeClient returns an HTTP client that refuses connections to
	// private, loopback, link-local and metadata addresses. The check runs
	// at dial time after DNS resolution, which also covers DNS rebinding.
	NewSafeClient(timeout time.Duration) *http.Client

	// ValidateURL statically validates a URL before any request is made.
	ValidateURL(rawURL string) error
}

// allowedSchemes are the URL schemes permitted for outbound fetches.
var allowedSchemes = []string{"http", "https"}

// blockedNetworks are parsed once at package init and matched in ValidateURL.
// The safeurl dialer re-checks resolved addresses at connect time.
var blockedNetworks []net.IPNet

func init() {
	cidrs := []string{
		// Private ranges (RFC 1918)
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		// Loopback (RFC 1122)
		"127.0.0.0/8",
		// Link-local (RFC 3927), includes cloud metadata 169.254.169.254
		"169.254.0.0/16",
		// Current network
		"0.0.0.0/8",
		// IPv6 loopback
		"::1/128",
		// IPv6 link-local
		"fe80::/10",
		// IPv6 unique local
		"fc00::/7",
	}
	for _, cidr := range cidrs {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			panic(fmt.Sprintf("invalid CIDR in blockedNetworks: %s: %v", cidr, err))
		}
		blockedNetworks = append(blockedNetworks, *network)
	}
}

type ssrfGuard struct{}

// NewSSRFGuard returns the SSRFGuardService implementation.
func NewSSRFGuard() *ssrfGuard {
	return &ssrfGuard{}
}

// NewSafeClient returns an SSRF-guarded HTTP client with the given timeout.
func (g *ssrfGuard) NewSafeClient(timeout time.Duration) *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes(allowedSchemes...).
		SetAllowedPorts(80, 443).
		Build()

	wrappedClient := safeurl.Client(config)
	return wrappedClient.Client
}

// ValidateURL statically validates scheme, host and IP of a URL.
// DNS rebinding is handled by the dialer check in NewSafeClient.
func (g *ssrfGuard) ValidateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("empty URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if !isAllowedScheme(scheme) {
		return fmt.Errorf("disallowed scheme: %s (allowed: %v)", scheme, allowedSchemes)
	}

	host := parsed.Hostname()
	if host == "" {
		return fmt.Errorf("empty host in URL: %s", rawURL)
	}

	ip := net.ParseIP(host)
	if ip != nil {
		if isBlockedIP(ip) {
			return fmt.Errorf("blocked IP address: %s", ip.String())
		}
		return nil
	}

	if isBlockedHostname(host) {
		return fmt.Errorf("blocked host: %s", host)
	}

	return nil
}

func isAllowedScheme(scheme string) bool {
	for _, allowed := range allowedSchemes {
		if strings.EqualFold(scheme, allowed) {
			return true
		}
	}
	return false
}

func isBlockedIP(ip net.IP) bool {
	for _, network := range blockedNetworks {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

var blockedHostnames = []string{
	"localhost",
}

func isBlockedHostname(host string) bool {
	lower := strings.ToLower(host)
	for _, blocked := range blockedHostnames {
		if lower == blocked {
			return true
		}
	}
	return false
}
