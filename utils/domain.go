package utils

import (
	"net/url"
	"strings"
)

// ExtractDomainFromOrigin extracts the host from an Origin header value
func ExtractDomainFromOrigin(origin string) (string, error) {
	if origin == "" {
		return "", nil
	}

	parsedURL, err := url.Parse(origin)
	if err != nil {
		return "", err
	}

	return parsedURL.Host, nil
}

// NormalizeDomain lowercases a host and strips the port and a leading www.
func NormalizeDomain(domain string) string {
	if domain == "" {
		return ""
	}

	domain = strings.ToLower(strings.TrimSpace(domain))

	if i := strings.LastIndex(domain, ":"); i != -1 && !strings.Contains(domain[i:], "]") {
		domain = domain[:i]
	}

	return strings.TrimPrefix(domain, "www.")
}

// IsSubdomain checks if the given domain is the parent domain or one of its subdomains
func IsSubdomain(domain, parentDomain string) bool {
	if domain == "" || parentDomain == "" {
		return false
	}

	normalizedDomain := NormalizeDomain(domain)
	normalizedParent := NormalizeDomain(parentDomain)

	return normalizedDomain == normalizedParent || strings.HasSuffix(normalizedDomain, "."+normalizedParent)
}

// IsSameOrigin compares scheme and host of two origins
func IsSameOrigin(origin, appOrigin string) bool {
	if origin == "" || appOrigin == "" {
		return false
	}

	a, err := url.Parse(origin)
	if err != nil {
		return false
	}
	b, err := url.Parse(appOrigin)
	if err != nil {
		return false
	}

	return strings.EqualFold(a.Scheme, b.Scheme) && strings.EqualFold(a.Host, b.Host)
}

// IsOriginAllowed reports whether a message origin may be trusted.
// The app's own origin is always allowed; anything else must host-match
// an entry of the allow-list. An empty allow-list trusts nobody else.
func IsOriginAllowed(origin, appOrigin string, allowList []string) bool {
	if IsSameOrigin(origin, appOrigin) {
		return true
	}

	host, err := ExtractDomainFromOrigin(origin)
	if err != nil || host == "" {
		return false
	}

	for _, allowed := range allowList {
		if IsSubdomain(host, allowed) {
			return true
		}
	}

	return false
}
