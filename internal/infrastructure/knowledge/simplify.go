package knowledge

import "strings"

var bundlePrefixes = []string{
	"com.apple.", "com.google.", "com.microsoft.", "org.mozilla.",
	"com.adobe.", "com.spotify.", "com.slack.", "com.",
}

var subdomainPrefixes = []string{"m.", "mobile.", "web.", "app.", "api."}

// SimplifyAppName reduces a bundle identifier to a matchable app name,
// e.g. "com.apple.Safari" -> "Safari".
func SimplifyAppName(name string) string {
	if name == "" {
		return name
	}

	simplified := name
	for _, prefix := range bundlePrefixes {
		if strings.HasPrefix(simplified, prefix) {
			simplified = simplified[len(prefix):]
			break
		}
	}

	// Drop anything after the first dot
	if idx := strings.Index(simplified, "."); idx > 0 {
		simplified = simplified[:idx]
	}

	return capitalize(simplified)
}

// SimplifyDomainName reduces a hostname to its main domain name,
// e.g. "www.youtube.com" -> "Youtube".
func SimplifyDomainName(domain string) string {
	if domain == "" {
		return domain
	}

	simplified := strings.Replace(domain, "www.", "", 1)

	for _, prefix := range subdomainPrefixes {
		if strings.HasPrefix(simplified, prefix) {
			simplified = simplified[len(prefix):]
			break
		}
	}

	parts := strings.Split(simplified, ".")
	switch {
	case len(parts) >= 3 && isCountryTLD(parts[len(parts)-1]):
		// Domains like "bbc.co.uk" keep the part before the registry suffix
		simplified = parts[len(parts)-3]
	case len(parts) >= 2:
		simplified = parts[len(parts)-2]
	default:
		simplified = parts[0]
	}

	return capitalize(simplified)
}

func isCountryTLD(tld string) bool {
	switch tld {
	case "uk", "au", "ca", "jp":
		return true
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
