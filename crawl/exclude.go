package crawl

import "strings"

// excludedPatterns marks URLs that never carry indexable content:
// auth/cart/admin/search paths, API endpoints, non-HTML assets, and
// non-HTTP schemes. Fragment links are excluded via the "#" pattern.
var excludedPatterns = []string{
	"/search",
	"/login",
	"/register",
	"/cart",
	"/checkout",
	"/admin",
	"/api/",
	".pdf",
	".jpg",
	".jpeg",
	".png",
	".gif",
	".css",
	".js",
	"mailto:",
	"tel:",
	"#",
}

// Excluded reports whether a URL matches the exclusion list. Matching is
// case-insensitive substring matching, mirroring the admission rule
// applied to every discovered link.
func Excluded(url string) bool {
	lower := strings.ToLower(url)
	for _, pattern := range excludedPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
