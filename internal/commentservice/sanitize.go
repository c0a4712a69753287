package commentservice

import "regexp"

var scriptTagPattern = regexp.MustCompile(`(?is)<\s*script[^>]*>(.*?)<\s*/\s*script\s*>`)

// sanitizeContent strips script elements from user supplied comment text.
func sanitizeContent(content string) string {
	return scriptTagPattern.ReplaceAllString(content, "")
}
