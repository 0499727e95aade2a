package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	MaxCaptionLength = 2200
	MaxMediaPerPost  = 10
	MaxMediaURLLen   = 2048
	MaxCommentLength = 2000
)

// ValidateCaption allows an empty caption up to MaxCaptionLength characters.
func ValidateCaption(caption string) error {
	if utf8.RuneCountInString(caption) > MaxCaptionLength {
		return fmt.Errorf("caption must be at most %d characters", MaxCaptionLength)
	}
	return nil
}

// ValidateMediaURLs allows up to MaxMediaPerPost unique absolute http(s) URLs.
func ValidateMediaURLs(urls []string) error {
	if len(urls) > MaxMediaPerPost {
		return fmt.Errorf("a post can have at most %d media URLs", MaxMediaPerPost)
	}

	seen := make(map[string]struct{}, len(urls))
	for i, raw := range urls {
		if err := validateMediaURL(raw); err != nil {
			return fmt.Errorf("media URL %d: %w", i+1, err)
		}
		if _, dup := seen[raw]; dup {
			return fmt.Errorf("media URL %d is a duplicate", i+1)
		}
		seen[raw] = struct{}{}
	}
	return nil
}

func validateMediaURL(raw string) error {
	if raw == "" || len(raw) > MaxMediaURLLen {
		return fmt.Errorf("must be between 1 and %d characters", MaxMediaURLLen)
	}
	if strings.IndexFunc(raw, unicode.IsControl) >= 0 || strings.ContainsAny(raw, " \t") {
		return fmt.Errorf("must not contain whitespace or control characters")
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("must be an absolute http or https URL")
	}
	return nil
}

// ValidateCommentContent requires non-blank content of at most MaxCommentLength characters.
func ValidateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("comment cannot be empty")
	}
	if utf8.RuneCountInString(content) > MaxCommentLength {
		return fmt.Errorf("comment must be at most %d characters", MaxCommentLength)
	}
	return nil
}
