package sanitizer

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/nyaruka/phonenumbers"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	reNotSlug         = regexp.MustCompile(`[^0-9\p{L}]+`)
	reMultiUnderscore = regexp.MustCompile(`_+`)

	// Regions tried for numbers given without a country prefix.
	supportedRegions = []string{
		"US",
		"GB",
	}
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone formats a phone number as E.164.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	for _, region := range supportedRegions {
		parsed, err := phonenumbers.Parse(phone, region)
		if err == nil && phonenumbers.IsValidNumber(parsed) {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
	}
	return phone
}

// NormalizeFeedURL cleans an iCal subscription URL. Only the scheme and host
// are lowercased since feed paths usually embed case sensitive tokens.
// webcal:// links are rewritten to https://.
func NormalizeFeedURL(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}

	u.Scheme = strings.ToLower(u.Scheme)
	switch u.Scheme {
	case "webcal", "webcals":
		u.Scheme = "https"
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	return u.String()
}

// Slugify turns a title into a filesystem friendly name with underscores.
func Slugify(title string) string {
	p := Pipeline{
		strings.TrimSpace,
		func(s string) string { return reNotSlug.ReplaceAllString(s, "_") },
		func(s string) string { return reMultiUnderscore.ReplaceAllString(s, "_") },
		func(s string) string { return strings.Trim(s, "_") },
	}
	if out := p.Apply(title); out != "" {
		return out
	}
	return "property"
}
