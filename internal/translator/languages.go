// Package translator resolves language names and calls the machine
// translation provider.
package translator

import "sort"

// Supported languages, keyed by the name clients send.
var languageCodes = map[string]string{
	"English": "en",
	"French":  "fr",
	"Spanish": "es",
	"German":  "de",
}

// supportedCodes is the inverse of languageCodes.
var supportedCodes = map[string]bool{}

func init() {
	for _, code := range languageCodes {
		supportedCodes[code] = true
	}
}

// CodeFor returns the provider code for a language name.
func CodeFor(name string) (string, bool) {
	code, ok := languageCodes[name]
	return code, ok
}

// IsSupportedCode reports whether code is one of the supported language codes.
func IsSupportedCode(code string) bool {
	return supportedCodes[code]
}

// SupportedLanguages returns the supported language names, sorted.
func SupportedLanguages() []string {
	names := make([]string, 0, len(languageCodes))
	for name := range languageCodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
