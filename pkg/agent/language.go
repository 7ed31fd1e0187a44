// SPDX-License-Identifier: Apache-2.0

package agent

const (
	LanguageEnglish = "en"
	LanguageArabic  = "ar"
)

// DetectLanguage classifies the prompt as Arabic if it contains any
// character from the Arabic blocks, English otherwise. Mixed prompts lean
// Arabic since that is the language the model must translate values from.
func DetectLanguage(prompt string) string {
	for _, r := range prompt {
		if isArabic(r) {
			return LanguageArabic
		}
	}
	return LanguageEnglish
}

func isArabic(r rune) bool {
	switch {
	case r >= 0x0600 && r <= 0x06FF: // Arabic
		return true
	case r >= 0x0750 && r <= 0x077F: // Arabic Supplement
		return true
	case r >= 0x08A0 && r <= 0x08FF: // Arabic Extended-A
		return true
	default:
		return false
	}
}
