package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Language is one spoken language a crew member can offer.
type Language struct {
	ID        uuid.UUID `json:"id"`
	LegacyID  int64     `json:"legacy_id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// languageCodes maps recognized language names to ISO 639-1 codes. The
// source data is dominated by South African languages plus the common
// international ones.
var languageCodes = map[string]string{
	"afrikaans":  "af",
	"arabic":     "ar",
	"dutch":      "nl",
	"english":    "en",
	"french":     "fr",
	"german":     "de",
	"hindi":      "hi",
	"italian":    "it",
	"mandarin":   "zh",
	"ndebele":    "nr",
	"portuguese": "pt",
	"sepedi":     "nso",
	"sesotho":    "st",
	"setswana":   "tn",
	"siswati":    "ss",
	"sotho":      "st",
	"spanish":    "es",
	"swahili":    "sw",
	"swati":      "ss",
	"tshivenda":  "ve",
	"tsonga":     "ts",
	"tswana":     "tn",
	"venda":      "ve",
	"xhosa":      "xh",
	"xitsonga":   "ts",
	"zulu":       "zu",
}

// DeriveLanguageCode returns the short code for a language name: the ISO
// 639-1 code when the name is recognized, otherwise the first two letters
// of the lowercased name. The isi- prefix of Nguni language names is
// stripped first so isiZulu and Zulu derive the same code.
func DeriveLanguageCode(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimPrefix(n, "isi")
	if code, ok := languageCodes[n]; ok {
		return code
	}
	if len(n) > 2 {
		n = n[:2]
	}
	return n
}
