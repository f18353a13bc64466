package family

import (
	"errors"
	"fmt"
	"maps"
)

// ErrUnknownFamily is returned when no built-in family matches a name.
var ErrUnknownFamily = errors.New("unknown family")

// wikimediaCodes lists the language codes shared by the large Wikimedia
// families. The list is a snapshot; per-run additions come from the
// configuration file rather than a code change.
var wikimediaCodes = []string{
	"af", "als", "am", "an", "ar", "arz", "ast", "az", "azb", "ba",
	"bar", "be", "bg", "bn", "bpy", "br", "bs", "ca", "ce", "ceb",
	"ckb", "cs", "cv", "cy", "da", "de", "el", "en", "eo", "es",
	"et", "eu", "fa", "fi", "fo", "fr", "fy", "ga", "gd", "gl",
	"gu", "he", "hi", "hr", "ht", "hu", "hy", "ia", "id", "io",
	"is", "it", "ja", "jv", "ka", "kk", "kn", "ko", "ku", "ky",
	"la", "lb", "li", "lmo", "lt", "lv", "mg", "min", "mk", "ml",
	"mn", "mr", "ms", "my", "nap", "nds", "ne", "new", "nl", "nn",
	"no", "oc", "pa", "pl", "pms", "pnb", "pt", "ro", "ru", "scn",
	"sco", "sh", "si", "simple", "sk", "sl", "sq", "sr", "su", "sv",
	"sw", "ta", "te", "tg", "th", "tl", "tr", "tt", "uk", "ur",
	"uz", "vec", "vi", "vo", "wa", "war", "yi", "yo", "zh", "zh-min-nan",
	"zh-yue",
}

// wikimediaObsolete maps retired Wikimedia language codes to their
// replacements. Codes mapping to "" were closed with no successor;
// links using them are dropped rather than rewritten.
var wikimediaObsolete = map[string]string{
	"dk":       "da",
	"jp":       "ja",
	"minnan":   "zh-min-nan",
	"nb":       "no",
	"zh-tw":    "zh",
	"zh-cn":    "zh",
	"cz":       "cs",
	"epo":      "eo",
	"mo":       "ro",
	"tlh":      "", // closed, content moved off-site
	"tokipona": "", // closed
}

// Wikipedia returns the Wikipedia family definition.
func Wikipedia() *Family {
	return &Family{
		Name:     "wikipedia",
		Domain:   "wikipedia.org",
		Codes:    append([]string(nil), wikimediaCodes...),
		Obsolete: maps.Clone(wikimediaObsolete),
		Order:    SortByCode,
	}
}

// Wiktionary returns the Wiktionary family definition.
func Wiktionary() *Family {
	return &Family{
		Name:     "wiktionary",
		Domain:   "wiktionary.org",
		Codes:    append([]string(nil), wikimediaCodes...),
		Obsolete: maps.Clone(wikimediaObsolete),
		Order:    SortByCode,
	}
}

// Generic builds a single-site family for a third-party wiki. The site is
// registered under the given code with an explicit host, so interwiki
// processing degrades gracefully to that one wiki plus whatever codes the
// configuration file adds.
func Generic(name, code, host string) *Family {
	return &Family{
		Name:   name,
		Domain: host,
		Codes:  []string{code},
		Hosts:  map[string]string{code: host},
		Order:  SortByCode,
	}
}

// ByName returns a built-in family by name.
func ByName(name string) (*Family, error) {
	switch name {
	case "wikipedia":
		return Wikipedia(), nil
	case "wiktionary":
		return Wiktionary(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
	}
}
