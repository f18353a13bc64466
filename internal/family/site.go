package family

import "fmt"

// Site identifies one (family, language code) MediaWiki instance.
// Two Site values are equal exactly when family name and code match,
// so Site works as a map key via Key().
type Site struct {
	// Family is the family this site belongs to.
	Family *Family

	// Code is the canonical language code, e.g. "en" or "pt-br".
	Code string
}

// Key returns a stable identifier usable as a map key, e.g. "wikipedia:en".
func (s Site) Key() string {
	return s.Family.Name + ":" + s.Code
}

// String implements fmt.Stringer. Same form as Key.
func (s Site) String() string {
	return s.Key()
}

// APIURL returns the api.php endpoint for this site.
func (s Site) APIURL() string {
	return fmt.Sprintf("https://%s/w/api.php", s.Family.host(s.Code))
}

// ArticleURL returns the canonical page URL for a title on this site.
// The title is used verbatim; callers escape as needed for display.
func (s Site) ArticleURL(title string) string {
	return fmt.Sprintf("https://%s/wiki/%s", s.Family.host(s.Code), title)
}

// Equal reports whether two sites refer to the same wiki.
func (s Site) Equal(other Site) bool {
	return s.Code == other.Code && s.Family != nil && other.Family != nil &&
		s.Family.Name == other.Family.Name
}
