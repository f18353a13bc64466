package config

// FamilyConfig holds per-family settings from the project file.
type FamilyConfig struct {
	// ExtraCodes adds language codes beyond the built-in family table,
	// for newly opened wikis.
	ExtraCodes []string `yaml:"extraCodes,omitempty"`

	// ObsoleteCodes adds or overrides obsolete-code redirects.
	// An empty value marks a code as closed.
	ObsoleteCodes map[string]string `yaml:"obsoleteCodes,omitempty"`

	// IgnoreTitles lists page titles the engine never follows or emits,
	// per target language code. Key "*" applies to all codes.
	IgnoreTitles map[string][]string `yaml:"ignoreTitles,omitempty"`

	// SortOrder overrides the interwiki ordering policy:
	// "code", "collated" or "leading".
	SortOrder string `yaml:"sortOrder,omitempty"`

	// LeadingCodes pins codes to the front when SortOrder is "leading".
	LeadingCodes []string `yaml:"leadingCodes,omitempty"`
}

// Credentials references a bot account. The secret is read from the named
// environment variable at login time and never lives in the file.
type Credentials struct {
	// Username is the bot account, usually in BotPassword form
	// "User@botname".
	Username string `yaml:"username,omitempty"`

	// PasswordEnv names the environment variable holding the BotPassword
	// secret.
	PasswordEnv string `yaml:"passwordEnv,omitempty"`
}

// File represents the .wikibot project file.
type File struct {
	// Family and Lang set default origin site selection.
	Family string `yaml:"family,omitempty"`
	Lang   string `yaml:"lang,omitempty"`

	// Credentials references the bot account used for saves.
	Credentials Credentials `yaml:"credentials,omitempty"`

	// Families maps family names to their overrides.
	Families map[string]FamilyConfig `yaml:"families,omitempty"`

	// Hints are default interwiki hints merged into every run.
	Hints []string `yaml:"hints,omitempty"`
}

// FamilyConfig returns the overrides for a family, or a zero value when
// the file has none.
func (f *File) FamilyConfig(name string) FamilyConfig {
	if f == nil || f.Families == nil {
		return FamilyConfig{}
	}
	return f.Families[name]
}

// IgnoredTitle reports whether a title is on the ignore list for a code.
func (fc FamilyConfig) IgnoredTitle(code, title string) bool {
	for _, t := range fc.IgnoreTitles[code] {
		if t == title {
			return true
		}
	}
	for _, t := range fc.IgnoreTitles["*"] {
		if t == title {
			return true
		}
	}
	return false
}
