package interwiki

import (
	"strings"

	"github.com/gowikibot/wikibot/internal/family"
	"github.com/gowikibot/wikibot/internal/model"
)

// Changes is the diff between a page's old and new interwiki link sets.
// All three slices hold language codes in the family's sort order.
type Changes struct {
	// Adds are codes present only in the new set.
	Adds []string
	// Removes are codes present only in the old set.
	Removes []string
	// Modifies are codes whose target title changed.
	Modifies []string
}

// Compare diffs two link sets. It is a pure function: neither input is
// modified and the output depends on nothing else.
func Compare(oldLinks, newLinks []model.LangLink, fam *family.Family) Changes {
	oldByCode := model.LinksByCode(oldLinks)
	newByCode := model.LinksByCode(newLinks)

	var c Changes
	for code, title := range newByCode {
		oldTitle, ok := oldByCode[code]
		switch {
		case !ok:
			c.Adds = append(c.Adds, code)
		case oldTitle != title:
			c.Modifies = append(c.Modifies, code)
		}
	}
	for code := range oldByCode {
		if _, ok := newByCode[code]; !ok {
			c.Removes = append(c.Removes, code)
		}
	}

	fam.SortCodes(c.Adds)
	fam.SortCodes(c.Removes)
	fam.SortCodes(c.Modifies)
	return c
}

// Empty reports whether the two sets were identical.
func (c Changes) Empty() bool {
	return len(c.Adds) == 0 && len(c.Removes) == 0 && len(c.Modifies) == 0
}

// Summary renders the edit summary for a save, e.g.
// "robot: adding de, fr; removing ja; modifying es".
// An empty diff yields an empty string.
func (c Changes) Summary() string {
	var parts []string
	if len(c.Adds) > 0 {
		parts = append(parts, "adding "+strings.Join(c.Adds, ", "))
	}
	if len(c.Removes) > 0 {
		parts = append(parts, "removing "+strings.Join(c.Removes, ", "))
	}
	if len(c.Modifies) > 0 {
		parts = append(parts, "modifying "+strings.Join(c.Modifies, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return "robot: " + strings.Join(parts, "; ")
}
