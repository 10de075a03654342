package patterns

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// Advanced-command element names. AdvCommandAll is the umbrella #+BEGIN_X
// block matcher; the rest match one named command each.
const (
	AdvCommandAll         = "advanced_command"
	AdvCommandExport      = "export"
	AdvCommandExportASCII = "export_ascii"
	AdvCommandExportLatex = "export_latex"
	AdvCommandCaution     = "caution"
	AdvCommandCenter      = "center"
	AdvCommandComment     = "comment"
	AdvCommandExample     = "example"
	AdvCommandImportant   = "important"
	AdvCommandNote        = "note"
	AdvCommandPinned      = "pinned"
	AdvCommandQuery       = "query"
	AdvCommandQuote       = "quote"
	AdvCommandTip         = "tip"
	AdvCommandVerse       = "verse"
	AdvCommandWarning     = "warning"
)

// CompileAdvancedCommands builds the #+BEGIN_X ... #+END_X block matchers.
// Bodies span newlines (Singleline) and command names compare
// case-insensitively. Every block is terminated by a trailing newline or end
// of file.
func CompileAdvancedCommands() map[string]*regexp2.Regexp {
	var opts regexp2.RegexOptions = regexp2.IgnoreCase | regexp2.Singleline

	block := func(name string) *regexp2.Regexp {
		return mustCompile(fmt.Sprintf(`#\+BEGIN_%s.*?#\+END_%s.*?(?:\n|$)`, name, name), opts)
	}

	out := map[string]*regexp2.Regexp{
		AdvCommandAll:    mustCompile(`#\+BEGIN_.*?#\+END_.*?(?:\n|$)`, opts),
		AdvCommandExport: block("EXPORT"),
		// Export sub-variants keyed on the word following EXPORT.
		AdvCommandExportASCII: mustCompile(`#\+BEGIN_EXPORT\s{1}ascii.*?#\+END_EXPORT.*?(?:\n|$)`, opts),
		AdvCommandExportLatex: mustCompile(`#\+BEGIN_EXPORT\s{1}latex.*?#\+END_EXPORT.*?(?:\n|$)`, opts),
	}
	for _, name := range []string{
		AdvCommandCaution, AdvCommandCenter, AdvCommandComment, AdvCommandExample,
		AdvCommandImportant, AdvCommandNote, AdvCommandPinned, AdvCommandQuery,
		AdvCommandQuote, AdvCommandTip, AdvCommandVerse, AdvCommandWarning,
	} {
		out[name] = block(name)
	}
	return out
}
