package patterns

import "github.com/dlclark/regexp2"

// Code element names.
const (
	MultilineCodeBlock = "multiline_code_block"
	CalcBlock          = "calc_block"
	MultilineCodeLang  = "multiline_code_lang"
	InlineCodeBlock    = "inline_code_block"
)

// CompileCode builds the code-span matchers. Code spans are detected and
// counted only; their contents are never interpreted.
func CompileCode() map[string]*regexp2.Regexp {
	var ic regexp2.RegexOptions = regexp2.IgnoreCase
	var ics regexp2.RegexOptions = regexp2.IgnoreCase | regexp2.Singleline
	return map[string]*regexp2.Regexp{
		MultilineCodeBlock: mustCompile("```.*?```", ics),
		CalcBlock:          mustCompile("```calc.*?```", ics),
		MultilineCodeLang:  mustCompile("```\\w+.*?```", ics),
		InlineCodeBlock:    mustCompile("`\\w+.*?`", ic),
	}
}
