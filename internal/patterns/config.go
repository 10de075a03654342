package patterns

import "github.com/dlclark/regexp2"

// Config element names, one per recognized configuration key. These are the
// textual fallback path for configuration files that cannot be fully parsed
// as EDN.
const (
	JournalPageTitleFormat   = "journal_page_title_format"
	JournalFileNameFormat    = "journal_file_name_format"
	FeatureEnableJournals    = "feature_enable_journals"
	FeatureEnableWhiteboards = "feature_enable_whiteboards"
	PagesDirectory           = "pages_directory"
	JournalsDirectory        = "journals_directory"
	WhiteboardsDirectory     = "whiteboards_directory"
	FileNameFormat           = "file_name_format"
)

// CompileConfig builds the per-key configuration line matchers. Each capture
// group holds the configured value.
func CompileConfig() map[string]*regexp2.Regexp {
	var none regexp2.RegexOptions
	return map[string]*regexp2.Regexp{
		JournalPageTitleFormat:   mustCompile(`:journal/page-title-format\s+"([^"]+)"`, none),
		JournalFileNameFormat:    mustCompile(`:journal/file-name-format\s+"([^"]+)"`, none),
		FeatureEnableJournals:    mustCompile(`:feature/enable-journals\?\s+(true|false)`, none),
		FeatureEnableWhiteboards: mustCompile(`:feature/enable-whiteboards\?\s+(true|false)`, none),
		PagesDirectory:           mustCompile(`:pages-directory\s+"([^"]+)"`, none),
		JournalsDirectory:        mustCompile(`:journals-directory\s+"([^"]+)"`, none),
		WhiteboardsDirectory:     mustCompile(`:whiteboards-directory\s+"([^"]+)"`, none),
		FileNameFormat:           mustCompile(`:file/name-format\s+(.+)`, none),
	}
}
