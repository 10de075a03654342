package analyzer

// builtinPropertyNames are the property keys Logseq itself defines;
// everything else is user-defined.
var builtinPropertyNames = []string{
	"alias", "aliases", "background_color", "background-color", "collapsed",
	"created_at", "created-at", "custom-id", "doing", "done",
	"exclude-from-graph-view", "filetags", "filters", "heading", "hl-color",
	"hl-page", "hl-stamp", "hl-type", "icon", "id", "last_modified_at",
	"last-modified-at", "later", "logseq.color", "logseq.macro-arguments",
	"logseq.macro-name", "logseq.order-list-type", "logseq.query/nlp-date",
	"logseq.table.borders", "logseq.table.compact", "logseq.table.headers",
	"logseq.table.hover", "logseq.table.max-width", "logseq.table.stripes",
	"logseq.table.version", "logseq.tldraw.page", "logseq.tldraw.shape",
	"ls-type", "macro", "now", "public", "query-properties", "query-sort-by",
	"query-sort-desc", "query-table", "tags", "template",
	"template-including-parent", "title", "todo", "updated-at",
}

var builtinProperties = func() map[string]struct{} {
	m := make(map[string]struct{}, len(builtinPropertyNames))
	for _, p := range builtinPropertyNames {
		m[p] = struct{}{}
	}
	return m
}()

// splitProperties divides property keys into built-in and user-defined.
func splitProperties(props []string) (builtins, user []string) {
	for _, p := range props {
		if _, ok := builtinProperties[p]; ok {
			builtins = append(builtins, p)
		} else {
			user = append(user, p)
		}
	}
	return builtins, user
}
