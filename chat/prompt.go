package chat

import (
	"fmt"
	"strings"

	"github.com/groundline/groundline/vectorstore"
)

// ApologyReply is returned when answer generation fails. The session stays
// usable and the next question starts fresh.
const ApologyReply = "I'm sorry, I ran into a problem answering that. Please try asking again."

// formatContext renders retrieved chunks into the context block handed to
// the generator, carrying provenance so answers can cite their sources.
func formatContext(matches []vectorstore.Match) string {
	if len(matches) == 0 {
		return "(no matching excerpts found)"
	}

	var b strings.Builder
	for i, match := range matches {
		p := match.Record.Payload
		fmt.Fprintf(&b, "Document %d (source %q, revision %s, part %d):\n%s\n",
			i+1, p.SourceName, p.Revision, p.Seq+1, p.Text)
		if p.Metadata.Theme != "" {
			fmt.Fprintf(&b, "Theme: %s\n", p.Metadata.Theme)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
