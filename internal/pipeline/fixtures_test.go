package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sittingXML = `<?xml version="1.0" encoding="UTF-8"?>
<publicwhip>
<member id="uk.org.publicwhip/member/42" house="representatives" firstname="Jane" lastname="Doe" division="Sydney" party="ALP" fromdate="1998-10-03" fromwhy="general_election" todate="9999-12-31" towhy="still_in_office"/>
<major-heading id="uk.org.publicwhip/debate/2001-03-15.1.1">BUDGET</major-heading>
<speech id="uk.org.publicwhip/debate/2001-03-15.12.1" speakername="Jane Doe" speakerid="uk.org.publicwhip/member/42" time="09:31" approximate_duration="120">
<p>Mr Speaker, I rise today.</p>
<p>The <i>budget</i> is late.</p>
<p>   </p>
<p>Thank you.</p>
</speech>
<speech id="uk.org.publicwhip/debate/2001-03-15.12.2" speakerid="uk.org.publicwhip/member/42">
<p>Nobody said this.</p>
</speech>
</publicwhip>
`

func speechXML(id, speakerName, speakerID, body string) string {
	return `<speech id="uk.org.publicwhip/debate/` + id + `" speakername="` + speakerName + `" speakerid="` + speakerID + `">` + body + `</speech>`
}

func wrapXML(elements ...string) string {
	out := `<?xml version="1.0" encoding="UTF-8"?>` + "\n<publicwhip>\n"
	for _, e := range elements {
		out += e + "\n"
	}
	return out + "</publicwhip>\n"
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// transcriptDir writes a few sittings with one speech each, plus noise.
func transcriptDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "2001-03-15.xml", sittingXML)
	writeFile(t, dir, "2001-03-14.xml", wrapXML(
		speechXML("2001-03-14.3.1", "John Roe", "uk.org.publicwhip/member/7", "<p>First day.</p>"),
		speechXML("2001-03-14.3.2", "Jane Doe", "uk.org.publicwhip/member/42", "<p>Also first.</p>"),
	))
	writeFile(t, dir, "2001-03-16.xml", wrapXML(
		speechXML("2001-03-16.4.1", "John Roe", "unknown", "<p>Unknown speaker.</p>"),
		speechXML("2001-03-16.4.2", "Ann Poe", "uk.org.publicwhip/member/9", "<p>Last day.</p>"),
	))
	writeFile(t, dir, "notes.txt", "not a transcript")
	return dir
}
