package google

import (
	"strings"
	"testing"
)

func TestFolderQueryEscaping(t *testing.T) {
	q := folderQuery("OpenCoder Submissions")
	if !strings.Contains(q, "name='OpenCoder Submissions'") {
		t.Fatalf("unexpected query: %q", q)
	}
	if !strings.Contains(q, "trashed=false") {
		t.Fatalf("query must exclude trashed folders: %q", q)
	}

	q = folderQuery(`Bob's "CS\101" notes`)
	if !strings.Contains(q, `name='Bob\'s "CS\\101" notes'`) {
		t.Fatalf("quotes and backslashes must be escaped: %q", q)
	}
}
