package normalize

import (
	"testing"

	"github.com/FocuswithJustin/Lectern/core/errors"
	"github.com/FocuswithJustin/Lectern/core/verse"
)

const osisSample = `<?xml version="1.0" encoding="UTF-8"?>
<osis>
  <osisText osisIDWork="KJV">
    <div type="book" osisID="Gen">
      <chapter osisID="Gen.1">
        <verse osisID="Gen.1.1">In the beginning God created the heaven and the earth.</verse>
        <verse osisID="Gen.1.2">And the earth was without form, and void.</verse>
      </chapter>
    </div>
    <div type="book" osisID="John">
      <chapter osisID="John.3">
        <verse osisID="John.3.16">For God so loved the world.</verse>
        <verse osisID="NotABook.1.1">discarded</verse>
        <verse osisID="John.3">short id, discarded</verse>
      </chapter>
    </div>
  </osisText>
</osis>`

func TestBulkOSIS(t *testing.T) {
	// Bulk sniffs the leading '<' and routes to the OSIS handler itself.
	corpus, err := Bulk("test", []byte(osisSample))
	if err != nil {
		t.Fatalf("Bulk() error = %v", err)
	}

	if len(corpus.Documents) != 2 {
		t.Fatalf("Documents = %v; want [Genesis John]", corpus.Documents)
	}
	if corpus.Documents[0] != "Genesis" || corpus.Documents[1] != "John" {
		t.Errorf("Documents = %v; want [Genesis John]", corpus.Documents)
	}

	gen := corpus.Chapters[verse.ChapterKey{Document: "Genesis", Chapter: 1}]
	if len(gen) != 2 {
		t.Fatalf("Genesis 1 has %d verses; want 2", len(gen))
	}

	jn := corpus.Chapters[verse.ChapterKey{Document: "John", Chapter: 3}]
	if len(jn) != 1 || jn[0].Number != 16 {
		t.Fatalf("John 3 = %+v; want only verse 16", jn)
	}
	if corpus.Counts["John"] != 3 {
		t.Errorf("Counts[John] = %d; want 3", corpus.Counts["John"])
	}
}

func TestBulkOSISNoVerses(t *testing.T) {
	_, err := BulkOSIS("test", []byte(`<osis><osisText/></osis>`))
	if !errors.Is(err, errors.ErrEmptyPayload) {
		t.Errorf("BulkOSIS() error = %v; want ErrEmptyPayload", err)
	}
}

func TestSplitOSISID(t *testing.T) {
	tests := []struct {
		id       string
		wantName string
		wantCh   int
		wantV    int
		wantOK   bool
	}{
		{"Gen.1.1", "Genesis", 1, 1, true},
		{"Ps.23.1", "Psalms", 23, 1, true},
		{"Rev.22.21", "Revelation", 22, 21, true},
		{"Gen.1", "", 0, 0, false},
		{"Nope.1.1", "", 0, 0, false},
		{"Gen.x.1", "", 0, 0, false},
		{"Gen.0.1", "", 0, 0, false},
	}

	for _, tt := range tests {
		name, ch, v, ok := splitOSISID(tt.id)
		if name != tt.wantName || ch != tt.wantCh || v != tt.wantV || ok != tt.wantOK {
			t.Errorf("splitOSISID(%q) = %q, %d, %d, %v; want %q, %d, %d, %v",
				tt.id, name, ch, v, ok, tt.wantName, tt.wantCh, tt.wantV, tt.wantOK)
		}
	}
}
