package normalize

import (
	"testing"

	"github.com/FocuswithJustin/Lectern/core/errors"
	"github.com/FocuswithJustin/Lectern/core/verse"
)

func TestBulkRecordList(t *testing.T) {
	data := []byte(`[
		{"book_name": "Genesis", "chapter": 1, "verse": 2, "text": "second"},
		{"book_name": "Genesis", "chapter": 1, "verse": 1, "text": "first"}
	]`)

	corpus, err := Bulk("test", data)
	if err != nil {
		t.Fatalf("Bulk() error = %v", err)
	}

	if len(corpus.Documents) != 1 || corpus.Documents[0] != "Genesis" {
		t.Fatalf("Documents = %v; want [Genesis]", corpus.Documents)
	}
	if corpus.Counts["Genesis"] != 1 {
		t.Errorf("Counts[Genesis] = %d; want 1", corpus.Counts["Genesis"])
	}

	vs := corpus.Chapters[verse.ChapterKey{Document: "Genesis", Chapter: 1}]
	if len(vs) != 2 {
		t.Fatalf("chapter has %d verses; want 2", len(vs))
	}
	if vs[0].Number != 1 || vs[0].Text != "first" {
		t.Errorf("verses not sorted: first = %+v", vs[0])
	}
}

func TestBulkKeyedList(t *testing.T) {
	data := []byte(`{"verses": [
		{"book": "John", "chapter": 3, "verse": 16, "text": "For God so loved"}
	]}`)

	corpus, err := Bulk("test", data)
	if err != nil {
		t.Fatalf("Bulk() error = %v", err)
	}

	vs := corpus.Chapters[verse.ChapterKey{Document: "John", Chapter: 3}]
	if len(vs) != 1 || vs[0].Number != 16 {
		t.Fatalf("chapter = %+v; want one verse numbered 16", vs)
	}
	if corpus.Counts["John"] != 3 {
		t.Errorf("Counts[John] = %d; want 3", corpus.Counts["John"])
	}
}

func TestBulkNumericAliases(t *testing.T) {
	// Terse dumps address books by traditional number and use one-letter
	// field names. b=1 is Genesis.
	data := []byte(`[
		{"b": 1, "c": 1, "v": 1, "t": "In the beginning"}
	]`)

	corpus, err := Bulk("test", data)
	if err != nil {
		t.Fatalf("Bulk() error = %v", err)
	}
	if len(corpus.Documents) != 1 || corpus.Documents[0] != "Genesis" {
		t.Fatalf("Documents = %v; want [Genesis]", corpus.Documents)
	}
	vs := corpus.Chapters[verse.ChapterKey{Document: "Genesis", Chapter: 1}]
	if len(vs) != 1 || vs[0].Text != "In the beginning" {
		t.Errorf("chapter = %+v; want one verse", vs)
	}
}

func TestBulkConcatenatedShape(t *testing.T) {
	// No recognized container key: every sequence-valued field is used.
	data := []byte(`{
		"old": [{"book": "Genesis", "chapter": 1, "verse": 1, "text": "a"}],
		"new": [{"book": "John", "chapter": 1, "verse": 1, "text": "b"}]
	}`)

	corpus, err := Bulk("test", data)
	if err != nil {
		t.Fatalf("Bulk() error = %v", err)
	}
	if len(corpus.Documents) != 2 {
		t.Fatalf("Documents = %v; want 2 entries", corpus.Documents)
	}
	// Canonical ordering, not encounter ordering.
	if corpus.Documents[0] != "Genesis" || corpus.Documents[1] != "John" {
		t.Errorf("Documents = %v; want [Genesis John]", corpus.Documents)
	}
}

func TestBulkDocumentOrdering(t *testing.T) {
	data := []byte(`[
		{"book": "Apocrypha of Testing", "chapter": 1, "verse": 1, "text": "x"},
		{"book": "Revelation", "chapter": 1, "verse": 1, "text": "y"},
		{"book": "Genesis", "chapter": 1, "verse": 1, "text": "z"}
	]`)

	corpus, err := Bulk("test", data)
	if err != nil {
		t.Fatalf("Bulk() error = %v", err)
	}

	want := []string{"Genesis", "Revelation", "Apocrypha of Testing"}
	if len(corpus.Documents) != len(want) {
		t.Fatalf("Documents = %v; want %v", corpus.Documents, want)
	}
	for i, name := range want {
		if corpus.Documents[i] != name {
			t.Errorf("Documents[%d] = %q; want %q", i, corpus.Documents[i], name)
		}
	}
}

func TestBulkDiscardsBadRecords(t *testing.T) {
	data := []byte(`[
		{"book": "Genesis", "chapter": 1, "verse": 1, "text": "kept"},
		{"chapter": 1, "verse": 2, "text": "no document"},
		{"book": "Genesis", "chapter": 0, "verse": 3, "text": "bad chapter"},
		{"book": "Genesis", "chapter": 1.5, "verse": 4, "text": "fractional"},
		{"book": "Genesis", "chapter": 1, "verse": 5}
	]`)

	corpus, err := Bulk("test", data)
	if err != nil {
		t.Fatalf("Bulk() error = %v", err)
	}
	vs := corpus.Chapters[verse.ChapterKey{Document: "Genesis", Chapter: 1}]
	if len(vs) != 1 || vs[0].Text != "kept" {
		t.Errorf("surviving verses = %+v; want only the first record", vs)
	}
}

func TestBulkDiagnostics(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr error
		wantMsg string
	}{
		{
			name:    "malformed JSON",
			data:    `{not json`,
			wantErr: errors.ErrMalformedPayload,
		},
		{
			name:    "scalar payload",
			data:    `42`,
			wantErr: errors.ErrEmptyPayload,
			wantMsg: "no usable rows",
		},
		{
			name:    "empty list",
			data:    `[]`,
			wantErr: errors.ErrEmptyPayload,
			wantMsg: "no usable rows",
		},
		{
			name:    "object with no sequences",
			data:    `{"meta": "only"}`,
			wantErr: errors.ErrEmptyPayload,
			wantMsg: "no usable rows",
		},
		{
			name:    "recognized text field but nothing mapped",
			data:    `[{"text": "words", "page": 1, "line": 2}]`,
			wantErr: errors.ErrEmptyPayload,
			wantMsg: "rows used unrecognized field names",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bulk("test", []byte(tt.data))
			if err == nil {
				t.Fatal("Bulk() error = nil; want error")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Bulk() error = %v; want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" {
				var pe *errors.PayloadError
				if !errors.As(err, &pe) {
					t.Fatalf("Bulk() error %v is not a PayloadError", err)
				}
				if pe.Message != tt.wantMsg {
					t.Errorf("diagnostic = %q; want %q", pe.Message, tt.wantMsg)
				}
			}
		})
	}
}

func TestBulkParagraphMarkers(t *testing.T) {
	data := []byte(`[
		{"book": "John", "chapter": 3, "verse": 16, "text": "¶ For God so loved the world"},
		{"book": "John", "chapter": 3, "verse": 17, "text": "For God sent not his Son"}
	]`)

	corpus, err := Bulk("test", data)
	if err != nil {
		t.Fatalf("Bulk() error = %v", err)
	}

	vs := corpus.Chapters[verse.ChapterKey{Document: "John", Chapter: 3}]
	if len(vs) != 2 {
		t.Fatalf("chapter has %d verses; want 2", len(vs))
	}
	if !vs[0].ParagraphStart || vs[0].Text != "For God so loved the world" {
		t.Errorf("vs[0] = %+v; want pilcrow stripped and ParagraphStart set", vs[0])
	}
	if vs[1].ParagraphStart {
		t.Errorf("vs[1].ParagraphStart = true; want false")
	}
}

func TestSortChapterDedupes(t *testing.T) {
	vs := []verse.Verse{
		{Number: 3, Text: "three"},
		{Number: 1, Text: "one"},
		{Number: 3, Text: "three again"},
		{Number: 7, Text: "seven"},
	}

	got := SortChapter(vs)
	if len(got) != 3 {
		t.Fatalf("SortChapter() kept %d verses; want 3", len(got))
	}
	wantNums := []int{1, 3, 7}
	for i, n := range wantNums {
		if got[i].Number != n {
			t.Errorf("got[%d].Number = %d; want %d", i, got[i].Number, n)
		}
	}
	// Duplicate keeps the first occurrence in sorted order.
	if got[1].Text != "three" {
		t.Errorf("duplicate resolution kept %q; want %q", got[1].Text, "three")
	}
}

func TestStripMarkers(t *testing.T) {
	tests := []struct {
		in       string
		want     string
		wantPara bool
	}{
		{"In the beginning", "In the beginning", false},
		{"¶ In the beginning", "In the beginning", true},
		{"¶In the beginning", "In the beginning", true},
		{"# The Creation", "The Creation", true},
		{"## Doubled", "Doubled", true},
		{"¶ # Both markers", "Both markers", true},
		{"  padded  ", "padded", false},
	}

	for _, tt := range tests {
		got, para := stripMarkers(tt.in)
		if got != tt.want || para != tt.wantPara {
			t.Errorf("stripMarkers(%q) = %q, %v; want %q, %v",
				tt.in, got, para, tt.want, tt.wantPara)
		}
	}
}
