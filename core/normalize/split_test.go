package normalize

import (
	"testing"

	"github.com/FocuswithJustin/Lectern/core/errors"
)

func TestDocumentChapterObjects(t *testing.T) {
	data := []byte(`{"chapters": [
		{"chapter": 1, "verses": [
			{"verse": 2, "text": "second"},
			{"verse": 1, "text": "first", "header": "The Creation"}
		]},
		{"chapter": 2, "verses": [
			{"verse": 1, "text": "¶ new paragraph"}
		]}
	]}`)

	dc, err := Document("Genesis", data, 0)
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if dc.Count != 2 {
		t.Errorf("Count = %d; want 2", dc.Count)
	}

	ch1 := dc.Chapters[1]
	if len(ch1) != 2 || ch1[0].Number != 1 {
		t.Fatalf("chapter 1 = %+v; want two sorted verses", ch1)
	}
	if !ch1[0].ParagraphStart {
		t.Errorf("verse with header should open a paragraph")
	}
	if ch1[1].ParagraphStart {
		t.Errorf("plain verse should not open a paragraph")
	}

	ch2 := dc.Chapters[2]
	if len(ch2) != 1 || !ch2[0].ParagraphStart || ch2[0].Text != "new paragraph" {
		t.Errorf("chapter 2 = %+v; want pilcrow stripped and paragraph set", ch2)
	}
}

func TestDocumentKeyedChapters(t *testing.T) {
	data := []byte(`{
		"1": {"1": "alpha", "2": "beta"},
		"2": {"1": "gamma"},
		"meta": {"translator": "anonymous"}
	}`)

	dc, err := Document("John", data, 0)
	if err != nil {
		t.Fatalf("Document() error = %v", err)
	}
	if dc.Count != 2 {
		t.Errorf("Count = %d; want 2 (non-numeric keys are metadata)", dc.Count)
	}
	if len(dc.Chapters[1]) != 2 || dc.Chapters[1][0].Text != "alpha" {
		t.Errorf("chapter 1 = %+v", dc.Chapters[1])
	}
	if dc.Chapters[1][0].Document != "John" {
		t.Errorf("Document = %q; want John", dc.Chapters[1][0].Document)
	}
}

func TestDocumentCountFallbacks(t *testing.T) {
	tests := []struct {
		name       string
		data       string
		knownCount int
		want       int
	}{
		{"declared count field", `{"chapter_count": 50}`, 0, 50},
		{"known count on record", `{"meta": "only"}`, 21, 21},
		{"nothing known", `{"meta": "only"}`, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dc, err := Document("Test", []byte(tt.data), tt.knownCount)
			if err != nil {
				t.Fatalf("Document() error = %v", err)
			}
			if dc.Count != tt.want {
				t.Errorf("Count = %d; want %d", dc.Count, tt.want)
			}
			if len(dc.Chapters) != 0 {
				t.Errorf("Chapters = %v; want empty", dc.Chapters)
			}
		})
	}
}

func TestDocumentMalformed(t *testing.T) {
	_, err := Document("Genesis", []byte(`{broken`), 0)
	if !errors.Is(err, errors.ErrMalformedPayload) {
		t.Errorf("Document() error = %v; want ErrMalformedPayload", err)
	}
}
