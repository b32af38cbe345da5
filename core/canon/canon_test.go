package canon

import "testing"

func TestBooksCount(t *testing.T) {
	books := Books()
	if len(books) != BookCount {
		t.Fatalf("Books() returned %d entries; want %d", len(books), BookCount)
	}
	if books[0].Name != "Genesis" {
		t.Errorf("first book = %q; want Genesis", books[0].Name)
	}
	if books[BookCount-1].Name != "Revelation" {
		t.Errorf("last book = %q; want Revelation", books[BookCount-1].Name)
	}
}

func TestChapterCount(t *testing.T) {
	tests := []struct {
		name  string
		want  int
		known bool
	}{
		{"Genesis", 50, true},
		{"Psalms", 150, true},
		{"Obadiah", 1, true},
		{"John", 21, true},
		{"Revelation", 22, true},
		{"Enoch", 0, false},
	}

	for _, tt := range tests {
		got, ok := ChapterCount(tt.name)
		if ok != tt.known {
			t.Errorf("ChapterCount(%q) known = %v; want %v", tt.name, ok, tt.known)
		}
		if got != tt.want {
			t.Errorf("ChapterCount(%q) = %d; want %d", tt.name, got, tt.want)
		}
	}
}

func TestNameByNumber(t *testing.T) {
	tests := []struct {
		n    int
		want string
		ok   bool
	}{
		{1, "Genesis", true},
		{19, "Psalms", true},
		{40, "Matthew", true},
		{43, "John", true},
		{66, "Revelation", true},
		{0, "", false},
		{67, "", false},
	}

	for _, tt := range tests {
		got, ok := NameByNumber(tt.n)
		if got != tt.want || ok != tt.ok {
			t.Errorf("NameByNumber(%d) = %q, %v; want %q, %v", tt.n, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIndexOf(t *testing.T) {
	if got := IndexOf("Genesis"); got != 0 {
		t.Errorf("IndexOf(Genesis) = %d; want 0", got)
	}
	if got := IndexOf("John"); got != 42 {
		t.Errorf("IndexOf(John) = %d; want 42", got)
	}
	if got := IndexOf("Enoch"); got != -1 {
		t.Errorf("IndexOf(Enoch) = %d; want -1", got)
	}
}
