// Package canon holds the static reference table of known document names and
// their canonical chapter counts (Protestant 66-book canon, KJV chapter
// divisions). The table is the fallback metadata source when no richer
// payload is available, and it fixes canonical document ordering.
package canon

// Book is one canon table entry.
type Book struct {
	Name     string
	Chapters int
}

// table is the canonical book order. Index+1 is the traditional 1..66 book
// number used by compact payload encodings.
var table = []Book{
	{"Genesis", 50}, {"Exodus", 40}, {"Leviticus", 27}, {"Numbers", 36},
	{"Deuteronomy", 34}, {"Joshua", 24}, {"Judges", 21}, {"Ruth", 4},
	{"1 Samuel", 31}, {"2 Samuel", 24}, {"1 Kings", 22}, {"2 Kings", 25},
	{"1 Chronicles", 29}, {"2 Chronicles", 36}, {"Ezra", 10},
	{"Nehemiah", 13}, {"Esther", 10}, {"Job", 42}, {"Psalms", 150},
	{"Proverbs", 31}, {"Ecclesiastes", 12}, {"Song of Solomon", 8},
	{"Isaiah", 66}, {"Jeremiah", 52}, {"Lamentations", 5}, {"Ezekiel", 48},
	{"Daniel", 12}, {"Hosea", 14}, {"Joel", 3}, {"Amos", 9},
	{"Obadiah", 1}, {"Jonah", 4}, {"Micah", 7}, {"Nahum", 3},
	{"Habakkuk", 3}, {"Zephaniah", 3}, {"Haggai", 2}, {"Zechariah", 14},
	{"Malachi", 4}, {"Matthew", 28}, {"Mark", 16}, {"Luke", 24},
	{"John", 21}, {"Acts", 28}, {"Romans", 16}, {"1 Corinthians", 16},
	{"2 Corinthians", 13}, {"Galatians", 6}, {"Ephesians", 6},
	{"Philippians", 4}, {"Colossians", 4}, {"1 Thessalonians", 5},
	{"2 Thessalonians", 3}, {"1 Timothy", 6}, {"2 Timothy", 4},
	{"Titus", 3}, {"Philemon", 1}, {"Hebrews", 13}, {"James", 5},
	{"1 Peter", 5}, {"2 Peter", 3}, {"1 John", 5}, {"2 John", 1},
	{"3 John", 1}, {"Jude", 1}, {"Revelation", 22},
}

// index maps canonical name to position in the table.
var index = func() map[string]int {
	m := make(map[string]int, len(table))
	for i, b := range table {
		m[b.Name] = i
	}
	return m
}()

// BookCount is the number of books in the canon table.
const BookCount = 66

// Books returns a copy of the canon table in canonical order.
func Books() []Book {
	out := make([]Book, len(table))
	copy(out, table)
	return out
}

// Names returns all canonical document names in canonical order.
func Names() []string {
	out := make([]string, len(table))
	for i, b := range table {
		out[i] = b.Name
	}
	return out
}

// ChapterCount returns the canonical chapter count for a document name.
// Returns 0, false if the name is not in the canon table.
func ChapterCount(name string) (int, bool) {
	i, ok := index[name]
	if !ok {
		return 0, false
	}
	return table[i].Chapters, true
}

// NameByNumber maps a traditional 1..66 book number to its canonical name.
func NameByNumber(n int) (string, bool) {
	if n < 1 || n > len(table) {
		return "", false
	}
	return table[n-1].Name, true
}

// IndexOf returns the canonical position of a document name, or -1 if the
// name is not in the canon table. Stores place unknown documents after all
// known ones.
func IndexOf(name string) int {
	if i, ok := index[name]; ok {
		return i
	}
	return -1
}
