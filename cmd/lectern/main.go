// Command lectern serves and queries a chapter-addressable scripture store.
// It ingests a corpus from the first working source (embedded payload, bulk
// remote payload, or canon metadata with lazy per-document fetch), answers
// full-text searches through an isolated search engine, and resolves
// free-text scripture references.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/Lectern/core/search"
	"github.com/FocuswithJustin/Lectern/core/store"
	"github.com/FocuswithJustin/Lectern/internal/api"
	"github.com/FocuswithJustin/Lectern/internal/embedded"
	"github.com/FocuswithJustin/Lectern/internal/fetch"
	"github.com/FocuswithJustin/Lectern/internal/logging"
	"github.com/FocuswithJustin/Lectern/internal/refparse"
	"github.com/FocuswithJustin/Lectern/internal/transport"
)

const version = "0.1.0"

// CLI defines the command-line interface for lectern.
var CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" help:"Log level (debug|info|warn|error)" default:"info" env:"LECTERN_LOG_LEVEL"`
	LogFormat string `name:"log-format" help:"Log format (text|json)" default:"text" env:"LECTERN_LOG_FORMAT"`
	BulkURL   string `name:"bulk-url" help:"URL of a single bulk corpus payload" env:"LECTERN_BULK_URL"`
	DocURL    string `name:"doc-url" help:"Per-document payload URL template; %s is replaced by the document name" env:"LECTERN_DOC_URL"`
	NoInline  bool   `name:"no-inline" help:"Skip the embedded sample corpus"`
	FromFile  string `name:"from-file" help:"Ingest a local bulk payload file instead of the embedded corpus" type:"path"`
	FromSnap  string `name:"from-snapshot" help:"Load a previously saved SQLite corpus snapshot instead of ingesting" type:"path"`

	Serve       ServeCmd       `cmd:"" help:"Start the HTTP API and search transport server"`
	Search      SearchCmd      `cmd:"" help:"Search the corpus from the command line"`
	Lookup      LookupCmd      `cmd:"" help:"Resolve a scripture reference and print its chapter"`
	IngestCheck IngestCheckCmd `cmd:"" name:"ingest-check" help:"Normalize a local payload and report shape diagnostics"`
	Snapshot    SnapshotCmd    `cmd:"" help:"Persist the normalized corpus to a SQLite snapshot"`
	Version     VersionCmd     `cmd:"" help:"Print version information"`
}

// buildStore assembles and initializes the document store from the global
// source flags.
func buildStore(ctx context.Context) (*store.Store, error) {
	if CLI.FromSnap != "" {
		return store.LoadSnapshot(ctx, CLI.FromSnap, 0)
	}

	cfg := store.Config{
		BulkURL: CLI.BulkURL,
	}

	if CLI.FromFile != "" {
		data, err := os.ReadFile(CLI.FromFile)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", CLI.FromFile, err)
		}
		cfg.Inline = data
	} else if !CLI.NoInline {
		cfg.Inline = embedded.Corpus()
	}

	if CLI.BulkURL != "" || CLI.DocURL != "" {
		cfg.Fetcher = fetch.New(30*time.Second, 15*time.Minute)
	}
	if CLI.DocURL != "" {
		template := CLI.DocURL
		cfg.DocumentURL = func(document string) string {
			return strings.ReplaceAll(template, "%s", document)
		}
	}

	st := store.New(cfg)
	st.Initialize(ctx)
	return st, nil
}

// ServeCmd starts the HTTP API and the WebSocket search transport.
type ServeCmd struct {
	Addr string `help:"Listen address" default:":8317" env:"LECTERN_ADDR"`
}

func (c *ServeCmd) Run() error {
	st, err := buildStore(context.Background())
	if err != nil {
		return err
	}
	return api.NewServer(api.Config{Addr: c.Addr, Version: version}, st).Start()
}

// SearchCmd runs one search session against the local store.
type SearchCmd struct {
	Query []string `arg:"" help:"Query tokens (up to 5 are used)"`
	Limit int      `help:"Maximum number of hits" default:"100"`
}

func (c *SearchCmd) Run() error {
	ctx := context.Background()
	st, err := buildStore(ctx)
	if err != nil {
		return err
	}

	client, stop := transport.NewLocalPair(ctx, st)
	defer stop()

	meta, err := client.Metadata(ctx)
	if err != nil {
		return err
	}

	engine := search.NewEngine(meta, client)
	hits, err := engine.Search(ctx, strings.Join(c.Query, " "), c.Limit)
	if err != nil {
		return err
	}

	for _, h := range hits {
		fmt.Printf("%s %d:%d  %s\n", h.Document, h.Chapter, h.Verse, h.Preview)
	}
	fmt.Printf("%d hit(s)\n", len(hits))
	return nil
}

// LookupCmd resolves a reference like "jn 3:16" and prints the chapter, or
// just the named verse when the reference carries one.
type LookupCmd struct {
	Reference []string `arg:"" help:"Scripture reference, e.g. 'John 3:16'"`
}

func (c *LookupCmd) Run() error {
	ctx := context.Background()
	st, err := buildStore(ctx)
	if err != nil {
		return err
	}

	ref, err := refparse.Parse(strings.Join(c.Reference, " "), st)
	if err != nil {
		return err
	}

	verses, err := st.GetChapter(ctx, ref.Document, ref.Chapter)
	if err != nil {
		return err
	}

	printed := 0
	for _, v := range verses {
		if ref.Verse != 0 && v.Number != ref.Verse {
			continue
		}
		marker := " "
		if v.ParagraphStart {
			marker = "¶"
		}
		fmt.Printf("%s %s %d:%d %s\n", marker, v.Document, v.Chapter, v.Number, v.Text)
		printed++
	}
	if printed == 0 {
		fmt.Printf("%s %d has no verse %d\n", ref.Document, ref.Chapter, ref.Verse)
	}
	return nil
}

// IngestCheckCmd normalizes a local payload and reports what the shape
// normalizer made of it.
type IngestCheckCmd struct {
	Path string `arg:"" help:"Path to a bulk payload file" type:"existingfile"`
}

func (c *IngestCheckCmd) Run() error {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", c.Path, err)
	}

	st := store.New(store.Config{Inline: data})
	st.Initialize(context.Background())
	if st.Mode() != store.ModeSingle {
		return fmt.Errorf("payload was not usable; see log for diagnostics")
	}

	meta := st.IndexMetadata()
	total := 0
	for i, doc := range meta.Documents {
		chapters := meta.ChapterCounts[i]
		count := 0
		for ch := 1; ch <= chapters; ch++ {
			vs, _ := st.GetChapter(context.Background(), doc, ch)
			count += len(vs)
		}
		fmt.Printf("%-20s %4d chapter(s) %6d verse(s)\n", doc, chapters, count)
		total += count
	}
	fmt.Printf("%d document(s), %d verse(s)\n", meta.Len(), total)
	return nil
}

// SnapshotCmd persists the normalized corpus to a SQLite snapshot file.
type SnapshotCmd struct {
	Out string `arg:"" help:"Output snapshot path" type:"path"`
}

func (c *SnapshotCmd) Run() error {
	ctx := context.Background()
	st, err := buildStore(ctx)
	if err != nil {
		return err
	}
	if err := st.SaveSnapshot(ctx, c.Out); err != nil {
		return err
	}
	meta := st.IndexMetadata()
	fmt.Printf("snapshot written to %s (%d documents)\n", c.Out, meta.Len())
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Printf("lectern %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("lectern"),
		kong.Description("Chapter-addressable scripture store with isolated lazy search."),
		kong.UsageOnError(),
	)

	logging.InitLogger(logging.ParseLevel(CLI.LogLevel), parseFormat(CLI.LogFormat))

	if err := ctx.Run(); err != nil {
		logging.Error("command failed", "error", err.Error())
		os.Exit(1)
	}
}

func parseFormat(name string) logging.Format {
	if name == "json" {
		return logging.FormatJSON
	}
	return logging.FormatText
}
