// Command tracedb-inspect loads one or more .wtf-json recordings into
// a trace event database, optionally runs a query, and dumps
// statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mvijayanand/tracing-framework/internal/config"
	"github.com/mvijayanand/tracing-framework/internal/query"
	"github.com/mvijayanand/tracing-framework/internal/snapshot"
	"github.com/mvijayanand/tracing-framework/internal/source"
	"github.com/mvijayanand/tracing-framework/internal/stats"
	"github.com/mvijayanand/tracing-framework/internal/tracedb"
	"github.com/mvijayanand/tracing-framework/pkg/tracetypes"
)

type cliConfig struct {
	tracePaths  stringList
	configPath  string
	querySrc    string
	showStats   bool
	sortMode    string
	snapshotDir string
}

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	cli := parseFlags()

	cfg := config.DefaultConfig()
	if cli.configPath != "" {
		var err error
		cfg, err = config.LoadFromFile(cli.configPath)
		if err != nil {
			log.Fatalf("tracedb-inspect: load config: %v", err)
		}
	}
	config.LoadFromEnv(cfg, ".env")
	cfg.Resolve()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("tracedb-inspect: invalid config: %v", err)
	}

	if len(cli.tracePaths) == 0 {
		log.Fatalf("tracedb-inspect: at least one -trace path is required")
	}

	db := tracedb.New()
	for _, path := range cli.tracePaths {
		if err := loadTrace(db, path); err != nil {
			log.Fatalf("tracedb-inspect: load %s: %v", path, err)
		}
	}
	if err := db.Commit(); err != nil {
		log.Printf("tracedb-inspect: commit reported a zone failure: %v", err)
	}

	if cli.querySrc != "" {
		runQuery(db, cli.querySrc)
	}
	if cli.showStats {
		runStats(db, cli.sortMode)
	}
	if cli.snapshotDir != "" {
		writeSnapshots(db, cli.snapshotDir)
	}
	if cfg.Snapshot.S3.Enabled {
		archiveToS3(db, cfg)
	}
}

func parseFlags() cliConfig {
	var cli cliConfig
	flag.Var(&cli.tracePaths, "trace", "path to a .wtf-json recording (repeatable)")
	flag.StringVar(&cli.configPath, "config", "", "path to a YAML/JSON config file")
	flag.StringVar(&cli.querySrc, "query", "", "query expression (substring, /regex/, or path/like/query)")
	flag.BoolVar(&cli.showStats, "stats", false, "dump the statistics aggregator after loading")
	flag.StringVar(&cli.sortMode, "sort", "count", "statistics sort mode: count, total_time, mean_time")
	flag.StringVar(&cli.snapshotDir, "snapshot-dir", "", "write a local snapshot of every zone to this directory")
	flag.Parse()
	return cli
}

func loadTrace(db *tracedb.Database, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	src := source.NewJSONSource()
	if err := src.Initialize(db, source.ContextInfo{Name: path}, 0, nil, 0, 0); err != nil {
		return err
	}
	return src.Load(f)
}

func runQuery(db *tracedb.Database, src string) {
	eng := query.NewEngine(db)
	res, err := eng.Run(src)
	if err != nil {
		log.Fatalf("tracedb-inspect: query %q: %v", src, err)
	}
	fmt.Printf("# query %q matched %d events in %s\n", res.Expr.String(), res.Count(), res.Elapsed)
	if err := res.Dump(os.Stdout, query.FormatCSV); err != nil {
		log.Fatalf("tracedb-inspect: dump results: %v", err)
	}
}

func runStats(db *tracedb.Database, sortMode string) {
	mode := parseSortMode(sortMode)

	zones := db.Zones()
	var startMs, endMs int64
	for i, z := range zones {
		first, last := z.Store.FirstTimeMs(), z.Store.LastTimeMs()
		if i == 0 || first < startMs {
			startMs = first
		}
		if i == 0 || last > endMs {
			endMs = last
		}
	}

	agg := stats.New()
	agg.Rebuild(zones, startMs, endMs, nil)

	fmt.Printf("# %-32s %8s %10s %10s\n", "type", "count", "total_ms", "mean_ms")
	agg.ForEach(mode, func(e *stats.Entry) {
		fmt.Printf("%-34s %8d %10.2f %10.2f\n", e.TypeName, e.Count, e.TotalTimeMs(), e.MeanTimeMs())
	})
}

func parseSortMode(s string) tracetypes.SortMode {
	switch s {
	case "total_time":
		return tracetypes.SortByTotalTime
	case "mean_time":
		return tracetypes.SortByMeanTime
	default:
		return tracetypes.SortByCount
	}
}

func writeSnapshots(db *tracedb.Database, dir string) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("tracedb-inspect: create snapshot dir: %v", err)
	}
	local := snapshot.NewLocal()
	for _, z := range db.Zones() {
		buf, err := local.Snapshot(z)
		if err != nil {
			log.Printf("tracedb-inspect: snapshot zone %q: %v", z.Name, err)
			continue
		}
		path := dir + "/" + z.Name + tracetypes.FileExtensionWTFTrace
		if err := os.WriteFile(path, buf.Bytes, 0644); err != nil {
			log.Printf("tracedb-inspect: write %s: %v", path, err)
			continue
		}
		log.Printf("tracedb-inspect: wrote %s (%s, %d bytes)", path, buf.MimeType, len(buf.Bytes))
	}
}

func archiveToS3(db *tracedb.Database, cfg *config.Config) {
	ctx := context.Background()
	archiver, err := snapshot.NewS3Archiver(ctx, snapshot.S3Config{
		Enabled:      cfg.Snapshot.S3.Enabled,
		Bucket:       cfg.Snapshot.S3.Bucket,
		Region:       cfg.Snapshot.S3.Region,
		Endpoint:     cfg.Snapshot.S3.Endpoint,
		UsePathStyle: cfg.Snapshot.S3.UsePathStyle,
		Prefix:       cfg.Snapshot.S3.Prefix,
	})
	if err != nil {
		log.Printf("tracedb-inspect: s3 archiver unavailable: %v", err)
		return
	}
	for _, z := range db.Zones() {
		// Best-effort mirror; a failed upload never blocks the run.
		if err := archiver.Archive(ctx, z); err != nil {
			log.Printf("tracedb-inspect: %v", err)
		}
	}
}
