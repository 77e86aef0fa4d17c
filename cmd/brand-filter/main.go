package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"flag"
	"log"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/brandsift/internal/tsv"
	"github.com/cognicore/brandsift/pkg/brandsift"
	"github.com/cognicore/brandsift/pkg/brandsift/aggregate"
	"github.com/cognicore/brandsift/pkg/brandsift/config"
	"github.com/cognicore/brandsift/pkg/brandsift/curate"
	"github.com/cognicore/brandsift/pkg/brandsift/listing"
	"github.com/cognicore/brandsift/pkg/brandsift/refine"
	"github.com/cognicore/brandsift/pkg/brandsift/store"
	"github.com/cognicore/brandsift/pkg/brandsift/store/sqlite"
)

func main() {
	var (
		filterMode = flag.Bool("filter", false, "classify listings from stdin against the token dictionary")
		checkMode  = flag.Bool("checkwords", false, "count token dictionary buckets from stdin")
		ngMode     = flag.Bool("ng", false, "aggregate tokens with noise-word removal")
		updateMode = flag.Bool("update", false, "apply reviewed token verdicts to prediction rows")
		pickMode   = flag.Bool("pick", false, "merge resolved verdicts into UNKNOWN rows")
		refineMode = flag.Bool("refine", false, "refine verdicts by rancode group and catalogue")
		exportMode = flag.Bool("export", false, "export persisted token stats as dictionary rows")

		origShape = flag.Bool("orig", false, "input rows carry no prediction column")
		withIndex = flag.Bool("idx", false, "include index and category lists in token output")

		inputPath    = flag.String("f", "", "mode input file (token dictionary, noise words, review list, or predictions)")
		addPath      = flag.String("add", "", "manual override file for the token dictionary")
		pmPath       = flag.String("pm", "", "catalogue (product master) file")
		productBrand = flag.String("pbrand", "", "product brand name")
		makerBrand   = flag.String("cbrand", "", "company brand name")
		configPath   = flag.String("config", "", "YAML run configuration (flag values win)")
		dbPath       = flag.String("db", "", "sqlite database for persisting token stats (optional)")
		debug        = flag.Bool("debug", false, "verbose diagnostics")
	)
	flag.Parse()

	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatal("Failed to load config:", err)
		}
		// -f defaults to the path matching the selected mode
		if *inputPath == "" {
			if *ngMode {
				*inputPath = cfg.Paths.NGWords
			} else {
				*inputPath = cfg.Paths.Tokens
			}
		}
		applyConfig(cfg, addPath, pmPath, productBrand, makerBrand, dbPath, debug)
	}

	switch {
	case *filterMode:
		runFilter(*inputPath, *addPath, *debug)
	case *checkMode:
		if err := curate.CountTokens(os.Stdin, os.Stdout); err != nil {
			log.Fatal("checkwords:", err)
		}
	case *updateMode:
		runUpdate(*inputPath)
	case *pickMode:
		runPick(*inputPath)
	case *refineMode:
		runRefine(*pmPath, *makerBrand, *productBrand)
	case *exportMode:
		runExport(*dbPath)
	case *ngMode:
		runTokens("ng", *inputPath, listing.ShapePrediction, *withIndex, *dbPath)
	default:
		shape := listing.ShapePrediction
		mode := "tokens"
		if *origShape {
			shape = listing.ShapeGroundTruth
			mode = "tokens-orig"
		}
		runTokens(mode, "", shape, *withIndex, *dbPath)
	}
}

// applyConfig fills flags the command line left empty from the YAML run
// configuration.
func applyConfig(cfg *config.Config, addPath, pmPath, productBrand, makerBrand, dbPath *string, debug *bool) {
	if *addPath == "" {
		*addPath = cfg.Paths.Overrides
	}
	if *pmPath == "" {
		*pmPath = cfg.Paths.Catalogue
	}
	if *productBrand == "" {
		*productBrand = cfg.Target.Brand
	}
	if *makerBrand == "" {
		*makerBrand = cfg.Target.Maker
	}
	if *dbPath == "" {
		*dbPath = cfg.Paths.Store
	}
	if cfg.Debug {
		*debug = true
	}
}

// loadComponents degrades to empty dictionaries when a load fails; an empty
// dictionary is a valid, if degenerate, state for a batch re-run.
func loadComponents(loader config.Loader) *config.Components {
	comp, err := loader.Load()
	if err != nil {
		log.Printf("%v (continuing with empty dictionaries)", err)
		comp, _ = (&config.Loader{}).Load()
	}
	return comp
}

// runFilter classifies every listing row on stdin and emits the verdict,
// the original row, the evidence ratios, and the matched word lists.
func runFilter(tokensPath, overridesPath string, debug bool) {
	if tokensPath == "" {
		log.Fatal("-f (token dictionary) required for -filter")
	}

	comp := loadComponents(config.Loader{TokensPath: tokensPath, OverridesPath: overridesPath})
	if debug {
		t, f, c := comp.Tokens.Sizes()
		log.Printf("token dictionary: true=%d false=%d conflict=%d", t, f, c)
	}

	filter := brandsift.New(brandsift.Options{Tokens: comp.Tokens})

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	err := tsv.ForEachLine(os.Stdin, func(line string) error {
		rec, ok := listing.Parse(listing.ShapeGroundTruth, line)
		if !ok {
			return nil
		}
		d := filter.Judge(rec.PrimaryTitle, rec.SecondaryTitle)
		_, werr := out.WriteString(d.AppendLine(line) + "\n")
		return werr
	})
	if err != nil {
		log.Fatal("filter:", err)
	}
}

// runTokens aggregates per-token label statistics over the input stream and
// prints the token list. In ng mode titles pass through the noise-word
// pipeline first.
func runTokens(mode, ngPath string, shape listing.Shape, withIndex bool, dbPath string) {
	log.Printf("mode: %s", mode)

	comp := loadComponents(config.Loader{NGWordsPath: ngPath})
	if ngPath != "" {
		log.Printf("noise words: %d", comp.NGLoaded)
	}

	start := time.Now()
	reporter := aggregate.NewReporter()
	var records int64

	err := tsv.ForEachLine(os.Stdin, func(line string) error {
		rec, ok := listing.Parse(shape, line)
		if !ok {
			return nil
		}
		title := rec.UsableTitle()
		if ngPath != "" {
			title = comp.NGWords.Normalize(listing.CleanTitle(title))
		}
		reporter.Process(rec.Prediction, rec.Index, rec.Category, title)
		records++
		return nil
	})
	if err != nil {
		log.Fatal("tokens:", err)
	}

	if err := reporter.WriteTokenList(os.Stdout, withIndex); err != nil {
		log.Fatal("write token list:", err)
	}
	log.Printf("records: %d, tokens: %d", records, reporter.Tokens())

	if dbPath != "" {
		persistRun(dbPath, mode, records, start, reporter)
	}
}

// persistRun saves the aggregated token stats and a run record so dictionary
// drift can be audited between batches.
func persistRun(dbPath, mode string, records int64, start time.Time, reporter *aggregate.Reporter) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	stats := reporter.TokenStats()
	for _, s := range stats {
		err := db.UpsertTokenStat(ctx, store.TokenStat{
			Token:     s.Token,
			TrueFreq:  s.TrueFreq,
			FalseFreq: s.FalseFreq,
		})
		if err != nil {
			log.Fatal("Failed to persist token stat:", err)
		}
	}

	run := store.Run{
		ID:        ulid.MustNew(ulid.Now(), ulid.Monotonic(rand.Reader, 0)).String(),
		Mode:      mode,
		Records:   records,
		Tokens:    int64(len(stats)),
		StartedAt: start,
	}
	if err := db.RecordRun(ctx, run); err != nil {
		log.Fatal("Failed to record run:", err)
	}
	log.Printf("run %s: persisted %d token stats", run.ID, len(stats))
}

// stdoutTokenList adapts stdout to the exporter's writer interface.
type stdoutTokenList struct{}

func (stdoutTokenList) WriteTokenList(ctx context.Context, content string) error {
	_, err := os.Stdout.WriteString(content)
	return err
}

// runExport dumps the persisted token statistics as dictionary rows the
// -filter mode can load.
func runExport(dbPath string) {
	if dbPath == "" {
		log.Fatal("-db required for -export")
	}
	ctx := context.Background()
	db, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer db.Close()

	stats, err := db.AllTokenStats(ctx)
	if err != nil {
		log.Fatal("Failed to read token stats:", err)
	}
	e := &curate.Exporter{Writer: stdoutTokenList{}}
	if err := e.Export(ctx, stats); err != nil {
		log.Fatal("export:", err)
	}
	log.Printf("exported %d token stats", len(stats))
}

// runUpdate rewrites prediction rows on stdin using a reviewed token list.
func runUpdate(reviewPath string) {
	if reviewPath == "" {
		log.Fatal("-f (reviewed token list) required for -update")
	}
	f, err := os.Open(reviewPath)
	if err != nil {
		log.Fatal("Failed to open review file:", err)
	}
	updates, err := curate.LoadReview(f)
	f.Close()
	if err != nil {
		log.Fatal("Failed to load review file:", err)
	}
	log.Printf("review updates: %d", len(updates))

	if err := curate.ApplyReview(updates, os.Stdin, os.Stdout); err != nil {
		log.Fatal("update:", err)
	}
}

// runPick resolves UNKNOWN rows on stdin against a verdict file.
func runPick(predsPath string) {
	if predsPath == "" {
		log.Fatal("-f (predictions) required for -pick")
	}
	f, err := os.Open(predsPath)
	if err != nil {
		log.Fatal("Failed to open predictions:", err)
	}
	preds, err := curate.LoadPredictions(f)
	f.Close()
	if err != nil {
		log.Fatal("Failed to load predictions:", err)
	}
	log.Printf("resolved verdicts: %d", len(preds))

	if err := curate.PickResolved(preds, os.Stdin, os.Stdout); err != nil {
		log.Fatal("pick:", err)
	}
}

// runRefine revises verdicts by rancode group majority and catalogue brand
// matching.
func runRefine(pmPath, makerBrand, productBrand string) {
	if pmPath == "" {
		log.Fatal("-pm (catalogue) required for -refine")
	}

	comp := loadComponents(config.Loader{CataloguePath: pmPath})
	log.Printf("catalogue companies: %d", comp.Catalogue.Companies())
	log.Printf("C_brand: %s / P_brand: %s", makerBrand, productBrand)

	r := refine.New(comp.Catalogue, makerBrand, productBrand)
	err := tsv.ForEachLine(os.Stdin, func(line string) error {
		r.Observe(line)
		return nil
	})
	if err != nil {
		log.Fatal("refine:", err)
	}
	r.Decide()
	log.Printf("rancode size: %d", r.Groups())
	log.Printf("size_line: %d", r.Buffered())

	if err := r.Refine(os.Stdout); err != nil {
		log.Fatal("refine:", err)
	}
}
