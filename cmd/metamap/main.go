package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/dnswlt/metamap/internal/beans"
	"github.com/dnswlt/metamap/internal/catalog"
	"github.com/dnswlt/metamap/internal/config"
	"github.com/dnswlt/metamap/internal/convert"
	"github.com/dnswlt/metamap/internal/converters"
	"github.com/dnswlt/metamap/internal/gitclient"
	"github.com/dnswlt/metamap/internal/instance"
	"github.com/dnswlt/metamap/internal/report"
	"github.com/dnswlt/metamap/internal/store"
	"github.com/dnswlt/metamap/internal/typedef"
	"github.com/peterbourgon/ff/v3"
	"gopkg.in/yaml.v3"
)

var (
	// Version is the application version.
	// It is set at build time via -ldflags "-X main.Version=...".
	Version = "dev"
)

const commands = "decode, check, export, types, version"

func gitClientAuthFromEnv() *gitclient.Auth {
	user := os.Getenv("METAMAP_GIT_USER")
	if user == "" {
		return nil
	}
	pass := os.Getenv("METAMAP_GIT_PASSWORD")
	return &gitclient.Auth{
		Username: user,
		Password: pass,
	}
}

// Options contains program options that can be set via command-line flags or environment variables.
type Options struct {
	RootDir    string
	GitURL     string
	GitRef     string
	GitDir     string
	ConfigFile string
	ArchiveDir string
	Types      string
	Filter     string
	Workers    int
	Verbose    bool
}

func (opts *Options) register(fs *flag.FlagSet) {
	fs.StringVar(&opts.RootDir, "root-dir", ".", "Root directory of the local data store")
	fs.StringVar(&opts.GitURL, "git-url", "", "URL of the git repository to use as the data store")
	fs.StringVar(&opts.GitRef, "git-ref", "", "Git ref (branch or tag) to read from. Defaults to the default branch.")
	fs.StringVar(&opts.GitDir, "git-dir", "", "Directory in the git repository that all other paths are relative to")
	fs.StringVar(&opts.ConfigFile, "config", "", "Path to the configuration YAML file (relative to git root or local -root-dir)")
	fs.StringVar(&opts.ArchiveDir, "archive-dir", "", "Path to the archive directory containing YAML files. Overrides the configuration.")
	fs.StringVar(&opts.Types, "types", "", "Comma-separated type definition files or directories, in addition to the configured ones")
	fs.StringVar(&opts.Filter, "filter", "", "CEL expression selecting the entities to process. Overrides the configuration.")
	fs.IntVar(&opts.Workers, "workers", 0, "Max. number of entities decoded concurrently (0: number of CPUs)")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Log the relationships that derived fields are computed from")
}

func parseFlags(fs *flag.FlagSet, args []string) {
	err := ff.Parse(fs, args, ff.WithEnvVarPrefix("METAMAP"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		os.Exit(1)
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "Unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		os.Exit(1)
	}
}

func main() {
	if len(os.Args) < 2 {
		runDecode(nil)
		return
	}

	switch os.Args[1] {
	case "decode":
		runDecode(os.Args[2:])
	case "check":
		runCheck(os.Args[2:])
	case "export":
		runExport(os.Args[2:])
	case "types":
		runTypes(os.Args[2:])
	case "version":
		fmt.Println(Version)
	default:
		if strings.HasPrefix(os.Args[1], "-") {
			runDecode(os.Args[1:])
			return
		}
		fmt.Fprintf(os.Stderr, "Unknown command %q. Available commands: %s\n", os.Args[1], commands)
		os.Exit(1)
	}
}

// workspace is everything loaded from the store that the commands operate on.
type workspace struct {
	bundle  *config.Bundle
	mapper  *convert.Mapper
	archive *instance.Archive
	kinds   []string
}

func (w *workspace) decode(ctx context.Context, workers int) []*catalog.Item {
	items, err := catalog.Decode(ctx, w.mapper, w.archive, catalog.Options{
		Kinds:   w.kinds,
		Filter:  w.bundle.CompiledFilter(),
		Workers: workers,
	})
	if err != nil {
		log.Fatalf("Failed to decode archive: %v", err)
	}
	log.Printf("Decoded %d of %d entities", len(items), len(w.archive.Entities))
	return items
}

func createStore(opts Options) store.Source {
	if opts.GitURL != "" {
		auth := gitClientAuthFromEnv()
		log.Printf("Retrieving archive from git URL %s", opts.GitURL)
		client, err := gitclient.New(opts.GitURL, auth)
		if err != nil {
			log.Fatalf("Failed to retrieve git repo: %v", err)
		}
		ref := opts.GitRef
		if ref == "" {
			ref, err = client.DefaultBranch()
			if err != nil {
				log.Fatalf("No git-ref specified and no default branch found: %v", err)
			}
			log.Printf("Using default git branch %q", ref)
		}
		return store.NewGitSource(client, ref, opts.GitDir)
	} else if opts.RootDir != "" {
		log.Printf("Using local store at %s", opts.RootDir)
		return store.NewDiskStore(opts.RootDir)
	} else {
		log.Fatalf("Neither -root-dir nor -git-url specified")
		return nil
	}
}

func loadConfig(st store.Store, opts Options) *config.Bundle {
	bundle := config.Default()
	if opts.ConfigFile != "" {
		var err error
		bundle, err = config.Load(st, opts.ConfigFile)
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	if opts.ArchiveDir != "" {
		bundle.Archive.Dir = opts.ArchiveDir
	}
	if opts.Types != "" {
		for _, t := range strings.Split(opts.Types, ",") {
			if t = strings.TrimSpace(t); t != "" {
				bundle.Archive.Types = append(bundle.Archive.Types, t)
			}
		}
	}
	if opts.Filter != "" {
		if err := bundle.SetFilter(opts.Filter); err != nil {
			log.Fatalf("Invalid -filter: %v", err)
		}
	}
	return bundle
}

func loadTypes(st store.Store, bundle *config.Bundle) *typedef.Registry {
	types := typedef.Default()
	if err := store.LoadTypes(st, types, bundle.Archive.Types...); err != nil {
		log.Fatalf("Failed to load type definitions: %v", err)
	}
	return types
}

func newMapper(types *typedef.Registry, verbose bool) *convert.Mapper {
	var logger *log.Logger
	if verbose {
		logger = log.New(os.Stderr, "mapper: ", log.LstdFlags)
	}
	m, err := converters.NewMapper(types, logger)
	if err != nil {
		log.Fatalf("Failed to create mapper: %v", err)
	}
	return m
}

func loadWorkspace(opts Options) *workspace {
	src := createStore(opts)
	st, err := src.Store("")
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	bundle := loadConfig(st, opts)
	m := newMapper(loadTypes(st, bundle), opts.Verbose)
	kinds, err := bundle.SelectKinds(m.Kinds())
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	a, err := store.LoadArchive(st, bundle.Archive.Dir)
	if err != nil {
		log.Fatalf("Failed to load archive: %v", err)
	}
	log.Printf("Read %d instances from %s", a.Size(), bundle.Archive.Dir)
	return &workspace{
		bundle:  bundle,
		mapper:  m,
		archive: a,
		kinds:   kinds,
	}
}

// createOutput returns the writer for path, or stdout if path is empty.
func createOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

type beanDoc struct {
	Kind string     `yaml:"kind"`
	Bean beans.Bean `yaml:"bean"`
}

func writeBeans(w io.Writer, items []*catalog.Item) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(instance.YAMLIndent)
	for _, it := range items {
		if err := enc.Encode(beanDoc{Kind: it.Kind, Bean: it.Bean}); err != nil {
			return fmt.Errorf("failed to encode bean %s: %v", it.Entity.GUID, err)
		}
	}
	return enc.Close()
}

func writeReport(w io.Writer, bundle *config.Bundle, items []*catalog.Item, format string) error {
	r := report.New(bundle.Report.Title, bundle.Report.Columns)
	for _, it := range items {
		r.Add(it.Kind, it.Entity.GUID, it.Entity.TypeName(), it.Entity.Properties)
	}
	if format == "html" {
		return r.HTML(w)
	}
	return r.Markdown(w)
}

func runDecode(args []string) {
	var opts Options
	fs := flag.NewFlagSet("metamap decode", flag.ExitOnError)
	opts.register(fs)
	var format, outFile string
	fs.StringVar(&format, "format", "yaml", "Output format: yaml (decoded beans), markdown or html (report of the decoded entities)")
	fs.StringVar(&outFile, "out", "", "Output file. Defaults to stdout.")
	parseFlags(fs, args)
	if format != "yaml" && format != "markdown" && format != "html" {
		log.Fatalf("Invalid -format %q", format)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w := loadWorkspace(opts)
	items := w.decode(ctx, opts.Workers)

	out, err := createOutput(outFile)
	if err != nil {
		log.Fatalf("Cannot create output file: %v", err)
	}
	if format == "yaml" {
		err = writeBeans(out, items)
	} else {
		err = writeReport(out, w.bundle, items, format)
	}
	if err != nil {
		out.Close()
		log.Fatalf("Failed to write output: %v", err)
	}
	if err := out.Close(); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}

func runCheck(args []string) {
	var opts Options
	fs := flag.NewFlagSet("metamap check", flag.ExitOnError)
	opts.register(fs)
	parseFlags(fs, args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w := loadWorkspace(opts)
	items := w.decode(ctx, opts.Workers)
	mismatches, err := catalog.Check(w.mapper, items)
	if err != nil {
		log.Fatalf("Check failed: %v", err)
	}
	for _, m := range mismatches {
		fmt.Printf("%s (%s) changed in round trip (-decoded +rebuilt):\n%s\n", m.GUID, m.Kind, m.Diff)
	}
	if len(mismatches) > 0 {
		log.Fatalf("%d of %d entities do not round-trip", len(mismatches), len(items))
	}
	log.Printf("All %d entities round-trip", len(items))
}

func runExport(args []string) {
	var opts Options
	fs := flag.NewFlagSet("metamap export", flag.ExitOnError)
	opts.register(fs)
	var outFile string
	fs.StringVar(&outFile, "out", "", "Archive file to write the selected entities and their relationships to")
	parseFlags(fs, args)
	if outFile == "" {
		log.Fatalf("-out is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w := loadWorkspace(opts)
	items := w.decode(ctx, opts.Workers)
	sub := catalog.Export(w.archive, items)
	out := store.NewDiskStore(filepath.Dir(outFile))
	if err := store.WriteArchive(out, filepath.Base(outFile), sub); err != nil {
		log.Fatalf("Failed to export archive: %v", err)
	}
	log.Printf("Exported %d instances to %s", sub.Size(), outFile)
}

func runTypes(args []string) {
	var opts Options
	fs := flag.NewFlagSet("metamap types", flag.ExitOnError)
	opts.register(fs)
	parseFlags(fs, args)

	src := createStore(opts)
	st, err := src.Store("")
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	types := loadTypes(st, loadConfig(st, opts))
	m := newMapper(types, opts.Verbose)

	fmt.Println("Kinds:")
	for _, c := range m.Converters() {
		fmt.Printf("  %-20s %-14s %s\n", c.Name(), c.Category(), c.BaseType())
	}
	fmt.Println("Types:")
	for _, t := range types.Types("") {
		fmt.Printf("  %-36s %-14s %-8s %s\n", t.Name, t.Category, t.Version, t.SuperType)
	}
	fmt.Println("Enums:")
	for _, e := range types.Enums() {
		var values []string
		for _, el := range e.Elements {
			values = append(values, fmt.Sprintf("%d=%s", el.Ordinal, el.Value))
		}
		fmt.Printf("  %-36s %s\n", e.Name, strings.Join(values, " "))
	}
}
