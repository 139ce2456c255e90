// Command inflate decompresses raw DEFLATE streams from one or more
// input files, writing each decoded result into an output directory.
// It accepts glob patterns as well as literal paths, decodes files
// concurrently (one Decoder per file), and supports structured
// logging, an optional live progress bar, YAML config defaults, and
// graceful SIGINT handling.
package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/coreos/pkg/capnslog"
	"github.com/coreos/pkg/progressutil"
	"github.com/coreos/pkg/stop"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v2"

	"github.com/flatewire/inflate"
)

var log = capnslog.NewPackageLogger("github.com/flatewire/inflate", "cmd/inflate")

func main() {
	outDir := flag.String("o", ".", "output directory")
	configPath := flag.String("config", "", "optional YAML file supplying defaults for unset flags")
	logLevel := flag.String("log-level", "NOTICE", "log level: CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG, TRACE")
	showProgress := flag.Bool("progress", false, "show a live progress bar of compressed input read per file")
	flag.Parse()

	if *configPath != "" {
		raw, err := ioutil.ReadFile(*configPath)
		if err != nil {
			log.Fatalf("reading config: %v", err)
		}
		if err := setFlagsFromYAML(flag.CommandLine, raw); err != nil {
			log.Fatalf("applying config: %v", err)
		}
	}

	level, err := capnslog.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("invalid -log-level: %v", err)
	}
	capnslog.MustRepoLogger("github.com/flatewire/inflate").SetGlobalLogLevel(level)

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	paths, err := expandPatterns(flag.Args())
	if err != nil {
		log.Fatalf("expanding input patterns: %v", err)
	}
	if len(paths) == 0 {
		log.Fatal("no input files matched")
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("creating output directory: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopGroup := stop.NewGroup()
	stopGroup.AddFunc(func() <-chan struct{} {
		cancel()
		return stop.AlreadyDone
	})

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	go func() {
		if _, ok := <-interrupts; ok {
			log.Notice("interrupted, finishing in-flight files")
			<-stopGroup.Stop()
		}
	}()

	var progress *progressutil.CopyProgressPrinter
	var progressFiles []*os.File
	if *showProgress {
		progress = progressutil.NewCopyProgressPrinter()
		// Each file gets its own handle here, dedicated to progress
		// tracking: the real decode opens path again independently, so
		// the progress copy (which reads the handle itself, inside
		// PrintAndWait) never shares a file cursor with the decoder's
		// own read of the same path. Registering every file up front,
		// before any decode goroutine or PrintAndWait starts, keeps
		// AddCopy from ever being called after the printer has started
		// (coreos-pkg/progressutil rejects that with ErrAlreadyStarted).
		for _, p := range paths {
			pf, err := os.Open(p)
			if err != nil {
				log.Fatalf("opening %s: %v", p, err)
			}
			fi, err := pf.Stat()
			if err != nil {
				log.Fatalf("stat %s: %v", p, err)
			}
			if err := progress.AddCopy(pf, filepath.Base(p), fi.Size(), ioutil.Discard); err != nil {
				log.Fatalf("registering progress for %s: %v", p, err)
			}
			progressFiles = append(progressFiles, pf)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	failed := make(chan string, len(paths))
	for _, p := range paths {
		p := p
		g.Go(func() error {
			if err := decodeOneFile(gctx, p, *outDir); err != nil {
				log.Errorf("%s: %v (%s)", p, err, inflate.Kind(err))
				failed <- p
				return nil // one bad file must not abort the batch
			}
			return nil
		})
	}

	var progressDone chan error
	if progress != nil {
		progressDone = make(chan error, 1)
		go func() {
			progressDone <- progress.PrintAndWait(os.Stderr, 0, nil)
		}()
	}

	if err := g.Wait(); err != nil {
		log.Fatalf("batch decode: %v", err)
	}
	close(failed)

	if progressDone != nil {
		<-progressDone
	}
	for _, pf := range progressFiles {
		pf.Close()
	}

	var failedCount int
	for range failed {
		failedCount++
	}
	if failedCount > 0 {
		os.Exit(1)
	}
}

// decodeOneFile decompresses a single raw DEFLATE file into outDir,
// logging its result. One Decoder is created per file, since a Decoder
// holds mutable per-stream state and is not safe for concurrent use by
// two files at once.
func decodeOneFile(ctx context.Context, path, outDir string) error {
	if err := ctx.Err(); err != nil {
		return &inflate.InputError{Err: err}
	}

	in, err := os.Open(path)
	if err != nil {
		return &inflate.InputError{Err: err}
	}
	defer in.Close()

	outPath := filepath.Join(outDir, filepath.Base(path)+".out")
	out, err := os.Create(outPath)
	if err != nil {
		return &inflate.OutputError{Err: err}
	}
	defer out.Close()

	var result inflate.Result
	if mmapIn, closeFn, mmapErr := inflate.OpenMmapInput(in); mmapErr == nil {
		defer closeFn()
		result, err = inflate.NewDecoder().Decode(mmapIn, inflate.NewCallbackOutput(func(p []byte) (int, error) {
			return out.Write(p)
		}))
	} else {
		raw, readErr := ioutil.ReadAll(in)
		if readErr != nil {
			return &inflate.InputError{Err: readErr}
		}
		result, err = inflate.DecodeBuffer(raw, out)
	}
	if err != nil {
		return err
	}

	var outSize int64
	if fi, statErr := out.Stat(); statErr == nil {
		outSize = fi.Size()
	}
	log.Infof("%s: %d bytes consumed, %d bytes out, crc32=%08x", path, result.BytesConsumed, outSize, result.CRC32)
	return nil
}

// expandPatterns resolves positional arguments, treating any argument
// that looks like a glob as a doublestar pattern and everything else
// as a literal path.
func expandPatterns(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		if !strings.ContainsAny(a, "*?[{") {
			out = append(out, a)
			continue
		}
		matches, err := doublestar.FilepathGlob(a)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", a, err)
		}
		out = append(out, matches...)
	}
	return out, nil
}

// setFlagsFromYAML applies values from a YAML map of upper-cased,
// underscore flag names to any flag not already set on the command
// line, in the manner of coreos-pkg/yamlutil.SetFlagsFromYaml.
func setFlagsFromYAML(fs *flag.FlagSet, raw []byte) error {
	conf := make(map[string]string)
	if err := yaml.Unmarshal(raw, conf); err != nil {
		return err
	}
	alreadySet := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { alreadySet[f.Name] = true })

	var firstErr error
	fs.VisitAll(func(f *flag.Flag) {
		if alreadySet[f.Name] {
			return
		}
		tag := strings.ToUpper(strings.Replace(f.Name, "-", "_", -1))
		val, ok := conf[tag]
		if !ok {
			return
		}
		if err := fs.Set(f.Name, val); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("invalid value %q for %s: %w", val, tag, err)
		}
	})
	return firstErr
}
