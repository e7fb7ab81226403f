package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"sysyplus/internal/diag"
	"sysyplus/internal/observ"
	"sysyplus/internal/source"
	"sysyplus/internal/trace"
)

// SourceExts are the extensions collected when a directory is given.
var SourceExts = []string{".sy", ".sysy"}

// FileResult is the outcome for one file of a directory run.
type FileResult struct {
	Path string
	File *source.File // nil when the file could not be read
	Bag  *diag.Bag
	// Result is nil on a cache hit or a load failure.
	Result *Result
	Cached bool
	Timing *observ.Report
}

// DirOptions tune DiagnoseDir.
type DirOptions struct {
	Jobs  int // <= 0 means GOMAXPROCS
	Cache *DiskCache
	Sink  ProgressSink
}

// ListSources expands directories into their source files (sorted) and keeps
// explicit file paths as given. Duplicates are dropped.
func ListSources(paths []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			// нечитаемый путь всё равно попадёт в IO6001
			add(p)
			continue
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if slices.Contains(SourceExts, filepath.Ext(path)) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
		// Сортируем для детерминированного порядка
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return out, nil
}

// DiagnoseDir analyzes every file of paths in parallel. Each file is
// independent: the results keep the order of ListSources, and a file that
// cannot be read yields an IO6001 diagnostic instead of an error. The error
// is reserved for a failed walk or a canceled context.
func DiagnoseDir(ctx context.Context, paths []string, cfg Config, opts DirOptions) (*source.FileSet, []FileResult, error) {
	files, err := ListSources(paths)
	if err != nil {
		return nil, nil, err
	}
	ctx, run := trace.Start(ctx, trace.ScopeRun, "diagnose_dir")
	defer run.End(fmt.Sprintf("files=%d", len(files)))

	// FileSet заполняется до запуска воркеров и дальше только читается
	fileSet := source.NewFileSet()
	if len(paths) == 1 {
		if info, statErr := os.Stat(paths[0]); statErr == nil && info.IsDir() {
			fileSet.SetBaseDir(paths[0])
		}
	}
	results := make([]FileResult, len(files))
	ids := make([]source.FileID, len(files))
	loadErrs := make([]error, len(files))
	for i, path := range files {
		results[i].Path = path
		ids[i], loadErrs[i] = fileSet.Load(path)
		if loadErrs[i] != nil {
			// пустой файл-заглушка, чтобы IO6001 указывал на свой путь
			ids[i] = fileSet.Add(path, nil, 0)
		}
		emit(opts.Sink, Event{File: path, Status: StatusQueued})
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	fingerprint := cfg.Fingerprint()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(jobs, len(files))))
	for i := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			// индекс i уникален для горутины, мьютекс не нужен
			results[i] = diagnoseOne(gctx, fileSet, files[i], ids[i], loadErrs[i], cfg, fingerprint, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fileSet, results, err
	}
	emit(opts.Sink, Event{Status: StatusDone})
	return fileSet, results, nil
}

func diagnoseOne(ctx context.Context, fileSet *source.FileSet, path string, id source.FileID, loadErr error, cfg Config, fingerprint string, opts DirOptions) FileResult {
	started := time.Now()
	out := FileResult{Path: path}
	if loadErr != nil {
		out.Bag = diag.NewBag(cfg.MaxDiagnostics)
		out.Bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IOLoadFailed,
			Message:  "failed to load file: " + loadErr.Error(),
			Primary:  source.Span{File: id},
		})
		emit(opts.Sink, Event{File: path, Status: StatusError, Err: loadErr, Errors: 1, Elapsed: time.Since(started)})
		return out
	}
	out.File = fileSet.Get(id)
	emit(opts.Sink, Event{File: path, Status: StatusWorking})

	var key Digest
	if opts.Cache != nil {
		key = contentDigest(out.File.Content, fingerprint)
		var payload DiskPayload
		if ok, err := opts.Cache.Get(key, &payload); err == nil && ok {
			out.Bag = payload.Restore(id, cfg.MaxDiagnostics)
			out.Cached = true
			trace.Point(ctx, trace.ScopeFile, "cache_hit", path)
			finishEvent(opts.Sink, out, StatusCached, started)
			return out
		}
	}

	res := AnalyzeFile(ctx, fileSet, id, cfg)
	out.Result, out.Bag, out.Timing = res, res.Bag, res.Timing
	if opts.Cache != nil && !res.Canceled {
		if err := opts.Cache.Put(key, bagToPayload(path, key, res.Bag)); err != nil {
			diag.ReportWarning(diag.BagReporter{Bag: out.Bag}, diag.IOCacheFailed, source.Span{File: id},
				"failed to write cache entry: "+err.Error()).Emit()
		}
	}
	finishEvent(opts.Sink, out, StatusDone, started)
	return out
}

func finishEvent(sink ProgressSink, r FileResult, status Status, started time.Time) {
	errs, warns := r.Bag.Counts()
	emit(sink, Event{File: r.Path, Status: status, Errors: errs, Warns: warns, Elapsed: time.Since(started)})
}
