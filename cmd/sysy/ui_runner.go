package main

import (
	"context"
	"os"

	"sysyplus/internal/driver"
	"sysyplus/internal/source"
	"sysyplus/internal/ui"
)

type dirOutcome struct {
	fs      *source.FileSet
	results []driver.FileResult
	err     error
}

// diagnoseWithUI runs DiagnoseDir behind the progress view on stderr.
func diagnoseWithUI(ctx context.Context, paths []string, cfg driver.Config, opts driver.DirOptions) (*source.FileSet, []driver.FileResult, error) {
	files, err := driver.ListSources(paths)
	if err != nil {
		return nil, nil, err
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan dirOutcome, 1)

	go func() {
		opts.Sink = driver.ChannelSink{Ch: events}
		fs, results, err := driver.DiagnoseDir(ctx, paths, cfg, opts)
		outcomeCh <- dirOutcome{fs: fs, results: results, err: err}
		close(events)
	}()

	uiErr := ui.RunProgress(os.Stderr, "sysy diag", files, events)
	if uiErr != nil {
		// модель больше не читает канал, дочитываем сами
		for range events {
		}
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.fs, outcome.results, uiErr
	}
	return outcome.fs, outcome.results, outcome.err
}
