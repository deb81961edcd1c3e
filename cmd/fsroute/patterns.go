package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vitalvas/fsroute/diag"
	"github.com/vitalvas/fsroute/pattern"
)

// patternRow is one compiled route file.
type patternRow struct {
	File     string   `json:"file" yaml:"file"`
	Pattern  string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Template string   `json:"template,omitempty" yaml:"template,omitempty"`
	Params   []string `json:"params,omitempty" yaml:"params,omitempty"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
}

func newPatternsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns [dir]",
		Short: "Print the URL pattern of every route file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.v.GetString("dir")
			if len(args) == 1 {
				dir = args[0]
			}
			format, err := parseOutputFormat(a.v.GetString("output"))
			if err != nil {
				return err
			}

			c := a.compiler()
			if !a.v.GetBool("watch") {
				rows, err := collectPatterns(dir, c)
				if err != nil {
					return err
				}
				return printPatterns(cmd.OutOrStdout(), format, rows)
			}
			return a.watch(cmd.Context(), cmd.OutOrStdout(), dir, c, format)
		},
	}

	cmd.Flags().Bool("watch", false, "Recompile when files change")
	cmd.Flags().String("dir", "routes", "Routes directory")
	_ = a.v.BindPFlag("watch", cmd.Flags().Lookup("watch"))
	_ = a.v.BindPFlag("dir", cmd.Flags().Lookup("dir"))
	return cmd
}

func (a *app) compiler() *pattern.Compiler {
	opts := []pattern.Option{pattern.WithSink(diag.Zap(a.logger))}
	if exts := a.v.GetStringSlice("extensions"); len(exts) > 0 {
		opts = append(opts, pattern.WithExtensions(exts...))
	}
	return pattern.New(opts...)
}

// collectPatterns compiles every file under dir. Files that fail to
// compile are reported in their row; files that are not route files are
// left out.
func collectPatterns(dir string, c *pattern.Compiler) ([]patternRow, error) {
	var rows []patternRow
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		p, err := c.Compile(rel)
		if err != nil {
			rows = append(rows, patternRow{File: rel, Error: err.Error()})
			return nil
		}
		if p == nil {
			return nil
		}
		rows = append(rows, patternRow{
			File:     rel,
			Pattern:  p.PathMatch,
			Template: p.Template(),
			Params:   p.ParamNames(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return rows, nil
}

func printPatterns(w io.Writer, format outputFormat, rows []patternRow) error {
	if rows == nil {
		rows = []patternRow{}
	}
	table := make([][]string, 0, len(rows))
	for _, r := range rows {
		pat := r.Pattern
		if r.Error != "" {
			pat = "error: " + r.Error
		}
		table = append(table, []string{r.File, pat, strings.Join(r.Params, ",")})
	}
	return printOutput(w, format, rows, []string{"file", "pattern", "params"}, table)
}

// watch prints the patterns, then prints them again after every change
// under dir until ctx is done.
func (a *app) watch(ctx context.Context, w io.Writer, dir string, c *pattern.Compiler, format outputFormat) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addTree(watcher, dir); err != nil {
		return err
	}

	refresh := func() {
		rows, err := collectPatterns(dir, c)
		if err != nil {
			a.logger.Error("collect patterns", zap.Error(err))
			return
		}
		if err := printPatterns(w, format, rows); err != nil {
			a.logger.Error("print patterns", zap.Error(err))
		}
	}
	refresh()

	// Editors emit bursts of events per save; they are coalesced.
	const settle = 100 * time.Millisecond
	timer := time.NewTimer(settle)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			a.logger.Debug("change", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addTree(watcher, ev.Name); err != nil {
						a.logger.Warn("watch directory", zap.String("dir", ev.Name), zap.Error(err))
					}
				}
			}
			timer.Reset(settle)
		case <-timer.C:
			refresh()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				timer.Reset(settle)
				continue
			}
			a.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

// addTree watches dir and every directory below it.
func addTree(w *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
