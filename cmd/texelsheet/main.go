// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelsheet/main.go
// Summary: Standalone spreadsheet grid command.
// Usage: `texelsheet [flags] [file.tsv]`, or pipe TSV on stdin. Ctrl+Q quits.

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/framegrace/texelsheet/apps/gridsheet"
	"github.com/framegrace/texelsheet/config"
	"github.com/framegrace/texelsheet/internal/devshell"
	"github.com/framegrace/texelsheet/sheet"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("texelsheet", flag.ContinueOnError)
	logPath := fs.String("log", "", "Log file (default: log_file from texelsheet.json, else <config>/logs/texelsheet.log)")
	printOnExit := fs.Bool("print", false, "Write the grid as TSV to stdout on exit")
	rows := fs.Int("rows", 0, "Minimum number of rows (default from config)")
	cols := fs.Int("cols", 0, "Minimum number of columns (default from config)")
	locale := fs.String("locale", "", "Locale for number grouping, e.g. en-US (default from config)")
	title := fs.String("title", "", "Window title")
	save := fs.Bool("save", false, "Store the -rows, -cols and -locale values in the gridsheet config")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("expected at most one input file, got %d", fs.NArg())
	}

	path, err := resolveLogPath(*logPath, config.System())
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(path)
	if err != nil {
		return err
	}
	defer closeLog()

	format := gridsheet.DefaultFormat()
	if *locale != "" {
		if format, err = sheet.NewNumberFormat(*locale); err != nil {
			return err
		}
	}

	if *save {
		if err := gridsheet.SaveOverrides(*rows, *cols, *locale); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
	}

	data, source, err := loadInput(fs.Arg(0), os.Stdin, format)
	if err != nil {
		return err
	}
	if *title == "" {
		*title = source
	}

	app, err := gridsheet.New(gridsheet.Options{
		Title:  *title,
		Data:   data,
		Rows:   *rows,
		Cols:   *cols,
		Locale: *locale,
	})
	if err != nil {
		return err
	}
	log.Printf("Sheet: Starting %dx%d grid from %s", app.Controller().Store().Rows(), app.Controller().Store().Cols(), sourceName(source))

	if err := devshell.RunApp(app); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if *printOnExit {
		return gridsheet.WriteData(os.Stdout, app.Controller().Store())
	}
	return nil
}

// loadInput reads the initial grid from path, or from stdin when path is
// empty and stdin is not a terminal. source names where the data came
// from ("" for none).
func loadInput(path string, stdin *os.File, f sheet.NumberFormat) ([][]string, string, error) {
	var r io.Reader
	source := ""
	switch {
	case path != "":
		file, err := os.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("open input: %w", err)
		}
		defer file.Close()
		r, source = file, path
	case stdin != nil && !term.IsTerminal(int(stdin.Fd())):
		r, source = stdin, "stdin"
	default:
		return nil, "", nil
	}
	data, err := gridsheet.ReadData(r, f)
	if err != nil {
		return nil, "", err
	}
	return data, source, nil
}

func sourceName(source string) string {
	if source == "" {
		return "empty sheet"
	}
	return source
}
