package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"
)

// Version is set via -ldflags at build time.
var Version = "dev"

const defaultBatchSize = 200

// pushSummary push 命令的输出
type pushSummary struct {
	File         string   `json:"file"`
	Entries      int      `json:"entries"`
	Batches      int      `json:"batches"`
	Inserted     int      `json:"inserted"`
	Skipped      int      `json:"skipped"`
	SkippedNames []string `json:"skippedNames"`
	DryRun       bool     `json:"dryRun,omitempty"`
}

func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "chatlog-import",
		Usage:   "Push chat log spreadsheets to the appneruf-data sync endpoint",
		Version: Version,
		Commands: []*cli.Command{
			pushCmd(),
			templateCmd(),
		},
	}
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

func pushCmd() *cli.Command {
	return &cli.Command{
		Name:  "push",
		Usage: "Read an .xlsx file and push its rows in batches",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "Path to the .xlsx file"},
			&cli.StringFlag{Name: "url", Value: "http://localhost:8080", EnvVars: []string{"APPNERUF_URL"}, Usage: "Base URL of appneruf-data"},
			&cli.StringFlag{Name: "secret", EnvVars: []string{"CHATWORK_WEBHOOK_SECRET"}, Usage: "Shared webhook secret"},
			&cli.StringFlag{Name: "sheet", Usage: "Sheet name (defaults to the first sheet)"},
			&cli.IntFlag{Name: "batch", Value: defaultBatchSize, Usage: "Entries per request"},
			&cli.DurationFlag{Name: "timeout", Value: 30 * time.Second, Usage: "Per-request timeout"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Parse the file without sending anything"},
		},
		Action: func(c *cli.Context) error {
			batch := c.Int("batch")
			if batch <= 0 {
				return cli.Exit("--batch must be positive", 1)
			}

			entries, err := readEntries(c.String("file"), c.String("sheet"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			summary := pushSummary{
				File:         c.String("file"),
				Entries:      len(entries),
				SkippedNames: []string{},
				DryRun:       c.Bool("dry-run"),
			}
			if summary.DryRun || len(entries) == 0 {
				return outputJSON(c.App.Writer, summary)
			}

			if c.String("secret") == "" {
				return cli.Exit("--secret (or CHATWORK_WEBHOOK_SECRET) is required", 1)
			}
			client := newSyncClient(c.String("url"), c.String("secret"), c.Duration("timeout"))

			seen := make(map[string]bool)
			for start := 0; start < len(entries); start += batch {
				end := start + batch
				if end > len(entries) {
					end = len(entries)
				}
				res, err := client.Push(c.Context, entries[start:end])
				if err != nil {
					// 已发送的批次不回滚，打印进度后退出
					_ = outputJSON(c.App.Writer, summary)
					return cli.Exit(fmt.Sprintf("batch %d (rows %d-%d): %v", summary.Batches+1, start+1, end, err), 1)
				}
				summary.Batches++
				summary.Inserted += res.Inserted
				summary.Skipped += res.Skipped
				for _, name := range res.SkippedNames {
					if !seen[name] {
						seen[name] = true
						summary.SkippedNames = append(summary.SkippedNames, name)
					}
				}
			}
			return outputJSON(c.App.Writer, summary)
		},
	}
}

func templateCmd() *cli.Command {
	return &cli.Command{
		Name:  "template",
		Usage: "Write an empty .xlsx template with the expected header row",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "chat_logs.xlsx", Usage: "Output path"},
		},
		Action: func(c *cli.Context) error {
			if err := writeTemplate(c.String("out")); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintf(c.App.Writer, "template written to %s\n", c.String("out"))
			return nil
		},
	}
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
