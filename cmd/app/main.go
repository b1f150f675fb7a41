package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/starford/muninn/internal"
	"github.com/starford/muninn/internal/cite"
	"github.com/starford/muninn/internal/extract"
	"github.com/starford/muninn/internal/models"
	"github.com/starford/muninn/internal/noteservice"
	pkgconfig "github.com/starford/muninn/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if vault := cmd.String("vault"); vault != "" {
		cfg.Vault.Path = vault
	}
	return cfg, nil
}

func newService(cmd *cli.Command) (*noteservice.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(internal.NewLogger(cfg.App.LogLevel))
	return internal.NewService(cfg)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func splitTags(raw string) []string {
	var out []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// resolveKey settles on a citation key: an explicit --key wins, then a
// clean derivation from author and date. An ambiguous derivation is an
// error unless --prompt lets the operator confirm or replace the best
// guess on stdin.
func resolveKey(cmd *cli.Command, author, date string) (string, error) {
	if key := cmd.String("key"); key != "" {
		return key, nil
	}
	res := cite.GenerateKey(author, date)
	if !res.NeedsInput {
		return res.Key, nil
	}
	if !cmd.Bool("prompt") {
		return "", fmt.Errorf("citation key needs input (best guess %q): pass --key or --prompt", res.Key)
	}

	fmt.Fprintf(os.Stderr, "citekey [%s]: ", res.Key)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if line = strings.TrimSpace(line); line != "" {
		return line, nil
	}
	if res.Key == "" {
		return "", fmt.Errorf("empty citation key")
	}
	return res.Key, nil
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Extract metadata records for every note in the vault, one JSON object per line",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, err := newService(cmd)
			if err != nil {
				return err
			}
			results, err := svc.ScanAll(ctx)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			for _, res := range results {
				if err := enc.Encode(res); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func extractCommand() *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "Extract the metadata record of one note",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "stdin",
				Usage: "Read note text from stdin; the path argument only drives dialect detection and directory tags",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if cmd.Bool("stdin") {
				cfg, err := loadConfig(cmd)
				if err != nil {
					return err
				}
				rec, err := extract.ExtractReader(os.Stdin, path, cfg.Extract.Config)
				if err != nil {
					return err
				}
				return printJSON(rec)
			}

			if path == "" {
				return fmt.Errorf("path argument required")
			}
			svc, err := newService(cmd)
			if err != nil {
				return err
			}
			detail, err := svc.Record(ctx, path)
			if err != nil {
				return err
			}
			return printJSON(detail)
		},
	}
}

func citeCommand() *cli.Command {
	return &cli.Command{
		Name:  "cite",
		Usage: "Citation key utilities",
		Commands: []*cli.Command{
			{
				Name:  "key",
				Usage: "Derive a deterministic citation key from author and date",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "author", Aliases: []string{"a"}, Usage: "Author name, free form"},
					&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Publication date, free form"},
					&cli.StringFlag{Name: "key", Aliases: []string{"k"}, Usage: "Explicit key, skipping derivation"},
					&cli.BoolFlag{Name: "prompt", Usage: "Prompt on stdin when the derived key is ambiguous"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					key, err := resolveKey(cmd, cmd.String("author"), cmd.String("date"))
					if err != nil {
						return err
					}
					return printJSON(cite.KeyResult{Key: key})
				},
			},
			{
				Name:      "fetch",
				Usage:     "Fetch page metadata for a URL and suggest a citation key",
				ArgsUsage: "<url>",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					url := cmd.Args().First()
					if url == "" {
						return fmt.Errorf("url argument required")
					}
					svc, err := newService(cmd)
					if err != nil {
						return err
					}
					detail, err := svc.FetchMetadata(ctx, url)
					if err != nil {
						return err
					}
					return printJSON(detail)
				},
			},
		},
	}
}

func bibCommand() *cli.Command {
	return &cli.Command{
		Name:  "bib",
		Usage: "Bibliography utilities",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List every bibliography entry",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Usage: "Output format: json or yaml", Value: "json"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					svc, err := newService(cmd)
					if err != nil {
						return err
					}
					entries, err := svc.Literature(ctx)
					if err != nil {
						return err
					}
					if cmd.String("format") == "yaml" {
						out, err := yaml.Marshal(entries)
						if err != nil {
							return err
						}
						fmt.Print(string(out))
						return nil
					}
					return printJSON(entries)
				},
			},
			{
				Name:  "check",
				Usage: "Verify that every bibliography key is unique",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					svc, err := newService(cmd)
					if err != nil {
						return err
					}
					n, err := svc.CheckLiterature(ctx)
					if err != nil {
						return err
					}
					fmt.Printf("ok: %d entries\n", n)
					return nil
				},
			},
			{
				Name:  "add",
				Usage: "Append an entry to the bibliography",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "key", Usage: "Citation key (derived from author and date when empty)"},
					&cli.StringFlag{Name: "title", Usage: "Entry title"},
					&cli.StringFlag{Name: "author", Usage: "Author name"},
					&cli.StringFlag{Name: "date", Usage: "Publication date"},
					&cli.StringFlag{Name: "type", Usage: "Entry type (book, article, ...)"},
					&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
					&cli.StringFlag{Name: "url", Usage: "Source URL"},
					&cli.StringFlag{Name: "doi", Usage: "DOI in any common form"},
					&cli.BoolFlag{Name: "prompt", Usage: "Prompt on stdin when the derived key is ambiguous"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					key, err := resolveKey(cmd, cmd.String("author"), cmd.String("date"))
					if err != nil {
						return err
					}
					svc, err := newService(cmd)
					if err != nil {
						return err
					}
					entry := models.LiteratureEntry{
						Key:    key,
						Title:  cmd.String("title"),
						Author: cmd.String("author"),
						Date:   cmd.String("date"),
						Type:   cmd.String("type"),
						Tags:   splitTags(cmd.String("tags")),
					}
					if url := cmd.String("url"); url != "" {
						entry.Sources = append(entry.Sources, url)
					}
					if doi := cmd.String("doi"); doi != "" {
						entry.Sources = append(entry.Sources, doi)
					}
					added, err := svc.AddLiterature(ctx, entry)
					if err != nil {
						return err
					}
					fmt.Printf("added: %s\n", added.Key)
					return nil
				},
			},
		},
	}
}

func tagsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "Tag utilities",
		Commands: []*cli.Command{
			{
				Name:      "write",
				Usage:     "Replace a note's tag declaration in its own dialect",
				ArgsUsage: "<path> [tag ...]",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					args := cmd.Args().Slice()
					if len(args) == 0 {
						return fmt.Errorf("path argument required")
					}
					svc, err := newService(cmd)
					if err != nil {
						return err
					}
					rev, err := svc.WriteTags(ctx, args[0], args[1:])
					if err != nil {
						return err
					}
					fmt.Printf("tags written: %s (rev %s)\n", args[0], rev)
					return nil
				},
			},
		},
	}
}

func dailyCommand() *cli.Command {
	return &cli.Command{
		Name:  "daily",
		Usage: "Return today's daily note, creating it when missing",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, err := newService(cmd)
			if err != nil {
				return err
			}
			detail, created, err := svc.Daily(ctx, time.Now())
			if err != nil {
				return err
			}
			return printJSON(struct {
				Created bool `json:"created"`
				*noteservice.RecordDetail
			}{created, detail})
		},
	}
}

func slugCommand() *cli.Command {
	return &cli.Command{
		Name:      "slug",
		Usage:     "Turn a title into a file-name slug",
		ArgsUsage: "<title>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			title := strings.Join(cmd.Args().Slice(), " ")
			if title == "" {
				return fmt.Errorf("title argument required")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			fmt.Println(extract.Slug(title, cfg.Extract.SlugSeparator))
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the vault tools over MCP stdio",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
				return fmt.Errorf("app run error: %w", err)
			}
			return nil
		},
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "muninn",
		Usage: "Note metadata toolkit: extraction, citation keys, and bibliography upkeep for a plain-text vault",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "muninn.yaml",
				Value:       "muninn.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "vault",
				Usage:   "Vault directory (overrides config)",
				Sources: cli.EnvVars("MUNINN_VAULT"),
			},
		},
		Commands: []*cli.Command{
			scanCommand(),
			extractCommand(),
			citeCommand(),
			bibCommand(),
			tagsCommand(),
			dailyCommand(),
			slugCommand(),
			serveCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
