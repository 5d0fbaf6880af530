package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nyashahama/ai-readiness-assessments/internal/assessment"
	"github.com/nyashahama/ai-readiness-assessments/internal/schema"
)

type scoreOptions struct {
	kind   string
	format string
}

// scored is one input file and its outcome. Exactly one of Report and Error
// is set.
type scored struct {
	File   string             `json:"file"`
	Report *assessment.Result `json:"report,omitempty"`
	Error  string             `json:"error,omitempty"`
}

func newScoreCmd() *cobra.Command {
	opts := scoreOptions{}
	cmd := &cobra.Command{
		Use:   "score --kind KIND FILE|GLOB...",
		Short: "Score submission files offline",
		Long: `score runs JSON submission files through the same schema check, decoding
and scoring as the API, without storing or delivering anything. Arguments may
be doublestar patterns such as 'testdata/**/*.json'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd.OutOrStdout(), opts, args)
		},
	}
	cmd.Flags().StringVarP(&opts.kind, "kind", "k", "", "assessment kind ("+kindList()+")")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "output format (text|json|yaml)")
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func runScore(w io.Writer, opts scoreOptions, patterns []string) error {
	kind, err := assessment.ParseKind(opts.kind)
	if err != nil {
		return fmt.Errorf("--kind: %w", err)
	}
	switch opts.format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("--format: unsupported format %q", opts.format)
	}

	files, err := expand(patterns)
	if err != nil {
		return err
	}

	svc, err := assessment.NewService()
	if err != nil {
		return err
	}
	validator, err := schema.NewValidator()
	if err != nil {
		return err
	}

	results := make([]scored, 0, len(files))
	failed := 0
	for _, f := range files {
		res, err := scoreFile(svc, validator, kind, f)
		if err != nil {
			failed++
			results = append(results, scored{File: f, Error: err.Error()})
			continue
		}
		results = append(results, scored{File: f, Report: &res})
	}

	switch opts.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(results)
	case "yaml":
		err = writeYAML(w, results)
	default:
		printScored(w, results)
	}
	if err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be scored", failed, len(files))
	}
	return nil
}

// expand resolves each argument as a doublestar pattern. A pattern with no
// matches is an error so typos do not pass silently.
func expand(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	for _, p := range patterns {
		matches, err := doublestar.FilepathGlob(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", p)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}

func scoreFile(svc *assessment.Service, validator *schema.Validator, kind assessment.Kind, path string) (assessment.Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return assessment.Result{}, err
	}
	if err := validator.Validate(kind, raw); err != nil {
		return assessment.Result{}, err
	}
	sub, err := assessment.Decode(kind, raw)
	if err != nil {
		return assessment.Result{}, err
	}
	return svc.Process(sub)
}

// writeYAML goes through JSON so the YAML keys match the API's field names.
func writeYAML(w io.Writer, results []scored) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return err
	}
	var doc []map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func printScored(w io.Writer, results []scored) {
	styles := newPrintStyles()
	for _, r := range results {
		fmt.Fprintln(w, styles.header.Render(r.File))
		if r.Report == nil {
			fmt.Fprintln(w, "  "+styles.poor.Render("✗ "+r.Error))
			fmt.Fprintln(w)
			continue
		}

		doc := r.Report.Data.Document()
		m := r.Report.Metadata
		fmt.Fprintf(w, "  %s %d/100  %s\n", doc.ScoreLabel, m.FinalScore, styles.fair.Render(m.Band))
		fmt.Fprintf(w, "  raw %d/%d, %d unknown answers", m.RawScore, m.MaxRawScore, m.UnknownAnswers)
		if m.Escalated {
			fmt.Fprint(w, ", "+styles.warn.Render("escalated"))
		}
		fmt.Fprintln(w)
		if doc.Banner != "" && doc.Banner != assessment.Placeholder {
			fmt.Fprintln(w, "  "+styles.warn.Render(doc.Banner))
		}
		for i, g := range doc.Gaps {
			if g.Title == assessment.Placeholder {
				continue
			}
			fmt.Fprintf(w, "  gap %d: %s\n", i+1, g.Title)
		}
		for _, f := range m.Flags {
			fmt.Fprintln(w, styles.dim.Render("  flag: "+f))
		}
		fmt.Fprintln(w)
	}
}

func kindList() string {
	kinds := assessment.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, "|")
}
