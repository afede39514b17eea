// Package pipeline runs the numbering pass over documents: extract,
// number, scope, rewrite, write. Files are processed strictly one at a
// time and numbering state never carries across files.
package pipeline

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgallion1/marknum/internal/config"
	"github.com/dgallion1/marknum/internal/mdoc"
	"github.com/dgallion1/marknum/internal/mirror"
	"github.com/dgallion1/marknum/internal/numbering"
	"github.com/dgallion1/marknum/internal/parser"
	"github.com/dgallion1/marknum/internal/rewrite"
)

// Runner processes Markdown files with a fixed configuration.
type Runner struct {
	cfg config.Config
	log *slog.Logger
}

func NewRunner(cfg config.Config, log *slog.Logger) *Runner {
	return &Runner{cfg: cfg, log: log}
}

// Run processes every Markdown file under inputDir and mirrors the
// rewritten files into the configured output directory.
func (r *Runner) Run(inputDir string) (*Summary, error) {
	info, err := os.Stat(inputDir)
	if err != nil {
		return nil, fmt.Errorf("input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input directory: %s is not a directory", inputDir)
	}

	files, err := mirror.Files(inputDir, r.cfg.OutputDirectory)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no markdown files found in %s", inputDir)
	}
	r.log.Info("processing", "files", len(files), "input", inputDir, "output", r.cfg.OutputDirectory)

	if err := mirror.Prepare(inputDir, r.cfg.OutputDirectory); err != nil {
		return nil, err
	}

	sum := &Summary{}
	for _, f := range files {
		res := r.processFile(f, inputDir)
		if res.Status == StatusFailed {
			r.log.Error("file failed", "file", f, "phase", res.Phase, "errors", res.Errors)
		} else {
			r.log.Info("file done", "file", f, "headings", res.Headings, "figures", res.Figures, "output", res.Output)
		}
		sum.add(res)
	}
	return sum, nil
}

func (r *Runner) processFile(path, inputDir string) Result {
	res := Result{File: path, Status: StatusCompleted, Phase: "done"}

	src, err := os.ReadFile(path)
	if err != nil {
		res.fail("read", err.Error())
		return res
	}

	doc, err := r.Number(src)
	if err != nil {
		res.fail("parse", err.Error())
		return res
	}
	for _, h := range doc.Headings {
		if h.Number != "" {
			res.Headings++
		}
	}
	for _, f := range doc.Figures {
		if f.Numbered() {
			res.Figures++
		}
	}
	if doc.Skipped > 0 {
		res.Status = StatusPartial
		res.Errors = append(res.Errors, fmt.Sprintf("%d replacement(s) skipped", doc.Skipped))
	}

	out, err := mirror.Write(path, inputDir, r.cfg.OutputDirectory, doc.Text)
	if err != nil {
		res.fail("write", err.Error())
		return res
	}
	res.Output = out
	return res
}

// Output is the result of numbering a single document in memory.
type Output struct {
	Text     string          // rewritten document text
	Headings []*mdoc.Heading // numbered heading records
	Figures  []*mdoc.Figure  // numbered figure records
	Skipped  int             // replacements skipped by the rewriter
}

// Number runs the in-memory pipeline on a single document: fresh numbering
// state, fresh scope counters, one rewrite pass.
func (r *Runner) Number(src []byte) (*Output, error) {
	p := &parser.Markdown{Excluded: r.cfg.ExcludedHeadings}

	headings, err := p.ExtractHeadings(src)
	if err != nil {
		return nil, fmt.Errorf("extract headings: %w", err)
	}
	figures := p.ExtractFigures(src)

	numbering.NumberHeadings(headings, numbering.NewState())
	numbering.AssignFigureNumbers(figures, headings, r.cfg.AnchorLevel, numbering.NewScopeCounters())

	format := rewrite.Format{FigureLabel: r.cfg.FigureLabel, TableLabel: r.cfg.TableLabel}
	text, skipped := rewrite.Document(string(src), headings, figures, format, r.log)
	return &Output{Text: text, Headings: headings, Figures: figures, Skipped: skipped}, nil
}
