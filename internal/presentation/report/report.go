// Package report renders validation and lint results for the terminal.
package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	json "github.com/goccy/go-json"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/atv/pkg/domain"
	"github.com/aretw0/atv/pkg/processor"
	"github.com/aretw0/atv/pkg/schema"
	"github.com/aretw0/atv/pkg/validator"
)

// Result is the outcome of checking one subject, such as a data file
// validated against a type or a type map that was linted.
type Result struct {
	Subject string
	Err     error
}

// OK reports whether the subject passed.
func (r Result) OK() bool { return r.Err == nil }

// Markdown describes r as a Markdown document.
func Markdown(r Result) string {
	var sb strings.Builder
	if r.OK() {
		fmt.Fprintf(&sb, "# ✅ %s\n\nNo failures.\n", r.Subject)
		return sb.String()
	}
	fmt.Fprintf(&sb, "# ❌ %s\n\n", r.Subject)
	writeError(&sb, r.Err, 0)
	return sb.String()
}

func writeError(sb *strings.Builder, err error, depth int) {
	indent := strings.Repeat("  ", depth)

	switch e := err.(type) {
	case *processor.ItemError:
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(sb, "%s- `%s.%s`\n", indent, e.Type, name)
			writeError(sb, e.Fields[name], depth+1)
		}
	case *processor.ListError:
		idx := make([]int, 0, len(e.Items))
		for i := range e.Items {
			idx = append(idx, i)
		}
		sort.Ints(idx)
		for _, i := range idx {
			fmt.Fprintf(sb, "%s- `%s[%d]`\n", indent, e.Type, i)
			writeError(sb, e.Items[i], depth+1)
		}
	case *validator.ValidationError:
		fmt.Fprintf(sb, "%s- **%s**\n", indent, e.Type)
		for _, name := range e.Names() {
			fmt.Fprintf(sb, "%s  - `%s`: %s\n", indent, name, e.Reason(name))
		}
	case *schema.AggregateError:
		for _, issue := range e.Errors {
			fmt.Fprintf(sb, "%s- %s\n", indent, issue)
		}
	default:
		fmt.Fprintf(sb, "%s- %s\n", indent, err)
	}
}

// Verdict returns a one-line summary coloured for profile.
func Verdict(r Result, profile termenv.Profile) string {
	if r.OK() {
		return profile.String("PASS ").Foreground(profile.Color("#22c55e")).Bold().String() + r.Subject
	}
	return profile.String("FAIL ").Foreground(profile.Color("#ef4444")).Bold().String() + r.Subject
}

// Renderer writes results to a terminal or a plain stream.
type Renderer struct {
	out     io.Writer
	pretty  bool
	profile termenv.Profile
	md      func(string) (string, error)
}

// NewRenderer creates a Renderer for out. Markdown is rendered with glamour
// and verdicts are coloured only when out is a terminal.
func NewRenderer(out io.Writer) *Renderer {
	r := &Renderer{out: out, profile: termenv.Ascii}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.pretty = true
		r.profile = termenv.NewOutput(f).ColorProfile()
		gr, err := glamour.NewTermRenderer(glamour.WithAutoStyle())
		if err == nil {
			r.md = gr.Render
		}
	}
	return r
}

// Render writes the verdict, followed by the failure details when r failed.
func (r *Renderer) Render(res Result) error {
	if _, err := fmt.Fprintln(r.out, Verdict(res, r.profile)); err != nil {
		return err
	}
	if res.OK() {
		return nil
	}
	doc := Markdown(res)
	if r.pretty && r.md != nil {
		rendered, err := r.md(doc)
		if err == nil {
			doc = rendered
		}
	}
	_, err := io.WriteString(r.out, doc)
	return err
}

type jsonResult struct {
	Subject string `json:"subject"`
	Valid   bool   `json:"valid"`
	Error   any    `json:"error,omitempty"`
}

// JSON writes results as an indented JSON array, one object per subject.
func JSON(w io.Writer, results []Result) error {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		out[i] = jsonResult{Subject: r.Subject, Valid: r.OK()}
		if !r.OK() {
			out[i].Error = domain.DescribeError(r.Err)
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
