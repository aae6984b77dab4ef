package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// Translator maps an English label to the display language.
type Translator func(key string) string

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate Translator
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the label translator.
func WithTranslator(t Translator) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion sets the tool version shown in the footer.
func WithVersion(v string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = v
	}
}

// NewMarkdownFormatter creates a formatter. Labels are English unless a
// translator is given.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(key string) string { return key },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", t("Transcode Summary"))

	fmt.Fprintf(&sb, "## %s\n\n", t("Input"))
	f.table(&sb,
		row{t("File"), s.Input.Path},
		row{t("Dimensions"), fmt.Sprintf("%dx%d", s.Input.Width, s.Input.Height)},
		row{t("File Size"), formatBytes(s.Input.FileSize)},
	)

	fmt.Fprintf(&sb, "## %s\n\n", t("Settings"))
	preset := s.Settings.Preset
	if preset == "" {
		preset = t("custom")
	}
	shuffle := t("off")
	if s.Settings.Shuffle {
		shuffle = t("on")
	}
	workers := fmt.Sprintf("%d", s.Settings.Workers)
	if s.Settings.Workers == 0 {
		workers = t("auto")
	}
	f.table(&sb,
		row{t("Preset"), preset},
		row{t("Codec"), s.Settings.Codec},
		row{t("Level"), fmt.Sprintf("%d", s.Settings.Level)},
		row{t("Stripe Rows"), fmt.Sprintf("%d", s.Settings.StripeRows)},
		row{t("Byte Shuffle"), shuffle},
		row{t("Workers"), workers},
	)

	fmt.Fprintf(&sb, "## %s\n\n", t("Output"))
	ratio := "N/A"
	if r := s.CompressionRatio(); r > 0 {
		ratio = fmt.Sprintf("%.2f:1", r)
	}
	verified := t("no")
	if s.Output.Verified {
		verified = t("yes")
	}
	f.table(&sb,
		row{t("File"), s.Output.Path},
		row{t("File Size"), formatBytes(s.Output.FileSize)},
		row{t("Compression Ratio"), ratio},
		row{t("Verified"), verified},
		row{t("Output Buffer"), fmt.Sprintf("%s, %d %s, %d %s",
			formatBytes(int64(s.Drain.FinalCapacity)), s.Drain.Growths, t("growths"), s.Drain.Steps, t("steps"))},
		row{t("Elapsed"), formatDuration(s.Elapsed)},
	)

	fmt.Fprintf(&sb, "---\n\n%s %s", t("Generated at"), s.GeneratedAt.Format(time.RFC3339))
	if f.version != "" {
		fmt.Fprintf(&sb, " by pfmshot %s", f.version)
	}
	sb.WriteString("\n")

	return sb.String()
}

type row struct {
	label string
	value string
}

func (f *MarkdownFormatter) table(sb *strings.Builder, rows ...row) {
	fmt.Fprintf(sb, "| %s | %s |\n", f.translate("Item"), f.translate("Value"))
	sb.WriteString("|------|-------|\n")
	for _, r := range rows {
		fmt.Fprintf(sb, "| %s | %s |\n", r.label, escapeCell(r.value))
	}
	sb.WriteString("\n")
}

// escapeCell keeps a value from breaking the table layout.
func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

// formatBytes formats a byte count with binary units.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < 2; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMG"[exp])
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%d ms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2f s", d.Seconds())
}
