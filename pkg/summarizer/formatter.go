package summarizer

// Formatter renders the summary of one PFM to FPX transcode. The command
// line writes the result next to the output when --summary is given.
type Formatter interface {
	Format(summary *Summary) string
}

// FormatFunc lets a plain function render summaries, e.g. a one-line
// report in tests.
type FormatFunc func(summary *Summary) string

func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}
