// package formatter renders match results as text blocks
package formatter

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/docmatch/internal/models"
	"github.com/mattn/go-isatty"
)

const (
	matchRule = "--------------------"
	blockRule = "===================="
)

// MatchToText renders one match as a block: a header naming the track and score, then the
// document row's Title, Version, "What do you think?", Issues and Reference fields.
func MatchToText(m models.MatchResult, p *Palette) []byte {
	var buf bytes.Buffer

	header := fmt.Sprintf("The following song matches an entry in the doc [%s - %s]", m.Track.Title, m.Track.Artist)
	buf.WriteString(fmt.Sprintf("%s %s\n", p.Title(header), p.Score(fmt.Sprintf("[%.2f]", m.Score))))
	buf.WriteString(p.Rule(matchRule) + "\n")

	for _, column := range models.RequiredColumns {
		buf.WriteString(p.Field(m.Row.Get(column)) + "\n")
	}

	buf.WriteString(p.Rule(blockRule) + "\n")

	return buf.Bytes()
}

// WriteMatches writes every match to w in order.
func WriteMatches(w io.Writer, matches []models.MatchResult, p *Palette) error {
	for _, m := range matches {
		if _, err := w.Write(MatchToText(m, p)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// PaletteFor returns [DefaultPalette] when w is a terminal and color is wanted, nil otherwise.
func PaletteFor(w io.Writer, color bool) *Palette {
	if !color {
		return nil
	}
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return nil
	}
	return DefaultPalette
}
