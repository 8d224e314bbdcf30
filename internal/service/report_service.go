package service

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/models"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const (
	DefaultSuspicionThreshold = 95

	FormatText  = "text"
	FormatTable = "table"
)

// ReportService renders batch reports for the terminal.
type ReportService interface {
	Render(report *models.BatchReport) error
	IsHighSuspicion(score models.Score) bool
}

type ReportConfig struct {
	Threshold int
	Color     bool
	Format    string
}

type reportService struct {
	out    io.Writer
	errOut io.Writer
	config ReportConfig
}

// NewReportService writes results to out and user hints to errOut.
func NewReportService(out, errOut io.Writer, config ReportConfig) ReportService {
	if config.Format == "" {
		config.Format = FormatText
	}
	if config.Color {
		text.EnableColors()
	}
	return &reportService{
		out:    out,
		errOut: errOut,
		config: config,
	}
}

func (s *reportService) IsHighSuspicion(score models.Score) bool {
	return int(score) >= s.config.Threshold
}

func (s *reportService) Render(report *models.BatchReport) error {
	switch report.Status {
	case models.BatchStatusNoFiles:
		_, err := fmt.Fprintln(s.errOut, "No files found.")
		return err
	case models.BatchStatusCompleted:
	default:
		return fmt.Errorf("cannot render batch %s with status %s", report.ID, report.Status)
	}

	stats := report.Stats
	if stats.Count == 0 || stats.Mean == 0 {
		return s.renderNothingSimilar(report)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Average of %d comparisons: %.2f, Std. Dev. %.2f\n",
		stats.Count, stats.Mean, stats.StdDev)
	fmt.Fprintf(&sb, "Excluding %d zeros, average of %d comparisons: %.2f, Std. Dev. %.2f\n",
		stats.Zeroes, stats.NonZeroCount, stats.NonZeroMean, stats.NonZeroStdDev)

	pairs := sortedPairs(report.Pairs)
	if s.config.Format == FormatTable {
		sb.WriteString(s.renderTable(pairs))
		sb.WriteByte('\n')
	} else {
		for _, p := range pairs {
			line := fmt.Sprintf("%s vs %s: %d", p.Key.A, p.Key.B, p.Score)
			if s.IsHighSuspicion(p.Score) && s.config.Color {
				line = text.FgRed.Sprint(line)
			}
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}

	_, err := io.WriteString(s.out, sb.String())
	return err
}

func (s *reportService) renderNothingSimilar(report *models.BatchReport) error {
	msg := "Nothing is similar.\n"
	if !report.Filtered() {
		msg += "Maybe try limiting by file extension? Run with `--help` for more information.\n"
	}
	_, err := io.WriteString(s.errOut, msg)
	return err
}

func (s *reportService) renderTable(pairs []models.PairScore) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Submission", "Submission", "Score", "Suspicious"})

	for _, p := range pairs {
		score := strconv.Itoa(int(p.Score))
		flag := ""
		if s.IsHighSuspicion(p.Score) {
			flag = "yes"
			if s.config.Color {
				score = text.FgRed.Sprint(score)
				flag = text.FgRed.Sprint(flag)
			}
		}
		tw.AppendRow(table.Row{p.Key.A.String(), p.Key.B.String(), score, flag})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// sortedPairs orders pairs by descending score, then by key.
func sortedPairs(pairs map[models.PairKey]models.Score) []models.PairScore {
	out := make([]models.PairScore, 0, len(pairs))
	for key, score := range pairs {
		out = append(out, models.PairScore{Key: key, Score: score})
	}
	slices.SortFunc(out, func(a, b models.PairScore) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Key.A, b.Key.A); c != 0 {
			return c
		}
		return cmp.Compare(a.Key.B, b.Key.B)
	})
	return out
}
