package main

import (
	"fmt"
	"io"
	"strconv"

	"werscore/internal/report"
)

func writeConfusionTables(out io.Writer, conf report.Confusions) error {
	colorize := shouldColorize(out)
	sections := []struct {
		title   string
		headers []string
		rows    [][]string
	}{
		{title: "Substitutions", headers: []string{"Reference", "Hypothesis", "Count"}},
		{title: "Deletions", headers: []string{"Reference", "Count"}},
		{title: "Insertions", headers: []string{"Hypothesis", "Count"}},
	}
	for _, e := range conf.Substitutions {
		sections[0].rows = append(sections[0].rows, []string{e.Key.Ref, e.Key.Hyp, strconv.Itoa(e.Count)})
	}
	for _, e := range conf.Deletions {
		sections[1].rows = append(sections[1].rows, []string{e.Key, strconv.Itoa(e.Count)})
	}
	for _, e := range conf.Insertions {
		sections[2].rows = append(sections[2].rows, []string{e.Key, strconv.Itoa(e.Count)})
	}

	for _, section := range sections {
		if len(section.rows) == 0 {
			continue
		}
		aligns := make([]columnAlignment, len(section.headers))
		aligns[len(aligns)-1] = alignRight
		if _, err := fmt.Fprintf(out, "\n%s\n%s\n", section.title,
			renderTable(section.headers, section.rows, aligns, colorize)); err != nil {
			return err
		}
	}
	return nil
}
