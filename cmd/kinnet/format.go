package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/persistorai/kinnet/internal/models"
)

func formatJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// formatTable writes left-aligned columns. Widths count runes so Chinese
// names line up as well as a terminal allows.
func formatTable(w io.Writer, headers []string, rows [][]string) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(cell))
			}
		}
	}

	var b strings.Builder
	printRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if i < len(cells)-1 && i < len(widths) {
				b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)))
			}
		}
		b.WriteByte('\n')
	}

	printRow(headers)
	seps := make([]string, len(headers))
	for i, n := range widths {
		seps[i] = strings.Repeat("-", n)
	}
	printRow(seps)
	for _, row := range rows {
		printRow(row)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

var networkHeaders = []string{"ID", "LABEL", "ROLE", "DEPTH", "UP", "DOWN", "COLLATERAL", "MARRIAGE"}

// formatNetworkTable lists the nodes of n in id order, then a summary line.
func formatNetworkTable(w io.Writer, n *models.Network) error {
	rows := make([][]string, 0, len(n.Graph.Nodes))
	for _, id := range n.Graph.NodeIDs() {
		a := n.Graph.Nodes[id]
		rows = append(rows, []string{
			id.String(),
			a.Label,
			string(a.Role),
			strconv.Itoa(a.Depth),
			strconv.Itoa(a.Path.GenerationsUp),
			strconv.Itoa(a.Path.GenerationsDown),
			strconv.Itoa(a.Path.CollateralSteps),
			strconv.Itoa(a.Path.MarriageLinks),
		})
	}

	if err := formatTable(w, networkHeaders, rows); err != nil {
		return err
	}

	summary := fmt.Sprintf("\n%d nodes, %d edges, %d components, density %.4f",
		n.Metrics.NodeCount, n.Metrics.EdgeCount, n.Metrics.ComponentCount, n.Metrics.Density)
	if n.Truncated {
		summary += " (truncated)"
	}

	_, err := fmt.Fprintln(w, summary)
	return err
}

func optInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
