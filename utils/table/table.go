/*
 * Copyright 2025 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package table

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// NullText is printed for NULL cells.
const NullText = "NULL"

// Write renders rows as a text table, followed by a row count line.
// Columns follow fieldOrder; columns not named there are appended in
// alphabetical order.
func Write(w io.Writer, data []map[string]any, fieldOrder []string) error {
	out := bufio.NewWriter(w)
	if len(data) == 0 {
		out.WriteString("(0 rows)\n")
		return out.Flush()
	}

	columns := Columns(data, fieldOrder)
	cells := make([][]string, len(data))
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = max(utf8.RuneCountInString(col), 4)
	}
	for r, row := range data {
		cells[r] = make([]string, len(columns))
		for i, col := range columns {
			v, exists := row[col]
			cells[r][i] = cellText(v, exists)
			widths[i] = max(widths[i], utf8.RuneCountInString(cells[r][i]))
		}
	}

	writeBorder(out, widths)
	writeRow(out, widths, columns)
	writeBorder(out, widths)
	for _, row := range cells {
		writeRow(out, widths, row)
	}
	writeBorder(out, widths)
	out.WriteString("(" + cast.ToString(len(data)) + " rows)\n")
	return out.Flush()
}

// Columns returns the column order used by Write.
func Columns(data []map[string]any, fieldOrder []string) []string {
	columnSet := make(map[string]bool)
	for _, row := range data {
		for col := range row {
			columnSet[col] = true
		}
	}
	columns := make([]string, 0, len(columnSet))
	for _, field := range fieldOrder {
		if columnSet[field] {
			columns = append(columns, field)
			delete(columnSet, field)
		}
	}
	rest := make([]string, 0, len(columnSet))
	for col := range columnSet {
		rest = append(rest, col)
	}
	sort.Strings(rest)
	return append(columns, rest...)
}

func cellText(v any, exists bool) string {
	if !exists {
		return ""
	}
	if v == nil {
		return NullText
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		s = fmt.Sprintf("%v", v)
	}
	return strings.ReplaceAll(s, "\n", " ")
}

func writeBorder(w *bufio.Writer, widths []int) {
	w.WriteString("+")
	for _, width := range widths {
		w.WriteString(strings.Repeat("-", width+2))
		w.WriteString("+")
	}
	w.WriteString("\n")
}

func writeRow(w *bufio.Writer, widths []int, cells []string) {
	w.WriteString("|")
	for i, cell := range cells {
		w.WriteString(" ")
		w.WriteString(cell)
		w.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell)))
		w.WriteString(" |")
	}
	w.WriteString("\n")
}
