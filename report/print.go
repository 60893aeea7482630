/*
Copyright 2024

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
)

const barWidth = 30

// Print writes markdown to w, styled for the terminal unless plain is set.
func Print(w io.Writer, markdown string, plain bool) error {
	if plain {
		_, err := io.WriteString(w, markdown)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return err
	}
	out, err := r.Render(markdown)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func percent(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", v*100)
}

func number(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}

func ratio(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}

// bar draws v relative to scale as a row of block characters. Undefined and
// infinite values get no bar.
func bar(v, scale float64) string {
	if !finite(v) || !finite(scale) || scale <= 0 {
		return ""
	}
	n := int(math.Round(math.Abs(v) / scale * barWidth))
	return strings.Repeat("█", min(n, barWidth))
}

func maxAbs(values ...float64) float64 {
	m := 0.0
	for _, v := range values {
		if finite(v) && math.Abs(v) > m {
			m = math.Abs(v)
		}
	}
	return m
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// monthLabel turns 2023-10 into October 2023.
func monthLabel(month string) string {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return month
	}
	return t.Format("January 2006")
}
