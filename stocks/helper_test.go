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
package stocks

import (
	"math"
	"testing"

	"github.com/spf13/afero"
)

func rec(ticker, date string, open, close float64) PriceRecord {
	month := ""
	if len(date) >= 7 {
		month = date[:7]
	}
	return PriceRecord{Ticker: ticker, Date: date, Month: month, Open: open, Close: close}
}

func writeFile(t *testing.T, fs afero.Fs, fn, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, fn, []byte(content), 0644); err != nil {
		t.Fatalf("could not write %s: %v", fn, err)
	}
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
