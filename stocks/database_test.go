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
	"context"
	"math"
	"os"
	"testing"

	"github.com/guregu/null/v5"
	"github.com/jackc/pgx/v4"
)

const createTables = `
CREATE TABLE IF NOT EXISTS ticker_metrics (
	ticker text,
	start_price double precision,
	close_price double precision,
	annual_return double precision,
	avg_price double precision,
	avg_volume double precision,
	std_dev double precision,
	cum_return double precision,
	sector text,
	CONSTRAINT ticker_metrics_pkey PRIMARY KEY (ticker)
);
CREATE TABLE IF NOT EXISTS monthly_return (
	ticker text,
	month text,
	month_open double precision,
	month_close double precision,
	month_return double precision,
	CONSTRAINT monthly_return_pkey PRIMARY KEY (ticker, month)
);`

func getConnection(t *testing.T, ctx context.Context) (*pgx.Conn, string) {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("could not connect to database: %v", err)
	}
	if _, err := conn.Exec(ctx, createTables); err != nil {
		conn.Close(ctx)
		t.Fatalf("could not create tables: %v", err)
	}
	return conn, dsn
}

func TestSaveToDatabase(t *testing.T) {
	const ticker = "_TEST"
	ctx := context.Background()
	conn, dsn := getConnection(t, ctx)
	defer conn.Close(ctx)
	defer func() {
		conn.Exec(ctx, "DELETE FROM ticker_metrics WHERE ticker = $1", ticker)
		conn.Exec(ctx, "DELETE FROM monthly_return WHERE ticker = $1", ticker)
	}()

	metrics := []TickerMetrics{{Ticker: ticker, AnnualReturn: 0.1, StdDev: math.NaN(), Sector: null.StringFrom("BANKING")}}
	monthly := []MonthlyReturn{{Ticker: ticker, Month: "2023-10", MonthOpen: 10, MonthClose: 11, MonthReturn: 0.1}}
	if err := SaveToDatabase(ctx, dsn, metrics, monthly); err != nil {
		t.Fatalf("SaveToDatabase() unexpected error: %v", err)
	}

	metrics[0].Sector = null.String{}
	if err := SaveToDatabase(ctx, dsn, metrics, monthly); err != nil {
		t.Fatalf("SaveToDatabase() second run unexpected error: %v", err)
	}

	var count int
	if err := conn.QueryRow(ctx, "SELECT count(*) FROM monthly_return WHERE ticker = $1", ticker).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("monthly_return has %d rows for %s, want 1", count, ticker)
	}

	var sector *string
	if err := conn.QueryRow(ctx, "SELECT sector FROM ticker_metrics WHERE ticker = $1", ticker).Scan(&sector); err != nil {
		t.Fatal(err)
	}
	if sector != nil {
		t.Errorf("sector = %q, want NULL after the upsert", *sector)
	}
}
