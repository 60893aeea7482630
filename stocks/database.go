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

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog/log"
)

const upsertTickerMetrics = `INSERT INTO ticker_metrics (
	"ticker",
	"start_price",
	"close_price",
	"annual_return",
	"avg_price",
	"avg_volume",
	"std_dev",
	"cum_return",
	"sector"
) VALUES (
	$1,
	$2,
	$3,
	$4,
	$5,
	$6,
	$7,
	$8,
	$9
) ON CONFLICT ON CONSTRAINT ticker_metrics_pkey
DO UPDATE SET
	start_price = EXCLUDED.start_price,
	close_price = EXCLUDED.close_price,
	annual_return = EXCLUDED.annual_return,
	avg_price = EXCLUDED.avg_price,
	avg_volume = EXCLUDED.avg_volume,
	std_dev = EXCLUDED.std_dev,
	cum_return = EXCLUDED.cum_return,
	sector = EXCLUDED.sector;`

const upsertMonthlyReturn = `INSERT INTO monthly_return (
	"ticker",
	"month",
	"month_open",
	"month_close",
	"month_return"
) VALUES (
	$1,
	$2,
	$3,
	$4,
	$5
) ON CONFLICT ON CONSTRAINT monthly_return_pkey
DO UPDATE SET
	month_open = EXCLUDED.month_open,
	month_close = EXCLUDED.month_close,
	month_return = EXCLUDED.month_return;`

// SaveToDatabase upserts the ticker metrics and monthly returns in a single
// transaction. Undefined values are stored as NaN and unmapped sectors as NULL.
func SaveToDatabase(ctx context.Context, dsn string, metrics []TickerMetrics, monthly []MonthlyReturn) error {
	log.Info().Int("NumTickers", len(metrics)).Int("NumMonthlyReturns", len(monthly)).Msg("saving to database")
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		log.Error().Err(err).Msg("Could not connect to database")
		return err
	}
	defer conn.Close(ctx)

	tx, err := conn.Begin(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not begin transaction")
		return err
	}

	for _, m := range metrics {
		if _, err := tx.Exec(ctx, upsertTickerMetrics,
			m.Ticker, m.StartPrice, m.ClosePrice, m.AnnualReturn,
			m.AvgPrice, m.AvgVolume, m.StdDev, m.CumReturn, m.Sector); err != nil {
			log.Error().Err(err).Str("Ticker", m.Ticker).Msg("error saving ticker metrics to database")
			tx.Rollback(ctx)
			return err
		}
	}

	for _, r := range monthly {
		if _, err := tx.Exec(ctx, upsertMonthlyReturn,
			r.Ticker, r.Month, r.MonthOpen, r.MonthClose, r.MonthReturn); err != nil {
			log.Error().Err(err).Str("Ticker", r.Ticker).Str("Month", r.Month).Msg("error saving monthly return to database")
			tx.Rollback(ctx)
			return err
		}
	}

	return tx.Commit(ctx)
}
