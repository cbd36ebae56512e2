package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"price-elasticity/internal/report"
)

// Show prints recent persisted elasticity results, newest run first.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot show results")
	}
	if closeStore != nil {
		defer closeStore()
	}

	records, err := store.ListRecentResults(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "no results found")
		return nil
	}

	report.WriteRecordsTable(os.Stdout, records)
	return nil
}
