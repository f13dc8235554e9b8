package app

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"ge-lookup/internal/health"
	"ge-lookup/internal/provider"
	"ge-lookup/internal/view"
)

// Show loads all three sources once and prints the merged record of one item.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	d := a.buildDeps()

	if err := d.agg.Load(ctx); err != nil {
		return err
	}

	entry, ok := d.index.Get(opts.ID)
	if !ok {
		return fmt.Errorf("unknown item id %d", opts.ID)
	}

	var quote *provider.PriceQuote
	if q, found := d.agg.Price(entry.ID); found {
		quote = &q
	}
	var attrs *provider.AttributeRecord
	if r, found := d.agg.Attributes(entry.ID); found {
		attrs = &r
	}
	item := view.Compose(entry, quote, attrs)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Name\t%s\n", entry.Name)
	fmt.Fprintf(writer, "ID\t%d\n", entry.ID)
	fmt.Fprintf(writer, "Examine\t%s\n", entry.Examine)
	fmt.Fprintf(writer, "Members\t%t\n", entry.Members)
	fmt.Fprintf(writer, "Store value\t%d\n", entry.StoreValue)
	if entry.BuyLimit != nil {
		fmt.Fprintf(writer, "Buy limit\t%d\n", *entry.BuyLimit)
	}
	if entry.HighAlch != nil {
		fmt.Fprintf(writer, "High alch\t%d\n", *entry.HighAlch)
	}

	if item.HasQuote() {
		printQuote(writer, item)
	} else {
		fmt.Fprintf(writer, "Market\t%s\n", view.NoMarketData)
	}

	if attrs != nil {
		printAttributes(writer, attrs)
	}

	if err := writer.Flush(); err != nil {
		return err
	}

	printStatusStrip(d.tracker)
	return nil
}

func printQuote(writer *tabwriter.Writer, item view.Item) {
	q := item.Quote
	if q.InstantBuy != nil {
		fmt.Fprintf(writer, "Instant buy\t%d\t(%s)\n", *q.InstantBuy, formatTradeTime(q.InstantBuyAt))
	}
	if q.InstantSell != nil {
		fmt.Fprintf(writer, "Instant sell\t%d\t(%s)\n", *q.InstantSell, formatTradeTime(q.InstantSellAt))
	}
	if m := item.Margin; m != nil {
		fmt.Fprintf(writer, "Spread\t%s\n", m.Spread)
		fmt.Fprintf(writer, "Tax\t%s\n", m.Tax)
		fmt.Fprintf(writer, "Net margin\t%s\t(%s%% ROI)\n", m.Net, m.ROIPct)
	}
}

func printAttributes(writer *tabwriter.Writer, attrs *provider.AttributeRecord) {
	fmt.Fprintf(writer, "Weight\t%.2f kg\n", attrs.Weight)
	if eq := attrs.Equipment; eq != nil {
		fmt.Fprintf(writer, "Slot\t%s\n", eq.Slot)
		fmt.Fprintf(writer, "Attack\tstab %d / slash %d / crush %d / magic %d / ranged %d\n",
			eq.AttackStab, eq.AttackSlash, eq.AttackCrush, eq.AttackMagic, eq.AttackRanged)
		fmt.Fprintf(writer, "Defence\tstab %d / slash %d / crush %d / magic %d / ranged %d\n",
			eq.DefenceStab, eq.DefenceSlash, eq.DefenceCrush, eq.DefenceMagic, eq.DefenceRanged)
		fmt.Fprintf(writer, "Strength\tmelee %d / ranged %d / magic %d%%\n",
			eq.MeleeStrength, eq.RangedStrength, eq.MagicDamage)
	}
	if wp := attrs.Weapon; wp != nil {
		fmt.Fprintf(writer, "Weapon\t%s, speed %d\n", wp.WeaponType, wp.AttackSpeed)
	}
}

func printStatusStrip(tracker *health.Tracker) {
	statuses := tracker.Statuses()
	fmt.Fprintf(os.Stdout, "\nsources: catalog=%s prices=%s attributes=%s\n",
		statuses[health.SourceCatalog], statuses[health.SourcePrices], statuses[health.SourceAttributes])
}

func formatTradeTime(t time.Time) string {
	if t.IsZero() {
		return "time unknown"
	}
	return t.UTC().Format(time.RFC3339)
}
