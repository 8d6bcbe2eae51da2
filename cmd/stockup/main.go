// Command stockup is the offline inventory and sales tracker. All data lives
// in a local directory of JSON files; no network is involved.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/clubstock/clubstock/internal/stockup/app"
	"github.com/clubstock/clubstock/internal/stockup/filter"
	"github.com/clubstock/clubstock/internal/stockup/ledger"
	"github.com/clubstock/clubstock/internal/stockup/model"
	"github.com/clubstock/clubstock/internal/stockup/stats"
	"github.com/clubstock/clubstock/internal/stockup/store"
)

const usage = `stockup - offline club inventory and sales

Usage:
  stockup [-data DIR] <command> [arguments]

Commands:
  init <first> <last>                       create the local profile
  category add <name> [color]               add a category
  category list                             list categories
  product add <name> <variant> <price> <stock> [category-id]
  product list [-query Q] [-status ok|low|out] [-sort ORDER]
  sale add <product-id> <variant-id> <qty> <price> [-confirm]
  sale delete <sale-id>
  sale list [-query Q]
  stats [-period week|month]
  analytics [-period week|month]
  export                                    print the full-state JSON document
  reset -yes                                erase all local data
`

func main() {
	dataDir := flag.String("data", defaultDataDir(), "data directory")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	logger := zap.NewNop()
	if os.Getenv("STOCKUP_DEBUG") != "" {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
		}
	}

	st, err := store.OpenFileStore(*dataDir)
	if err != nil {
		fatal(err)
	}
	a := app.New(st, logger)
	ctx := context.Background()

	if err := run(ctx, a, args); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "stockup:", err)
	os.Exit(1)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".stockup"
	}
	return filepath.Join(home, ".stockup")
}

func run(ctx context.Context, a *app.App, args []string) error {
	switch args[0] {
	case "init":
		return cmdInit(ctx, a, args[1:])
	case "category":
		return cmdCategory(ctx, a, args[1:])
	case "product":
		return cmdProduct(ctx, a, args[1:])
	case "sale":
		return cmdSale(ctx, a, args[1:])
	case "stats":
		return cmdStats(ctx, a, args[1:])
	case "analytics":
		return cmdAnalytics(ctx, a, args[1:])
	case "export":
		return cmdExport(ctx, a)
	case "reset":
		return cmdReset(ctx, a, args[1:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func cmdInit(ctx context.Context, a *app.App, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: init <first> <last>")
	}
	u, err := a.Onboard(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("welcome, %s %s\n", u.FirstName, u.LastName)
	return nil
}

func cmdCategory(ctx context.Context, a *app.App, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: category add|list")
	}
	switch args[0] {
	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: category add <name> [color]")
		}
		color := "#808080"
		if len(args) > 2 {
			color = args[2]
		}
		c, err := a.CreateCategory(ctx, args[1], color)
		if err != nil {
			return err
		}
		fmt.Println(c.ID)
		return nil
	case "list":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCOLOR")
		for _, c := range a.Categories(ctx) {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Name, c.Color)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown category command %q", args[0])
	}
}

func cmdProduct(ctx context.Context, a *app.App, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: product add|list")
	}
	switch args[0] {
	case "add":
		if len(args) < 5 {
			return fmt.Errorf("usage: product add <name> <variant> <price> <stock> [category-id]")
		}
		price, err := strconv.ParseFloat(args[3], 64)
		if err != nil {
			return fmt.Errorf("invalid price %q", args[3])
		}
		stock, err := strconv.Atoi(args[4])
		if err != nil {
			return fmt.Errorf("invalid stock %q", args[4])
		}
		categoryID := ""
		if len(args) > 5 {
			categoryID = args[5]
		}
		p, err := a.CreateProduct(ctx, app.ProductInput{
			Name:       args[1],
			CategoryID: categoryID,
			Variants:   []model.ProductVariant{{Name: args[2], Price: price, Stock: stock}},
		})
		if err != nil {
			return err
		}
		fmt.Println(p.ID)
		return nil
	case "list":
		fs := flag.NewFlagSet("product list", flag.ContinueOnError)
		query := fs.String("query", "", "substring over name and description")
		status := fs.String("status", filter.All, "ok, low, out or all")
		order := fs.String("sort", filter.SortNameAsc, "name-asc, name-desc, stock-low, stock-high")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		settings := a.Settings(ctx)
		products := a.FilterProducts(ctx, *query, filter.All, ledger.Status(*status), *order)

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tVARIANT\tPRICE\tSTOCK\tSTATUS")
		for _, p := range products {
			info := ledger.ProductStockInfo(p.Variants)
			fmt.Fprintf(w, "%s\t%s\t\t\t%s\t%s\n",
				p.ID, p.Name, info.Display,
				ledger.DisplayStatus(p, settings.LowStockThreshold))
			for _, v := range p.Variants {
				fmt.Fprintf(w, "\t\t%s\t%.2f\t%d\t%s\n",
					v.Name, v.Price, v.Stock,
					ledger.StockStatus(v.Stock, settings.LowStockThreshold))
			}
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown product command %q", args[0])
	}
}

func cmdSale(ctx context.Context, a *app.App, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: sale add|delete|list")
	}
	switch args[0] {
	case "add":
		if len(args) < 5 {
			return fmt.Errorf("usage: sale add <product-id> <variant-id> <qty> <price> [-confirm]")
		}
		qty, err := strconv.Atoi(args[3])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[3])
		}
		price, err := strconv.ParseFloat(args[4], 64)
		if err != nil {
			return fmt.Errorf("invalid price %q", args[4])
		}
		confirm := len(args) > 5 && args[5] == "-confirm"

		sale, err := a.RecordSale(ctx, ledger.RecordSaleInput{
			ProductID: args[1],
			VariantID: args[2],
			Quantity:  qty,
			Price:     price,
			Confirm:   confirm,
		})
		if errors.Is(err, ledger.ErrConfirmPreorder) {
			return fmt.Errorf("stock would go negative; repeat with -confirm to record a preorder")
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s  %s / %s  x%d  %.2f\n", sale.ID, sale.ProductName, sale.VariantName, sale.Quantity, sale.TotalAmount)
		return nil
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: sale delete <sale-id>")
		}
		return a.DeleteSale(ctx, args[1])
	case "list":
		fs := flag.NewFlagSet("sale list", flag.ContinueOnError)
		query := fs.String("query", "", "substring over product and variant names")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPRODUCT\tVARIANT\tQTY\tTOTAL")
		for _, s := range a.FilterSales(ctx, *query, filter.SortNewest) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\n", s.ID, s.ProductName, s.VariantName, s.Quantity, s.TotalAmount)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown sale command %q", args[0])
	}
}

func parsePeriod(args []string) (stats.Period, error) {
	fs := flag.NewFlagSet("period", flag.ContinueOnError)
	period := fs.String("period", string(stats.PeriodWeek), "week or month")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	switch stats.Period(*period) {
	case stats.PeriodWeek, stats.PeriodMonth:
		return stats.Period(*period), nil
	default:
		return "", fmt.Errorf("invalid period %q", *period)
	}
}

func cmdStats(ctx context.Context, a *app.App, args []string) error {
	period, err := parsePeriod(args)
	if err != nil {
		return err
	}
	st := a.SalesStats(ctx, period)

	fmt.Printf("period: %s\n", st.Period)
	fmt.Printf("units sold: %d (%+.1f%%)\n", st.TotalUnits, st.UnitsChange)
	fmt.Printf("revenue: %.2f (%+.1f%%)\n", st.TotalRevenue, st.RevenueChange)
	fmt.Printf("average sale: %.2f\n", st.AverageSale)

	if len(st.TopProducts) > 0 {
		fmt.Println("top products:")
		for _, p := range st.TopProducts {
			fmt.Printf("  %s / %s: %d units, %.2f\n", p.ProductName, p.VariantName, p.Units, p.Revenue)
		}
	}
	if len(st.RevenueByCategory) > 0 {
		fmt.Println("revenue by category:")
		for _, c := range st.RevenueByCategory {
			fmt.Printf("  %s: %.2f\n", c.CategoryName, c.Revenue)
		}
	}
	return nil
}

func cmdAnalytics(ctx context.Context, a *app.App, args []string) error {
	period, err := parsePeriod(args)
	if err != nil {
		return err
	}
	m := a.InventoryMetrics(ctx, period)

	fmt.Printf("dormant value: %.2f\n", m.DormantValue)
	fmt.Printf("available units: %d across %d products / %d variants\n", m.AvailableUnits, m.ProductCount, m.VariantCount)
	fmt.Printf("out of stock: %d\n", m.OutOfStockCount)
	fmt.Printf("low stock: %d\n", a.LowStockCount(ctx))
	fmt.Printf("turnover rate: %.1f%%\n", m.TurnoverRate)

	if len(m.TopDormant) > 0 {
		fmt.Println("most capital sitting in:")
		for _, p := range m.TopDormant {
			fmt.Printf("  %s: %d units, %.2f\n", p.ProductName, p.Units, p.TotalValue)
		}
	}
	return nil
}

func cmdExport(ctx context.Context, a *app.App) error {
	data, err := a.ExportJSON(ctx)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(data, '\n'))
	return err
}

func cmdReset(ctx context.Context, a *app.App, args []string) error {
	if len(args) == 0 || args[0] != "-yes" {
		return fmt.Errorf("reset erases all local data; repeat with -yes to proceed")
	}
	return a.ResetAll(ctx)
}
