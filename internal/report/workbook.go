package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// Workbook sheet names, in tab order.
const (
	SheetSummary    = "Summary"
	SheetRegions    = "Regions"
	SheetProducts   = "Products"
	SheetCustomers  = "Customers"
	SheetDailyTrend = "Daily Trend"
	SheetEnrichment = "Enrichment"
)

// sheetWriter appends rows to one sheet.
type sheetWriter struct {
	f      *excelize.File
	name   string
	row    int
	header int
}

func (s *sheetWriter) addRow(values ...interface{}) error {
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		return err
	}
	return s.f.SetSheetRow(s.name, cell, &values)
}

func (s *sheetWriter) addHeader(values ...interface{}) error {
	if err := s.addRow(values...); err != nil {
		return err
	}
	start, _ := excelize.CoordinatesToCellName(1, s.row)
	end, _ := excelize.CoordinatesToCellName(len(values), s.row)
	return s.f.SetCellStyle(s.name, start, end, s.header)
}

// WriteWorkbook exports the report as an XLSX workbook.
//
// PARAMETERS:
//   - path: Destination .xlsx file. Parent directories are created as needed.
//   - r: The assembled report.
//
// RETURNS:
//   - An error if the workbook cannot be built or saved.
func WriteWorkbook(path string, r *Report) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return fmt.Errorf("failed to prepare workbook: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create workbook style: %w", err)
	}

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", SheetSummary, err)
	}
	for _, name := range []string{SheetRegions, SheetProducts, SheetCustomers, SheetDailyTrend, SheetEnrichment} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	sheets := []struct {
		name  string
		fill  func(*sheetWriter, *Report) error
		width float64
	}{
		{SheetSummary, fillSummary, 28},
		{SheetRegions, fillRegions, 16},
		{SheetProducts, fillProducts, 24},
		{SheetCustomers, fillCustomers, 18},
		{SheetDailyTrend, fillDailyTrend, 18},
		{SheetEnrichment, fillEnrichment, 22},
	}

	for _, sheet := range sheets {
		sw := &sheetWriter{f: f, name: sheet.name, header: header}
		if err := sheet.fill(sw, r); err != nil {
			return fmt.Errorf("failed to fill sheet %s: %w", sheet.name, err)
		}
		if err := f.SetColWidth(sheet.name, "A", "F", sheet.width); err != nil {
			return fmt.Errorf("failed to size sheet %s: %w", sheet.name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// =============================================================================
// SHEETS
// =============================================================================

func fillSummary(s *sheetWriter, r *Report) error {
	peakDate, peakRevenue := NotAvailable, 0.0
	if r.PeakDay != nil {
		peakDate, peakRevenue = r.PeakDay.Date, r.PeakDay.Revenue.InexactFloat64()
	}

	rows := [][]interface{}{
		{"Generated", r.Header.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Run ID", r.Header.RunID},
		{"Records Processed", r.Header.RecordCount},
		{"Total Revenue", r.Overall.TotalRevenue.Round(2).InexactFloat64()},
		{"Total Transactions", r.Overall.TransactionCount},
		{"Average Order Value", r.Overall.AverageOrderValue.InexactFloat64()},
		{"Date Range", r.Overall.DateRange.String()},
		{"Best Selling Day", peakDate},
		{"Best Day Revenue", peakRevenue},
	}

	if err := s.addHeader("Metric", "Value"); err != nil {
		return err
	}
	for _, row := range rows {
		if err := s.addRow(row...); err != nil {
			return err
		}
	}
	return nil
}

func fillRegions(s *sheetWriter, r *Report) error {
	if err := s.addHeader("Region", "Sales", "% of Total", "Transactions", "Average"); err != nil {
		return err
	}

	averages := make(map[string]float64, len(r.RegionAverages))
	for _, a := range r.RegionAverages {
		averages[a.Region] = a.Average.InexactFloat64()
	}

	for _, region := range r.Regions {
		if err := s.addRow(
			region.Region,
			region.TotalSales.InexactFloat64(),
			region.Percentage.InexactFloat64(),
			region.TransactionCount,
			averages[region.Region],
		); err != nil {
			return err
		}
	}
	return nil
}

func fillProducts(s *sheetWriter, r *Report) error {
	if err := s.addHeader("Rank", "Product Name", "Quantity Sold", "Revenue"); err != nil {
		return err
	}
	for i, p := range r.TopProducts {
		if err := s.addRow(i+1, p.Name, p.TotalQuantity, p.TotalRevenue.InexactFloat64()); err != nil {
			return err
		}
	}

	s.row++
	if err := s.addHeader(fmt.Sprintf("Low Performers (Quantity < %d)", r.LowPerformerThreshold), "Quantity Sold", "Revenue"); err != nil {
		return err
	}
	for _, p := range r.LowPerformers {
		if err := s.addRow(p.Name, p.TotalQuantity, p.TotalRevenue.InexactFloat64()); err != nil {
			return err
		}
	}
	return nil
}

func fillCustomers(s *sheetWriter, r *Report) error {
	if err := s.addHeader("Rank", "Customer ID", "Total Spent", "Order Count", "Average Order", "Products"); err != nil {
		return err
	}
	for i, c := range r.TopCustomers {
		if err := s.addRow(
			i+1,
			c.CustomerID,
			c.TotalSpent.InexactFloat64(),
			c.PurchaseCount,
			c.AvgOrderValue.InexactFloat64(),
			strings.Join(c.ProductsBought, ", "),
		); err != nil {
			return err
		}
	}
	return nil
}

func fillDailyTrend(s *sheetWriter, r *Report) error {
	if err := s.addHeader("Date", "Revenue", "Transactions", "Unique Customers"); err != nil {
		return err
	}
	for _, d := range r.DailyTrend {
		if err := s.addRow(d.Date, d.Revenue.InexactFloat64(), d.TransactionCount, d.UniqueCustomers); err != nil {
			return err
		}
	}
	if r.DailyTrendOverflow > 0 {
		return s.addRow(fmt.Sprintf("... and %d more days", r.DailyTrendOverflow))
	}
	return nil
}

func fillEnrichment(s *sheetWriter, r *Report) error {
	rows := [][]interface{}{
		{"Total Products Enriched", r.Enrichment.Total},
		{"Matched", r.Enrichment.Matched},
		{"Success Rate (%)", r.Enrichment.SuccessRate.InexactFloat64()},
	}

	if err := s.addHeader("Metric", "Value"); err != nil {
		return err
	}
	for _, row := range rows {
		if err := s.addRow(row...); err != nil {
			return err
		}
	}

	s.row++
	if err := s.addHeader("Unmatched Product ID"); err != nil {
		return err
	}
	for _, id := range r.Enrichment.Unmatched {
		if err := s.addRow(id); err != nil {
			return err
		}
	}
	if r.Enrichment.UnmatchedOverflow > 0 {
		return s.addRow(fmt.Sprintf("... and %d more", r.Enrichment.UnmatchedOverflow))
	}
	return nil
}
