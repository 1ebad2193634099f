package service

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/sales-dashboard-api/internal/dto"
	"github.com/noah-isme/sales-dashboard-api/internal/models"
	"github.com/noah-isme/sales-dashboard-api/internal/sku"
)

var hundred = decimal.NewFromInt(100)

// SampleKPIs counts sample requests by status.
func SampleKPIs(requests []models.SampleRequest) dto.SampleKPIs {
	kpis := dto.SampleKPIs{SampleOrderPlaced: len(requests)}
	for _, request := range requests {
		kpis.TotalRequestBooks += request.TotalBooks
		switch request.SampleStatus {
		case models.SampleStatusRequestReceived:
			kpis.OrderReceived++
			if request.ZMApproval == models.ZMApprovalPending {
				kpis.ZMApprovalPending++
			}
		case models.SampleStatusDispatched:
			kpis.Dispatched++
		case models.SampleStatusDelivered:
			kpis.Delivered++
		}
	}
	return kpis
}

// OrderKPIs summarises order rows. Invoice amount, books and distinct submissions come from
// non-cancelled rows; status buckets count every row.
func OrderKPIs(orders []models.Order) dto.OrderKPIs {
	kpis := dto.OrderKPIs{TotalInvoiceAmount: decimal.Zero}
	submissions := make(map[string]struct{})
	for _, order := range orders {
		if !order.Cancelled() {
			kpis.TotalInvoiceAmount = kpis.TotalInvoiceAmount.Add(order.OrderAmount)
			kpis.TotalBooks += order.NoOfBooks
			submissions[order.SubmissionID] = struct{}{}
		}
		if order.ZMApproval == models.ZMApprovalPending {
			kpis.ZMApprovalPending++
		}
		switch order.Status {
		case models.OrderStatusRequestReceived:
			kpis.OrderInProcess++
		case models.OrderStatusB2BUploaded, models.OrderStatusInvoiceCreated:
			kpis.YetToBeDispatched++
		case models.OrderStatusDispatched:
			kpis.OrderInTransit++
		case models.OrderStatusDelivered:
			kpis.OrderDelivered++
		case models.OrderStatusCancelled:
			kpis.OrderCancelled++
		}
	}
	kpis.TotalOrderPlaced = len(submissions)
	return kpis
}

// QuotaPercentage is used/max*100 rounded to two places, 0 when max is 0.
func QuotaPercentage(maxQuota, used float64) float64 {
	if maxQuota == 0 {
		return 0
	}
	pct, _ := decimal.NewFromFloat(used).Div(decimal.NewFromFloat(maxQuota)).Mul(hundred).Round(2).Float64()
	return pct
}

// QuotaSummary rolls quotas up across the scope.
func QuotaSummary(quotas []models.QuotaRecord) dto.QuotaSummary {
	maxTotal, usedTotal := decimal.Zero, decimal.Zero
	for _, quota := range quotas {
		maxTotal = maxTotal.Add(decimal.NewFromFloat(quota.MaxQuota))
		usedTotal = usedTotal.Add(decimal.NewFromFloat(quota.QuotaUsed))
	}
	maxQuota, _ := maxTotal.Float64()
	used, _ := usedTotal.Float64()
	remaining, _ := maxTotal.Sub(usedTotal).Float64()
	return dto.QuotaSummary{
		MaxQuota:   maxQuota,
		QuotaUsed:  used,
		Remaining:  remaining,
		Percentage: QuotaPercentage(maxQuota, used),
	}
}

// QuotaTier classifies a utilisation percentage.
func QuotaTier(percentage float64) string {
	switch {
	case percentage > 100:
		return dto.TierCritical
	case percentage >= 70:
		return dto.TierWarning
	default:
		return dto.TierNormal
	}
}

// QuotaUtilisation reports each employee's quota usage, highest percentage first.
func QuotaUtilisation(quotas []models.QuotaRecord) []dto.QuotaUtilisationRow {
	index := make(map[string]int)
	rows := make([]dto.QuotaUtilisationRow, 0, len(quotas))
	for _, quota := range quotas {
		pos, ok := index[quota.EmployeeEmail]
		if !ok {
			pos = len(rows)
			index[quota.EmployeeEmail] = pos
			rows = append(rows, dto.QuotaUtilisationRow{EmployeeEmail: quota.EmployeeEmail})
		}
		rows[pos].MaxQuota += quota.MaxQuota
		rows[pos].QuotaUsed += quota.QuotaUsed
	}
	for i := range rows {
		summary := QuotaSummary([]models.QuotaRecord{{MaxQuota: rows[i].MaxQuota, QuotaUsed: rows[i].QuotaUsed}})
		rows[i].Remaining = summary.Remaining
		rows[i].Percentage = summary.Percentage
		rows[i].Tier = QuotaTier(summary.Percentage)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Percentage != rows[j].Percentage {
			return rows[i].Percentage > rows[j].Percentage
		}
		return rows[i].EmployeeEmail < rows[j].EmployeeEmail
	})
	return rows
}

// CustomerAnalysis groups non-cancelled orders by customer, largest invoice total first.
func CustomerAnalysis(orders []models.Order) []dto.CustomerTotal {
	index := make(map[string]int)
	totals := make([]dto.CustomerTotal, 0)
	for _, order := range orders {
		if order.Cancelled() || strings.TrimSpace(order.CompanyTradeName) == "" {
			continue
		}
		pos, ok := index[order.CompanyTradeName]
		if !ok {
			pos = len(totals)
			index[order.CompanyTradeName] = pos
			totals = append(totals, dto.CustomerTotal{CustomerName: order.CompanyTradeName, InvoiceAmount: decimal.Zero})
		}
		totals[pos].InvoiceAmount = totals[pos].InvoiceAmount.Add(order.OrderAmount)
		totals[pos].TotalBooks += order.NoOfBooks
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].InvoiceAmount.GreaterThan(totals[j].InvoiceAmount)
	})
	for i := range totals {
		totals[i].Rank = i + 1
	}
	return totals
}

// CustomerChart keeps the first n entries of an analysis.
func CustomerChart(analysis []dto.CustomerTotal, n int) []dto.CustomerTotal {
	if n <= 0 || len(analysis) <= n {
		return append([]dto.CustomerTotal{}, analysis...)
	}
	return append([]dto.CustomerTotal{}, analysis[:n]...)
}

// CustomersTotal sums the invoice amounts of an analysis.
func CustomersTotal(analysis []dto.CustomerTotal) decimal.Decimal {
	total := decimal.Zero
	for _, customer := range analysis {
		total = total.Add(customer.InvoiceAmount)
	}
	return total
}

// UniqueCustomers lists distinct customer names A to Z, skipping blanks.
func UniqueCustomers(orders []models.Order) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, order := range orders {
		name := order.CompanyTradeName
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SampleBookRanking ranks books requested across sample requests.
func SampleBookRanking(requests []models.SampleRequest, n int) dto.BookRanking {
	tally := sku.NewTally()
	for _, request := range requests {
		tally.AddPacked(request.SKUInfo)
	}
	return bookRanking(tally, n)
}

// OrderBookRanking ranks books ordered across non-cancelled order rows.
func OrderBookRanking(orders []models.Order, n int) dto.BookRanking {
	tally := sku.NewTally()
	for _, order := range orders {
		if order.Cancelled() {
			continue
		}
		tally.AddPacked(order.SKUInfo)
	}
	return bookRanking(tally, n)
}

func bookRanking(tally *sku.Tally, n int) dto.BookRanking {
	top, low := sku.Rank(tally, n)
	return dto.BookRanking{Top: toBookCounts(top), Low: toBookCounts(low)}
}

func toBookCounts(counts []sku.Count) []dto.BookCount {
	out := make([]dto.BookCount, len(counts))
	for i, count := range counts {
		out[i] = dto.BookCount{Name: count.Name, Quantity: count.Quantity}
	}
	return out
}
