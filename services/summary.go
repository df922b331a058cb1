package services

import (
	"fmt"
	"sort"
	"strings"

	"reid-catalog/models"
	"reid-catalog/utils"
)

// CatalogSummary aggregates the catalog for the end-of-run printout.
type CatalogSummary struct {
	TotalListings int
	Available     int
	Sold          int
	Delisted      int
	UnknownPrice  int
	OffPlan       int

	BySegment map[string]int
	BySource  map[string]int

	MostExpensive *models.Listing
}

type SummaryService struct {
	logger *utils.Logger
}

func NewSummaryService(logger *utils.Logger) *SummaryService {
	return &SummaryService{logger: logger}
}

func (s *SummaryService) Generate(listings []*models.Listing) *CatalogSummary {
	summary := &CatalogSummary{
		BySegment: make(map[string]int),
		BySource:  make(map[string]int),
	}

	summary.TotalListings = len(listings)
	for _, l := range listings {
		switch l.Availability {
		case models.Sold:
			summary.Sold++
		case models.Delisted:
			summary.Delisted++
		default:
			summary.Available++
		}
		if l.Price <= 0 {
			summary.UnknownPrice++
		}
		if l.IsOffPlan {
			summary.OffPlan++
		}
		summary.BySegment[l.Segment]++
		summary.BySource[l.Source]++

		if l.Currency == "IDR" && l.Price > 0 {
			if summary.MostExpensive == nil || l.Price > summary.MostExpensive.Price {
				summary.MostExpensive = l
			}
		}
	}
	return summary
}

func (s *SummaryService) Print(r *CatalogSummary) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  🏝  PROPERTY CATALOG SUMMARY\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Inventory\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Total listings : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Printf("  Available      : \033[1;32m%d\033[0m\n", r.Available)
	fmt.Printf("  Sold           : \033[1;31m%d\033[0m\n", r.Sold)
	fmt.Printf("  Delisted       : \033[1;31m%d\033[0m\n", r.Delisted)
	fmt.Printf("  Unknown price  : %d\n", r.UnknownPrice)
	fmt.Printf("  Off-plan       : %d\n", r.OffPlan)
	fmt.Println()

	fmt.Printf("\033[1;33m  Segments\033[0m\n")
	fmt.Printf("  %s\n", thin)
	printCounts(r.BySegment)
	fmt.Println()

	fmt.Printf("\033[1;33m  Sources\033[0m\n")
	fmt.Printf("  %s\n", thin)
	printCounts(r.BySource)
	fmt.Println()

	if r.MostExpensive != nil {
		fmt.Printf("\033[1;33m  Most Expensive (IDR)\033[0m\n")
		fmt.Printf("  %s\n", thin)
		fmt.Printf("  %s\n", truncate(r.MostExpensive.Title, 50))
		fmt.Printf("  Location : %s\n", r.MostExpensive.Location)
		fmt.Printf("  Price    : \033[1;31mIDR %d\033[0m\n", r.MostExpensive.Price)
		fmt.Println()
	}
}

func printCounts(counts map[string]int) {
	if len(counts) == 0 {
		fmt.Printf("  No data\n")
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		fmt.Printf("  %-28s \033[1m%d\033[0m\n", k, counts[k])
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
