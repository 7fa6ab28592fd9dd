package ledger

import (
	"context"
	"sort"

	"github.com/hoseline/backend/internal/domain/ledger"
)

const (
	topCustomerLimit  = 5
	recentDetailLimit = 10
)

// SummaryService computes the dashboard summary from the assembly index
type SummaryService struct {
	assemblyRepo ledger.AssemblyRepository
}

// NewSummaryService creates a new SummaryService
func NewSummaryService(assemblyRepo ledger.AssemblyRepository) *SummaryService {
	return &SummaryService{assemblyRepo: assemblyRepo}
}

// Summarize aggregates the whole ledger into one dashboard payload.
// All counting happens here over the lightweight index rows, so the
// store only ships item, description, customer and the module index.
func (s *SummaryService) Summarize(ctx context.Context) (*SummaryResponse, error) {
	indexes, err := s.assemblyRepo.AllIndexes(ctx)
	if err != nil {
		return nil, err
	}

	total := int64(len(indexes))
	var withModules, completed, linkedSlots int64
	kindCounts := make(map[ledger.ModuleKind]int64, ledger.SlotCount)
	customerCounts := make(map[string]int64)

	for _, idx := range indexes {
		if idx.Adds.AnyLinked() {
			withModules++
		}
		if idx.Adds.FullyLinked() {
			completed++
		}
		linkedSlots += int64(idx.Adds.LinkedCount())

		for _, spec := range ledger.AllModuleSpecs() {
			if idx.Adds.IsLinked(spec.Slot) {
				kindCounts[spec.Kind]++
			}
		}

		if idx.Customer != "" {
			customerCounts[idx.Customer]++
		}
	}

	resp := &SummaryResponse{
		TotalAssemblies: total,
		WithModules:     withModules,
		Completed:       completed,
		Coverage:        make([]KindCoverageResponse, 0, ledger.SlotCount),
		TopCustomers:    topCustomers(customerCounts),
		Recent:          recentAssemblies(indexes),
	}

	if total > 0 {
		resp.AverageLinkedSlots = float64(linkedSlots) / float64(total)
	}

	for _, spec := range ledger.AllModuleSpecs() {
		cov := KindCoverageResponse{Kind: string(spec.Kind), Linked: kindCounts[spec.Kind]}
		if total > 0 {
			cov.Percent = float64(cov.Linked) / float64(total) * 100
		}
		resp.Coverage = append(resp.Coverage, cov)
	}

	return resp, nil
}

func topCustomers(counts map[string]int64) []CustomerCountResponse {
	ranked := make([]CustomerCountResponse, 0, len(counts))
	for customer, count := range counts {
		ranked = append(ranked, CustomerCountResponse{Customer: customer, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Customer < ranked[j].Customer
	})

	if len(ranked) > topCustomerLimit {
		ranked = ranked[:topCustomerLimit]
	}
	return ranked
}

func recentAssemblies(indexes []ledger.AssemblyIndex) []RecentAssemblyResponse {
	limit := recentDetailLimit
	if len(indexes) < limit {
		limit = len(indexes)
	}

	recent := make([]RecentAssemblyResponse, 0, limit)
	for _, idx := range indexes[:limit] {
		linked := make(map[string]bool, ledger.SlotCount)
		for _, spec := range ledger.AllModuleSpecs() {
			linked[string(spec.Kind)] = idx.Adds.IsLinked(spec.Slot)
		}
		recent = append(recent, RecentAssemblyResponse{
			Item:        idx.Item,
			Description: idx.Description,
			Customer:    idx.Customer,
			Approval:    string(idx.Approval),
			Linked:      linked,
		})
	}
	return recent
}
