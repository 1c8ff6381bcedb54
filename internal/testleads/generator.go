package testleads

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"github.com/okian/leadrank/pkg/logger"
)

// randomFloatDivisor scales crypto/rand integers into [0, 1).
const randomFloatDivisor = 1000000

var industries = []string{"SaaS", "Fintech", "Retail", "Healthcare", "Manufacturing", "Logistics"}

var countries = []string{"US", "DE", "FR", "GB", "NL", "SE"}

var profiles = []struct {
	jobTitle string
	bio      string
}{
	{"CTO", "Leads engineering strategy and data platform investments."},
	{"VP Engineering", "Scales infrastructure and platform teams."},
	{"Head of Growth", "Owns acquisition funnels and activation experiments."},
	{"Data Engineer", "Builds batch and streaming pipelines."},
	{"Store Manager", "Runs day-to-day retail operations."},
	{"Procurement Lead", "Negotiates supplier contracts and logistics."},
	{"Product Manager", "Ships analytics features for enterprise accounts."},
	{"", ""}, // leads with no text signal at all
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func pick[T any](items []T) T {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(items))))
	return items[n.Int64()]
}

// generateLeads creates synthetic leads. A DuplicateRatio fraction reuse one
// of the configured known emails so the duplicate gate gets exercised too.
func generateLeads(ctx context.Context, config *Config, stats *Stats) []Lead {
	logger.Get().Info(ctx, "generating synthetic leads",
		logger.Int("numLeads", config.NumLeads),
		logger.Float64("duplicateRatio", config.DuplicateRatio))

	leads := make([]Lead, config.NumLeads)
	for i := range leads {
		profile := pick(profiles)
		email := fmt.Sprintf("lead-%s@example.com", uuid.New().String()[:8])
		if len(config.KnownEmails) > 0 && getRandomFloat() < config.DuplicateRatio {
			email = pick(config.KnownEmails)
		}
		leads[i] = Lead{
			CustomerID:           uuid.New().String(),
			Name:                 fmt.Sprintf("Lead %d", i),
			Email:                email,
			Industry:             pick(industries),
			Country:              pick(countries),
			JobTitle:             profile.jobTitle,
			Bio:                  profile.bio,
			CompanySize:          1 + getRandomFloat()*999,
			WebActivityScore:     getRandomFloat(),
			EmailEngagementScore: getRandomFloat(),
		}
	}
	stats.LeadsGenerated = len(leads)
	return leads
}
