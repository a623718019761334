package service

import (
	"sort"
	"time"

	"github.com/kaduna-connect/directory-backend/internal/app/model"
	"github.com/kaduna-connect/directory-backend/internal/app/repository"
)

const (
	topSearchLimit      = 10
	recentRegistrations = 5
	timeSeriesDays      = 30
)

type BusinessAnalytics struct {
	TotalBusinesses     int64                        `json:"total_businesses"`
	ByStatus            []repository.NameValue       `json:"by_status"`
	ByLGA               []repository.NameValue       `json:"by_lga"`
	ByCategory          []repository.NameValue       `json:"by_category"`
	RecentRegistrations []model.BusinessRegistration `json:"recent_registrations"`
}

type SearchAnalytics struct {
	TotalSearches int64                  `json:"total_searches"`
	TopQueries    []repository.NameValue `json:"top_queries"`
	TopLGAs       []repository.NameValue `json:"top_lgas"`
	TopCategories []repository.NameValue `json:"top_categories"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type TimeSeriesAnalytics struct {
	SearchesOverTime      []DailyCount `json:"searches_over_time"`
	RegistrationsOverTime []DailyCount `json:"registrations_over_time"`
}

type AnalyticsService interface {
	BusinessAnalytics() (*BusinessAnalytics, error)
	SearchAnalytics() (*SearchAnalytics, error)
	TimeSeries() (*TimeSeriesAnalytics, error)
}

type analyticsService struct {
	repo             repository.AnalyticsRepository
	registrationRepo repository.RegistrationRepository
	now              func() time.Time
}

func NewAnalyticsService(repo repository.AnalyticsRepository, registrationRepo repository.RegistrationRepository) AnalyticsService {
	return &analyticsService{repo: repo, registrationRepo: registrationRepo, now: time.Now}
}

func (s *analyticsService) BusinessAnalytics() (*BusinessAnalytics, error) {
	total, err := s.repo.CountBusinesses()
	if err != nil {
		return nil, err
	}

	result := &BusinessAnalytics{TotalBusinesses: total}
	groups := []struct {
		column string
		dst    *[]repository.NameValue
	}{
		{repository.BusinessColumnStatus, &result.ByStatus},
		{repository.BusinessColumnLGA, &result.ByLGA},
		{repository.BusinessColumnCategory, &result.ByCategory},
	}
	for _, group := range groups {
		rows, err := s.repo.GroupBusinesses(group.column)
		if err != nil {
			return nil, err
		}
		*group.dst = nonNilValues(rows)
	}

	recent, err := s.registrationRepo.FindRecent(recentRegistrations)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []model.BusinessRegistration{}
	}
	result.RecentRegistrations = recent
	return result, nil
}

func (s *analyticsService) SearchAnalytics() (*SearchAnalytics, error) {
	total, err := s.repo.CountSearches()
	if err != nil {
		return nil, err
	}

	result := &SearchAnalytics{TotalSearches: total}
	groups := []struct {
		column string
		dst    *[]repository.NameValue
	}{
		{repository.SearchColumnQuery, &result.TopQueries},
		{repository.SearchColumnLGA, &result.TopLGAs},
		{repository.SearchColumnCategory, &result.TopCategories},
	}
	for _, group := range groups {
		rows, err := s.repo.TopSearchValues(group.column, topSearchLimit)
		if err != nil {
			return nil, err
		}
		*group.dst = nonNilValues(rows)
	}
	return result, nil
}

// TimeSeries buckets the last 30 days of searches and registrations by UTC date.
func (s *analyticsService) TimeSeries() (*TimeSeriesAnalytics, error) {
	since := s.now().UTC().AddDate(0, 0, -timeSeriesDays)

	searches, err := s.repo.SearchTimestampsSince(since)
	if err != nil {
		return nil, err
	}
	registrations, err := s.repo.RegistrationTimestampsSince(since)
	if err != nil {
		return nil, err
	}

	return &TimeSeriesAnalytics{
		SearchesOverTime:      countByDay(searches),
		RegistrationsOverTime: countByDay(registrations),
	}, nil
}

func countByDay(timestamps []time.Time) []DailyCount {
	daily := make(map[string]int)
	for _, ts := range timestamps {
		daily[ts.UTC().Format("2006-01-02")]++
	}

	counts := make([]DailyCount, 0, len(daily))
	for date, count := range daily {
		counts = append(counts, DailyCount{Date: date, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Date < counts[j].Date })
	return counts
}

func nonNilValues(rows []repository.NameValue) []repository.NameValue {
	if rows == nil {
		return []repository.NameValue{}
	}
	return rows
}
