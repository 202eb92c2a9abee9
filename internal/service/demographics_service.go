package service

import (
	"context"

	"github.com/semalign/hub/internal/demographics"
	"github.com/semalign/hub/internal/models"
)

// DemographicsLister loads the demographic fields of every respondent.
type DemographicsLister interface {
	ListDemographics(ctx context.Context) ([]models.Respondent, error)
}

// ComparisonAverager averages a comparison field over a set of respondents.
type ComparisonAverager interface {
	AverageForUIDs(ctx context.Context, uids []int64, field string, floor float64) (float64, error)
}

// DemographicsService classifies every respondent along the five axes and
// averages a comparison field per bucket.
type DemographicsService struct {
	respondents DemographicsLister
	comparisons ComparisonAverager
}

// NewDemographicsService creates a new demographics service.
func NewDemographicsService(respondents DemographicsLister, comparisons ComparisonAverager) *DemographicsService {
	return &DemographicsService{respondents: respondents, comparisons: comparisons}
}

// Summary partitions all respondents per axis and reports each bucket's
// membership count and floored mean of the chosen comparison field. Empty
// buckets report a mean of 0; that is a valid state, not an error.
func (s *DemographicsService) Summary(ctx context.Context, field string, floor float64) (*models.DemographicsSummaryResponse, error) {
	respondents, err := s.respondents.ListDemographics(ctx)
	if err != nil {
		return nil, err
	}

	fields := make([]demographics.Fields, 0, len(respondents))
	for _, r := range respondents {
		fields = append(fields, demographics.Fields{
			UID:       r.UID,
			Age:       r.Age,
			Gender:    r.Gender,
			Ethnicity: r.Ethnicity,
			Education: r.Education,
			Income:    r.Income,
		})
	}

	response := &models.DemographicsSummaryResponse{
		Field: field,
		Floor: floor,
		Axes:  make([]models.AxisSummary, 0, len(demographics.Axes)),
	}

	for _, axis := range demographics.Axes {
		partition := axis.Partition(fields)

		summary := models.AxisSummary{
			Axis:    axis.Name,
			Buckets: make([]models.BucketSummary, 0, len(axis.Buckets)+1),
		}

		for _, name := range axis.BucketNames() {
			uids := partition[name]

			mean, err := s.comparisons.AverageForUIDs(ctx, uids, field, floor)
			if err != nil {
				return nil, err
			}

			summary.Buckets = append(summary.Buckets, models.BucketSummary{
				Name:  name,
				Count: len(uids),
				Mean:  mean,
			})
		}

		response.Axes = append(response.Axes, summary)
	}

	return response, nil
}
