package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semalign/hub/internal/demographics"
	"github.com/semalign/hub/internal/models"
)

// fakeDemographicsLister returns a fixed respondent set.
type fakeDemographicsLister struct {
	respondents []models.Respondent
}

func (f *fakeDemographicsLister) ListDemographics(_ context.Context) ([]models.Respondent, error) {
	return f.respondents, nil
}

// fakeAverager averages in-memory per-uid values with the floor rule.
type fakeAverager struct {
	values map[int64][]float64
}

func (f *fakeAverager) AverageForUIDs(_ context.Context, uids []int64, _ string, floor float64) (float64, error) {
	var (
		sum   float64
		count int
	)

	for _, uid := range uids {
		for _, value := range f.values[uid] {
			if value > floor {
				sum += value
				count++
			}
		}
	}

	if count == 0 {
		return 0, nil
	}

	return sum / float64(count), nil
}

func bucketByName(t *testing.T, resp *models.DemographicsSummaryResponse, axis, name string) models.BucketSummary {
	t.Helper()

	for _, a := range resp.Axes {
		if a.Axis != axis {
			continue
		}

		for _, b := range a.Buckets {
			if b.Name == name {
				return b
			}
		}
	}

	t.Fatalf("no bucket %q on axis %q", name, axis)

	return models.BucketSummary{}
}

func TestDemographicsServiceSummary(t *testing.T) {
	ctx := context.Background()

	lister := &fakeDemographicsLister{respondents: []models.Respondent{
		{UID: 1, Age: "29", Gender: "Male", Ethnicity: "Hispanic", Education: "Bachelor's Degree", Income: "$0 - $4,999"},
		{UID: 2, Age: "31", Gender: "Female", Ethnicity: "Black", Education: "Master's Degree", Income: "$150,000+"},
		{UID: 3, Age: "70", Gender: "male", Ethnicity: "Hispanic", Education: "Bachelor's Degree", Income: "$0 - $4,999"},
		{UID: 4, Age: "abc", Gender: "Apache helicopter", Ethnicity: "Martian", Education: "", Income: ""},
	}}

	averager := &fakeAverager{values: map[int64][]float64{
		1: {0.8},
		2: {0.6},
		3: {0.4},
		4: {-0.2},
	}}

	svc := NewDemographicsService(lister, averager)

	resp, err := svc.Summary(ctx, "total", 0)
	require.NoError(t, err)

	assert.Equal(t, "total", resp.Field)
	assert.Len(t, resp.Axes, len(demographics.Axes))

	t.Run("age buckets aggregate their members", func(t *testing.T) {
		bucket := bucketByName(t, resp, "age", "25-34")

		assert.Equal(t, 2, bucket.Count)
		assert.InDelta(t, 0.7, bucket.Mean, 1e-9)
	})

	t.Run("gender matching ignores case", func(t *testing.T) {
		bucket := bucketByName(t, resp, "gender", "Male")

		assert.Equal(t, 2, bucket.Count)
		assert.InDelta(t, 0.6, bucket.Mean, 1e-9)
	})

	t.Run("unrecognized values land in the overflow bucket", func(t *testing.T) {
		bucket := bucketByName(t, resp, "ethnicity", demographics.OverflowBucket)

		assert.Equal(t, 1, bucket.Count)
	})

	t.Run("floor excludes low scores and empty buckets mean zero", func(t *testing.T) {
		overflow := bucketByName(t, resp, "age", demographics.OverflowBucket)

		// uid 4's only score is below the floor.
		assert.Equal(t, 1, overflow.Count)
		assert.InDelta(t, 0.0, overflow.Mean, 1e-9)

		empty := bucketByName(t, resp, "age", "45-54")

		assert.Equal(t, 0, empty.Count)
		assert.InDelta(t, 0.0, empty.Mean, 1e-9)
	})

	t.Run("every respondent appears once per axis", func(t *testing.T) {
		for _, axis := range resp.Axes {
			total := 0
			for _, bucket := range axis.Buckets {
				total += bucket.Count
			}

			assert.Equal(t, len(lister.respondents), total, "axis %q", axis.Axis)
		}
	})
}

func TestDemographicsServiceSummaryEmpty(t *testing.T) {
	svc := NewDemographicsService(
		&fakeDemographicsLister{},
		&fakeAverager{values: map[int64][]float64{}},
	)

	resp, err := svc.Summary(context.Background(), "q3", 0.25)

	require.NoError(t, err)
	assert.Equal(t, 0.25, resp.Floor)

	for _, axis := range resp.Axes {
		for _, bucket := range axis.Buckets {
			assert.Equal(t, 0, bucket.Count)
			assert.InDelta(t, 0.0, bucket.Mean, 1e-9)
		}
	}
}
