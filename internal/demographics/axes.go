// Package demographics partitions respondents into buckets along the five
// survey axes. Axes are declarative: each is a named ordered list of buckets
// with a predicate, plus an implicit overflow bucket, so adding a category
// means adding a table entry rather than renumbering call sites.
package demographics

import (
	"log/slog"
	"strconv"
	"strings"
)

// OverflowBucket absorbs values no bucket on the axis recognizes. Overflow
// members are reported, never silently dropped.
const OverflowBucket = "Unclassified"

// Bucket is one named category with its membership predicate.
type Bucket struct {
	Name    string
	Matches func(value string) bool
}

// Axis is one demographic dimension: an ordered set of disjoint buckets.
type Axis struct {
	Name    string
	Field   func(r Fields) string
	Buckets []Bucket
}

// Fields is the demographic slice of a respondent that classification reads.
type Fields struct {
	UID       int64
	Age       string
	Gender    string
	Ethnicity string
	Education string
	Income    string
}

// exact returns a predicate matching value case-insensitively after trimming.
func exact(category string) func(string) bool {
	lowered := strings.ToLower(category)

	return func(value string) bool {
		return strings.ToLower(strings.TrimSpace(value)) == lowered
	}
}

// ageRange returns a predicate that parses value as an integer and checks the
// inclusive range. hi < 0 means unbounded above.
func ageRange(lo, hi int) func(string) bool {
	return func(value string) bool {
		age, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return false
		}

		if age < lo {
			return false
		}

		return hi < 0 || age <= hi
	}
}

// vocabulary builds exact-match buckets from an ordered category list.
func vocabulary(categories ...string) []Bucket {
	buckets := make([]Bucket, 0, len(categories))
	for _, category := range categories {
		buckets = append(buckets, Bucket{Name: category, Matches: exact(category)})
	}

	return buckets
}

// Axes holds the five survey axes in report order. The education vocabulary
// is the five-category variant, with "Lower than Highschool" included.
var Axes = []Axis{
	{
		Name:  "age",
		Field: func(r Fields) string { return r.Age },
		Buckets: []Bucket{
			{Name: "18-24", Matches: ageRange(18, 24)},
			{Name: "25-34", Matches: ageRange(25, 34)},
			{Name: "35-44", Matches: ageRange(35, 44)},
			{Name: "45-54", Matches: ageRange(45, 54)},
			{Name: "55-64", Matches: ageRange(55, 64)},
			{Name: "65+", Matches: ageRange(65, -1)},
		},
	},
	{
		Name:  "gender",
		Field: func(r Fields) string { return r.Gender },
		Buckets: vocabulary(
			"Male",
			"Female",
			"Non-binary",
			"Prefer not to say/Other",
		),
	},
	{
		Name:  "ethnicity",
		Field: func(r Fields) string { return r.Ethnicity },
		Buckets: vocabulary(
			"White/Caucasian",
			"Asian - Eastern",
			"Asian - Indian",
			"Hispanic",
			"Black",
			"Native American",
			"Prefer not to answer",
		),
	},
	{
		Name:  "education",
		Field: func(r Fields) string { return r.Education },
		Buckets: vocabulary(
			"Lower than Highschool",
			"Highschool Diploma",
			"Bachelor's Degree",
			"Master's Degree",
			"Prefer not to answer",
		),
	},
	{
		Name:  "income",
		Field: func(r Fields) string { return r.Income },
		Buckets: vocabulary(
			"$0 - $4,999",
			"$5,000 - $7,499",
			"$7,500 - $9,999",
			"$10,000 - $12,499",
			"$12,500 - $14,999",
			"$15,000 - $19,999",
			"$20,000 - $24,999",
			"$25,000 - $29,999",
			"$30,000 - $34,999",
			"$35,000 - $39,999",
			"$40,000 - $49,999",
			"$50,000 - $59,999",
			"$60,000 - $74,999",
			"$75,000 - $99,999",
			"$100,000 - $149,999",
			"$150,000+",
			"Prefer not to answer",
		),
	},
}

// Classify assigns value to the first matching bucket on the axis, falling
// back to OverflowBucket. First match wins, so a value can land in exactly
// one bucket even if predicates were to overlap.
func (a Axis) Classify(value string) string {
	for _, bucket := range a.Buckets {
		if bucket.Matches(value) {
			return bucket.Name
		}
	}

	return OverflowBucket
}

// Partition groups respondent uids by bucket for this axis. Every uid lands
// in exactly one bucket; unrecognized values go to the overflow bucket with a
// data-quality warning.
func (a Axis) Partition(respondents []Fields) map[string][]int64 {
	partition := make(map[string][]int64, len(a.Buckets)+1)

	for _, r := range respondents {
		value := a.Field(r)

		bucket := a.Classify(value)
		if bucket == OverflowBucket {
			slog.Warn("demographic value did not match any bucket",
				"axis", a.Name,
				"uid", r.UID,
				"value", value,
			)
		}

		partition[bucket] = append(partition[bucket], r.UID)
	}

	return partition
}

// BucketNames returns the axis bucket names in declaration order with the
// overflow bucket appended.
func (a Axis) BucketNames() []string {
	names := make([]string, 0, len(a.Buckets)+1)
	for _, bucket := range a.Buckets {
		names = append(names, bucket.Name)
	}

	return append(names, OverflowBucket)
}
