package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(topic, subject string, score, total int, daysAgo int) AttemptRecord {
	return AttemptRecord{
		TopicID:        topic,
		Subject:        subject,
		Score:          score,
		TotalQuestions: total,
		CompletedAt:    time.Now().AddDate(0, 0, -daysAgo),
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	report := Aggregate(nil)

	assert.Equal(t, 0, report.TotalQuizzes)
	assert.Zero(t, report.AverageScore)
	assert.Empty(t, report.WeakTopics)
	assert.Empty(t, report.StrongTopics)
	assert.Empty(t, report.ScoreTrend)
}

func TestAggregateClassifiesWeakAndStrong(t *testing.T) {
	records := []AttemptRecord{
		// topic A averages 85: strong (>= 85)
		record("Physics - Mechanics", "Physics", 17, 20, 2),
		// topic B averages 30: weak (< 70)
		record("Maths - Algebra", "Maths", 3, 10, 1),
		// topic C averages 75: neither list
		record("Chemistry - Organic Chemistry", "Chemistry", 15, 20, 3),
	}

	report := Aggregate(records)

	require.Len(t, report.StrongTopics, 1)
	assert.Equal(t, "Physics - Mechanics", report.StrongTopics[0].TopicID)
	assert.InDelta(t, 85.0, report.StrongTopics[0].AverageScore, 0.001)

	require.Len(t, report.WeakTopics, 1)
	assert.Equal(t, "Maths - Algebra", report.WeakTopics[0].TopicID)
	assert.InDelta(t, 30.0, report.WeakTopics[0].AverageScore, 0.001)
}

func TestAggregateTopicAverageAcrossAttempts(t *testing.T) {
	records := []AttemptRecord{
		record("Physics - Mechanics", "Physics", 10, 10, 2), // 100
		record("Physics - Mechanics", "Physics", 5, 10, 1),  // 50
	}

	report := Aggregate(records)

	// average 75 sits between the thresholds
	assert.Empty(t, report.WeakTopics)
	assert.Empty(t, report.StrongTopics)
	assert.InDelta(t, 75.0, report.AverageScore, 0.001)
}

func TestAggregateExcludesZeroQuestionAttempts(t *testing.T) {
	records := []AttemptRecord{
		record("Physics - Mechanics", "Physics", 8, 10, 1),
		record("Broken - Topic", "Broken", 0, 0, 2),
	}

	report := Aggregate(records)

	assert.Equal(t, 1, report.TotalQuizzes)
	assert.NotContains(t, report.SubjectPerformance, "Broken")
}

func TestAggregateCapsTopicLists(t *testing.T) {
	var records []AttemptRecord
	for i := 0; i < 5; i++ {
		records = append(records, record(
			string(rune('A'+i))+" - Topic", "Subject", i, 10, i))
	}

	report := Aggregate(records)

	require.Len(t, report.WeakTopics, 3)
	// weakest first
	assert.LessOrEqual(t, report.WeakTopics[0].AverageScore, report.WeakTopics[1].AverageScore)
	assert.LessOrEqual(t, report.WeakTopics[1].AverageScore, report.WeakTopics[2].AverageScore)
}

func TestAggregateSubjectRollup(t *testing.T) {
	records := []AttemptRecord{
		record("Physics - Mechanics", "Physics", 8, 10, 3),      // 80
		record("Physics - Thermodynamics", "Physics", 6, 10, 2), // 60
		record("Maths - Algebra", "Maths", 9, 10, 1),            // 90
	}

	report := Aggregate(records)

	require.Contains(t, report.SubjectPerformance, "Physics")
	assert.Equal(t, 2, report.SubjectPerformance["Physics"].Total)
	assert.InDelta(t, 70.0, report.SubjectPerformance["Physics"].Average, 0.001)
	assert.InDelta(t, 90.0, report.SubjectPerformance["Maths"].Average, 0.001)
}

func TestAggregateTrendIsChronologicalAndCapped(t *testing.T) {
	var records []AttemptRecord
	for i := 0; i < 15; i++ {
		records = append(records, record("Physics - Mechanics", "Physics", i%10, 10, 15-i))
	}

	report := Aggregate(records)

	require.Len(t, report.ScoreTrend, 10)
	for i := 1; i < len(report.ScoreTrend); i++ {
		assert.False(t, report.ScoreTrend[i].Date.Before(report.ScoreTrend[i-1].Date))
	}
	// the cap keeps the most recent attempts
	assert.InDelta(t, float64((14%10)*10), report.ScoreTrend[len(report.ScoreTrend)-1].Score, 0.001)
}
