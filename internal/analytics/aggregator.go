package analytics

import (
	"sort"
	"time"
)

const (
	weakThreshold   = 70.0
	strongThreshold = 85.0
	topicListCap    = 3
	trendLength     = 10
)

// AttemptRecord is one past quiz attempt as delivered by the persistence
// layer. TopicID is the subject/module pair the quiz covered.
type AttemptRecord struct {
	TopicID        string    `json:"topic_id"`
	Subject        string    `json:"subject"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CompletedAt    time.Time `json:"completed_at"`
}

// TopicPerformance aggregates all attempts for one topic. AverageScore is the
// mean of per-attempt percentages, recomputed from the attempt list on every
// call; it is never stored independently of its source.
type TopicPerformance struct {
	TopicID       string  `json:"topic_id"`
	TotalAttempts int     `json:"total_attempts"`
	AverageScore  float64 `json:"average_score"`
}

// SubjectStats is the per-subject rollup shown on the dashboard.
type SubjectStats struct {
	Total   int     `json:"total"`
	Average float64 `json:"average"`
}

// TrendPoint is one entry of the recent score trend, oldest first.
type TrendPoint struct {
	Date    time.Time `json:"date"`
	Score   float64   `json:"score"`
	Subject string    `json:"subject"`
}

// Report is the advisory output of an aggregation pass. It has no side
// effects and must be recomputed whenever the underlying attempts change.
type Report struct {
	TotalQuizzes       int                     `json:"total_quizzes"`
	AverageScore       float64                 `json:"average_score"`
	SubjectPerformance map[string]SubjectStats `json:"subject_performance"`
	ScoreTrend         []TrendPoint            `json:"score_trend"`
	WeakTopics         []TopicPerformance      `json:"weak_topics"`
	StrongTopics       []TopicPerformance      `json:"strong_topics"`
}

// Aggregate groups attempts by topic and classifies topics as weak (average
// below 70, the 3 lowest) or strong (average 85 or above, the 3 highest).
// Topics averaging in between appear in neither list. Attempts with zero
// questions are malformed input and excluded.
func Aggregate(records []AttemptRecord) *Report {
	report := &Report{
		SubjectPerformance: make(map[string]SubjectStats),
		ScoreTrend:         []TrendPoint{},
		WeakTopics:         []TopicPerformance{},
		StrongTopics:       []TopicPerformance{},
	}

	valid := make([]AttemptRecord, 0, len(records))
	for _, r := range records {
		if r.TotalQuestions > 0 {
			valid = append(valid, r)
		}
	}
	if len(valid) == 0 {
		return report
	}

	percentage := func(r AttemptRecord) float64 {
		return 100 * float64(r.Score) / float64(r.TotalQuestions)
	}

	var totalScore float64
	type bucket struct {
		count int
		sum   float64
	}
	topics := make(map[string]*bucket)
	subjects := make(map[string]*bucket)

	for _, r := range valid {
		p := percentage(r)
		totalScore += p

		tb := topics[r.TopicID]
		if tb == nil {
			tb = &bucket{}
			topics[r.TopicID] = tb
		}
		tb.count++
		tb.sum += p

		sb := subjects[r.Subject]
		if sb == nil {
			sb = &bucket{}
			subjects[r.Subject] = sb
		}
		sb.count++
		sb.sum += p
	}

	report.TotalQuizzes = len(valid)
	report.AverageScore = totalScore / float64(len(valid))

	for subject, b := range subjects {
		report.SubjectPerformance[subject] = SubjectStats{
			Total:   b.count,
			Average: b.sum / float64(b.count),
		}
	}

	perf := make([]TopicPerformance, 0, len(topics))
	for id, b := range topics {
		perf = append(perf, TopicPerformance{
			TopicID:       id,
			TotalAttempts: b.count,
			AverageScore:  b.sum / float64(b.count),
		})
	}
	sort.SliceStable(perf, func(i, j int) bool { return perf[i].TopicID < perf[j].TopicID })

	for _, p := range perf {
		if p.AverageScore < weakThreshold {
			report.WeakTopics = append(report.WeakTopics, p)
		} else if p.AverageScore >= strongThreshold {
			report.StrongTopics = append(report.StrongTopics, p)
		}
	}
	sort.SliceStable(report.WeakTopics, func(i, j int) bool {
		return report.WeakTopics[i].AverageScore < report.WeakTopics[j].AverageScore
	})
	sort.SliceStable(report.StrongTopics, func(i, j int) bool {
		return report.StrongTopics[i].AverageScore > report.StrongTopics[j].AverageScore
	})
	if len(report.WeakTopics) > topicListCap {
		report.WeakTopics = report.WeakTopics[:topicListCap]
	}
	if len(report.StrongTopics) > topicListCap {
		report.StrongTopics = report.StrongTopics[:topicListCap]
	}

	chronological := make([]AttemptRecord, len(valid))
	copy(chronological, valid)
	sort.SliceStable(chronological, func(i, j int) bool {
		return chronological[i].CompletedAt.Before(chronological[j].CompletedAt)
	})
	if len(chronological) > trendLength {
		chronological = chronological[len(chronological)-trendLength:]
	}
	for _, r := range chronological {
		report.ScoreTrend = append(report.ScoreTrend, TrendPoint{
			Date:    r.CompletedAt,
			Score:   percentage(r),
			Subject: r.Subject,
		})
	}

	return report
}
