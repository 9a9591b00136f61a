package schedule

import (
	"fmt"
	"math"
	"sort"

	"github.com/prepiq/prepiq-service/internal/models"
)

// startHourFor maps the preferred time of day to the first slot hour.
func startHourFor(pref models.PreferredStudyTime) int {
	switch pref {
	case models.StudyTimeMorning:
		return 6
	case models.StudyTimeAfternoon:
		return 12
	case models.StudyTimeEvening:
		return 16
	case models.StudyTimeNight:
		return 20
	default:
		return 6
	}
}

var priorityRank = map[models.SubjectPriority]int{
	models.PriorityHigh:   0,
	models.PriorityMedium: 1,
	models.PriorityLow:    2,
}

func formatClock(minutes int) string {
	minutes %= 24 * 60
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// GenerateWeek assigns the week's candidate slots to subjects in priority
// order, inserting a break after every study slot while the pool lasts.
//
// The candidate pool holds one 1-hour slot per day per whole target hour:
// 7 * floor(targetHoursPerDay) slots in total. Each subject consumes
// ceil((hoursPerWeek/7) * (7/targetHoursPerDay)) slots from the front of
// the pool. Subjects late in priority order may receive fewer or zero slots
// when the pool runs out; that is accepted, not an error.
//
// A non-positive or sub-one targetHoursPerDay yields an empty pool and an
// empty result.
func GenerateWeek(subjects []models.Subject, goals models.StudyGoals) []models.TimeSlot {
	hoursPerDay := int(math.Floor(goals.TargetHoursPerDay))
	if hoursPerDay < 1 {
		return nil
	}

	ordered := make([]models.Subject, len(subjects))
	copy(ordered, subjects)
	sort.SliceStable(ordered, func(i, j int) bool {
		return priorityRank[ordered[i].Priority] < priorityRank[ordered[j].Priority]
	})

	startHour := startHourFor(goals.PreferredStudyTime)

	type candidate struct {
		day       string
		startMins int
	}
	pool := make([]candidate, 0, 7*hoursPerDay)
	for _, day := range models.Weekdays {
		for i := 0; i < hoursPerDay; i++ {
			pool = append(pool, candidate{day: day, startMins: (startHour + i) * 60})
		}
	}

	var out []models.TimeSlot
	next := 0

	for _, subj := range ordered {
		if next >= len(pool) {
			break
		}
		if subj.HoursPerWeek <= 0 {
			continue
		}
		slotsNeeded := int(math.Ceil((subj.HoursPerWeek / 7) * (7 / goals.TargetHoursPerDay)))

		for n := 0; n < slotsNeeded && next < len(pool); n++ {
			c := pool[next]
			next++
			subjectID := subj.ID
			out = append(out, models.TimeSlot{
				UserID:    subj.UserID,
				Day:       c.day,
				StartTime: formatClock(c.startMins),
				EndTime:   formatClock(c.startMins + 60),
				SubjectID: &subjectID,
				Type:      models.SlotStudy,
			})

			// a short break follows every study slot, consuming one pool
			// slot but lasting only breakDuration minutes from the hour
			// the study slot ended
			if next < len(pool) {
				b := pool[next]
				next++
				breakStart := c.startMins + 60
				out = append(out, models.TimeSlot{
					UserID:    subj.UserID,
					Day:       b.day,
					StartTime: formatClock(breakStart),
					EndTime:   formatClock(breakStart + goals.BreakDurationMinutes),
					SubjectID: nil,
					Type:      models.SlotBreak,
				})
			}
		}
	}

	return out
}
