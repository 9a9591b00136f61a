package models

import "time"

type SubjectPriority string

const (
	PriorityHigh   SubjectPriority = "high"
	PriorityMedium SubjectPriority = "medium"
	PriorityLow    SubjectPriority = "low"
)

type PreferredStudyTime string

const (
	StudyTimeMorning   PreferredStudyTime = "morning"
	StudyTimeAfternoon PreferredStudyTime = "afternoon"
	StudyTimeEvening   PreferredStudyTime = "evening"
	StudyTimeNight     PreferredStudyTime = "night"
)

type SlotType string

const (
	SlotStudy           SlotType = "study"
	SlotBreak           SlotType = "break"
	SlotExtracurricular SlotType = "extracurricular"
	SlotExamPrep        SlotType = "exam-prep"
)

// Subject is a study subject competing for weekly schedule slots.
type Subject struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	UserID       string          `json:"user_id" gorm:"not null;size:200;index"`
	Name         string          `json:"name" gorm:"not null;size:100" validate:"required,min=1,max=100"`
	Priority     SubjectPriority `json:"priority" gorm:"not null;size:10" validate:"required,subject_priority"`
	HoursPerWeek float64         `json:"hours_per_week" gorm:"not null" validate:"min=0,max=168"`
	Color        string          `json:"color" gorm:"size:20"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (Subject) TableName() string {
	return "subjects"
}

// StudyGoals holds a user's scheduling preferences. One row per user.
type StudyGoals struct {
	ID                   uint               `json:"id" gorm:"primaryKey"`
	UserID               string             `json:"user_id" gorm:"not null;size:200;uniqueIndex"`
	TargetHoursPerDay    float64            `json:"target_hours_per_day" gorm:"not null" validate:"required,gt=0"`
	PreferredStudyTime   PreferredStudyTime `json:"preferred_study_time" gorm:"not null;size:20" validate:"required,preferred_study_time"`
	BreakDurationMinutes int                `json:"break_duration_minutes" gorm:"not null" validate:"required,gt=0"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

func (StudyGoals) TableName() string {
	return "study_goals"
}

// TimeSlot is one entry in a weekly schedule. StartTime and EndTime use
// HH:MM 24-hour notation. SubjectID is nil for breaks.
type TimeSlot struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;size:200;index"`
	Day       string    `json:"day" gorm:"not null;size:10" validate:"required,weekday"`
	StartTime string    `json:"start_time" gorm:"not null;size:5" validate:"required"`
	EndTime   string    `json:"end_time" gorm:"not null;size:5" validate:"required"`
	SubjectID *uint     `json:"subject_id"`
	Type      SlotType  `json:"type" gorm:"not null;size:20" validate:"required,slot_type"`
	CreatedAt time.Time `json:"created_at"`
}

func (TimeSlot) TableName() string {
	return "time_slots"
}

// Weekdays lists the seven day names in schedule order.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}
