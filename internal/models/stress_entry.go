package models

import "time"

// Covariate column names shared by entries and model metadata.
const (
	CovariateGPA              = "gpa"
	CovariateExtracurricular  = "extracurricular_hour_per_day"
	CovariatePhysicalActivity = "physical_activity_hour_per_day"
	CovariateSleep            = "sleep_hour_per_day"
	CovariateStudy            = "study_hour_per_day"
	CovariateSocial           = "social_hour_per_day"
)

type StressEntry struct {
	ID     uint      `gorm:"primaryKey" json:"stress_level_id"`
	UserID uint      `gorm:"not null;uniqueIndex:ux_stress_entries_user_date,priority:1;index:ix_stress_entries_user_restored,priority:1" json:"user_id"`
	Date   time.Time `gorm:"not null;uniqueIndex:ux_stress_entries_user_date,priority:2;index:ix_stress_entries_user_restored,priority:3" json:"date"`

	StressLevel int `gorm:"not null" json:"stress_level"`

	GPA                        *float64  `gorm:"column:gpa" json:"gpa"`
	ExtracurricularHourPerDay  *float64  `json:"extracurricular_hour_per_day"`
	PhysicalActivityHourPerDay *float64  `json:"physical_activity_hour_per_day"`
	SleepHourPerDay            *float64  `json:"sleep_hour_per_day"`
	StudyHourPerDay            *float64  `json:"study_hour_per_day"`
	SocialHourPerDay           *float64  `json:"social_hour_per_day"`
	Emoji                      int       `gorm:"not null;default:0" json:"emoji"`
	IsRestored                 bool      `gorm:"not null;default:false;index:ix_stress_entries_user_restored,priority:2" json:"is_restored"`
	CreatedAt                  time.Time `json:"created_at"`
}

func (StressEntry) TableName() string {
	return "stress_entries"
}

// Covariate returns the named behavioral covariate, nil when unset or unknown.
func (e *StressEntry) Covariate(name string) *float64 {
	switch name {
	case CovariateGPA:
		return e.GPA
	case CovariateExtracurricular:
		return e.ExtracurricularHourPerDay
	case CovariatePhysicalActivity:
		return e.PhysicalActivityHourPerDay
	case CovariateSleep:
		return e.SleepHourPerDay
	case CovariateStudy:
		return e.StudyHourPerDay
	case CovariateSocial:
		return e.SocialHourPerDay
	}
	return nil
}

// StressEntryInput is the payload of an entry submission or restore.
type StressEntryInput struct {
	Date                       string   `json:"date" binding:"required"`
	StressLevel                *int     `json:"stress_level" binding:"required,min=0,max=3"`
	GPA                        *float64 `json:"gpa" binding:"omitempty,min=0,max=4"`
	ExtracurricularHourPerDay  *float64 `json:"extracurricular_hour_per_day" binding:"omitempty,min=0,max=24"`
	PhysicalActivityHourPerDay *float64 `json:"physical_activity_hour_per_day" binding:"omitempty,min=0,max=24"`
	SleepHourPerDay            *float64 `json:"sleep_hour_per_day" binding:"omitempty,min=0,max=24"`
	StudyHourPerDay            *float64 `json:"study_hour_per_day" binding:"omitempty,min=0,max=24"`
	SocialHourPerDay           *float64 `json:"social_hour_per_day" binding:"omitempty,min=0,max=24"`
	Emoji                      int      `json:"emoji"`
}
