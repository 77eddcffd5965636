package models

import "time"

type MistakeRecord struct {
	Word          string    `json:"word"`
	ZhCN          string    `json:"zh_cn"`
	WrongCount    int       `json:"wrongCount"`
	WrongAnswers  []string  `json:"wrongAnswers"`
	LastWrongDate time.Time `json:"lastWrongDate"`
}

type TestResult struct {
	ID        string    `json:"id,omitempty"`
	Mode      string    `json:"mode"`
	Date      time.Time `json:"date"`
	Correct   int       `json:"correct"`
	Total     int       `json:"total"`
	Accuracy  float64   `json:"accuracy"`
	TimeSpent int       `json:"timeSpent"`
}

// DayStats counts study turns on one calendar day.
type DayStats struct {
	Count   int `json:"count"`
	Correct int `json:"correct"`
}

// StudyStats is the persisted shape of the daily counters and streak.
type StudyStats struct {
	Days           map[string]DayStats `json:"days"`
	Streak         int                 `json:"streak"`
	LongestStreak  int                 `json:"longestStreak"`
	LastActiveDate string              `json:"lastActiveDate,omitempty"`
}

// StudySummary is the read view of StudyStats relative to today.
type StudySummary struct {
	Today          string `json:"today"`
	TodayCount     int    `json:"today_count"`
	TodayCorrect   int    `json:"today_correct"`
	Streak         int    `json:"streak"`
	LongestStreak  int    `json:"longest_streak"`
	LastActiveDate string `json:"last_active_date,omitempty"`
}

type Dashboard struct {
	TodayCount        int          `json:"today_count"`
	DailyGoal         int          `json:"daily_goal"`
	GoalProgress      int          `json:"goal_progress"`
	GoalCompleted     bool         `json:"goal_completed"`
	Streak            int          `json:"streak"`
	LongestStreak     int          `json:"longest_streak"`
	TotalLearned      int          `json:"total_learned"`
	TotalWords        int          `json:"total_words"`
	Percentage        int          `json:"percentage"`
	MistakeCount      int          `json:"mistake_count"`
	FrequentMistakes  int          `json:"frequent_mistakes"`
	MaxWrongCount     int          `json:"max_wrong_count"`
	DueCount          int          `json:"due_count"`
	RecentTestResults []TestResult `json:"recent_test_results"`
}
