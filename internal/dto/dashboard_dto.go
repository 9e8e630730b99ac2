package dto

import "time"

// AssignmentProgress tracks one assignment's state for a student.
type AssignmentProgress struct {
	AssignmentID uint       `json:"assignment_id"`
	ClassroomID  uint       `json:"classroom_id"`
	Title        string     `json:"title"`
	Type         string     `json:"type"`
	Deadline     *time.Time `json:"deadline"`
	Status       string     `json:"status"`
	Score        *float64   `json:"score"`
	SubmittedAt  *time.Time `json:"submitted_at"`
}

// ProgressSummary aggregates submission counts for a student.
type ProgressSummary struct {
	TotalAssignments int `json:"total_assignments"`
	Pending          int `json:"pending"`
	InProgress       int `json:"in_progress"`
	Submitted        int `json:"submitted"`
	Graded           int `json:"graded"`
}

// StudentDashboardResponse is the cached dashboard aggregation.
type StudentDashboardResponse struct {
	Summary      ProgressSummary      `json:"summary"`
	AverageScore *float64             `json:"average_score"`
	Assignments  []AssignmentProgress `json:"assignments"`
	GeneratedAt  time.Time            `json:"generated_at"`
}

// UploadResponse describes a stored file attachment.
type UploadResponse struct {
	URL         string `json:"url"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
