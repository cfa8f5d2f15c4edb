package domain

import "time"

// AttendanceRequest is the submission sent to the backend.
type AttendanceRequest struct {
	NationalID            string
	ServiceTypeID         int
	AccompanimentCourseID *int
	EstimatedHours        float64
	Authorization         bool
	Comments              *string
}

// SessionResponse holds what the backend reported for a created session.
// Every field may be empty; callers fill gaps from local data.
type SessionResponse struct {
	ID                  string
	ServiceType         string
	AccompanimentCourse string
	Timestamp           time.Time
}

// AttendanceSession is the confirmed record shown after submission.
// It is never modified once built.
type AttendanceSession struct {
	ID                  string    `json:"id"`
	Cedula              string    `json:"cedula"`
	UserName            string    `json:"userName"`
	Role                Role      `json:"role"`
	ServiceType         string    `json:"serviceType,omitempty"`
	AccompanimentCourse string    `json:"accompanimentCourse,omitempty"`
	EstimatedHours      float64   `json:"estimatedHours"`
	Comments            string    `json:"comments,omitempty"`
	Authorization       bool      `json:"authorization"`
	Timestamp           time.Time `json:"timestamp"`
	Date                string    `json:"date"`
}

// AttendanceRecord is a session as listed by the backend.
type AttendanceRecord struct {
	ID                  string    `json:"id"`
	Cedula              string    `json:"cedula"`
	UserName            string    `json:"userName,omitempty"`
	ServiceType         string    `json:"serviceType,omitempty"`
	AccompanimentCourse string    `json:"accompanimentCourse,omitempty"`
	EstimatedHours      float64   `json:"estimatedHours"`
	Comments            string    `json:"comments,omitempty"`
	Authorization       bool      `json:"authorization"`
	Timestamp           time.Time `json:"timestamp"`
}
