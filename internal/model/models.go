package model

import "time"

// Records in this package mirror the remote API's JSON shapes. The client
// never owns canonical data; these are cached copies of the last fetch.

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Role         string    `json:"role"`
	DepartmentID string    `json:"departmentId,omitempty"`
	ManagerID    string    `json:"managerId,omitempty"`
	PictureURL   string    `json:"profilePicture,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

type Department struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	HeadID      string `json:"headId,omitempty"`
}

type LeaveType struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Color       string  `json:"color"`
	MaxDays     float64 `json:"maxDays"`
	AccrualRate float64 `json:"accrualRate"`
	RequiresDoc bool    `json:"requiresDoc"`
}

// LeaveBalance is fully server-derived. AvailableDays is displayed verbatim;
// the client never recomputes it from the other fields.
type LeaveBalance struct {
	UserID        string  `json:"userId"`
	LeaveTypeID   string  `json:"leaveTypeId"`
	Year          int     `json:"year"`
	TotalDays     float64 `json:"totalDays"`
	UsedDays      float64 `json:"usedDays"`
	PendingDays   float64 `json:"pendingDays"`
	Adjustment    float64 `json:"adjustment"`
	AvailableDays float64 `json:"availableDays"`
}

const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

type LeaveRequest struct {
	ID          string          `json:"id"`
	LeaveTypeID string          `json:"leaveTypeId"`
	EmployeeID  string          `json:"employeeId"`
	StartDate   time.Time       `json:"startDate"`
	EndDate     time.Time       `json:"endDate"`
	HalfDay     bool            `json:"halfDay"`
	Reason      string          `json:"reason"`
	Status      string          `json:"status"`
	Documents   []LeaveDocument `json:"documents,omitempty"`
	Comments    []LeaveComment  `json:"comments,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Actionable reports whether the request can still be approved or rejected.
// Approved and rejected are terminal.
func (r LeaveRequest) Actionable() bool {
	return r.Status == LeaveStatusPending
}

type LeaveDocument struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	FileSize    int64     `json:"fileSize"`
	CreatedAt   time.Time `json:"createdAt"`
}

type LeaveComment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

const (
	EventPersonal = "personal"
	EventMeeting  = "meeting"
	EventTask     = "task"
)

type CalendarEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Type        string    `json:"type"`
	OwnerID     string    `json:"ownerId"`
}

type Holiday struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	Recurring bool      `json:"recurring"`
}

type Notification struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	IsRead    bool           `json:"isRead"`
	CreatedAt time.Time      `json:"createdAt"`
	Data      map[string]any `json:"data,omitempty"`
}

// LeaveReport is the summary payload behind the reports commands. Rows are
// per-user aggregates for the requested range.
type LeaveReport struct {
	From time.Time        `json:"from"`
	To   time.Time        `json:"to"`
	Rows []LeaveReportRow `json:"rows"`
}

type LeaveReportRow struct {
	UserName   string  `json:"userName"`
	Department string  `json:"department"`
	LeaveType  string  `json:"leaveType"`
	Days       float64 `json:"days"`
	Status     string  `json:"status"`
}
