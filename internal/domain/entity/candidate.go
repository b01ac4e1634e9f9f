package entity

// Candidate is a member shown on the discover list of a community.
type Candidate struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PhotoURL      string `json:"photo_url,omitempty"`
	Availability  Week   `json:"availability"`
	CanDrive      bool   `json:"can_drive"`
	Notes         string `json:"notes"`
	ActivityCount int    `json:"activity_count"`
}

func NewCandidate(u *User, c *Community) *Candidate {
	return &Candidate{
		ID:            u.ID,
		Name:          u.Name,
		PhotoURL:      u.PhotoURL,
		Availability:  c.WeekFor(u.ID),
		CanDrive:      u.CanDrive,
		Notes:         u.Notes,
		ActivityCount: u.ActivityCount,
	}
}
