package domain

// Selection is the in-progress choice for one booking attempt.
// Empty strings mean "unset".
type Selection struct {
	CategoryID string `json:"categoryId,omitempty"`
	ServiceID  string `json:"serviceId,omitempty"`
	ProviderID string `json:"providerId,omitempty"`
	Date       string `json:"date,omitempty"`      // YYYY-MM-DD
	StartTime  string `json:"startTime,omitempty"` // HH:MM
	EndTime    string `json:"endTime,omitempty"`   // HH:MM
	Notes      string `json:"notes,omitempty"`
}

func (s Selection) IsEmpty() bool {
	return s == Selection{}
}
