package domain

// Job is the normalized record every scrape path emits, whatever API or
// page shape it came from. Producers fill defaults ("Unknown",
// "Not specified", ""); nothing mutates a Job after it is built.
type Job struct {
	Company        string `json:"company"`
	Title          string `json:"title"`
	Location       string `json:"location"`
	URL            string `json:"url"`
	EmploymentType string `json:"employment_type"`
	DatePosted     string `json:"date_posted"`
}
