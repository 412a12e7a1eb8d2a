package domain

// Company is one monitored employer from the config file. Slug may be empty
// there; callers derive it from Name.
type Company struct {
	Name      string
	Slug      string
	CareerURL string
	Keywords  []string
	UseAPI    bool
}
