package cvparser

// skillKeywords is matched case-insensitively against the whole CV text.
// Output order follows this list.
var skillKeywords = []string{
	"JavaScript", "TypeScript", "Python", "Java", "C++", "C#", "Golang", "Ruby",
	"PHP", "Swift", "Kotlin", "Rust", "Scala", "SQL", "NoSQL",
	"React", "Angular", "Vue", "Node.js", "Express", "Django", "Flask", "Spring",
	"HTML", "CSS", "MongoDB", "PostgreSQL", "MySQL", "Redis",
	"AWS", "Azure", "GCP", "Docker", "Kubernetes", "Terraform", "Git", "Linux",
	"GraphQL", "REST", "Machine Learning", "Data Analysis", "Excel",
	"Project Management", "Agile", "Scrum", "Leadership", "Communication",
}

var (
	experienceKeywords = []string{"experience", "employment", "work history"}
	educationKeywords  = []string{"education", "academic", "qualifications"}

	headingKeywords = []string{
		"experience", "employment", "work history", "education", "academic",
		"qualifications", "skills", "projects", "certifications", "summary",
		"objective", "profile", "languages", "references", "interests",
		"awards", "publications", "contact",
	}
)

// Skills returns the fixed keyword list in matching order.
func Skills() []string {
	out := make([]string, len(skillKeywords))
	copy(out, skillKeywords)
	return out
}
