package planning

// BootstrapTasks is the fixed plan returned when nothing could be extracted.
// Each call returns a fresh slice.
func BootstrapTasks() []Task {
	return []Task{
		{
			Title:        "Initialize Project Structure",
			Description:  "Set up the project repository with proper folder structure and initial configuration",
			Dependencies: []string{},
			Priority:     1,
		},
		{
			Title:        "Create Development Environment",
			Description:  "Configure development tools, linters, and local environment setup",
			Dependencies: []string{"Initialize Project Structure"},
			Priority:     2,
		},
		{
			Title:        "Design System Architecture",
			Description:  "Plan and document the overall system architecture and component design",
			Dependencies: []string{"Create Development Environment"},
			Priority:     3,
		},
		{
			Title:        "Implement Core Features",
			Description:  "Build the main functionality as specified in the project requirements",
			Dependencies: []string{"Design System Architecture"},
			Priority:     4,
		},
		{
			Title:        "Add Testing Suite",
			Description:  "Create comprehensive unit and integration tests",
			Dependencies: []string{"Implement Core Features"},
			Priority:     5,
		},
	}
}
