package application

import (
	"fmt"

	"github.com/D26FORWARD/TaskTree/pkg/domain/planning"
)

// SystemPrompt asks for tasks in the bullet format the structured parser reads.
const SystemPrompt = `You are a project planning expert. You analyze project requirements and create comprehensive development plans with actionable tasks.

When creating tasks, you MUST format each one exactly as follows:
- **Task Title** - Brief description | Dependencies: [dep1, dep2] | Priority: X

Where:
- Dependencies are the titles of other tasks that must be completed first (use exact task titles, or "none" if no dependencies)
- Priority is a number from 1-10 where 1 is highest priority, 10 is lowest
- Tasks should follow a logical development order (e.g., setup before implementation, implementation before testing)

Example format:
- **Set up project structure** - Initialize Git repo and create basic folders | Dependencies: [none] | Priority: 1
- **Create database schema** - Design and implement database models | Dependencies: [Set up project structure] | Priority: 2
- **Implement API endpoints** - Create REST API for CRUD operations | Dependencies: [Create database schema] | Priority: 3
- **Write unit tests** - Add comprehensive test coverage | Dependencies: [Implement API endpoints] | Priority: 4

Make sure tasks are specific, have clear dependencies, and follow a logical implementation order.`

const userPromptTemplate = `Please create a comprehensive project plan for the following project:

Project Name: %s

Project Overview:
%s

Initial Requirements/Prompt:
%s

Please provide:
1. A detailed project plan with:
   - Architecture decisions
   - Technology stack recommendations
   - Development phases with timelines
   - Risk factors and mitigation strategies

2. Generate 10-15 specific, actionable tasks with dependencies and priorities:
   - Use the EXACT format: **Task Title** - Brief description | Dependencies: [dep1, dep2] | Priority: X
   - List dependencies by exact task titles or use [none]
   - Assign priorities 1-10 (1=highest, 10=lowest) based on logical order
   - Ensure tasks follow natural development flow (setup → implementation → testing → deployment)

Make the tasks concrete and implementable by AI coding agents.`

// BuildUserPrompt interpolates the project fields, placeholders included.
func BuildUserPrompt(info planning.ProjectInfo) string {
	info = info.WithDefaults()
	return fmt.Sprintf(userPromptTemplate, info.ProjectName, info.ProjectOverview, info.InitialPrompt)
}
