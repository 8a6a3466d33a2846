package planning

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

const exampleStructured = "- **Set up project structure** - Initialize Git repo and create basic folders | Dependencies: [none] | Priority: 1\n" +
	"- **Create database schema** - Design and implement database models | Dependencies: [Set up project structure] | Priority: 2"

func TestParseStructured_Example(t *testing.T) {
	tasks := ParseStructured(exampleStructured)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	first := tasks[0]
	if first.Title != "Set up project structure" {
		t.Errorf("title = %q", first.Title)
	}
	if first.Description != "Initialize Git repo and create basic folders" {
		t.Errorf("description = %q", first.Description)
	}
	if len(first.Dependencies) != 0 {
		t.Errorf("expected no dependencies, got %v", first.Dependencies)
	}
	if first.Priority != 1 {
		t.Errorf("priority = %d, want 1", first.Priority)
	}

	second := tasks[1]
	if !reflect.DeepEqual(second.Dependencies, []string{"Set up project structure"}) {
		t.Errorf("dependencies = %v", second.Dependencies)
	}
	if second.Priority != 2 {
		t.Errorf("priority = %d, want 2", second.Priority)
	}
}

func TestParseStructured_Fields(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantDeps []string
		wantPrio int
		wantDesc string
	}{
		{
			name:     "unparsable priority falls back",
			line:     "- **X** - Y | Priority: abc",
			wantDeps: []string{},
			wantPrio: 5,
			wantDesc: "Y",
		},
		{
			name:     "missing sections use defaults",
			line:     "- **X** - just a description",
			wantDeps: []string{},
			wantPrio: 5,
			wantDesc: "just a description",
		},
		{
			name:     "none is case-insensitive",
			line:     "- **X** - Y | Dependencies: [NONE] | Priority: 3",
			wantDeps: []string{},
			wantPrio: 3,
			wantDesc: "Y",
		},
		{
			name:     "multiple dependencies keep order and duplicates",
			line:     "- **X** - Y | Dependencies: [A, B, , A] | Priority: 4",
			wantDeps: []string{"A", "B", "A"},
			wantPrio: 4,
			wantDesc: "Y",
		},
		{
			name:     "empty brackets",
			line:     "- **X** - Y | Dependencies: [] | Priority: 2",
			wantDeps: []string{},
			wantPrio: 2,
			wantDesc: "Y",
		},
		{
			name:     "out of range priority is preserved",
			line:     "- **X** - Y | Priority: 99",
			wantDeps: []string{},
			wantPrio: 99,
			wantDesc: "Y",
		},
		{
			name:     "zero priority is preserved",
			line:     "- **X** - Y | Priority: 0",
			wantDeps: []string{},
			wantPrio: 0,
			wantDesc: "Y",
		},
		{
			name:     "indented line",
			line:     "    - **X** Y | Priority: 7",
			wantDeps: []string{},
			wantPrio: 7,
			wantDesc: "Y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := ParseStructured(tt.line)
			if len(tasks) != 1 {
				t.Fatalf("expected 1 task, got %d", len(tasks))
			}
			got := tasks[0]
			if got.Title != "X" {
				t.Errorf("title = %q", got.Title)
			}
			if got.Description != tt.wantDesc {
				t.Errorf("description = %q, want %q", got.Description, tt.wantDesc)
			}
			if !reflect.DeepEqual(got.Dependencies, tt.wantDeps) {
				t.Errorf("dependencies = %v, want %v", got.Dependencies, tt.wantDeps)
			}
			if got.Priority != tt.wantPrio {
				t.Errorf("priority = %d, want %d", got.Priority, tt.wantPrio)
			}
		})
	}
}

func TestParseStructured_SkipsNonMatchingLines(t *testing.T) {
	text := strings.Join([]string{
		"# Plan",
		"Some prose about the architecture.",
		"- plain bullet",
		"- **unterminated title",
		"- **** - empty title",
		"* **Wrong bullet** - ignored",
		"- **Kept** - ok",
	}, "\n")

	tasks := ParseStructured(text)
	if len(tasks) != 1 || tasks[0].Title != "Kept" {
		t.Fatalf("expected only the well-formed line, got %+v", tasks)
	}
}

func TestParseStructured_TruncatesLongTitles(t *testing.T) {
	long := strings.Repeat("é", 150)
	tasks := ParseStructured("- **" + long + "** - d")
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if n := len([]rune(tasks[0].Title)); n != MaxTitleLength {
		t.Errorf("title length = %d runes, want %d", n, MaxTitleLength)
	}
}

func TestParseHeuristic(t *testing.T) {
	tasks := ParseHeuristic("Intro text\n- implement the login flow\n- misc\n- Build")
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d: %+v", len(tasks), tasks)
	}
	task := tasks[0]
	if task.Title != "implement the login flow" {
		t.Errorf("title = %q", task.Title)
	}
	if task.Description != "Complete the following task: implement the login flow" {
		t.Errorf("description = %q", task.Description)
	}
	if task.Priority != DefaultPriority || len(task.Dependencies) != 0 {
		t.Errorf("unexpected defaults: %+v", task)
	}
}

func TestParseHeuristic_TruncatesTitleButNotDescription(t *testing.T) {
	body := "create " + strings.Repeat("x", 200)
	tasks := ParseHeuristic("- " + body)
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Title != body[:MaxTitleLength] {
		t.Errorf("title not truncated to %d chars", MaxTitleLength)
	}
	if !strings.HasSuffix(tasks[0].Description, body) {
		t.Error("description should embed the full title")
	}
}

func TestParseHeuristic_KeywordsAreCaseInsensitive(t *testing.T) {
	tasks := ParseHeuristic("- TASK: write docs\n- Create API\n- BUILD pipeline\n- Implement auth")
	if len(tasks) != 4 {
		t.Fatalf("expected 4 tasks, got %d", len(tasks))
	}
}

func TestExtractTasks_TierOrder(t *testing.T) {
	t.Run("structured wins over heuristic", func(t *testing.T) {
		text := exampleStructured + "\n- implement something else"
		tasks, tier := ExtractTasks(text)
		if tier != TierStructured || len(tasks) != 2 {
			t.Fatalf("tier = %s, tasks = %d", tier, len(tasks))
		}
	})

	t.Run("heuristic when no structured lines", func(t *testing.T) {
		tasks, tier := ExtractTasks("- implement the login flow")
		if tier != TierHeuristic || len(tasks) != 1 {
			t.Fatalf("tier = %s, tasks = %d", tier, len(tasks))
		}
	})

	for _, text := range []string{"", "   \n\t  ", "nothing useful here"} {
		t.Run(fmt.Sprintf("bootstrap for %q", text), func(t *testing.T) {
			tasks, tier := ExtractTasks(text)
			if tier != TierBootstrap {
				t.Fatalf("tier = %s", tier)
			}
			assertBootstrap(t, tasks)
		})
	}
}

func TestExtractTasks_NeverExceedsLimit(t *testing.T) {
	var structured, heuristic strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&structured, "- **Task %d** - d | Priority: %d\n", i, i%10+1)
		fmt.Fprintf(&heuristic, "- implement feature number %d\n", i)
	}

	for name, text := range map[string]string{"structured": structured.String(), "heuristic": heuristic.String()} {
		tasks, _ := ExtractTasks(text)
		if len(tasks) != MaxSuggestedTasks {
			t.Errorf("%s: got %d tasks, want %d", name, len(tasks), MaxSuggestedTasks)
		}
	}
}

func TestParseResponse(t *testing.T) {
	res := ParseResponse(exampleStructured)
	if !res.Success {
		t.Fatal("expected success")
	}
	if res.Plan != exampleStructured {
		t.Error("plan should carry the original text")
	}
	if res.Tier != TierStructured {
		t.Errorf("tier = %s", res.Tier)
	}
	if res.Error != "" {
		t.Errorf("unexpected error %q", res.Error)
	}
}

func TestBootstrapTasks_FreshSlice(t *testing.T) {
	a := BootstrapTasks()
	a[0].Title = "mutated"
	b := BootstrapTasks()
	if b[0].Title != "Initialize Project Structure" {
		t.Fatal("bootstrap tasks must not share state between calls")
	}
}

func assertBootstrap(t *testing.T, tasks []Task) {
	t.Helper()
	want := []string{
		"Initialize Project Structure",
		"Create Development Environment",
		"Design System Architecture",
		"Implement Core Features",
		"Add Testing Suite",
	}
	if len(tasks) != len(want) {
		t.Fatalf("expected %d bootstrap tasks, got %d", len(want), len(tasks))
	}
	for i, task := range tasks {
		if task.Title != want[i] {
			t.Errorf("task %d title = %q, want %q", i, task.Title, want[i])
		}
		if task.Priority != i+1 {
			t.Errorf("task %d priority = %d, want %d", i, task.Priority, i+1)
		}
		if i == 0 {
			if len(task.Dependencies) != 0 {
				t.Errorf("first task should have no dependencies, got %v", task.Dependencies)
			}
			continue
		}
		if !reflect.DeepEqual(task.Dependencies, []string{want[i-1]}) {
			t.Errorf("task %d dependencies = %v, want [%s]", i, task.Dependencies, want[i-1])
		}
	}
}

func TestProjectInfo_WithDefaults(t *testing.T) {
	got := ProjectInfo{ProjectName: "Shop"}.WithDefaults()
	if got.ProjectName != "Shop" {
		t.Errorf("name = %q", got.ProjectName)
	}
	if got.ProjectOverview != "No overview provided" || got.InitialPrompt != "No initial prompt provided" {
		t.Errorf("defaults not applied: %+v", got)
	}
	if (ProjectInfo{}).WithDefaults().ProjectName != "Unknown" {
		t.Error("empty name should default to Unknown")
	}
}

func TestFailedResult(t *testing.T) {
	res := FailedResult(ErrorProvider, "boom")
	if res.Success || res.Plan != "" || len(res.SuggestedTasks) != 0 || res.Error != "boom" || res.ErrorKind != ErrorProvider {
		t.Fatalf("unexpected failure shape: %+v", res)
	}
	if res.SuggestedTasks == nil {
		t.Error("suggested tasks should be an empty slice, not nil")
	}
}

func TestErrorKind_Retryable(t *testing.T) {
	if ErrorConfiguration.Retryable() {
		t.Error("configuration errors are not retryable")
	}
	for _, k := range []ErrorKind{ErrorTimeout, ErrorProvider, ErrorUnexpected} {
		if !k.Retryable() {
			t.Errorf("%s should be retryable", k)
		}
	}
}
