package scan

import "testing"

// TestDefaultRulesExcludedDirectories verifies every built-in directory name is excluded.
func TestDefaultRulesExcludedDirectories(testingInstance *testing.T) {
	rules := DefaultRules()
	for _, directoryName := range defaultExcludedDirectories {
		if !rules.ExcludesDirectory(directoryName) {
			testingInstance.Fatalf("expected directory %q to be excluded", directoryName)
		}
	}
	if rules.ExcludesDirectory("src") {
		testingInstance.Fatalf("did not expect src to be excluded")
	}
}

// TestDefaultRulesExcludedFiles verifies extension and exact-name exclusion.
func TestDefaultRulesExcludedFiles(testingInstance *testing.T) {
	rules := DefaultRules()
	testCases := []struct {
		testName string
		fileName string
		excluded bool
	}{
		{testName: "object file", fileName: "main.o", excluded: true},
		{testName: "shared library", fileName: "kernel32.dll", excluded: true},
		{testName: "executable", fileName: "app.exe", excluded: true},
		{testName: "yaml config", fileName: "ci.yml", excluded: true},
		{testName: "cargo lock", fileName: "Cargo.lock", excluded: true},
		{testName: "npm lock", fileName: "package-lock.json", excluded: true},
		{testName: "pip manifest", fileName: "requirements.txt", excluded: true},
		{testName: "dotfile", fileName: ".env", excluded: true},
		{testName: "python source", fileName: "main.py", excluded: false},
		{testName: "go source", fileName: "main.go", excluded: false},
		{testName: "plain text", fileName: "notes.txt", excluded: false},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.testName, func(subTest *testing.T) {
			if result := rules.ExcludesFile(testCase.fileName); result != testCase.excluded {
				subTest.Fatalf("file %q: expected excluded=%v, got %v", testCase.fileName, testCase.excluded, result)
			}
		})
	}
}

// TestRulesWithPatterns verifies user-supplied glob patterns extend the defaults.
func TestRulesWithPatterns(testingInstance *testing.T) {
	rules := DefaultRules().WithPatterns([]string{"*.log", "vendor", "vendor"})

	if !rules.ExcludesFile("debug.log") {
		testingInstance.Fatalf("expected *.log pattern to exclude debug.log")
	}
	if !rules.ExcludesDirectory("vendor") {
		testingInstance.Fatalf("expected vendor pattern to exclude the vendor directory")
	}
	if rules.ExcludesFile("debug.txt") {
		testingInstance.Fatalf("did not expect debug.txt to be excluded")
	}
	if len(rules.extraPatterns) != 2 {
		testingInstance.Fatalf("expected duplicate patterns to be collapsed, got %v", rules.extraPatterns)
	}
}

// TestRulesHiddenEntries verifies dot-prefixed entries are excluded regardless of set membership.
func TestRulesHiddenEntries(testingInstance *testing.T) {
	rules := DefaultRules()
	if !rules.ExcludesDirectory(".git") {
		testingInstance.Fatalf("expected .git to be excluded")
	}
	if !rules.ExcludesFile(".gitignore") {
		testingInstance.Fatalf("expected .gitignore to be excluded")
	}
}
