package migrations

import (
	"strings"
	"testing"
)

func TestNames(t *testing.T) {
	names, err := Names()
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("no migrations embedded")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("migrations out of order: %v", names)
		}
	}
	if !strings.HasPrefix(names[0], "0001_") {
		t.Errorf("first migration = %s", names[0])
	}
}
